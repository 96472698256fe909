package courseController

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// chapterView is the chapter projection served to students. Video fields
// are only filled in when the access policy grants them; the zero values
// never leave the server otherwise.
type chapterView struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    int    `json:"position"`
	IsFree      bool   `json:"is_free"`
	IsLocked    bool   `json:"is_locked"`
	IsCompleted bool   `json:"is_completed"`
	VideoURL    string `json:"video_url,omitempty"`
	PlaybackID  string `json:"playback_id,omitempty"`
}

// callerID returns the authenticated user id, or 0 for anonymous callers
// on optional-auth routes.
func callerID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userId").(uint); ok {
		return id
	}
	return 0
}

func callerRole(c *fiber.Ctx) string {
	if role, ok := c.Locals("role").(string); ok {
		return role
	}
	return ""
}

// GetAllCourses lists published courses for the catalog. Anonymous callers
// are welcome; pagination and category filtering come from the query.
func GetAllCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedList").(*struct {
		Page       *int  `query:"page" json:"page"`
		Limit      *int  `query:"limit" json:"limit"`
		CategoryID *uint `query:"category_id" json:"category_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Course{}).
		Where("is_published = ? AND is_deleted = ?", true, false)
	if reqData.CategoryID != nil && *reqData.CategoryID > 0 {
		db = db.Where("category_id = ?", *reqData.CategoryID)
	}

	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	response := map[string]interface{}{
		"courses": courses,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", response)
}

// GetCourseDetails serves a published course with its chapter running
// order. The access policy decides per chapter whether video fields are
// included; attachments are served to purchasers only.
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	userID := callerID(c)

	var course courseModels.Course
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", courseID, false).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Drafts are visible to the owning teacher and admins only; everyone
	// else sees the same 404 as for a missing course.
	if !course.IsPublished && !middleware.IsOwnerOrAdmin(userID, callerRole(c), course.TeacherID) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	hasPurchased := false
	if userID != 0 {
		hasPurchased = courseModels.HasPurchased(database.Database.Db, userID, course.ID)
	}

	var chapters []courseModels.Chapter
	if err := database.Database.Db.
		Where("course_id = ? AND is_published = ? AND is_deleted = ?", course.ID, true, false).
		Order("position asc").
		Find(&chapters).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch chapters!", nil)
	}

	// Completion state for the caller's chapters in one query
	completedByChapter := make(map[uint]bool)
	if userID != 0 {
		var progress []courseModels.UserProgress
		database.Database.Db.
			Where("user_id = ? AND course_id = ? AND is_completed = ? AND is_deleted = ?", userID, course.ID, true, false).
			Find(&progress)
		for _, p := range progress {
			completedByChapter[p.ChapterID] = true
		}
	}

	views := make([]chapterView, len(chapters))
	for i, ch := range chapters {
		view := chapterView{
			ID:          ch.ID,
			Title:       ch.Title,
			Description: ch.Description,
			Position:    ch.Position,
			IsFree:      ch.IsFree,
			IsCompleted: completedByChapter[ch.ID],
		}
		if courseModels.CanAccessChapter(&ch, hasPurchased) {
			view.VideoURL = ch.VideoURL
			var muxData courseModels.MuxData
			if err := database.Database.Db.
				Where("chapter_id = ? AND is_deleted = ?", ch.ID, false).
				First(&muxData).Error; err == nil {
				view.PlaybackID = muxData.PlaybackID
			}
		} else {
			view.IsLocked = true
		}
		views[i] = view
	}

	data := fiber.Map{
		"course":        course,
		"chapters":      views,
		"has_purchased": hasPurchased,
	}

	if hasPurchased {
		var attachments []courseModels.Attachment
		database.Database.Db.
			Where("course_id = ? AND is_deleted = ?", course.ID, false).
			Find(&attachments)
		data["attachments"] = attachments
	}

	if userID != 0 {
		completed, total, err := courseModels.CourseCompletion(database.Database.Db, userID, course.ID)
		if err == nil {
			data["completion_percentage"] = courseModels.CompletionPercentage(completed, total)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", data)
}

// GetChapterContent serves a single chapter. The access check runs here,
// server-side, before any protected field is written to the response.
func GetChapterContent(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	chapterID := c.Locals("chapterID").(int)
	userID := callerID(c)

	var course courseModels.Course
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var chapter courseModels.Chapter
	if err := database.Database.Db.
		Where("id = ? AND course_id = ? AND is_published = ? AND is_deleted = ?", chapterID, course.ID, true, false).
		First(&chapter).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	hasPurchased := false
	if userID != 0 {
		hasPurchased = courseModels.HasPurchased(database.Database.Db, userID, course.ID)
	}

	if !courseModels.CanAccessChapter(&chapter, hasPurchased) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Purchase this course to unlock the chapter!", nil)
	}

	view := chapterView{
		ID:          chapter.ID,
		Title:       chapter.Title,
		Description: chapter.Description,
		Position:    chapter.Position,
		IsFree:      chapter.IsFree,
		VideoURL:    chapter.VideoURL,
	}

	var muxData courseModels.MuxData
	if err := database.Database.Db.
		Where("chapter_id = ? AND is_deleted = ?", chapter.ID, false).
		First(&muxData).Error; err == nil {
		view.PlaybackID = muxData.PlaybackID
	}

	if userID != 0 {
		var progress courseModels.UserProgress
		if err := database.Database.Db.
			Where("user_id = ? AND chapter_id = ? AND is_deleted = ?", userID, chapter.ID, false).
			First(&progress).Error; err == nil {
			view.IsCompleted = progress.IsCompleted
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter fetched successfully!", view)
}
