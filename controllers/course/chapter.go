package courseController

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/services/mux"
	"log"

	"github.com/gofiber/fiber/v2"
)

// CreateChapter appends a draft chapter at the end of the course.
func CreateChapter(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	course, err := loadOwnedCourse(c, courseID)
	if course == nil {
		return err
	}

	reqData, ok := c.Locals("validatedChapter").(*struct {
		Title string `json:"title"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// New chapters go to the end of the running order
	var lastPosition int
	row := database.Database.Db.Model(&courseModels.Chapter{}).
		Where("course_id = ? AND is_deleted = false", course.ID).
		Select("COALESCE(MAX(position), -1)").
		Row()
	if err := row.Scan(&lastPosition); err != nil {
		lastPosition = -1
	}

	chapter := courseModels.Chapter{
		CourseID: course.ID,
		Title:    reqData.Title,
		Position: lastPosition + 1,
	}

	if err := database.Database.Db.Create(&chapter).Error; err != nil {
		log.Printf("Error creating chapter: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create chapter!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Chapter created successfully!", chapter)
}

// UpdateChapter replaces all mutable chapter fields. A changed video URL
// re-registers the asset with the video provider.
func UpdateChapter(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	chapterID := c.Locals("chapterID").(int)

	course, err := loadOwnedCourse(c, courseID)
	if course == nil {
		return err
	}

	reqData, ok := c.Locals("validatedChapterUpdate").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		VideoURL    string `json:"video_url"`
		Position    int    `json:"position"`
		IsPublished bool   `json:"is_published"`
		IsFree      bool   `json:"is_free"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var chapter courseModels.Chapter
	if err := database.Database.Db.
		Where("id = ? AND course_id = ? AND is_deleted = ?", chapterID, course.ID, false).
		First(&chapter).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	// Chapters must be complete before they can go live
	if reqData.IsPublished && (reqData.Title == "" || reqData.Description == "" || reqData.VideoURL == "") {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Chapter needs a title, description and video before publishing!", nil)
	}

	videoChanged := reqData.VideoURL != chapter.VideoURL

	chapter.Title = reqData.Title
	chapter.Description = reqData.Description
	chapter.VideoURL = reqData.VideoURL
	chapter.Position = reqData.Position
	chapter.IsPublished = reqData.IsPublished
	chapter.IsFree = reqData.IsFree

	if err := database.Database.Db.Save(&chapter).Error; err != nil {
		log.Printf("Error updating chapter: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update chapter!", nil)
	}

	if videoChanged {
		if err := replaceChapterAsset(&chapter); err != nil {
			log.Printf("Error replacing video asset for chapter %d: %v", chapter.ID, err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter updated successfully!", chapter)
}

// replaceChapterAsset swaps the provider-side video asset for a chapter.
// The old asset is deleted first so orphaned assets do not pile up.
func replaceChapterAsset(chapter *courseModels.Chapter) error {
	db := database.Database.Db

	var existing courseModels.MuxData
	if err := db.Where("chapter_id = ? AND is_deleted = ?", chapter.ID, false).First(&existing).Error; err == nil {
		if err := mux.DeleteAsset(existing.AssetID); err != nil {
			log.Printf("Error deleting old video asset %s: %v", existing.AssetID, err)
		}
		existing.IsDeleted = true
		db.Save(&existing)
	}

	if chapter.VideoURL == "" {
		return nil
	}

	asset, err := mux.CreateAsset(chapter.VideoURL)
	if err != nil {
		return err
	}

	muxData := courseModels.MuxData{
		ChapterID:  chapter.ID,
		AssetID:    asset.AssetID,
		PlaybackID: asset.PlaybackID,
	}
	return db.Create(&muxData).Error
}

// DeleteChapter soft-deletes a chapter and its video metadata and progress
// rows. Remaining positions keep their values; ordering only needs to be
// monotonic, not contiguous.
func DeleteChapter(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	chapterID := c.Locals("chapterID").(int)

	course, err := loadOwnedCourse(c, courseID)
	if course == nil {
		return err
	}

	var chapter courseModels.Chapter
	if err := database.Database.Db.
		Where("id = ? AND course_id = ? AND is_deleted = ?", chapterID, course.ID, false).
		First(&chapter).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	tx := database.Database.Db.Begin()

	chapter.IsDeleted = true
	chapter.IsPublished = false
	if err := tx.Save(&chapter).Error; err != nil {
		tx.Rollback()
		log.Printf("Error deleting chapter: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete chapter!", nil)
	}

	if err := tx.Model(&courseModels.MuxData{}).
		Where("chapter_id = ?", chapter.ID).
		Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete chapter!", nil)
	}

	if err := tx.Model(&courseModels.UserProgress{}).
		Where("chapter_id = ?", chapter.ID).
		Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete chapter!", nil)
	}

	tx.Commit()

	// Remove the provider-side asset outside the transaction
	var muxData courseModels.MuxData
	if err := database.Database.Db.Unscoped().
		Where("chapter_id = ?", chapter.ID).First(&muxData).Error; err == nil && muxData.AssetID != "" {
		if err := mux.DeleteAsset(muxData.AssetID); err != nil {
			log.Printf("Error deleting video asset %s: %v", muxData.AssetID, err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter deleted successfully!", nil)
}

// GetChaptersForOwner lists all chapters of an owned course, drafts included.
func GetChaptersForOwner(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	course, err := loadOwnedCourse(c, courseID)
	if course == nil {
		return err
	}

	var chapters []courseModels.Chapter
	if err := database.Database.Db.
		Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Order("position asc").
		Find(&chapters).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch chapters!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapters fetched successfully!", fiber.Map{
		"chapters": chapters,
	})
}
