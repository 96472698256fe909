package courseController

import (
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// loadOwnedCourse fetches a course and enforces the ownership rule:
// the caller must be the owning teacher or an admin. When the course
// comes back nil the rejection response has already been written and
// the caller must return the accompanying error unchanged.
func loadOwnedCourse(c *fiber.Ctx, courseID int) (*courseModels.Course, error) {
	callerID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var caller models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", callerID, false).First(&caller).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !middleware.IsOwnerOrAdmin(callerID, caller.Role, course.TeacherID) {
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	return &course, nil
}

// CreateCourse creates a draft course with just a title and category.
func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title      string `json:"title"`
		CategoryID uint   `json:"category_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Category must exist before the course can reference it
	var category models.Category
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.CategoryID, false).First(&category).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Category not found!", nil)
	}

	course := courseModels.Course{
		Title:      reqData.Title,
		CategoryID: reqData.CategoryID,
		TeacherID:  userID,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		log.Printf("Error creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// canPublishCourse checks the publish guard: price, image, category and at
// least one published chapter.
func canPublishCourse(db *gorm.DB, course *courseModels.Course) (string, bool) {
	if course.Price <= 0 {
		return "Course needs a price before publishing!", false
	}
	if course.ImageURL == "" {
		return "Course needs an image before publishing!", false
	}
	if course.CategoryID == 0 {
		return "Course needs a category before publishing!", false
	}

	var publishedChapters int64
	db.Model(&courseModels.Chapter{}).
		Where("course_id = ? AND is_published = true AND is_deleted = false", course.ID).
		Count(&publishedChapters)
	if publishedChapters == 0 {
		return "Course needs at least one published chapter before publishing!", false
	}

	return "", true
}

// UpdateCourse replaces all mutable course fields. The request must carry
// the version the editor loaded; a stale version is a concurrent-edit
// conflict and the editor should reload and retry.
func UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	course, err := loadOwnedCourse(c, courseID)
	if course == nil {
		return err
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		ImageURL    string  `json:"image_url"`
		Price       float64 `json:"price"`
		Level       string  `json:"level"`
		CategoryID  uint    `json:"category_id"`
		IsPublished bool    `json:"is_published"`
		Version     int     `json:"version"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var category models.Category
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.CategoryID, false).First(&category).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Category not found!", nil)
	}

	candidate := *course
	candidate.Title = reqData.Title
	candidate.Description = reqData.Description
	candidate.ImageURL = reqData.ImageURL
	candidate.Price = reqData.Price
	candidate.Level = reqData.Level
	candidate.CategoryID = reqData.CategoryID
	candidate.IsPublished = reqData.IsPublished

	if reqData.IsPublished && !course.IsPublished {
		if reason, ok := canPublishCourse(database.Database.Db, &candidate); !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, reason, nil)
		}
	}

	// Guarded update: only applies if nobody bumped the version since the
	// editor loaded the record.
	result := database.Database.Db.Model(&courseModels.Course{}).
		Where("id = ? AND version = ? AND is_deleted = false", course.ID, reqData.Version).
		Updates(map[string]interface{}{
			"title":        candidate.Title,
			"description":  candidate.Description,
			"image_url":    candidate.ImageURL,
			"price":        candidate.Price,
			"level":        candidate.Level,
			"category_id":  candidate.CategoryID,
			"is_published": candidate.IsPublished,
			"version":      reqData.Version + 1,
		})
	if result.Error != nil {
		log.Printf("Error updating course: %v", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course was modified by another editor. Reload and retry!", nil)
	}

	var updated courseModels.Course
	database.Database.Db.First(&updated, course.ID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", updated)
}

// DeleteCourse soft-deletes a course and cascades to its chapters,
// attachments, video metadata, progress rows and purchases. Users are
// never touched.
func DeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	course, err := loadOwnedCourse(c, courseID)
	if course == nil {
		return err
	}

	tx := database.Database.Db.Begin()

	var chapterIDs []uint
	if err := tx.Model(&courseModels.Chapter{}).
		Where("course_id = ? AND is_deleted = false", course.ID).
		Pluck("id", &chapterIDs).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	steps := []*gorm.DB{
		tx.Model(&courseModels.Chapter{}).Where("course_id = ?", course.ID).Update("is_deleted", true),
		tx.Model(&courseModels.Attachment{}).Where("course_id = ?", course.ID).Update("is_deleted", true),
		tx.Model(&courseModels.UserProgress{}).Where("course_id = ?", course.ID).Update("is_deleted", true),
		tx.Model(&courseModels.Purchase{}).Where("course_id = ?", course.ID).Update("is_deleted", true),
	}
	if len(chapterIDs) > 0 {
		steps = append(steps,
			tx.Model(&courseModels.MuxData{}).Where("chapter_id IN ?", chapterIDs).Update("is_deleted", true))
	}
	for _, step := range steps {
		if step.Error != nil {
			tx.Rollback()
			log.Printf("Error cascading course delete: %v", step.Error)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
		}
	}

	if err := tx.Model(&courseModels.Course{}).Where("id = ?", course.ID).
		Updates(map[string]interface{}{"is_deleted": true, "is_published": false}).Error; err != nil {
		tx.Rollback()
		log.Printf("Error deleting course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// GetMyCourses lists the caller's own courses, drafts included.
func GetMyCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courses []courseModels.Course
	if err := database.Database.Db.
		Where("teacher_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}

// UploadCourseImage stores a course cover image.
func UploadCourseImage(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	course, err := loadOwnedCourse(c, courseID)
	if course == nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Image file is required!", nil)
	}

	path, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir)
	if err != nil {
		log.Printf("Error saving course image: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save image!", nil)
	}

	course.ImageURL = utils.GetFileURL(path)
	if err := database.Database.Db.Save(course).Error; err != nil {
		log.Printf("Error updating course image: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course image!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course image uploaded successfully!", fiber.Map{
		"image_url": course.ImageURL,
	})
}
