package progressController

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// setChapterCompletion upserts the caller's progress row for a chapter.
// The unique (user, chapter) index keeps repeats idempotent: the row count
// stays at one no matter how often a chapter is marked.
func setChapterCompletion(c *fiber.Ctx, completed bool) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	chapterID := c.Locals("chapterID").(int)

	var chapter courseModels.Chapter
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", chapterID, false).
		First(&chapter).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	var progress courseModels.UserProgress
	err := database.Database.Db.
		Where("user_id = ? AND chapter_id = ?", userID, chapter.ID).
		First(&progress).Error

	switch {
	case err == nil:
		progress.IsCompleted = completed
		progress.IsDeleted = false
		if err := database.Database.Db.Save(&progress).Error; err != nil {
			log.Printf("Error updating progress: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
		}
	case err == gorm.ErrRecordNotFound:
		progress = courseModels.UserProgress{
			UserID:      userID,
			ChapterID:   chapter.ID,
			CourseID:    chapter.CourseID,
			IsCompleted: completed,
		}
		if err := database.Database.Db.Create(&progress).Error; err != nil {
			log.Printf("Error creating progress: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
		}
	default:
		log.Printf("Error loading progress: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	completedCount, total, err := courseModels.CourseCompletion(database.Database.Db, userID, chapter.CourseID)
	if err != nil {
		log.Printf("Error computing completion: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute completion!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", fiber.Map{
		"progress":              progress,
		"completion_percentage": courseModels.CompletionPercentage(completedCount, total),
	})
}

// MarkChapterComplete records that the caller finished a chapter.
func MarkChapterComplete(c *fiber.Ctx) error {
	return setChapterCompletion(c, true)
}

// UnmarkChapterComplete clears a chapter completion, the symmetric inverse
// of MarkChapterComplete.
func UnmarkChapterComplete(c *fiber.Ctx) error {
	return setChapterCompletion(c, false)
}

// GetCourseCompletion returns the caller's completion percentage for a
// course. A course with no chapters reports 0.
func GetCourseCompletion(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", courseID, false).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	completed, total, err := courseModels.CourseCompletion(database.Database.Db, userID, course.ID)
	if err != nil {
		log.Printf("Error computing completion: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute completion!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Completion fetched successfully!", fiber.Map{
		"completed_chapters":    completed,
		"total_chapters":        total,
		"completion_percentage": courseModels.CompletionPercentage(completed, total),
	})
}

// GetCourseProgress returns the caller's per-chapter progress rows plus the
// aggregate percentage.
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", courseID, false).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var progress []courseModels.UserProgress
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, course.ID, false).
		Find(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	completed, total, err := courseModels.CourseCompletion(database.Database.Db, userID, course.ID)
	if err != nil {
		log.Printf("Error computing completion: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute completion!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"progress":              progress,
		"completion_percentage": courseModels.CompletionPercentage(completed, total),
	})
}
