package courseController

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"log"

	"github.com/gofiber/fiber/v2"
)

func CreateAttachment(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	course, err := loadOwnedCourse(c, courseID)
	if course == nil {
		return err
	}

	reqData, ok := c.Locals("validatedAttachment").(*struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	attachment := courseModels.Attachment{
		CourseID: course.ID,
		Name:     reqData.Name,
		URL:      reqData.URL,
	}

	if err := database.Database.Db.Create(&attachment).Error; err != nil {
		log.Printf("Error creating attachment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create attachment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Attachment created successfully!", attachment)
}

func DeleteAttachment(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	attachmentID := c.Locals("attachmentID").(int)

	course, err := loadOwnedCourse(c, courseID)
	if course == nil {
		return err
	}

	var attachment courseModels.Attachment
	if err := database.Database.Db.
		Where("id = ? AND course_id = ? AND is_deleted = ?", attachmentID, course.ID, false).
		First(&attachment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attachment not found!", nil)
	}

	attachment.IsDeleted = true
	if err := database.Database.Db.Save(&attachment).Error; err != nil {
		log.Printf("Error deleting attachment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete attachment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attachment deleted successfully!", nil)
}
