package courseValidator

import (
	"lms/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CreateCategory validates the category body (shared by create and rename).
func CreateCategory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name string `json:"name"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)

		if reqData.Name == "" {
			errors["name"] = "Name is required!"
		} else if len(reqData.Name) < 2 {
			errors["name"] = "Name must be at least 2 characters long!"
		} else if len(reqData.Name) > 60 {
			errors["name"] = "Name must not exceed 60 characters!"
		} else if invalidChars.MatchString(reqData.Name) {
			errors["name"] = "Name contains invalid characters (e.g., <, >, {, })!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCategory", reqData)
		return c.Next()
	}
}

// CategoryID validates the :id path parameter.
func CategoryID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		categoryID, err := parseIDParam(c, "id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Category ID must be a positive number!", nil)
		}

		c.Locals("categoryID", categoryID)
		return c.Next()
	}
}

// CreateAttachment validates the attachment body.
func CreateAttachment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseIDParam(c, "id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID must be a positive number!", nil)
		}

		reqData := new(struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.URL = strings.TrimSpace(reqData.URL)

		if reqData.Name == "" {
			errors["name"] = "Name is required!"
		}
		if reqData.URL == "" {
			errors["url"] = "URL is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedAttachment", reqData)
		return c.Next()
	}
}

// AttachmentID validates the :course_id/:attachment_id pair.
func AttachmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseIDParam(c, "course_id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID must be a positive number!", nil)
		}
		attachmentID, err := parseIDParam(c, "attachment_id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Attachment ID must be a positive number!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("attachmentID", attachmentID)
		return c.Next()
	}
}
