package courseValidator

import (
	"lms/middleware"
	courseModels "lms/models/course"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var invalidChars = regexp.MustCompile(`[<>{}]`)

// CreateCourse validates the draft-course body: a course starts with just a
// title and a category and is filled in before publishing.
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title      string `json:"title"`
			CategoryID uint   `json:"category_id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)

		// Validate Title
		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else {
			if len(reqData.Title) < 3 {
				errors["title"] = "Title must be at least 3 characters long!"
			}
			if len(reqData.Title) > 100 {
				errors["title"] = "Title must not exceed 100 characters!"
			}
			if invalidChars.MatchString(reqData.Title) {
				errors["title"] = "Title contains invalid characters (e.g., <, >, {, })!"
			}
		}

		// Validate Category
		if reqData.CategoryID == 0 {
			errors["category_id"] = "Category is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validates the full-record course update. Updates replace all
// mutable fields and must carry the version token the editor loaded.
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseIDParam(c, "id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID must be a positive number!", nil)
		}

		reqData := new(struct {
			Title       string  `json:"title"`
			Description string  `json:"description"`
			ImageURL    string  `json:"image_url"`
			Price       float64 `json:"price"`
			Level       string  `json:"level"`
			CategoryID  uint    `json:"category_id"`
			IsPublished bool    `json:"is_published"`
			Version     int     `json:"version"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)
		reqData.Level = strings.ToUpper(strings.TrimSpace(reqData.Level))

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		} else if invalidChars.MatchString(reqData.Title) {
			errors["title"] = "Title contains invalid characters (e.g., <, >, {, })!"
		}

		if reqData.Description != "" && len(reqData.Description) > 2000 {
			errors["description"] = "Description must not exceed 2000 characters!"
		}

		if reqData.Price < 0 {
			errors["price"] = "Price must not be negative!"
		}

		if !courseModels.IsValidLevel(reqData.Level) {
			errors["level"] = "Level must be one of A1, A2, B1, B2, C1, C2!"
		}

		if reqData.CategoryID == 0 {
			errors["category_id"] = "Category is required!"
		}

		if reqData.Version < 1 {
			errors["version"] = "Version token is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// CourseID validates the :id path parameter.
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseIDParam(c, "id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID must be a positive number!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// CourseList validates catalog pagination.
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page       *int  `query:"page" json:"page"`
			Limit      *int  `query:"limit" json:"limit"`
			CategoryID *uint `query:"category_id" json:"category_id"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		// Set defaults if not provided
		defaultPage := 1
		defaultLimit := 10
		if reqData.Page == nil || *reqData.Page < 1 {
			reqData.Page = &defaultPage
		}
		if reqData.Limit == nil || *reqData.Limit < 1 {
			reqData.Limit = &defaultLimit
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

func parseIDParam(c *fiber.Ctx, name string) (int, error) {
	idStr := strings.TrimSpace(c.Params(name))
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, fiber.ErrBadRequest
	}
	return id, nil
}
