package courseValidator

import (
	"lms/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CreateChapter validates the draft-chapter body.
func CreateChapter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseIDParam(c, "id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID must be a positive number!", nil)
		}

		reqData := new(struct {
			Title string `json:"title"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		} else if invalidChars.MatchString(reqData.Title) {
			errors["title"] = "Title contains invalid characters (e.g., <, >, {, })!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedChapter", reqData)
		return c.Next()
	}
}

// UpdateChapter validates the full-record chapter update.
func UpdateChapter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseIDParam(c, "course_id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID must be a positive number!", nil)
		}
		chapterID, err := parseIDParam(c, "chapter_id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Chapter ID must be a positive number!", nil)
		}

		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			VideoURL    string `json:"video_url"`
			Position    int    `json:"position"`
			IsPublished bool   `json:"is_published"`
			IsFree      bool   `json:"is_free"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)
		reqData.VideoURL = strings.TrimSpace(reqData.VideoURL)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		} else if invalidChars.MatchString(reqData.Title) {
			errors["title"] = "Title contains invalid characters (e.g., <, >, {, })!"
		}

		if reqData.Position < 0 {
			errors["position"] = "Position must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("chapterID", chapterID)
		c.Locals("validatedChapterUpdate", reqData)
		return c.Next()
	}
}

// ChapterID validates the :course_id/:chapter_id pair.
func ChapterID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseIDParam(c, "course_id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID must be a positive number!", nil)
		}
		chapterID, err := parseIDParam(c, "chapter_id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Chapter ID must be a positive number!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("chapterID", chapterID)
		return c.Next()
	}
}
