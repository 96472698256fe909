package progressRoutes

import (
	progressControllers "lms/controllers/progress"
	"lms/middleware"
	progressValidators "lms/validators/progress"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/progress")

	progressGroup.Post("/chapters/:chapterId/complete", middleware.JWTMiddleware, progressValidators.ChapterID(), progressControllers.MarkChapterComplete)
	progressGroup.Post("/chapters/:chapterId/uncomplete", middleware.JWTMiddleware, progressValidators.ChapterID(), progressControllers.UnmarkChapterComplete)

	progressGroup.Get("/courses/:courseId/percentage", middleware.JWTMiddleware, progressValidators.CourseID(), progressControllers.GetCourseCompletion)
	progressGroup.Get("/courses/:courseId", middleware.JWTMiddleware, progressValidators.CourseID(), progressControllers.GetCourseProgress)
}
