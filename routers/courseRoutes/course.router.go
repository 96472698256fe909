package courseRoutes

import (
	adminControllers "lms/controllers/admin"
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up catalog browsing, authoring and category routes.
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog browsing: anonymous callers see free previews only
	courseGroup.Get("/categories", controllers.GetCategories)
	courseGroup.Get("/list", middleware.OptionalJWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.OptionalJWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)
	courseGroup.Get("/:course_id/chapters/:chapter_id", middleware.OptionalJWTMiddleware, validators.ChapterID(), controllers.GetChapterContent)

	// Authoring (teachers and admins)
	teacherOnly := []string{models.RoleTeacher, models.RoleAdmin}
	courseGroup.Post("/", middleware.JWTMiddleware, middleware.RequireRole(teacherOnly...), validators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Get("/mine/list", middleware.JWTMiddleware, middleware.RequireRole(teacherOnly...), controllers.GetMyCourses)
	courseGroup.Put("/:id", middleware.JWTMiddleware, middleware.RequireRole(teacherOnly...), validators.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, middleware.RequireRole(teacherOnly...), validators.CourseID(), controllers.DeleteCourse)
	courseGroup.Post("/:id/image", middleware.JWTMiddleware, middleware.RequireRole(teacherOnly...), validators.CourseID(), controllers.UploadCourseImage)

	courseGroup.Get("/:id/chapters", middleware.JWTMiddleware, middleware.RequireRole(teacherOnly...), validators.CourseID(), controllers.GetChaptersForOwner)
	courseGroup.Post("/:id/chapters", middleware.JWTMiddleware, middleware.RequireRole(teacherOnly...), validators.CreateChapter(), controllers.CreateChapter)
	courseGroup.Put("/:course_id/chapters/:chapter_id", middleware.JWTMiddleware, middleware.RequireRole(teacherOnly...), validators.UpdateChapter(), controllers.UpdateChapter)
	courseGroup.Delete("/:course_id/chapters/:chapter_id", middleware.JWTMiddleware, middleware.RequireRole(teacherOnly...), validators.ChapterID(), controllers.DeleteChapter)

	courseGroup.Post("/:id/attachments", middleware.JWTMiddleware, middleware.RequireRole(teacherOnly...), validators.CreateAttachment(), controllers.CreateAttachment)
	courseGroup.Delete("/:course_id/attachments/:attachment_id", middleware.JWTMiddleware, middleware.RequireRole(teacherOnly...), validators.AttachmentID(), controllers.DeleteAttachment)

	// Category management (admin)
	courseGroup.Post("/categories", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.CreateCategory(), controllers.CreateCategory)
	courseGroup.Put("/categories/:id", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.CategoryID(), validators.CreateCategory(), controllers.UpdateCategory)
	courseGroup.Delete("/categories/:id", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.CategoryID(), controllers.DeleteCategory)

	// Admin console
	adminGroup := app.Group("/admin")
	adminGroup.Get("/dashboard", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), adminControllers.GetDashboard)
}
