package authRoutes

import (
	authControllers "lms/controllers/auth"
	"lms/middleware"
	"lms/models"
	authValidators "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Post("/logout", middleware.JWTMiddleware, authControllers.Logout)

	authGroup.Get("/profile", middleware.JWTMiddleware, authControllers.GetProfile)
	authGroup.Put("/profile", middleware.JWTMiddleware, authValidators.UpdateProfile(), authControllers.UpdateProfile)
	authGroup.Post("/profile/avatar", middleware.JWTMiddleware, authControllers.UploadAvatar)

	authGroup.Put("/users/:id/deactivate", middleware.JWTMiddleware, authValidators.UserID(), authControllers.DeactivateUser)

	// Admin user management
	authGroup.Get("/users", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), authValidators.UserList(), authControllers.ListUsers)
	authGroup.Post("/users/:id/role", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), authValidators.AssignRole(), authControllers.AssignRole)
	authGroup.Delete("/users/:id", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), authValidators.UserID(), authControllers.DeleteUser)
}
