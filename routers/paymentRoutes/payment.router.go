package paymentRoutes

import (
	paymentControllers "lms/controllers/payment"
	"lms/middleware"
	"lms/models"
	paymentValidators "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payment")

	paymentGroup.Post("/create-checkout-session/:courseId", middleware.JWTMiddleware, paymentValidators.CreateCheckout(), paymentControllers.CreateCheckoutSession)

	// The webhook authenticates via the notification signature, never a
	// bearer token.
	paymentGroup.Post("/webhook", paymentControllers.HandleWebhook)

	paymentGroup.Get("/purchases", middleware.JWTMiddleware, paymentControllers.GetMyPurchases)
	paymentGroup.Get("/:userId/purchases", middleware.JWTMiddleware, paymentValidators.UserPurchases(), paymentControllers.GetUserPurchases)

	paymentGroup.Post("/grant", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), paymentValidators.GrantPurchase(), paymentControllers.GrantPurchase)
}
