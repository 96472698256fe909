package paymentController

import (
	"encoding/json"
	"fmt"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/payment"
	"lms/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateCheckoutSession starts a payment for a course. A PENDING purchase
// row carries the gateway order id; the webhook later flips it to PAID.
func CreateCheckoutSession(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.Price <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course is not purchasable!", nil)
	}

	// Already paid: nothing to buy
	if courseModels.HasPurchased(database.Database.Db, userID, course.ID) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course already purchased!", nil)
	}

	// Reuse a pending row if the user abandoned an earlier checkout, so the
	// unique (user, course) index never gets in the way of retries.
	orderID := fmt.Sprintf("COURSE-%d-%s", course.ID, uuid.NewString())

	var purchase courseModels.Purchase
	err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, course.ID, false).
		First(&purchase).Error
	switch {
	case err == nil:
		purchase.OrderID = orderID
		purchase.Status = courseModels.PurchasePending
		purchase.Amount = course.Price
		if err := database.Database.Db.Save(&purchase).Error; err != nil {
			log.Printf("Error refreshing pending purchase: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create checkout session!", nil)
		}
	case err == gorm.ErrRecordNotFound:
		purchase = courseModels.Purchase{
			UserID:   userID,
			CourseID: course.ID,
			OrderID:  orderID,
			Status:   courseModels.PurchasePending,
			Amount:   course.Price,
		}
		if err := database.Database.Db.Create(&purchase).Error; err != nil {
			log.Printf("Error creating purchase: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create checkout session!", nil)
		}
	default:
		log.Printf("Error loading purchase: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create checkout session!", nil)
	}

	session, err := payment.CreateCheckoutSession(orderID, course.Price, course.Title, user.FullName, user.Email)
	if err != nil {
		log.Printf("Error creating gateway session: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Payment gateway rejected the checkout!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checkout session created successfully!", fiber.Map{
		"order_id":     orderID,
		"token":        session.Token,
		"redirect_url": session.RedirectURL,
	})
}

// HandleWebhook processes gateway payment notifications. The signature over
// the notification fields is the only credential this endpoint trusts; an
// invalid signature never mutates state. Gateways redeliver notifications,
// so the handler has to be idempotent.
func HandleWebhook(c *fiber.Ctx) error {
	var payload payment.NotificationPayload
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid webhook payload!", nil)
	}
	if err := payload.Validate(); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid webhook payload!", nil)
	}

	if !payment.VerifyNotificationSignature(
		payload.OrderID,
		payload.StatusCode,
		payload.GrossAmount,
		payload.SignatureKey,
		config.AppConfig.MidtransServerKey,
	) {
		log.Printf("Webhook signature mismatch for order %s", payload.OrderID)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid signature!", nil)
	}

	var purchase courseModels.Purchase
	if err := database.Database.Db.
		Where("order_id = ? AND is_deleted = ?", payload.OrderID, false).
		First(&purchase).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unknown order!", nil)
	}

	switch {
	case payment.IsSettled(payload.TransactionStatus, payload.FraudStatus):
		// Redelivery of a settled notification is a no-op
		if purchase.Status == courseModels.PurchasePaid {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchase already recorded.", nil)
		}

		purchase.Status = courseModels.PurchasePaid
		if err := database.Database.Db.Save(&purchase).Error; err != nil {
			log.Printf("Error recording purchase for order %s: %v", payload.OrderID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record purchase!", nil)
		}

		go sendPurchaseEmail(purchase.UserID, purchase.CourseID)

	case payment.IsFailed(payload.TransactionStatus):
		if purchase.Status == courseModels.PurchasePending {
			purchase.Status = courseModels.PurchaseExpired
			if err := database.Database.Db.Save(&purchase).Error; err != nil {
				log.Printf("Error expiring purchase for order %s: %v", payload.OrderID, err)
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update purchase!", nil)
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Webhook processed.", nil)
}

func sendPurchaseEmail(userID, courseID uint) {
	var user models.User
	var course courseModels.Course
	db := database.Database.Db

	if err := db.First(&user, userID).Error; err != nil || user.Email == "" {
		return
	}
	if err := db.First(&course, courseID).Error; err != nil {
		return
	}
	if err := utils.SendPurchaseEmail(user.Email, user.FullName, course.Title); err != nil {
		log.Printf("Error sending purchase email to %s: %v", user.Email, err)
	}
}

// GetMyPurchases lists the caller's own purchases.
func GetMyPurchases(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	return listPurchases(c, userID)
}

// GetUserPurchases lists a user's purchases. Self or admin.
func GetUserPurchases(c *fiber.Ctx) error {
	callerID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var caller models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", callerID, false).First(&caller).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	targetID := uint(c.Locals("targetUserID").(int))

	if !middleware.IsOwnerOrAdmin(callerID, caller.Role, targetID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}

	return listPurchases(c, targetID)
}

func listPurchases(c *fiber.Ctx, userID uint) error {
	var purchases []courseModels.Purchase
	if err := database.Database.Db.
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").
		Find(&purchases).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch purchases!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchases fetched successfully!", fiber.Map{
		"purchases": purchases,
	})
}

// GrantPurchase inserts a PAID purchase directly, bypassing the gateway.
// This is the privileged manual path for admins (refund fixes, scholarships,
// test accounts); production purchases go through the webhook.
func GrantPurchase(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedGrant").(*struct {
		UserID   uint `json:"user_id"`
		CourseID uint `json:"course_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.UserID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if courseModels.HasPurchased(database.Database.Db, reqData.UserID, reqData.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already owns this course!", nil)
	}

	// Reuse an abandoned pending row rather than violating the unique index
	var purchase courseModels.Purchase
	err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", reqData.UserID, reqData.CourseID, false).
		First(&purchase).Error
	switch {
	case err == nil:
		purchase.Status = courseModels.PurchasePaid
		purchase.Amount = course.Price
	case err == gorm.ErrRecordNotFound:
		purchase = courseModels.Purchase{
			UserID:   reqData.UserID,
			CourseID: reqData.CourseID,
			OrderID:  fmt.Sprintf("GRANT-%d-%d-%d", reqData.UserID, reqData.CourseID, time.Now().Unix()),
			Status:   courseModels.PurchasePaid,
			Amount:   course.Price,
		}
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grant purchase!", nil)
	}

	if err := database.Database.Db.Save(&purchase).Error; err != nil {
		log.Printf("Error granting purchase: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grant purchase!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Purchase granted successfully!", purchase)
}
