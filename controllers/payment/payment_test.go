package paymentController_test

import (
	"bytes"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	paymentRoutes "lms/routers/paymentRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testServerKey = "SB-Mid-server-testkey"

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	config.AppConfig = &config.Config{
		JWTKey:            "test-secret",
		SaltRound:         4,
		MidtransServerKey: testServerKey,
	}

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	paymentRoutes.SetupPaymentRoutes(app)
	return app, db
}

func seedPendingPurchase(t *testing.T, db *gorm.DB, orderID string) (models.User, courseModels.Course, courseModels.Purchase) {
	// Empty email keeps the async confirmation mail from firing in tests
	user := models.User{Email: "", FullName: "Buyer", Password: "x", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{Title: "Spanish B1", CategoryID: 1, TeacherID: 99, Price: 149000, IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	purchase := courseModels.Purchase{
		UserID:   user.ID,
		CourseID: course.ID,
		OrderID:  orderID,
		Status:   courseModels.PurchasePending,
		Amount:   course.Price,
	}
	require.NoError(t, db.Create(&purchase).Error)

	return user, course, purchase
}

func webhookBody(orderID, statusCode, grossAmount, transactionStatus, signature string) []byte {
	payload := map[string]string{
		"order_id":           orderID,
		"status_code":        statusCode,
		"gross_amount":       grossAmount,
		"signature_key":      signature,
		"transaction_status": transactionStatus,
	}
	body, _ := json.Marshal(payload)
	return body
}

func validSignature(orderID, statusCode, grossAmount string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + testServerKey))
	return hex.EncodeToString(sum[:])
}

func postWebhook(t *testing.T, app *fiber.App, body []byte) int {
	req := httptest.NewRequest("POST", "/payment/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestWebhookSettlementRecordsPurchase(t *testing.T) {
	app, db := setupApp(t)
	user, course, _ := seedPendingPurchase(t, db, "COURSE-1-order")

	sig := validSignature("COURSE-1-order", "200", "149000.00")
	body := webhookBody("COURSE-1-order", "200", "149000.00", "settlement", sig)

	assert.Equal(t, fiber.StatusOK, postWebhook(t, app, body))

	var purchase courseModels.Purchase
	require.NoError(t, db.Where("order_id = ?", "COURSE-1-order").First(&purchase).Error)
	assert.Equal(t, courseModels.PurchasePaid, purchase.Status)
	assert.True(t, courseModels.HasPurchased(db, user.ID, course.ID))
}

func TestWebhookRedeliveryIsIdempotent(t *testing.T) {
	app, db := setupApp(t)
	user, course, _ := seedPendingPurchase(t, db, "COURSE-1-order")

	sig := validSignature("COURSE-1-order", "200", "149000.00")
	body := webhookBody("COURSE-1-order", "200", "149000.00", "settlement", sig)

	// The gateway redelivers notifications; both deliveries succeed but
	// exactly one PAID row must exist afterwards.
	assert.Equal(t, fiber.StatusOK, postWebhook(t, app, body))
	assert.Equal(t, fiber.StatusOK, postWebhook(t, app, body))

	var count int64
	db.Model(&courseModels.Purchase{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)

	var purchase courseModels.Purchase
	require.NoError(t, db.Where("order_id = ?", "COURSE-1-order").First(&purchase).Error)
	assert.Equal(t, courseModels.PurchasePaid, purchase.Status)
}

func TestWebhookInvalidSignatureRejected(t *testing.T) {
	app, db := setupApp(t)
	user, course, _ := seedPendingPurchase(t, db, "COURSE-1-order")

	body := webhookBody("COURSE-1-order", "200", "149000.00", "settlement", "deadbeef")

	assert.Equal(t, fiber.StatusBadRequest, postWebhook(t, app, body))

	// No state change regardless of the payload content
	var purchase courseModels.Purchase
	require.NoError(t, db.Where("order_id = ?", "COURSE-1-order").First(&purchase).Error)
	assert.Equal(t, courseModels.PurchasePending, purchase.Status)
	assert.False(t, courseModels.HasPurchased(db, user.ID, course.ID))
}

func TestWebhookTamperedAmountRejected(t *testing.T) {
	app, db := setupApp(t)
	seedPendingPurchase(t, db, "COURSE-1-order")

	// Signature computed over the real amount, payload claims another
	sig := validSignature("COURSE-1-order", "200", "149000.00")
	body := webhookBody("COURSE-1-order", "200", "1.00", "settlement", sig)

	assert.Equal(t, fiber.StatusBadRequest, postWebhook(t, app, body))
}

func TestWebhookExpireMarksPurchaseExpired(t *testing.T) {
	app, db := setupApp(t)
	seedPendingPurchase(t, db, "COURSE-1-order")

	sig := validSignature("COURSE-1-order", "407", "149000.00")
	body := webhookBody("COURSE-1-order", "407", "149000.00", "expire", sig)

	assert.Equal(t, fiber.StatusOK, postWebhook(t, app, body))

	var purchase courseModels.Purchase
	require.NoError(t, db.Where("order_id = ?", "COURSE-1-order").First(&purchase).Error)
	assert.Equal(t, courseModels.PurchaseExpired, purchase.Status)
}

func TestWebhookUnknownOrder(t *testing.T) {
	app, _ := setupApp(t)

	sig := validSignature("COURSE-9-missing", "200", "10.00")
	body := webhookBody("COURSE-9-missing", "200", "10.00", "settlement", sig)

	assert.Equal(t, fiber.StatusNotFound, postWebhook(t, app, body))
}

func TestGrantPurchaseAdminOnly(t *testing.T) {
	app, db := setupApp(t)

	student := models.User{Email: "student@example.com", FullName: "Student", Password: "x", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, db.Create(&student).Error)

	token, err := middleware.GenerateJWT(student.ID, student.FullName, student.Role, student.Email)
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]uint{"user_id": 1, "course_id": 1})
	req := httptest.NewRequest("POST", "/payment/grant", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestGrantPurchaseCreatesPaidRow(t *testing.T) {
	app, db := setupApp(t)

	admin := models.User{Email: "admin@example.com", FullName: "Admin", Password: "x", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(&admin).Error)
	student := models.User{Email: "s@example.com", FullName: "Student", Password: "x", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, db.Create(&student).Error)
	course := courseModels.Course{Title: "French A2", CategoryID: 1, TeacherID: 99, Price: 99000}
	require.NoError(t, db.Create(&course).Error)

	token, err := middleware.GenerateJWT(admin.ID, admin.FullName, admin.Role, admin.Email)
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]uint{"user_id": student.ID, "course_id": course.ID})
	req := httptest.NewRequest("POST", "/payment/grant", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	assert.True(t, courseModels.HasPurchased(db, student.ID, course.ID))
}
