package authController_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	authRoutes "lms/routers/authRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	Status  bool                   `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4}

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	return app, db
}

func post(t *testing.T, app *fiber.App, path string, body interface{}) (int, envelope) {
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out envelope
	require.NoError(t, json.Unmarshal(data, &out))
	return resp.StatusCode, out
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 4)
	require.NoError(t, err)

	user := models.User{Email: email, FullName: "Existing User", Password: string(hash), Role: models.RoleStudent, IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestSignup(t *testing.T) {
	app, db := setupApp(t)

	status, out := post(t, app, "/auth/register", map[string]string{
		"full_name": "New Learner",
		"email":     "Learner@Example.com",
		"password":  "Str0ng&Secure!",
	})
	require.Equal(t, fiber.StatusCreated, status)

	// Email is normalized, role starts as student, hash never leaves the server
	assert.Equal(t, "learner@example.com", out.Data["email"])
	assert.Equal(t, models.RoleStudent, out.Data["role"])
	_, leaked := out.Data["password"]
	assert.False(t, leaked, "password hash leaked in response")

	var user models.User
	require.NoError(t, db.Where("email = ?", "learner@example.com").First(&user).Error)
	assert.NotEqual(t, "Str0ng&Secure!", user.Password, "password stored unhashed")
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Str0ng&Secure!")))
}

func TestSignupDuplicateEmail(t *testing.T) {
	app, db := setupApp(t)
	seedUser(t, db, "taken@example.com", "Str0ng&Secure!")

	status, _ := post(t, app, "/auth/register", map[string]string{
		"full_name": "Second User",
		"email":     "taken@example.com",
		"password":  "An0ther&G00d!",
	})
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestSignupWeakPasswordRejected(t *testing.T) {
	app, _ := setupApp(t)

	status, out := post(t, app, "/auth/register", map[string]string{
		"full_name": "New Learner",
		"email":     "learner@example.com",
		"password":  "short",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	msg, _ := out.Data["password"].(string)
	assert.True(t, strings.Contains(msg, "at least 8 characters"), "expected length violation, got: %s", msg)
}

func TestLogin(t *testing.T) {
	app, db := setupApp(t)
	user := seedUser(t, db, "login@example.com", "Str0ng&Secure!")

	status, out := post(t, app, "/auth/login", map[string]string{
		"email":    "login@example.com",
		"password": "Str0ng&Secure!",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, out.Data["token"])

	// Successful logins land in the audit trail
	var count int64
	db.Model(&models.LoginTracking{}).Where("user_id = ? AND action = ?", user.ID, "LOGIN").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLoginWrongPassword(t *testing.T) {
	app, db := setupApp(t)
	seedUser(t, db, "login@example.com", "Str0ng&Secure!")

	status, _ := post(t, app, "/auth/login", map[string]string{
		"email":    "login@example.com",
		"password": "WrongPass1!",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	var user models.User
	require.NoError(t, db.Where("email = ?", "login@example.com").First(&user).Error)
	assert.Equal(t, 1, user.FailedLoginAttempts)
}

func TestLoginLockoutAfterThreeFailures(t *testing.T) {
	app, db := setupApp(t)
	seedUser(t, db, "login@example.com", "Str0ng&Secure!")

	bad := map[string]string{"email": "login@example.com", "password": "WrongPass1!"}
	for i := 0; i < 3; i++ {
		status, _ := post(t, app, "/auth/login", bad)
		assert.Equal(t, fiber.StatusUnauthorized, status)
	}

	var user models.User
	require.NoError(t, db.Where("email = ?", "login@example.com").First(&user).Error)
	assert.True(t, user.IsBlocked)
	require.NotNil(t, user.BlockedUntil)

	// The correct password is refused while the block holds
	status, out := post(t, app, "/auth/login", map[string]string{
		"email":    "login@example.com",
		"password": "Str0ng&Secure!",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, out.Message, "temporarily blocked")
}

func TestLoginUnknownEmail(t *testing.T) {
	app, _ := setupApp(t)

	status, _ := post(t, app, "/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "Whatever1!",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	app, db := setupApp(t)
	user := seedUser(t, db, "login@example.com", "Str0ng&Secure!")
	require.NoError(t, db.Model(&user).Update("is_active", false).Error)

	status, out := post(t, app, "/auth/login", map[string]string{
		"email":    "login@example.com",
		"password": "Str0ng&Secure!",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, out.Message, "deactivated")
}

func TestProfileRoundtrip(t *testing.T) {
	app, db := setupApp(t)
	user := seedUser(t, db, "me@example.com", "Str0ng&Secure!")

	token, err := middleware.GenerateJWT(user.ID, user.FullName, user.Role, user.Email)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := json.Marshal(map[string]string{"full_name": "Renamed User"})
	req = httptest.NewRequest("PUT", "/auth/profile", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, "Renamed User", updated.FullName)
}

func TestAssignRole(t *testing.T) {
	app, db := setupApp(t)

	admin := models.User{Email: "admin@example.com", FullName: "Admin", Password: "x", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(&admin).Error)
	student := seedUser(t, db, "student@example.com", "Str0ng&Secure!")

	adminToken, err := middleware.GenerateJWT(admin.ID, admin.FullName, admin.Role, admin.Email)
	require.NoError(t, err)
	studentToken, err := middleware.GenerateJWT(student.ID, student.FullName, student.Role, student.Email)
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]string{"role": "teacher"})

	// Students cannot promote anyone, themselves included
	req := httptest.NewRequest("POST", "/auth/users/"+itoa(student.ID)+"/role", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+studentToken)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Admins can; the role value is case-insensitive
	req = httptest.NewRequest("POST", "/auth/users/"+itoa(student.ID)+"/role", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.User
	require.NoError(t, db.First(&updated, student.ID).Error)
	assert.Equal(t, models.RoleTeacher, updated.Role)
}

func TestListUsersPagination(t *testing.T) {
	app, db := setupApp(t)

	admin := models.User{Email: "admin@example.com", FullName: "Admin", Password: "x", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(&admin).Error)
	seedUser(t, db, "student@example.com", "Str0ng&Secure!")

	token, err := middleware.GenerateJWT(admin.ID, admin.FullName, admin.Role, admin.Email)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/auth/users?page=1&limit=1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out envelope
	require.NoError(t, json.Unmarshal(raw, &out))

	users, ok := out.Data["users"].([]interface{})
	require.True(t, ok)
	assert.Len(t, users, 1)

	pagination, ok := out.Data["pagination"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 2.0, pagination["total"])
	assert.Equal(t, 1.0, pagination["limit"])
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
