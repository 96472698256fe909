package middleware_test

import (
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDb(t *testing.T) *gorm.DB {
	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4}

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}
	return db
}

func protectedApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	chain := append([]fiber.Handler{middleware.JWTMiddleware}, handlers...)
	chain = append(chain, func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{
			"userId": c.Locals("userId"),
			"role":   c.Locals("role"),
		})
	})
	app.Get("/protected", chain...)
	return app
}

func request(t *testing.T, app *fiber.App, token string) int {
	req := httptest.NewRequest("GET", "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestGenerateJWTRoundtrip(t *testing.T) {
	setupDb(t)

	tokenString, err := middleware.GenerateJWT(42, "Ada", models.RoleTeacher, "ada@example.com")
	require.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTKey), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(42), claims["userId"])
	assert.Equal(t, "Ada", claims["name"])
	assert.Equal(t, models.RoleTeacher, claims["role"])
	assert.Equal(t, "ada@example.com", claims["email"])
	assert.Greater(t, claims["exp"].(float64), claims["iat"].(float64))
}

func TestJWTMiddlewareRejectsBadTokens(t *testing.T) {
	setupDb(t)
	app := protectedApp()

	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, ""))
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, "not-a-jwt"))

	// Token signed with another key
	claims := jwt.MapClaims{"userId": 1}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-key"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, forged))
}

func TestJWTMiddlewareAcceptsValidToken(t *testing.T) {
	setupDb(t)
	app := protectedApp()

	token, err := middleware.GenerateJWT(7, "User", models.RoleStudent, "u@example.com")
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, request(t, app, token))
}

func TestRequireRole(t *testing.T) {
	db := setupDb(t)
	app := protectedApp(middleware.RequireRole(models.RoleAdmin))

	student := models.User{Email: "s@example.com", FullName: "Student", Password: "x", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, db.Create(&student).Error)
	admin := models.User{Email: "a@example.com", FullName: "Admin", Password: "x", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(&admin).Error)

	studentToken, err := middleware.GenerateJWT(student.ID, student.FullName, student.Role, student.Email)
	require.NoError(t, err)
	adminToken, err := middleware.GenerateJWT(admin.ID, admin.FullName, admin.Role, admin.Email)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusForbidden, request(t, app, studentToken))
	assert.Equal(t, fiber.StatusOK, request(t, app, adminToken))
}

func TestRequireRoleCutsOffDeactivatedAndDeletedUsers(t *testing.T) {
	db := setupDb(t)
	app := protectedApp(middleware.RequireRole(models.RoleAdmin))

	admin := models.User{Email: "a@example.com", FullName: "Admin", Password: "x", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(&admin).Error)

	// Tokens stay syntactically valid after the account changes; the DB
	// re-check is what enforces the cutoff.
	token, err := middleware.GenerateJWT(admin.ID, admin.FullName, admin.Role, admin.Email)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, request(t, app, token))

	require.NoError(t, db.Model(&admin).Update("is_active", false).Error)
	assert.Equal(t, fiber.StatusForbidden, request(t, app, token))

	require.NoError(t, db.Model(&admin).Updates(map[string]interface{}{"is_active": true, "is_deleted": true}).Error)
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, token))
}

func TestOptionalJWTMiddleware(t *testing.T) {
	setupDb(t)

	app := fiber.New()
	app.Get("/open", middleware.OptionalJWTMiddleware, func(c *fiber.Ctx) error {
		_, authed := c.Locals("userId").(uint)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{"authed": authed})
	})

	// Anonymous passes through without identity
	req := httptest.NewRequest("GET", "/open", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// A garbage token is treated as anonymous rather than rejected
	req = httptest.NewRequest("GET", "/open", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// A valid token attaches identity
	token, err := middleware.GenerateJWT(3, "User", models.RoleStudent, "u@example.com")
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/open", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestIsOwnerOrAdmin(t *testing.T) {
	assert.True(t, middleware.IsOwnerOrAdmin(1, models.RoleStudent, 1))
	assert.True(t, middleware.IsOwnerOrAdmin(2, models.RoleAdmin, 1))
	assert.False(t, middleware.IsOwnerOrAdmin(2, models.RoleStudent, 1))
	assert.False(t, middleware.IsOwnerOrAdmin(2, models.RoleTeacher, 1))
}
