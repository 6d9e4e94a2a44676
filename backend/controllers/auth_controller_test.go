package controllers_test

import (
	"testing"

	"sirb_backend/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterAndLogin(t *testing.T) {
	app, _, _ := newTestApp(t)

	registerData := map[string]string{
		"name":     "طالب جديد",
		"email":    "student@example.com",
		"password": "password123",
	}
	resp := doJSON(t, app, "POST", "/api/auth/register", "", registerData)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := decodeBody(t, resp)
	assert.NotEmpty(t, result["token"])
	assert.NotEmpty(t, result["user"])

	// Same email again is a conflict.
	resp = doJSON(t, app, "POST", "/api/auth/register", "", registerData)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email":    "student@example.com",
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	result = decodeBody(t, resp)
	assert.NotEmpty(t, result["token"])
	user := result["user"].(map[string]interface{})
	assert.Equal(t, models.RoleUser, user["role"])

	resp = doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email":    "student@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"name":     "ط",
		"email":    "not-an-email",
		"password": "short",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLoginBannedUser(t *testing.T) {
	app, db, _ := newTestApp(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := models.User{
		Name:         "محظور",
		Email:        "banned@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		IsBanned:     true,
	}
	require.NoError(t, db.Create(&user).Error)

	resp := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email":    "banned@example.com",
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/quizzes/", "", map[string]interface{}{
		"chapter_id": 1,
		"title":      "اختبار",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/admin/reports/", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
