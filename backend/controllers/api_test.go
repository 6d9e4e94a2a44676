package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"sirb_backend/backend/config"
	"sirb_backend/backend/models"
	"sirb_backend/backend/routes"
	"sirb_backend/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBCounter int64

// newTestApp wires the full route tree against an in-memory database, the
// same way main does against postgres.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:controllerstest%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, utils.MigrateModels(db))

	cfg := &config.Config{
		JWTSecret:  "testsecret",
		UploadBase: "https://uploads.test",
	}
	app := fiber.New()
	routes.SetupRoutes(app, db, cfg, log.New(io.Discard, "", 0))
	return app, db, cfg
}

// seedUser creates a user directly and returns it with a valid token, so
// tests outside the auth suite skip the register round trip.
func seedUser(t *testing.T, db *gorm.DB, cfg *config.Config, name, role string) (*models.User, string) {
	t.Helper()

	user := models.User{
		Name:         name,
		Email:        name + "@sirb.app",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateJWTToken(user.ID, cfg)
	require.NoError(t, err)
	return &user, token
}

func seedChapter(t *testing.T, db *gorm.DB) (*models.Subject, *models.Chapter) {
	t.Helper()

	university := models.University{Name: "جامعة الاختبار"}
	require.NoError(t, db.Create(&university).Error)
	college := models.College{UniversityID: university.ID, Name: "كلية الحاسب"}
	require.NoError(t, db.Create(&college).Error)
	subject := models.Subject{CollegeID: college.ID, Name: "الخوارزميات", Code: "CS311"}
	require.NoError(t, db.Create(&subject).Error)
	chapter := models.Chapter{SubjectID: subject.ID, Title: "الفصل الأول", Sequence: 1}
	require.NoError(t, db.Create(&chapter).Error)
	return &subject, &chapter
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}
