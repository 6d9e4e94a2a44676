package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"sirb_backend/backend/models"
	"sirb_backend/backend/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:servicestest%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, utils.MigrateModels(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	t.Helper()

	user := models.User{
		Name:         name,
		Email:        name + "@sirb.app",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// seedChapter builds the minimal taxonomy path down to one chapter.
func seedChapter(t *testing.T, db *gorm.DB) (*models.Subject, *models.Chapter) {
	t.Helper()

	university := models.University{Name: "جامعة الاختبار"}
	require.NoError(t, db.Create(&university).Error)
	college := models.College{UniversityID: university.ID, Name: "كلية الهندسة"}
	require.NoError(t, db.Create(&college).Error)
	subject := models.Subject{CollegeID: college.ID, Name: "الخوارزميات", Code: "CS311"}
	require.NoError(t, db.Create(&subject).Error)
	chapter := models.Chapter{SubjectID: subject.ID, Title: "الفصل الأول", Sequence: 1}
	require.NoError(t, db.Create(&chapter).Error)
	return &subject, &chapter
}

func seedModerator(t *testing.T, db *gorm.DB, userID, subjectID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.SubjectModerator{SubjectID: subjectID, UserID: userID}).Error)
}
