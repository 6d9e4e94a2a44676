package utils

import (
	"fmt"

	"sirb_backend/backend/config"
	"sirb_backend/backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := MigrateModels(db); err != nil {
		return nil, err
	}

	return db, nil
}

// MigrateModels is shared with the test setup, which runs it against sqlite.
func MigrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.SubjectModerator{},
		&models.Enrollment{},
		&models.University{},
		&models.College{},
		&models.Subject{},
		&models.Chapter{},
		&models.Canvas{},
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
		&models.QuizAttempt{},
		&models.CanvasComment{},
		&models.QuizComment{},
		&models.Vote{},
		&models.Report{},
	)
}
