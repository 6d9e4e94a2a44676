package controllers

import (
	"strconv"

	"sirb_backend/backend/models"
	"sirb_backend/backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EnrollmentController struct {
	DB *gorm.DB
}

func NewEnrollmentController(db *gorm.DB) *EnrollmentController {
	return &EnrollmentController{DB: db}
}

func (ec *EnrollmentController) Enroll(c *fiber.Ctx) error {
	userID := currentUserID(c)

	subjectID, err := strconv.Atoi(c.Params("subjectId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid subject ID",
		})
	}

	var count int64
	ec.DB.Model(&models.Subject{}).Where("id = ?", subjectID).Count(&count)
	if count == 0 {
		return domainError(c, services.ErrNotFound)
	}

	var existing int64
	ec.DB.Model(&models.Enrollment{}).
		Where("user_id = ? AND subject_id = ?", userID, subjectID).
		Count(&existing)
	if existing > 0 {
		return domainError(c, services.ErrAlreadyEnrolled)
	}

	enrollment := models.Enrollment{UserID: userID, SubjectID: uint(subjectID)}
	if err := ec.DB.Create(&enrollment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not enroll",
		})
	}

	return c.JSON(fiber.Map{
		"message":    "Enrolled",
		"enrollment": enrollment,
	})
}

func (ec *EnrollmentController) Unenroll(c *fiber.Ctx) error {
	userID := currentUserID(c)

	subjectID, err := strconv.Atoi(c.Params("subjectId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid subject ID",
		})
	}

	err = ec.DB.Unscoped().
		Where("user_id = ? AND subject_id = ?", userID, subjectID).
		Delete(&models.Enrollment{}).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not unenroll",
		})
	}

	return c.JSON(fiber.Map{"message": "Unenrolled"})
}

func (ec *EnrollmentController) MySubjects(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var subjects []models.Subject
	err := ec.DB.
		Joins("JOIN enrollments ON enrollments.subject_id = subjects.id").
		Where("enrollments.user_id = ? AND enrollments.deleted_at IS NULL", userID).
		Find(&subjects).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{"subjects": subjects})
}
