package controllers

import (
	"strconv"

	"sirb_backend/backend/models"
	"sirb_backend/backend/services"
	"sirb_backend/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	Reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{Reports: reports}
}

type CreateReportInput struct {
	TargetType  string `json:"target_type" validate:"required,oneof=canvas comment quiz quiz_comment"`
	TargetID    uint   `json:"target_id" validate:"required"`
	Reason      string `json:"reason" validate:"required"`
	Description string `json:"description" validate:"max=500"`
}

func (rc *ReportController) CreateReport(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var input CreateReportInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := utils.ValidateStruct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	report, err := rc.Reports.Create(userID, input.TargetType, input.TargetID, input.Reason, input.Description)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Report submitted",
		"report":  report,
	})
}

func (rc *ReportController) ListReports(c *fiber.Ctx) error {
	userID := currentUserID(c)
	status := c.Query("status")

	reports, err := rc.Reports.List(userID, status)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{"reports": reports})
}

func (rc *ReportController) ResolveReport(c *fiber.Ctx) error {
	return rc.setStatus(c, models.ReportStatusResolved)
}

func (rc *ReportController) DismissReport(c *fiber.Ctx) error {
	return rc.setStatus(c, models.ReportStatusDismissed)
}

func (rc *ReportController) setStatus(c *fiber.Ctx, status string) error {
	userID := currentUserID(c)

	reportID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report ID",
		})
	}

	report, err := rc.Reports.SetStatus(userID, uint(reportID), status)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Report updated",
		"report":  report,
	})
}
