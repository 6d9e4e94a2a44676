package controllers

import (
	"errors"

	"sirb_backend/backend/services"

	"github.com/gofiber/fiber/v2"
)

// currentUserID reads the id stored by AuthMiddleware.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("user_id").(uint)
	return id
}

// domainError maps a service error to its HTTP status. Domain errors carry
// user-facing Arabic messages; anything unrecognized is an internal error.
func domainError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, services.ErrUnauthorized):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrRateLimited):
		status = fiber.StatusTooManyRequests
	case errors.Is(err, services.ErrAlreadyReported),
		errors.Is(err, services.ErrAlreadyModerator),
		errors.Is(err, services.ErrAlreadyEnrolled):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrNoQuestions),
		errors.Is(err, services.ErrNotPending),
		errors.Is(err, services.ErrNotSubmittable),
		errors.Is(err, services.ErrApprovedLocked),
		errors.Is(err, services.ErrReasonRequired),
		errors.Is(err, services.ErrReplyToReply),
		errors.Is(err, services.ErrUserBanned),
		errors.Is(err, services.ErrInvalidReorder),
		errors.Is(err, services.ErrInvalidVoteType),
		errors.Is(err, services.ErrInvalidReportReason),
		errors.Is(err, services.ErrInvalidReportStatus),
		errors.Is(err, services.ErrDescriptionTooLong),
		errors.Is(err, services.ErrTextRequired):
		status = fiber.StatusBadRequest
	}

	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
