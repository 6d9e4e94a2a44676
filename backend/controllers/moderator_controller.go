package controllers

import (
	"strconv"

	"sirb_backend/backend/services"
	"sirb_backend/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ModeratorController struct {
	Moderators *services.ModeratorService
}

func NewModeratorController(moderators *services.ModeratorService) *ModeratorController {
	return &ModeratorController{Moderators: moderators}
}

type AssignModeratorInput struct {
	SubjectID uint `json:"subject_id" validate:"required"`
	UserID    uint `json:"user_id" validate:"required"`
}

func (mc *ModeratorController) AssignModerator(c *fiber.Ctx) error {
	adminID := currentUserID(c)

	var input AssignModeratorInput
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

	grant, err := mc.Moderators.Assign(adminID, input.SubjectID, input.UserID)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":   "Moderator assigned",
		"moderator": grant,
	})
}

func (mc *ModeratorController) RemoveModerator(c *fiber.Ctx) error {
	adminID := currentUserID(c)

	grantID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid moderator ID",
		})
	}
	subjectID, err := strconv.Atoi(c.Params("subjectId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid subject ID",
		})
	}

	if err := mc.Moderators.Remove(adminID, uint(grantID), uint(subjectID)); err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Moderator removed"})
}

func (mc *ModeratorController) SearchUsers(c *fiber.Ctx) error {
	adminID := currentUserID(c)

	users, err := mc.Moderators.Search(adminID, c.Query("q"))
	if err != nil {
		return domainError(c, err)
	}

	result := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		result = append(result, fiber.Map{
			"id":    u.ID,
			"name":  u.Name,
			"email": u.Email,
		})
	}

	return c.JSON(fiber.Map{"users": result})
}
