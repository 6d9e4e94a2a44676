package controllers

import (
	"strconv"

	"sirb_backend/backend/services"
	"sirb_backend/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type VoteController struct {
	Votes *services.VoteService
}

func NewVoteController(votes *services.VoteService) *VoteController {
	return &VoteController{Votes: votes}
}

type VoteInput struct {
	VoteType string `json:"vote_type" validate:"required,oneof=LIKE DISLIKE"`
}

func (vc *VoteController) VoteCanvas(c *fiber.Ctx) error {
	return vc.vote(c, vc.Votes.VoteCanvas)
}

func (vc *VoteController) VoteQuiz(c *fiber.Ctx) error {
	return vc.vote(c, vc.Votes.VoteQuiz)
}

func (vc *VoteController) VoteCanvasComment(c *fiber.Ctx) error {
	return vc.vote(c, vc.Votes.VoteCanvasComment)
}

func (vc *VoteController) VoteQuizComment(c *fiber.Ctx) error {
	return vc.vote(c, vc.Votes.VoteQuizComment)
}

func (vc *VoteController) vote(c *fiber.Ctx, apply func(uint, uint, string) error) error {
	userID := currentUserID(c)

	// Comment votes carry the target in :commentId; content votes in :id.
	param := c.Params("commentId")
	if param == "" {
		param = c.Params("id")
	}
	targetID, err := strconv.Atoi(param)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid ID",
		})
	}

	var input VoteInput
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

	if err := apply(userID, uint(targetID), input.VoteType); err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Vote recorded"})
}
