package controllers

import (
	"errors"
	"strconv"

	"sirb_backend/backend/models"
	"sirb_backend/backend/services"
	"sirb_backend/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CanvasController struct {
	DB      *gorm.DB
	Content *services.ContentService
}

func NewCanvasController(db *gorm.DB, content *services.ContentService) *CanvasController {
	return &CanvasController{DB: db, Content: content}
}

type CreateCanvasInput struct {
	ChapterID   uint   `json:"chapter_id" validate:"required"`
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=2000"`
	CanvasType  string `json:"canvas_type" validate:"required,oneof=video file text quiz"`
	URL         string `json:"url" validate:"omitempty,url"`
	Body        string `json:"body"`
	QuizID      *uint  `json:"quiz_id"`
}

func (cc *CanvasController) CreateCanvas(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var input CreateCanvasInput
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

	canvas, err := cc.Content.CreateCanvas(userID, input.ChapterID, services.CanvasInput{
		Title:       input.Title,
		Description: input.Description,
		CanvasType:  input.CanvasType,
		URL:         input.URL,
		Body:        input.Body,
		QuizID:      input.QuizID,
	})
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Canvas created",
		"canvas":  canvas,
	})
}

// GetChapterCanvases lists a chapter's canvases in sequence order: approved
// content for everyone plus the caller's own unapproved drafts.
func (cc *CanvasController) GetChapterCanvases(c *fiber.Ctx) error {
	userID := currentUserID(c)

	chapterID, err := strconv.Atoi(c.Params("chapterId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid chapter ID",
		})
	}

	var canvases []models.Canvas
	err = cc.DB.
		Where("chapter_id = ? AND is_deleted = ?", chapterID, false).
		Where("status = ? OR contributor_id = ?", models.StatusApproved, userID).
		Order("sequence ASC").
		Find(&canvases).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{"canvases": canvases})
}

func (cc *CanvasController) GetCanvas(c *fiber.Ctx) error {
	userID := currentUserID(c)

	canvasID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid canvas ID",
		})
	}

	var canvas models.Canvas
	if err := cc.DB.First(&canvas, "id = ? AND is_deleted = ?", canvasID, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainError(c, services.ErrNotFound)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// Unapproved content stays invisible outside its contributor and the
	// subject's moderators, rejection reason included.
	visible, err := cc.Content.CanView(userID, canvas.ContributorID, canvas.ChapterID, canvas.Status)
	if err != nil {
		return domainError(c, err)
	}
	if !visible {
		return domainError(c, services.ErrNotFound)
	}

	return c.JSON(fiber.Map{"canvas": canvas})
}

type UpdateCanvasInput struct {
	Title       string `json:"title" validate:"omitempty,min=3,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

func (cc *CanvasController) UpdateCanvas(c *fiber.Ctx) error {
	userID := currentUserID(c)

	canvasID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid canvas ID",
		})
	}

	var input UpdateCanvasInput
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

	canvas, err := cc.Content.UpdateCanvas(userID, uint(canvasID), input.Title, input.Description)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Canvas updated",
		"canvas":  canvas,
	})
}

func (cc *CanvasController) SubmitCanvas(c *fiber.Ctx) error {
	userID := currentUserID(c)

	canvasID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid canvas ID",
		})
	}

	canvas, err := cc.Content.SubmitCanvas(userID, uint(canvasID))
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Canvas submitted for review",
		"canvas":  canvas,
	})
}

func (cc *CanvasController) CancelCanvas(c *fiber.Ctx) error {
	userID := currentUserID(c)

	canvasID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid canvas ID",
		})
	}

	canvas, err := cc.Content.CancelCanvas(userID, uint(canvasID))
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Review cancelled",
		"canvas":  canvas,
	})
}

func (cc *CanvasController) DeleteCanvas(c *fiber.Ctx) error {
	userID := currentUserID(c)

	canvasID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid canvas ID",
		})
	}

	if err := cc.Content.DeleteCanvas(userID, uint(canvasID)); err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Canvas deleted"})
}

func (cc *CanvasController) ApproveCanvas(c *fiber.Ctx) error {
	userID := currentUserID(c)

	canvasID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid canvas ID",
		})
	}

	canvas, err := cc.Content.ApproveCanvas(userID, uint(canvasID))
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Canvas approved",
		"canvas":  canvas,
	})
}

func (cc *CanvasController) RejectCanvas(c *fiber.Ctx) error {
	userID := currentUserID(c)

	canvasID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid canvas ID",
		})
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	canvas, err := cc.Content.RejectCanvas(userID, uint(canvasID), input.Reason)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Canvas rejected",
		"canvas":  canvas,
	})
}
