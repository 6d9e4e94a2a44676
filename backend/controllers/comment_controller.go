package controllers

import (
	"strconv"

	"sirb_backend/backend/services"
	"sirb_backend/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CommentController struct {
	DB       *gorm.DB
	Comments *services.CommentService
}

func NewCommentController(db *gorm.DB, comments *services.CommentService) *CommentController {
	return &CommentController{DB: db, Comments: comments}
}

type AddCommentInput struct {
	Text            string `json:"text" validate:"required,min=1,max=1000"`
	ParentCommentID *uint  `json:"parent_comment_id"`
}

// AddCanvasComment godoc
// @Summary Add comment to canvas
// @Description Adds a comment or a single-level reply; rate limited to 5 per minute
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Canvas ID"
// @Param input body AddCommentInput true "Comment data"
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /canvases/{id}/comments [post]
func (cc *CommentController) AddCanvasComment(c *fiber.Ctx) error {
	userID := currentUserID(c)

	canvasID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid canvas ID",
		})
	}

	var input AddCommentInput
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

	comment, err := cc.Comments.AddCanvasComment(userID, uint(canvasID), input.Text, input.ParentCommentID)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Comment added",
		"comment": comment,
	})
}

func (cc *CommentController) GetCanvasComments(c *fiber.Ctx) error {
	canvasID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid canvas ID",
		})
	}

	comments, err := cc.Comments.ListCanvasComments(uint(canvasID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch comments",
		})
	}

	return c.JSON(fiber.Map{"comments": comments})
}

func (cc *CommentController) DeleteCanvasComment(c *fiber.Ctx) error {
	userID := currentUserID(c)

	commentID, err := strconv.Atoi(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid comment ID",
		})
	}

	if err := cc.Comments.DeleteCanvasComment(userID, uint(commentID)); err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Comment deleted"})
}

type CommentFlagsInput struct {
	IsPinned       *bool `json:"is_pinned"`
	IsAnnouncement *bool `json:"is_announcement"`
}

// SetCanvasCommentFlags lets a subject moderator pin or mark a comment as
// an announcement.
func (cc *CommentController) SetCanvasCommentFlags(c *fiber.Ctx) error {
	userID := currentUserID(c)

	commentID, err := strconv.Atoi(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid comment ID",
		})
	}

	var input CommentFlagsInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	comment, err := cc.Comments.SetCanvasCommentFlags(userID, uint(commentID), input.IsPinned, input.IsAnnouncement)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Comment updated",
		"comment": comment,
	})
}

func (cc *CommentController) AddQuizComment(c *fiber.Ctx) error {
	userID := currentUserID(c)

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID",
		})
	}

	var input AddCommentInput
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

	comment, err := cc.Comments.AddQuizComment(userID, uint(quizID), input.Text, input.ParentCommentID)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Comment added",
		"comment": comment,
	})
}

func (cc *CommentController) GetQuizComments(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID",
		})
	}

	comments, err := cc.Comments.ListQuizComments(uint(quizID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch comments",
		})
	}

	return c.JSON(fiber.Map{"comments": comments})
}

func (cc *CommentController) DeleteQuizComment(c *fiber.Ctx) error {
	userID := currentUserID(c)

	commentID, err := strconv.Atoi(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid comment ID",
		})
	}

	if err := cc.Comments.DeleteQuizComment(userID, uint(commentID)); err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
