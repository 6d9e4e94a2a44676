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

type QuizController struct {
	DB       *gorm.DB
	Content  *services.ContentService
	Attempts *services.AttemptService
}

func NewQuizController(db *gorm.DB, content *services.ContentService, attempts *services.AttemptService) *QuizController {
	return &QuizController{DB: db, Content: content, Attempts: attempts}
}

type CreateQuizInput struct {
	ChapterID   uint   `json:"chapter_id" validate:"required"`
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

func (qc *QuizController) CreateQuiz(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var input CreateQuizInput
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

	quiz, err := qc.Content.CreateQuiz(userID, input.ChapterID, input.Title, input.Description)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Quiz created",
		"quiz":    quiz,
	})
}

// GetChapterQuizzes lists a chapter's quizzes in sequence order: approved
// content for everyone plus the caller's own unapproved drafts.
func (qc *QuizController) GetChapterQuizzes(c *fiber.Ctx) error {
	userID := currentUserID(c)

	chapterID, err := strconv.Atoi(c.Params("chapterId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid chapter ID",
		})
	}

	var quizzes []models.Quiz
	err = qc.DB.
		Where("chapter_id = ? AND is_deleted = ?", chapterID, false).
		Where("status = ? OR contributor_id = ?", models.StatusApproved, userID).
		Order("sequence ASC").
		Find(&quizzes).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{"quizzes": quizzes})
}

func (qc *QuizController) GetQuiz(c *fiber.Ctx) error {
	userID := currentUserID(c)

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID",
		})
	}

	var quiz models.Quiz
	err = qc.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.sequence ASC")
	}).Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("options.sequence ASC")
	}).First(&quiz, "id = ? AND is_deleted = ?", quizID, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainError(c, services.ErrNotFound)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// Unapproved content stays invisible outside its contributor and the
	// subject's moderators, rejection reason included.
	visible, err := qc.Content.CanView(userID, quiz.ContributorID, quiz.ChapterID, quiz.Status)
	if err != nil {
		return domainError(c, err)
	}
	if !visible {
		return domainError(c, services.ErrNotFound)
	}

	// Correct answers are only revealed through the result endpoint.
	for qi := range quiz.Questions {
		for oi := range quiz.Questions[qi].Options {
			quiz.Questions[qi].Options[oi].IsCorrect = false
		}
	}

	return c.JSON(fiber.Map{"quiz": quiz})
}

type UpdateQuizInput struct {
	Title       string `json:"title" validate:"omitempty,min=3,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

func (qc *QuizController) UpdateQuiz(c *fiber.Ctx) error {
	userID := currentUserID(c)

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID",
		})
	}

	var input UpdateQuizInput
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

	quiz, err := qc.Content.UpdateQuiz(userID, uint(quizID), input.Title, input.Description)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Quiz updated",
		"quiz":    quiz,
	})
}

func (qc *QuizController) SubmitQuiz(c *fiber.Ctx) error {
	userID := currentUserID(c)

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID",
		})
	}

	quiz, err := qc.Content.SubmitQuiz(userID, uint(quizID))
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Quiz submitted for review",
		"quiz":    quiz,
	})
}

func (qc *QuizController) CancelQuiz(c *fiber.Ctx) error {
	userID := currentUserID(c)

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID",
		})
	}

	quiz, err := qc.Content.CancelQuiz(userID, uint(quizID))
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Review cancelled",
		"quiz":    quiz,
	})
}

func (qc *QuizController) DeleteQuiz(c *fiber.Ctx) error {
	userID := currentUserID(c)

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID",
		})
	}

	if err := qc.Content.DeleteQuiz(userID, uint(quizID)); err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Quiz deleted"})
}

func (qc *QuizController) ApproveQuiz(c *fiber.Ctx) error {
	userID := currentUserID(c)

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID",
		})
	}

	quiz, err := qc.Content.ApproveQuiz(userID, uint(quizID))
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Quiz approved",
		"quiz":    quiz,
	})
}

func (qc *QuizController) RejectQuiz(c *fiber.Ctx) error {
	userID := currentUserID(c)

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID",
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

	quiz, err := qc.Content.RejectQuiz(userID, uint(quizID), input.Reason)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Quiz rejected",
		"quiz":    quiz,
	})
}

type QuestionInput struct {
	Text         string   `json:"text" validate:"required,min=3"`
	QuestionType string   `json:"question_type" validate:"required,oneof=MCQ_SINGLE MCQ_MULTI TRUE_FALSE"`
	Explanation  string   `json:"explanation"`
	Options      []struct {
		Text      string `json:"text" validate:"required"`
		IsCorrect bool   `json:"is_correct"`
	} `json:"options" validate:"required,min=2,dive"`
}

// AddQuestion appends a question (with its options) to an unapproved quiz
// owned by the caller.
func (qc *QuizController) AddQuestion(c *fiber.Ctx) error {
	userID := currentUserID(c)

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID",
		})
	}

	var input QuestionInput
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

	var quiz models.Quiz
	if err := qc.DB.First(&quiz, "id = ? AND is_deleted = ?", quizID, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainError(c, services.ErrNotFound)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	if quiz.ContributorID != userID {
		return domainError(c, services.ErrUnauthorized)
	}
	if quiz.Status == models.StatusApproved {
		return domainError(c, services.ErrApprovedLocked)
	}

	correctCount := 0
	for _, o := range input.Options {
		if o.IsCorrect {
			correctCount++
		}
	}
	if correctCount == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "يجب تحديد إجابة صحيحة واحدة على الأقل",
		})
	}
	if input.QuestionType != models.QuestionTypeMCQMulti && correctCount != 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "هذا النوع من الأسئلة يقبل إجابة صحيحة واحدة فقط",
		})
	}

	var questionCount int64
	if err := qc.DB.Model(&models.Question{}).Where("quiz_id = ?", quizID).
		Count(&questionCount).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	question := models.Question{
		QuizID:       uint(quizID),
		Text:         input.Text,
		QuestionType: input.QuestionType,
		Explanation:  input.Explanation,
		Sequence:     int(questionCount) + 1,
	}
	for i, o := range input.Options {
		question.Options = append(question.Options, models.Option{
			Text:      o.Text,
			IsCorrect: o.IsCorrect,
			Sequence:  i + 1,
		})
	}

	if err := qc.DB.Create(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create question",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Question added",
		"question": question,
	})
}

func (qc *QuizController) DeleteQuestion(c *fiber.Ctx) error {
	userID := currentUserID(c)

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID",
		})
	}
	questionID, err := strconv.Atoi(c.Params("questionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question ID",
		})
	}

	var quiz models.Quiz
	if err := qc.DB.First(&quiz, "id = ? AND is_deleted = ?", quizID, false).Error; err != nil {
		return domainError(c, services.ErrNotFound)
	}
	if quiz.ContributorID != userID {
		return domainError(c, services.ErrUnauthorized)
	}
	if quiz.Status == models.StatusApproved {
		return domainError(c, services.ErrApprovedLocked)
	}

	var question models.Question
	if err := qc.DB.First(&question, "id = ? AND quiz_id = ?", questionID, quizID).Error; err != nil {
		return domainError(c, services.ErrNotFound)
	}

	err = qc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("question_id = ?", question.ID).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&question).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete question",
		})
	}

	return c.JSON(fiber.Map{"message": "Question deleted"})
}

type SubmitAnswersInput struct {
	Answers []services.AnswerSubmission `json:"answers" validate:"required,min=1,dive"`
}

func (qc *QuizController) SubmitAnswers(c *fiber.Ctx) error {
	userID := currentUserID(c)

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID",
		})
	}

	var input SubmitAnswersInput
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

	attempt, err := qc.Attempts.SubmitAnswers(userID, uint(quizID), input.Answers)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Attempt recorded",
		"attempt": fiber.Map{
			"questions_answered": attempt.QuestionsAnswered,
			"correct_answers":    attempt.CorrectAnswers,
			"score":              attempt.Score,
		},
	})
}

func (qc *QuizController) GetMyAttempts(c *fiber.Ctx) error {
	userID := currentUserID(c)

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID",
		})
	}

	attempts, err := qc.Attempts.UserAttempts(userID, uint(quizID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{"attempts": attempts})
}
