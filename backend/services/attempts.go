package services

import (
	"errors"

	"sirb_backend/backend/models"

	"gorm.io/gorm"
)

type AnswerSubmission struct {
	QuestionID        uint   `json:"question_id" validate:"required"`
	SelectedOptionIDs []uint `json:"selected_option_ids"`
}

// AttemptService evaluates answer submissions against the canonical
// correct-option sets and records the scored attempt.
type AttemptService struct {
	DB *gorm.DB
}

func NewAttemptService(db *gorm.DB) *AttemptService {
	return &AttemptService{DB: db}
}

// SubmitAnswers scores one pass over an approved quiz (contributors may
// also attempt their own drafts). Unknown question ids are skipped rather
// than failing the whole attempt.
func (s *AttemptService) SubmitAnswers(userID, quizID uint, answers []AnswerSubmission) (*models.QuizAttempt, error) {
	var quiz models.Quiz
	err := s.DB.Preload("Questions.Options").
		First(&quiz, "id = ? AND is_deleted = ?", quizID, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if quiz.Status != models.StatusApproved && quiz.ContributorID != userID {
		return nil, ErrUnauthorized
	}

	questions := make(map[uint]models.Question, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions[q.ID] = q
	}

	correct := 0
	answered := 0
	for _, a := range answers {
		q, ok := questions[a.QuestionID]
		if !ok {
			continue
		}
		answered++

		var correctIDs []uint
		for _, o := range q.Options {
			if o.IsCorrect {
				correctIDs = append(correctIDs, o.ID)
			}
		}
		if IsCorrectAnswer(a.SelectedOptionIDs, correctIDs, q.QuestionType) {
			correct++
		}
	}

	attempt := models.QuizAttempt{
		UserID:            userID,
		QuizID:            quizID,
		QuestionsAnswered: answered,
		CorrectAnswers:    correct,
	}
	if len(quiz.Questions) > 0 {
		attempt.Score = float64(correct) / float64(len(quiz.Questions)) * 100
	}

	if err := s.DB.Create(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (s *AttemptService) UserAttempts(userID, quizID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := s.DB.
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("created_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}
