package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	QuestionTypeMCQSingle = "MCQ_SINGLE"
	QuestionTypeMCQMulti  = "MCQ_MULTI"
	QuestionTypeTrueFalse = "TRUE_FALSE"
)

// Quiz follows the same moderation lifecycle as Canvas.
type Quiz struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"not null" json:"title"`
	Description     string     `json:"description"`
	ChapterID       uint       `gorm:"not null;uniqueIndex:idx_quiz_chapter_seq" json:"chapter_id"`
	ContributorID   uint       `gorm:"not null;index" json:"contributor_id"`
	Sequence        int        `gorm:"not null;uniqueIndex:idx_quiz_chapter_seq,where:is_deleted = false" json:"sequence"`
	Status          string     `gorm:"not null;default:DRAFT" json:"status"`
	IsDeleted       bool       `gorm:"not null;default:false" json:"is_deleted"`
	RejectionReason *string    `json:"rejection_reason"`
	UpvotesCount    int        `gorm:"not null;default:0" json:"upvotes_count"`
	DownvotesCount  int        `gorm:"not null;default:0" json:"downvotes_count"`
	NetScore        int        `gorm:"not null;default:0" json:"net_score"`
	Questions       []Question `json:"questions,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Question struct {
	gorm.Model
	QuizID       uint     `gorm:"not null;index" json:"quiz_id"`
	Text         string   `gorm:"not null" json:"text"`
	QuestionType string   `gorm:"not null;default:MCQ_SINGLE" json:"question_type"`
	Explanation  string   `json:"explanation"`
	Sequence     int      `json:"sequence"`
	Options      []Option `json:"options,omitempty"`
}

type Option struct {
	gorm.Model
	QuestionID uint   `gorm:"not null;index" json:"question_id"`
	Text       string `gorm:"not null" json:"text"`
	IsCorrect  bool   `gorm:"not null;default:false" json:"is_correct"`
	Sequence   int    `json:"sequence"`
}

// QuizAttempt records one scored pass of a user over a quiz.
type QuizAttempt struct {
	gorm.Model
	UserID            uint    `gorm:"not null;index" json:"user_id"`
	QuizID            uint    `gorm:"not null;index" json:"quiz_id"`
	QuestionsAnswered int     `json:"questions_answered"`
	CorrectAnswers    int     `json:"correct_answers"`
	Score             float64 `json:"score"`
}
