package models

import "time"

const (
	VoteLike    = "LIKE"
	VoteDislike = "DISLIKE"
)

// Vote holds exactly one target column; a user has at most one vote per
// target. Toggling a vote off deletes the row outright, so no gorm.Model
// here (a DeletedAt would turn that into a soft delete).
type Vote struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;uniqueIndex:idx_vote_canvas;uniqueIndex:idx_vote_quiz;uniqueIndex:idx_vote_canvas_comment;uniqueIndex:idx_vote_quiz_comment" json:"user_id"`
	CanvasID        *uint     `gorm:"uniqueIndex:idx_vote_canvas,where:canvas_id IS NOT NULL" json:"canvas_id"`
	QuizID          *uint     `gorm:"uniqueIndex:idx_vote_quiz,where:quiz_id IS NOT NULL" json:"quiz_id"`
	CanvasCommentID *uint     `gorm:"uniqueIndex:idx_vote_canvas_comment,where:canvas_comment_id IS NOT NULL" json:"canvas_comment_id"`
	QuizCommentID   *uint     `gorm:"uniqueIndex:idx_vote_quiz_comment,where:quiz_comment_id IS NOT NULL" json:"quiz_comment_id"`
	VoteType        string    `gorm:"not null" json:"vote_type"` // LIKE, DISLIKE
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
