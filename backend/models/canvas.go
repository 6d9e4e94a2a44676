package models

import "time"

// Moderation lifecycle states shared by canvases and quizzes.
const (
	StatusDraft    = "DRAFT"
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

const (
	CanvasTypeVideo = "video"
	CanvasTypeFile  = "file"
	CanvasTypeText  = "text"
	CanvasTypeQuiz  = "quiz"
)

// Canvas is a single contributed unit of learning content within a chapter.
// Soft-deleted rows are kept for audit, so deletion is a domain flag rather
// than GORM's DeletedAt; the sequence is unique only among non-deleted
// siblings of the chapter.
type Canvas struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"not null" json:"title"`
	Description     string    `json:"description"`
	CanvasType      string    `gorm:"not null" json:"canvas_type"` // video, file, text, quiz
	URL             string    `json:"url"`
	Body            string    `json:"body"`
	QuizID          *uint     `json:"quiz_id"`
	ChapterID       uint      `gorm:"not null;uniqueIndex:idx_canvas_chapter_seq" json:"chapter_id"`
	ContributorID   uint      `gorm:"not null;index" json:"contributor_id"`
	Sequence        int       `gorm:"not null;uniqueIndex:idx_canvas_chapter_seq,where:is_deleted = false" json:"sequence"`
	Status          string    `gorm:"not null;default:DRAFT" json:"status"`
	IsDeleted       bool      `gorm:"not null;default:false" json:"is_deleted"`
	RejectionReason *string   `json:"rejection_reason"`
	UpvotesCount    int       `gorm:"not null;default:0" json:"upvotes_count"`
	DownvotesCount  int       `gorm:"not null;default:0" json:"downvotes_count"`
	NetScore        int       `gorm:"not null;default:0" json:"net_score"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
