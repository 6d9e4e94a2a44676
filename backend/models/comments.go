package models

import "time"

// CanvasComment supports one level of nesting: replies cannot have replies.
// Soft-deleted top-level comments stay listed while they still have live
// replies, so deletion is a domain flag here as well.
type CanvasComment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CanvasID        uint      `gorm:"not null;index" json:"canvas_id"`
	ParentCommentID *uint     `gorm:"index" json:"parent_comment_id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	Text            string    `gorm:"not null" json:"text"`
	IsDeleted       bool      `gorm:"not null;default:false" json:"is_deleted"`
	IsPinned        bool      `gorm:"not null;default:false" json:"is_pinned"`
	IsAnnouncement  bool      `gorm:"not null;default:false" json:"is_announcement"`
	UpvotesCount    int       `gorm:"not null;default:0" json:"upvotes_count"`
	DownvotesCount  int       `gorm:"not null;default:0" json:"downvotes_count"`
	NetScore        int       `gorm:"not null;default:0" json:"net_score"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Replies []CanvasComment `gorm:"-" json:"replies,omitempty"`
}

type QuizComment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	QuizID          uint      `gorm:"not null;index" json:"quiz_id"`
	ParentCommentID *uint     `gorm:"index" json:"parent_comment_id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	Text            string    `gorm:"not null" json:"text"`
	IsDeleted       bool      `gorm:"not null;default:false" json:"is_deleted"`
	IsPinned        bool      `gorm:"not null;default:false" json:"is_pinned"`
	IsAnnouncement  bool      `gorm:"not null;default:false" json:"is_announcement"`
	UpvotesCount    int       `gorm:"not null;default:0" json:"upvotes_count"`
	DownvotesCount  int       `gorm:"not null;default:0" json:"downvotes_count"`
	NetScore        int       `gorm:"not null;default:0" json:"net_score"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Replies []QuizComment `gorm:"-" json:"replies,omitempty"`
}
