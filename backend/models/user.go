package models

import "gorm.io/gorm"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	gorm.Model
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:user" json:"role"` // user, admin
	University   string `json:"university"`
	IsBanned     bool   `gorm:"default:false" json:"is_banned"`
}

// SubjectModerator grants one user moderation authority over one subject.
type SubjectModerator struct {
	gorm.Model
	SubjectID uint `gorm:"not null;uniqueIndex:idx_subject_moderator" json:"subject_id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_subject_moderator" json:"user_id"`
}

// Enrollment gates content visibility and progress tracking per subject.
type Enrollment struct {
	gorm.Model
	UserID    uint `gorm:"not null;uniqueIndex:idx_enrollment" json:"user_id"`
	SubjectID uint `gorm:"not null;uniqueIndex:idx_enrollment" json:"subject_id"`
}
