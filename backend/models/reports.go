package models

import "gorm.io/gorm"

const (
	ReportReasonSpam          = "SPAM"
	ReportReasonInappropriate = "INAPPROPRIATE"
	ReportReasonIncorrect     = "INCORRECT_CONTENT"
	ReportReasonCopyright     = "COPYRIGHT"
	ReportReasonOther         = "OTHER"
)

const (
	ReportStatusPending   = "PENDING"
	ReportStatusResolved  = "RESOLVED"
	ReportStatusDismissed = "DISMISSED"
)

// Report targets exactly one of the four content columns. A reporter may
// hold at most one active (PENDING/RESOLVED) report per target; that rule
// is enforced by the report service, since DISMISSED rows do not count.
type Report struct {
	gorm.Model
	ReporterUserID        uint   `gorm:"not null;index" json:"reporter_user_id"`
	ReportedCanvasID      *uint  `gorm:"index" json:"reported_canvas_id"`
	ReportedCommentID     *uint  `gorm:"index" json:"reported_comment_id"`
	ReportedQuizID        *uint  `gorm:"index" json:"reported_quiz_id"`
	ReportedQuizCommentID *uint  `gorm:"index" json:"reported_quiz_comment_id"`
	Reason                string `gorm:"not null" json:"reason"`
	Description           string `gorm:"size:500" json:"description"`
	Status                string `gorm:"not null;default:PENDING" json:"status"`
}
