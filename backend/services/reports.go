package services

import (
	"gorm.io/gorm"

	"sirb_backend/backend/models"
)

// ReportTarget names the kind of content a report points at.
const (
	ReportTargetCanvas      = "canvas"
	ReportTargetComment     = "comment"
	ReportTargetQuiz        = "quiz"
	ReportTargetQuizComment = "quiz_comment"
)

var reportReasons = map[string]bool{
	models.ReportReasonSpam:          true,
	models.ReportReasonInappropriate: true,
	models.ReportReasonIncorrect:     true,
	models.ReportReasonCopyright:     true,
	models.ReportReasonOther:         true,
}

// ReportService creates and reviews abuse reports. A reporter holds at most
// one active (PENDING or RESOLVED) report per target; dismissed reports do
// not block a new one.
type ReportService struct {
	DB      *gorm.DB
	Authz   *AuthzService
	Limiter RateLimiter
}

func NewReportService(db *gorm.DB, authz *AuthzService, limiter RateLimiter) *ReportService {
	return &ReportService{DB: db, Authz: authz, Limiter: limiter}
}

func (s *ReportService) Create(reporterID uint, target string, targetID uint, reason, description string) (*models.Report, error) {
	if !reportReasons[reason] {
		return nil, ErrInvalidReportReason
	}
	if len([]rune(description)) > 500 {
		return nil, ErrDescriptionTooLong
	}

	if err := s.Limiter.Allow(reporterID, RateActionReport); err != nil {
		return nil, err
	}

	var column string
	var targetModel interface{}
	switch target {
	case ReportTargetCanvas:
		column, targetModel = "reported_canvas_id", &models.Canvas{}
	case ReportTargetComment:
		column, targetModel = "reported_comment_id", &models.CanvasComment{}
	case ReportTargetQuiz:
		column, targetModel = "reported_quiz_id", &models.Quiz{}
	case ReportTargetQuizComment:
		column, targetModel = "reported_quiz_comment_id", &models.QuizComment{}
	default:
		return nil, ErrNotFound
	}

	var count int64
	if err := s.DB.Model(targetModel).Where("id = ?", targetID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	var active int64
	err := s.DB.Model(&models.Report{}).
		Where("reporter_user_id = ? AND "+column+" = ? AND status IN ?",
			reporterID, targetID, []string{models.ReportStatusPending, models.ReportStatusResolved}).
		Count(&active).Error
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, ErrAlreadyReported
	}

	report := models.Report{
		ReporterUserID: reporterID,
		Reason:         reason,
		Description:    description,
		Status:         models.ReportStatusPending,
	}
	switch target {
	case ReportTargetCanvas:
		report.ReportedCanvasID = &targetID
	case ReportTargetComment:
		report.ReportedCommentID = &targetID
	case ReportTargetQuiz:
		report.ReportedQuizID = &targetID
	case ReportTargetQuizComment:
		report.ReportedQuizCommentID = &targetID
	}

	if err := s.DB.Create(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *ReportService) List(adminID uint, status string) ([]models.Report, error) {
	admin, err := s.Authz.IsAdmin(adminID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, ErrUnauthorized
	}

	query := s.DB.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var reports []models.Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *ReportService) SetStatus(adminID, reportID uint, status string) (*models.Report, error) {
	if status != models.ReportStatusResolved && status != models.ReportStatusDismissed {
		return nil, ErrInvalidReportStatus
	}

	admin, err := s.Authz.IsAdmin(adminID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, ErrUnauthorized
	}

	var report models.Report
	if err := s.DB.First(&report, reportID).Error; err != nil {
		return nil, ErrNotFound
	}

	report.Status = status
	if err := s.DB.Save(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}
