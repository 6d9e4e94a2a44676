package services

import (
	"errors"
	"log"
	"strings"

	"sirb_backend/backend/models"

	"gorm.io/gorm"
)

// ContentService drives the moderation state machine for contributed
// quizzes and canvases: DRAFT -> PENDING -> {APPROVED, REJECTED},
// REJECTED -> PENDING on resubmit, PENDING -> DRAFT on cancel. Approved
// content is immutable through this workflow and is only ever soft-deleted.
type ContentService struct {
	DB       *gorm.DB
	Authz    *AuthzService
	Notifier Notifier
	Logger   *log.Logger
}

func NewContentService(db *gorm.DB, authz *AuthzService, notifier Notifier, logger *log.Logger) *ContentService {
	return &ContentService{DB: db, Authz: authz, Notifier: notifier, Logger: logger}
}

// nextSequence returns 1 + max(sequence) among the chapter's non-deleted
// rows of the given model, or 1 when the chapter is empty.
func nextSequence(tx *gorm.DB, model interface{}, chapterID uint) (int, error) {
	var max int
	err := tx.Model(model).
		Where("chapter_id = ? AND is_deleted = ?", chapterID, false).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (s *ContentService) chapterExists(chapterID uint) error {
	var count int64
	if err := s.DB.Model(&models.Chapter{}).Where("id = ?", chapterID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ContentService) requireManage(userID, contributorID uint) error {
	ok, err := s.Authz.CanManage(userID, contributorID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

func (s *ContentService) requireModerate(userID, chapterID uint) error {
	subjectID, err := s.Authz.SubjectIDForChapter(chapterID)
	if err != nil {
		return err
	}
	ok, err := s.Authz.CanModerate(userID, subjectID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// CanView reports whether the user may read a piece of content in the given
// status. Approved content is public; unapproved content is visible only to
// its contributor and to moderators of the owning subject.
func (s *ContentService) CanView(userID, contributorID, chapterID uint, status string) (bool, error) {
	if status == models.StatusApproved || userID == contributorID {
		return true, nil
	}
	err := s.requireModerate(userID, chapterID)
	if errors.Is(err, ErrUnauthorized) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// fireSubmissionNotice notifies the subject's moderators without blocking
// the request; failures are logged and never surfaced.
func (s *ContentService) fireSubmissionNotice(contentType string, contentID uint, title string, chapterID, contributorID uint) {
	var chapter models.Chapter
	if err := s.DB.First(&chapter, chapterID).Error; err != nil {
		s.Logger.Printf("moderation notice skipped: chapter %d: %v", chapterID, err)
		return
	}
	var subject models.Subject
	if err := s.DB.First(&subject, chapter.SubjectID).Error; err != nil {
		s.Logger.Printf("moderation notice skipped: subject %d: %v", chapter.SubjectID, err)
		return
	}
	var contributor models.User
	if err := s.DB.First(&contributor, contributorID).Error; err != nil {
		s.Logger.Printf("moderation notice skipped: user %d: %v", contributorID, err)
		return
	}

	sub := Submission{
		SubjectID:       subject.ID,
		SubjectName:     subject.Name,
		ContentType:     contentType,
		ContentID:       contentID,
		ContentTitle:    title,
		ContributorName: contributor.Name,
		ChapterTitle:    chapter.Title,
	}

	go func() {
		if err := s.Notifier.NotifySubmission(sub); err != nil {
			s.Logger.Printf("moderation notice failed for %s %d: %v", contentType, contentID, err)
		}
	}()
}

// --- Quiz lifecycle ---

func (s *ContentService) CreateQuiz(contributorID, chapterID uint, title, description string) (*models.Quiz, error) {
	if err := s.chapterExists(chapterID); err != nil {
		return nil, err
	}

	quiz := models.Quiz{
		Title:         title,
		Description:   description,
		ChapterID:     chapterID,
		ContributorID: contributorID,
		Status:        models.StatusDraft,
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		seq, err := nextSequence(tx, &models.Quiz{}, chapterID)
		if err != nil {
			return err
		}
		quiz.Sequence = seq
		return tx.Create(&quiz).Error
	})
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (s *ContentService) getQuiz(quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := s.DB.First(&quiz, "id = ? AND is_deleted = ?", quizID, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

func (s *ContentService) UpdateQuiz(userID, quizID uint, title, description string) (*models.Quiz, error) {
	quiz, err := s.getQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManage(userID, quiz.ContributorID); err != nil {
		return nil, err
	}
	if quiz.Status == models.StatusApproved {
		return nil, ErrApprovedLocked
	}

	if title != "" {
		quiz.Title = title
	}
	if description != "" {
		quiz.Description = description
	}
	if err := s.DB.Save(quiz).Error; err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *ContentService) SubmitQuiz(userID, quizID uint) (*models.Quiz, error) {
	quiz, err := s.getQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManage(userID, quiz.ContributorID); err != nil {
		return nil, err
	}
	if quiz.Status != models.StatusDraft && quiz.Status != models.StatusRejected {
		return nil, ErrNotSubmittable
	}

	var questionCount int64
	if err := s.DB.Model(&models.Question{}).Where("quiz_id = ?", quizID).Count(&questionCount).Error; err != nil {
		return nil, err
	}
	if questionCount == 0 {
		return nil, ErrNoQuestions
	}

	quiz.Status = models.StatusPending
	quiz.RejectionReason = nil
	if err := s.DB.Save(quiz).Error; err != nil {
		return nil, err
	}

	s.fireSubmissionNotice("quiz", quiz.ID, quiz.Title, quiz.ChapterID, quiz.ContributorID)
	return quiz, nil
}

func (s *ContentService) CancelQuiz(userID, quizID uint) (*models.Quiz, error) {
	quiz, err := s.getQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManage(userID, quiz.ContributorID); err != nil {
		return nil, err
	}
	if quiz.Status != models.StatusPending {
		return nil, ErrNotPending
	}

	quiz.Status = models.StatusDraft
	if err := s.DB.Save(quiz).Error; err != nil {
		return nil, err
	}
	return quiz, nil
}

// DeleteQuiz soft-deletes approved quizzes (kept for audit) and hard-deletes
// everything else together with its children.
func (s *ContentService) DeleteQuiz(userID, quizID uint) error {
	quiz, err := s.getQuiz(quizID)
	if err != nil {
		return err
	}
	if err := s.requireManage(userID, quiz.ContributorID); err != nil {
		return err
	}

	if quiz.Status == models.StatusApproved {
		return s.DB.Model(quiz).Update("is_deleted", true).Error
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&models.Question{}).Where("quiz_id = ?", quizID).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Unscoped().Where("question_id IN ?", questionIDs).
				Delete(&models.Option{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("quiz_id = ?", quizID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		// Votes and reports hang off the comments too, so collect the
		// comment IDs before the comments go.
		var commentIDs []uint
		if err := tx.Model(&models.QuizComment{}).Where("quiz_id = ?", quizID).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("quiz_comment_id IN ?", commentIDs).
				Delete(&models.Vote{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("reported_quiz_comment_id IN ?", commentIDs).
				Delete(&models.Report{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&models.QuizComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("reported_quiz_id = ?", quizID).
			Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("quiz_id = ?", quizID).Delete(&models.QuizAttempt{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Quiz{}, quizID).Error
	})
}

func (s *ContentService) ApproveQuiz(moderatorID, quizID uint) (*models.Quiz, error) {
	quiz, err := s.getQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if err := s.requireModerate(moderatorID, quiz.ChapterID); err != nil {
		return nil, err
	}
	if quiz.Status != models.StatusPending {
		return nil, ErrNotPending
	}

	quiz.Status = models.StatusApproved
	quiz.RejectionReason = nil
	if err := s.DB.Save(quiz).Error; err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *ContentService) RejectQuiz(moderatorID, quizID uint, reason string) (*models.Quiz, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}
	quiz, err := s.getQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if err := s.requireModerate(moderatorID, quiz.ChapterID); err != nil {
		return nil, err
	}
	if quiz.Status != models.StatusPending {
		return nil, ErrNotPending
	}

	quiz.Status = models.StatusRejected
	quiz.RejectionReason = &reason
	if err := s.DB.Save(quiz).Error; err != nil {
		return nil, err
	}
	return quiz, nil
}

// --- Canvas lifecycle ---

type CanvasInput struct {
	Title       string
	Description string
	CanvasType  string
	URL         string
	Body        string
	QuizID      *uint
}

func (s *ContentService) CreateCanvas(contributorID, chapterID uint, in CanvasInput) (*models.Canvas, error) {
	if err := s.chapterExists(chapterID); err != nil {
		return nil, err
	}

	canvas := models.Canvas{
		Title:         in.Title,
		Description:   in.Description,
		CanvasType:    in.CanvasType,
		URL:           in.URL,
		Body:          in.Body,
		QuizID:        in.QuizID,
		ChapterID:     chapterID,
		ContributorID: contributorID,
		Status:        models.StatusDraft,
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		seq, err := nextSequence(tx, &models.Canvas{}, chapterID)
		if err != nil {
			return err
		}
		canvas.Sequence = seq
		return tx.Create(&canvas).Error
	})
	if err != nil {
		return nil, err
	}
	return &canvas, nil
}

func (s *ContentService) getCanvas(canvasID uint) (*models.Canvas, error) {
	var canvas models.Canvas
	if err := s.DB.First(&canvas, "id = ? AND is_deleted = ?", canvasID, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &canvas, nil
}

func (s *ContentService) UpdateCanvas(userID, canvasID uint, title, description string) (*models.Canvas, error) {
	canvas, err := s.getCanvas(canvasID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManage(userID, canvas.ContributorID); err != nil {
		return nil, err
	}
	if canvas.Status == models.StatusApproved {
		return nil, ErrApprovedLocked
	}

	if title != "" {
		canvas.Title = title
	}
	if description != "" {
		canvas.Description = description
	}
	if err := s.DB.Save(canvas).Error; err != nil {
		return nil, err
	}
	return canvas, nil
}

func (s *ContentService) SubmitCanvas(userID, canvasID uint) (*models.Canvas, error) {
	canvas, err := s.getCanvas(canvasID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManage(userID, canvas.ContributorID); err != nil {
		return nil, err
	}
	if canvas.Status != models.StatusDraft && canvas.Status != models.StatusRejected {
		return nil, ErrNotSubmittable
	}

	canvas.Status = models.StatusPending
	canvas.RejectionReason = nil
	if err := s.DB.Save(canvas).Error; err != nil {
		return nil, err
	}

	s.fireSubmissionNotice("canvas", canvas.ID, canvas.Title, canvas.ChapterID, canvas.ContributorID)
	return canvas, nil
}

func (s *ContentService) CancelCanvas(userID, canvasID uint) (*models.Canvas, error) {
	canvas, err := s.getCanvas(canvasID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManage(userID, canvas.ContributorID); err != nil {
		return nil, err
	}
	if canvas.Status != models.StatusPending {
		return nil, ErrNotPending
	}

	canvas.Status = models.StatusDraft
	if err := s.DB.Save(canvas).Error; err != nil {
		return nil, err
	}
	return canvas, nil
}

func (s *ContentService) DeleteCanvas(userID, canvasID uint) error {
	canvas, err := s.getCanvas(canvasID)
	if err != nil {
		return err
	}
	if err := s.requireManage(userID, canvas.ContributorID); err != nil {
		return err
	}

	if canvas.Status == models.StatusApproved {
		return s.DB.Model(canvas).Update("is_deleted", true).Error
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.CanvasComment{}).Where("canvas_id = ?", canvasID).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("canvas_comment_id IN ?", commentIDs).
				Delete(&models.Vote{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("reported_comment_id IN ?", commentIDs).
				Delete(&models.Report{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("canvas_id = ?", canvasID).Delete(&models.CanvasComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("canvas_id = ?", canvasID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("reported_canvas_id = ?", canvasID).
			Delete(&models.Report{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Canvas{}, canvasID).Error
	})
}

func (s *ContentService) ApproveCanvas(moderatorID, canvasID uint) (*models.Canvas, error) {
	canvas, err := s.getCanvas(canvasID)
	if err != nil {
		return nil, err
	}
	if err := s.requireModerate(moderatorID, canvas.ChapterID); err != nil {
		return nil, err
	}
	if canvas.Status != models.StatusPending {
		return nil, ErrNotPending
	}

	canvas.Status = models.StatusApproved
	canvas.RejectionReason = nil
	if err := s.DB.Save(canvas).Error; err != nil {
		return nil, err
	}
	return canvas, nil
}

func (s *ContentService) RejectCanvas(moderatorID, canvasID uint, reason string) (*models.Canvas, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}
	canvas, err := s.getCanvas(canvasID)
	if err != nil {
		return nil, err
	}
	if err := s.requireModerate(moderatorID, canvas.ChapterID); err != nil {
		return nil, err
	}
	if canvas.Status != models.StatusPending {
		return nil, ErrNotPending
	}

	canvas.Status = models.StatusRejected
	canvas.RejectionReason = &reason
	if err := s.DB.Save(canvas).Error; err != nil {
		return nil, err
	}
	return canvas, nil
}
