package services

import (
	"errors"
	"strings"

	"sirb_backend/backend/models"

	"gorm.io/gorm"
)

const deletedCommentPlaceholder = "تم حذف هذا التعليق"

// CommentService handles canvas and quiz comment threads. Nesting is one
// level deep: replies cannot have replies. A soft-deleted top-level comment
// stays listed (with placeholder text) while it still has live replies, so
// threads are never orphaned.
type CommentService struct {
	DB      *gorm.DB
	Authz   *AuthzService
	Limiter RateLimiter
}

func NewCommentService(db *gorm.DB, authz *AuthzService, limiter RateLimiter) *CommentService {
	return &CommentService{DB: db, Authz: authz, Limiter: limiter}
}

// --- Canvas comments ---

func (s *CommentService) AddCanvasComment(userID, canvasID uint, text string, parentID *uint) (*models.CanvasComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTextRequired
	}
	if err := s.Limiter.Allow(userID, RateActionComment); err != nil {
		return nil, err
	}

	var canvas models.Canvas
	if err := s.DB.First(&canvas, "id = ? AND is_deleted = ?", canvasID, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if parentID != nil {
		var parent models.CanvasComment
		err := s.DB.First(&parent, "id = ? AND canvas_id = ? AND is_deleted = ?", *parentID, canvasID, false).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if parent.ParentCommentID != nil {
			return nil, ErrReplyToReply
		}
	}

	comment := models.CanvasComment{
		CanvasID:        canvasID,
		ParentCommentID: parentID,
		UserID:          userID,
		Text:            text,
	}
	if err := s.DB.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListCanvasComments returns top-level comments (announcements and pinned
// first) with their live replies attached. Deleted top-level comments are
// kept only as placeholders for threads that still have replies.
func (s *CommentService) ListCanvasComments(canvasID uint) ([]models.CanvasComment, error) {
	var top []models.CanvasComment
	err := s.DB.
		Where("canvas_id = ? AND parent_comment_id IS NULL", canvasID).
		Order("is_announcement DESC, is_pinned DESC, created_at ASC").
		Find(&top).Error
	if err != nil {
		return nil, err
	}

	var replies []models.CanvasComment
	err = s.DB.
		Where("canvas_id = ? AND parent_comment_id IS NOT NULL AND is_deleted = ?", canvasID, false).
		Order("created_at ASC").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}

	byParent := make(map[uint][]models.CanvasComment)
	for _, r := range replies {
		byParent[*r.ParentCommentID] = append(byParent[*r.ParentCommentID], r)
	}

	result := make([]models.CanvasComment, 0, len(top))
	for _, c := range top {
		c.Replies = byParent[c.ID]
		if c.IsDeleted {
			if len(c.Replies) == 0 {
				continue
			}
			c.Text = deletedCommentPlaceholder
		}
		result = append(result, c)
	}
	return result, nil
}

func (s *CommentService) DeleteCanvasComment(userID, commentID uint) error {
	var comment models.CanvasComment
	if err := s.DB.First(&comment, "id = ? AND is_deleted = ?", commentID, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if comment.UserID != userID {
		var canvas models.Canvas
		if err := s.DB.First(&canvas, comment.CanvasID).Error; err != nil {
			return err
		}
		if err := s.requireModerate(userID, canvas.ChapterID); err != nil {
			return err
		}
	}

	return s.DB.Model(&comment).Update("is_deleted", true).Error
}

func (s *CommentService) SetCanvasCommentFlags(userID, commentID uint, pinned, announcement *bool) (*models.CanvasComment, error) {
	var comment models.CanvasComment
	if err := s.DB.First(&comment, "id = ? AND is_deleted = ?", commentID, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var canvas models.Canvas
	if err := s.DB.First(&canvas, comment.CanvasID).Error; err != nil {
		return nil, err
	}
	if err := s.requireModerate(userID, canvas.ChapterID); err != nil {
		return nil, err
	}

	if pinned != nil {
		comment.IsPinned = *pinned
	}
	if announcement != nil {
		comment.IsAnnouncement = *announcement
	}
	if err := s.DB.Save(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// --- Quiz comments ---

func (s *CommentService) AddQuizComment(userID, quizID uint, text string, parentID *uint) (*models.QuizComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTextRequired
	}
	if err := s.Limiter.Allow(userID, RateActionComment); err != nil {
		return nil, err
	}

	var quiz models.Quiz
	if err := s.DB.First(&quiz, "id = ? AND is_deleted = ?", quizID, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if parentID != nil {
		var parent models.QuizComment
		err := s.DB.First(&parent, "id = ? AND quiz_id = ? AND is_deleted = ?", *parentID, quizID, false).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if parent.ParentCommentID != nil {
			return nil, ErrReplyToReply
		}
	}

	comment := models.QuizComment{
		QuizID:          quizID,
		ParentCommentID: parentID,
		UserID:          userID,
		Text:            text,
	}
	if err := s.DB.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *CommentService) ListQuizComments(quizID uint) ([]models.QuizComment, error) {
	var top []models.QuizComment
	err := s.DB.
		Where("quiz_id = ? AND parent_comment_id IS NULL", quizID).
		Order("is_announcement DESC, is_pinned DESC, created_at ASC").
		Find(&top).Error
	if err != nil {
		return nil, err
	}

	var replies []models.QuizComment
	err = s.DB.
		Where("quiz_id = ? AND parent_comment_id IS NOT NULL AND is_deleted = ?", quizID, false).
		Order("created_at ASC").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}

	byParent := make(map[uint][]models.QuizComment)
	for _, r := range replies {
		byParent[*r.ParentCommentID] = append(byParent[*r.ParentCommentID], r)
	}

	result := make([]models.QuizComment, 0, len(top))
	for _, c := range top {
		c.Replies = byParent[c.ID]
		if c.IsDeleted {
			if len(c.Replies) == 0 {
				continue
			}
			c.Text = deletedCommentPlaceholder
		}
		result = append(result, c)
	}
	return result, nil
}

func (s *CommentService) DeleteQuizComment(userID, commentID uint) error {
	var comment models.QuizComment
	if err := s.DB.First(&comment, "id = ? AND is_deleted = ?", commentID, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if comment.UserID != userID {
		var quiz models.Quiz
		if err := s.DB.First(&quiz, comment.QuizID).Error; err != nil {
			return err
		}
		if err := s.requireModerate(userID, quiz.ChapterID); err != nil {
			return err
		}
	}

	return s.DB.Model(&comment).Update("is_deleted", true).Error
}

func (s *CommentService) requireModerate(userID, chapterID uint) error {
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
