package services

import (
	"errors"
	"strings"

	"sirb_backend/backend/models"

	"gorm.io/gorm"
)

// ModeratorService manages per-subject moderator grants. All operations
// are admin-only; the controller layer enforces that via AdminMiddleware
// and the service re-checks before mutating.
type ModeratorService struct {
	DB    *gorm.DB
	Authz *AuthzService
}

func NewModeratorService(db *gorm.DB, authz *AuthzService) *ModeratorService {
	return &ModeratorService{DB: db, Authz: authz}
}

func (s *ModeratorService) requireAdmin(userID uint) error {
	admin, err := s.Authz.IsAdmin(userID)
	if err != nil {
		return err
	}
	if !admin {
		return ErrUnauthorized
	}
	return nil
}

func (s *ModeratorService) Assign(adminID, subjectID, userID uint) (*models.SubjectModerator, error) {
	if err := s.requireAdmin(adminID); err != nil {
		return nil, err
	}

	var subject models.Subject
	if err := s.DB.First(&subject, subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if user.IsBanned {
		return nil, ErrUserBanned
	}

	var count int64
	if err := s.DB.Model(&models.SubjectModerator{}).
		Where("subject_id = ? AND user_id = ?", subjectID, userID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyModerator
	}

	grant := models.SubjectModerator{SubjectID: subjectID, UserID: userID}
	if err := s.DB.Create(&grant).Error; err != nil {
		return nil, err
	}
	return &grant, nil
}

// Remove deletes the grant scoped to (id, subjectID). Removing a grant that
// is already gone is not an error.
func (s *ModeratorService) Remove(adminID, grantID, subjectID uint) error {
	if err := s.requireAdmin(adminID); err != nil {
		return err
	}
	return s.DB.Unscoped().
		Where("id = ? AND subject_id = ?", grantID, subjectID).
		Delete(&models.SubjectModerator{}).Error
}

// Search finds assignable users by name or email substring,
// case-insensitive, excluding banned users, capped at 10. Queries shorter
// than 2 characters return an empty result rather than an error.
func (s *ModeratorService) Search(adminID uint, query string) ([]models.User, error) {
	if err := s.requireAdmin(adminID); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return []models.User{}, nil
	}

	pattern := "%" + strings.ToLower(query) + "%"
	var users []models.User
	err := s.DB.
		Where("is_banned = ?", false).
		Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern).
		Limit(10).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
