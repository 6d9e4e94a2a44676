package services

import (
	"errors"

	"sirb_backend/backend/models"

	"gorm.io/gorm"
)

// AuthzService consolidates the role/ownership checks used across the
// moderation workflow.
type AuthzService struct {
	DB *gorm.DB
}

func NewAuthzService(db *gorm.DB) *AuthzService {
	return &AuthzService{DB: db}
}

func (s *AuthzService) IsAdmin(userID uint) (bool, error) {
	var user models.User
	if err := s.DB.Select("role").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.Role == models.RoleAdmin, nil
}

// CanModerate checks the cheap admin lookup first and only then the
// per-subject moderator grant.
func (s *AuthzService) CanModerate(userID, subjectID uint) (bool, error) {
	admin, err := s.IsAdmin(userID)
	if err != nil {
		return false, err
	}
	if admin {
		return true, nil
	}

	var count int64
	err = s.DB.Model(&models.SubjectModerator{}).
		Where("user_id = ? AND subject_id = ?", userID, subjectID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CanManage allows the owning contributor or an admin.
func (s *AuthzService) CanManage(userID, contributorID uint) (bool, error) {
	if userID == contributorID {
		return true, nil
	}
	return s.IsAdmin(userID)
}

// SubjectIDForChapter walks content -> chapter -> subject.
func (s *AuthzService) SubjectIDForChapter(chapterID uint) (uint, error) {
	var chapter models.Chapter
	if err := s.DB.Select("subject_id").First(&chapter, chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return chapter.SubjectID, nil
}
