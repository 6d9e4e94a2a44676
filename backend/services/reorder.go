package services

import (
	"gorm.io/gorm"

	"sirb_backend/backend/models"
)

// SequenceUpdate assigns one item its requested position.
type SequenceUpdate struct {
	ItemID   uint `json:"item_id" validate:"required"`
	Sequence int  `json:"sequence" validate:"required,min=1"`
}

// ReorderService renumbers sibling content inside a chapter without
// tripping the partial unique (chapter_id, sequence) index. Final sequences
// can overlap current ones, so each item is first staged to a negative
// sequence (disjoint from every final value) and only then given its final
// position. Both phases run in one transaction; any failure rolls the whole
// reorder back.
type ReorderService struct {
	DB    *gorm.DB
	Authz *AuthzService
}

func NewReorderService(db *gorm.DB, authz *AuthzService) *ReorderService {
	return &ReorderService{DB: db, Authz: authz}
}

func (s *ReorderService) ReorderCanvases(userID, chapterID uint, updates []SequenceUpdate) error {
	return s.reorder(userID, chapterID, updates, &models.Canvas{})
}

func (s *ReorderService) ReorderQuizzes(userID, chapterID uint, updates []SequenceUpdate) error {
	return s.reorder(userID, chapterID, updates, &models.Quiz{})
}

func (s *ReorderService) reorder(userID, chapterID uint, updates []SequenceUpdate, model interface{}) error {
	if len(updates) == 0 {
		return ErrInvalidReorder
	}
	for _, u := range updates {
		if u.Sequence < 1 {
			return ErrInvalidReorder
		}
	}

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

	return s.DB.Transaction(func(tx *gorm.DB) error {
		// Every item must exist and belong to this chapter before anything
		// moves; otherwise nothing is applied.
		ids := make([]uint, 0, len(updates))
		for _, u := range updates {
			ids = append(ids, u.ItemID)
		}
		var count int64
		if err := tx.Model(model).
			Where("id IN ? AND chapter_id = ? AND is_deleted = ?", ids, chapterID, false).
			Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(updates)) {
			return ErrNotFound
		}

		// Phase 1: stage out of the final value space.
		for i, u := range updates {
			if err := tx.Model(model).Where("id = ?", u.ItemID).
				Update("sequence", -(i + 1)).Error; err != nil {
				return err
			}
		}

		// Phase 2: commit final positions.
		for _, u := range updates {
			if err := tx.Model(model).Where("id = ?", u.ItemID).
				Update("sequence", u.Sequence).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
