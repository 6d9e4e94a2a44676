package services

import (
	"errors"

	"sirb_backend/backend/models"

	"gorm.io/gorm"
)

// VoteService keeps the denormalized vote counters on content rows
// consistent with the per-user vote rows. Every vote runs in one
// transaction; partial application is never observable.
type VoteService struct {
	DB *gorm.DB
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{DB: db}
}

type voteTarget struct {
	model  interface{}
	column string
	id     uint
}

func (s *VoteService) VoteCanvas(userID, canvasID uint, voteType string) error {
	return s.vote(userID, voteType, voteTarget{&models.Canvas{}, "canvas_id", canvasID})
}

func (s *VoteService) VoteQuiz(userID, quizID uint, voteType string) error {
	return s.vote(userID, voteType, voteTarget{&models.Quiz{}, "quiz_id", quizID})
}

func (s *VoteService) VoteCanvasComment(userID, commentID uint, voteType string) error {
	return s.vote(userID, voteType, voteTarget{&models.CanvasComment{}, "canvas_comment_id", commentID})
}

func (s *VoteService) VoteQuizComment(userID, commentID uint, voteType string) error {
	return s.vote(userID, voteType, voteTarget{&models.QuizComment{}, "quiz_comment_id", commentID})
}

func (s *VoteService) vote(userID uint, voteType string, target voteTarget) error {
	if voteType != models.VoteLike && voteType != models.VoteDislike {
		return ErrInvalidVoteType
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(target.model).Where("id = ? AND is_deleted = ?", target.id, false).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}

		var dUp, dDown int

		var existing models.Vote
		err := tx.Where("user_id = ? AND "+target.column+" = ?", userID, target.id).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{UserID: userID, VoteType: voteType}
			switch target.column {
			case "canvas_id":
				vote.CanvasID = &target.id
			case "quiz_id":
				vote.QuizID = &target.id
			case "canvas_comment_id":
				vote.CanvasCommentID = &target.id
			case "quiz_comment_id":
				vote.QuizCommentID = &target.id
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			if voteType == models.VoteLike {
				dUp = 1
			} else {
				dDown = 1
			}
		case err != nil:
			return err
		case existing.VoteType == voteType:
			// Same vote again toggles it off.
			if err := tx.Delete(&models.Vote{}, existing.ID).Error; err != nil {
				return err
			}
			if voteType == models.VoteLike {
				dUp = -1
			} else {
				dDown = -1
			}
		default:
			// Flip: the new counter gains one, the old one loses one.
			if err := tx.Model(&models.Vote{}).Where("id = ?", existing.ID).
				Update("vote_type", voteType).Error; err != nil {
				return err
			}
			if voteType == models.VoteLike {
				dUp, dDown = 1, -1
			} else {
				dUp, dDown = -1, 1
			}
		}

		return tx.Model(target.model).Where("id = ?", target.id).
			UpdateColumns(map[string]interface{}{
				"upvotes_count":   gorm.Expr("upvotes_count + ?", dUp),
				"downvotes_count": gorm.Expr("downvotes_count + ?", dDown),
				"net_score":       gorm.Expr("net_score + ?", dUp-dDown),
			}).Error
	})
}
