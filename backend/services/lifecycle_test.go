package services

import (
	"io"
	"log"
	"testing"

	"sirb_backend/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newContentService(db *gorm.DB) *ContentService {
	logger := log.New(io.Discard, "", 0)
	return NewContentService(db, NewAuthzService(db), NewLogNotifier(logger), logger)
}

func addQuestion(t *testing.T, db *gorm.DB, quizID uint) *models.Question {
	t.Helper()

	question := models.Question{
		QuizID:       quizID,
		Text:         "ما هو تعقيد البحث الثنائي؟",
		QuestionType: models.QuestionTypeMCQSingle,
		Sequence:     1,
	}
	require.NoError(t, db.Create(&question).Error)
	options := []models.Option{
		{QuestionID: question.ID, Text: "O(log n)", IsCorrect: true, Sequence: 1},
		{QuestionID: question.ID, Text: "O(n)", Sequence: 2},
	}
	require.NoError(t, db.Create(&options).Error)
	question.Options = options
	return &question
}

func TestCreateQuizAssignsNextSequence(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "contributor", models.RoleUser)
	_, chapter := seedChapter(t, db)
	svc := newContentService(db)

	first, err := svc.CreateQuiz(user.ID, chapter.ID, "اختبار أول", "")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Sequence)
	assert.Equal(t, models.StatusDraft, first.Status)

	second, err := svc.CreateQuiz(user.ID, chapter.ID, "اختبار ثان", "")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Sequence)

	// A deleted sibling's slot is reused by the next creation.
	require.NoError(t, db.Model(second).Update("is_deleted", true).Error)
	third, err := svc.CreateQuiz(user.ID, chapter.ID, "اختبار ثالث", "")
	require.NoError(t, err)
	assert.Equal(t, 2, third.Sequence)
}

func TestCreateQuizMissingChapter(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "contributor", models.RoleUser)
	svc := newContentService(db)

	_, err := svc.CreateQuiz(user.ID, 999, "اختبار", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitQuizRequiresQuestions(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "contributor", models.RoleUser)
	_, chapter := seedChapter(t, db)
	svc := newContentService(db)

	quiz, err := svc.CreateQuiz(user.ID, chapter.ID, "اختبار فارغ", "")
	require.NoError(t, err)

	_, err = svc.SubmitQuiz(user.ID, quiz.ID)
	assert.ErrorIs(t, err, ErrNoQuestions)

	// Failed submit leaves the quiz untouched.
	var got models.Quiz
	require.NoError(t, db.First(&got, quiz.ID).Error)
	assert.Equal(t, models.StatusDraft, got.Status)
}

func TestQuizModerationRoundTrip(t *testing.T) {
	db := newTestDB(t)
	contributor := seedUser(t, db, "contributor", models.RoleUser)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	_, chapter := seedChapter(t, db)
	svc := newContentService(db)

	quiz, err := svc.CreateQuiz(contributor.ID, chapter.ID, "بنى البيانات", "")
	require.NoError(t, err)
	addQuestion(t, db, quiz.ID)

	quiz, err = svc.SubmitQuiz(contributor.ID, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, quiz.Status)

	// Pending content cannot be resubmitted.
	_, err = svc.SubmitQuiz(contributor.ID, quiz.ID)
	assert.ErrorIs(t, err, ErrNotSubmittable)

	quiz, err = svc.RejectQuiz(admin.ID, quiz.ID, "السؤال الأول غير واضح")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, quiz.Status)
	require.NotNil(t, quiz.RejectionReason)
	assert.Equal(t, "السؤال الأول غير واضح", *quiz.RejectionReason)

	// Resubmitting a rejected quiz clears the stored reason.
	quiz, err = svc.SubmitQuiz(contributor.ID, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, quiz.Status)
	assert.Nil(t, quiz.RejectionReason)

	quiz, err = svc.ApproveQuiz(admin.ID, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, quiz.Status)

	_, err = svc.UpdateQuiz(contributor.ID, quiz.ID, "عنوان جديد", "")
	assert.ErrorIs(t, err, ErrApprovedLocked)
}

func TestRejectQuizRequiresReason(t *testing.T) {
	db := newTestDB(t)
	contributor := seedUser(t, db, "contributor", models.RoleUser)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	_, chapter := seedChapter(t, db)
	svc := newContentService(db)

	quiz, err := svc.CreateQuiz(contributor.ID, chapter.ID, "اختبار", "")
	require.NoError(t, err)
	addQuestion(t, db, quiz.ID)
	_, err = svc.SubmitQuiz(contributor.ID, quiz.ID)
	require.NoError(t, err)

	_, err = svc.RejectQuiz(admin.ID, quiz.ID, "   ")
	assert.ErrorIs(t, err, ErrReasonRequired)

	var got models.Quiz
	require.NoError(t, db.First(&got, quiz.ID).Error)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestCancelQuizReturnsToDraft(t *testing.T) {
	db := newTestDB(t)
	contributor := seedUser(t, db, "contributor", models.RoleUser)
	_, chapter := seedChapter(t, db)
	svc := newContentService(db)

	quiz, err := svc.CreateQuiz(contributor.ID, chapter.ID, "اختبار", "")
	require.NoError(t, err)
	addQuestion(t, db, quiz.ID)

	// Cancel only applies to pending content.
	_, err = svc.CancelQuiz(contributor.ID, quiz.ID)
	assert.ErrorIs(t, err, ErrNotPending)

	_, err = svc.SubmitQuiz(contributor.ID, quiz.ID)
	require.NoError(t, err)

	quiz, err = svc.CancelQuiz(contributor.ID, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, quiz.Status)
}

func TestModerationRequiresModerator(t *testing.T) {
	db := newTestDB(t)
	contributor := seedUser(t, db, "contributor", models.RoleUser)
	stranger := seedUser(t, db, "stranger", models.RoleUser)
	moderator := seedUser(t, db, "moderator", models.RoleUser)
	subject, chapter := seedChapter(t, db)
	seedModerator(t, db, moderator.ID, subject.ID)
	svc := newContentService(db)

	quiz, err := svc.CreateQuiz(contributor.ID, chapter.ID, "اختبار", "")
	require.NoError(t, err)
	addQuestion(t, db, quiz.ID)
	_, err = svc.SubmitQuiz(contributor.ID, quiz.ID)
	require.NoError(t, err)

	_, err = svc.ApproveQuiz(stranger.ID, quiz.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// The contributor cannot approve their own submission either.
	_, err = svc.ApproveQuiz(contributor.ID, quiz.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.ApproveQuiz(moderator.ID, quiz.ID)
	require.NoError(t, err)
}

func TestUpdateQuizOwnership(t *testing.T) {
	db := newTestDB(t)
	contributor := seedUser(t, db, "contributor", models.RoleUser)
	stranger := seedUser(t, db, "stranger", models.RoleUser)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	_, chapter := seedChapter(t, db)
	svc := newContentService(db)

	quiz, err := svc.CreateQuiz(contributor.ID, chapter.ID, "الأصل", "")
	require.NoError(t, err)

	_, err = svc.UpdateQuiz(stranger.ID, quiz.ID, "محاولة", "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	updated, err := svc.UpdateQuiz(admin.ID, quiz.ID, "معدل من المشرف", "")
	require.NoError(t, err)
	assert.Equal(t, "معدل من المشرف", updated.Title)
}

func TestDeleteQuizApprovedIsSoft(t *testing.T) {
	db := newTestDB(t)
	contributor := seedUser(t, db, "contributor", models.RoleUser)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	_, chapter := seedChapter(t, db)
	svc := newContentService(db)

	quiz, err := svc.CreateQuiz(contributor.ID, chapter.ID, "اختبار", "")
	require.NoError(t, err)
	question := addQuestion(t, db, quiz.ID)
	_, err = svc.SubmitQuiz(contributor.ID, quiz.ID)
	require.NoError(t, err)
	_, err = svc.ApproveQuiz(admin.ID, quiz.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteQuiz(contributor.ID, quiz.ID))

	// Row and children survive; the quiz just disappears from listings.
	var got models.Quiz
	require.NoError(t, db.First(&got, quiz.ID).Error)
	assert.True(t, got.IsDeleted)
	var questionCount int64
	require.NoError(t, db.Model(&models.Question{}).Where("id = ?", question.ID).Count(&questionCount).Error)
	assert.Equal(t, int64(1), questionCount)

	_, err = svc.getQuiz(quiz.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteQuizDraftIsHard(t *testing.T) {
	db := newTestDB(t)
	contributor := seedUser(t, db, "contributor", models.RoleUser)
	_, chapter := seedChapter(t, db)
	svc := newContentService(db)

	quiz, err := svc.CreateQuiz(contributor.ID, chapter.ID, "مسودة", "")
	require.NoError(t, err)
	addQuestion(t, db, quiz.ID)

	require.NoError(t, svc.DeleteQuiz(contributor.ID, quiz.ID))

	var quizCount, questionCount, optionCount int64
	require.NoError(t, db.Model(&models.Quiz{}).Where("id = ?", quiz.ID).Count(&quizCount).Error)
	require.NoError(t, db.Unscoped().Model(&models.Question{}).Where("quiz_id = ?", quiz.ID).Count(&questionCount).Error)
	require.NoError(t, db.Unscoped().Model(&models.Option{}).Count(&optionCount).Error)
	assert.Equal(t, int64(0), quizCount)
	assert.Equal(t, int64(0), questionCount)
	assert.Equal(t, int64(0), optionCount)
}

func TestDeleteQuizDraftClearsVotesAndReports(t *testing.T) {
	db := newTestDB(t)
	contributor := seedUser(t, db, "contributor", models.RoleUser)
	voter := seedUser(t, db, "voter", models.RoleUser)
	_, chapter := seedChapter(t, db)
	svc := newContentService(db)

	quiz, err := svc.CreateQuiz(contributor.ID, chapter.ID, "مسودة", "")
	require.NoError(t, err)
	addQuestion(t, db, quiz.ID)

	comment := models.QuizComment{QuizID: quiz.ID, UserID: voter.ID, Text: "ملاحظة"}
	require.NoError(t, db.Create(&comment).Error)
	require.NoError(t, db.Create(&models.Vote{
		UserID: voter.ID, QuizID: &quiz.ID, VoteType: models.VoteLike,
	}).Error)
	require.NoError(t, db.Create(&models.Vote{
		UserID: voter.ID, QuizCommentID: &comment.ID, VoteType: models.VoteLike,
	}).Error)
	require.NoError(t, db.Create(&models.Report{
		ReporterUserID: voter.ID, ReportedQuizID: &quiz.ID,
		Reason: models.ReportReasonSpam,
	}).Error)
	require.NoError(t, db.Create(&models.Report{
		ReporterUserID: voter.ID, ReportedQuizCommentID: &comment.ID,
		Reason: models.ReportReasonSpam,
	}).Error)

	require.NoError(t, svc.DeleteQuiz(contributor.ID, quiz.ID))

	// Nothing referencing the quiz or its comments survives the hard delete.
	var voteCount, reportCount int64
	require.NoError(t, db.Model(&models.Vote{}).Count(&voteCount).Error)
	require.NoError(t, db.Unscoped().Model(&models.Report{}).Count(&reportCount).Error)
	assert.Equal(t, int64(0), voteCount)
	assert.Equal(t, int64(0), reportCount)
}

func TestCanvasLifecycleMirrorsQuiz(t *testing.T) {
	db := newTestDB(t)
	contributor := seedUser(t, db, "contributor", models.RoleUser)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	_, chapter := seedChapter(t, db)
	svc := newContentService(db)

	canvas, err := svc.CreateCanvas(contributor.ID, chapter.ID, CanvasInput{
		Title:      "شرح مكتوب",
		CanvasType: models.CanvasTypeText,
		Body:       "المحتوى",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, canvas.Sequence)
	assert.Equal(t, models.StatusDraft, canvas.Status)

	// Canvases submit without a question requirement.
	canvas, err = svc.SubmitCanvas(contributor.ID, canvas.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, canvas.Status)

	canvas, err = svc.RejectCanvas(admin.ID, canvas.ID, "الشرح ناقص")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, canvas.Status)

	canvas, err = svc.SubmitCanvas(contributor.ID, canvas.ID)
	require.NoError(t, err)
	canvas, err = svc.ApproveCanvas(admin.ID, canvas.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, canvas.Status)
	assert.Nil(t, canvas.RejectionReason)

	_, err = svc.UpdateCanvas(contributor.ID, canvas.ID, "عنوان جديد", "")
	assert.ErrorIs(t, err, ErrApprovedLocked)

	require.NoError(t, svc.DeleteCanvas(contributor.ID, canvas.ID))
	var got models.Canvas
	require.NoError(t, db.First(&got, canvas.ID).Error)
	assert.True(t, got.IsDeleted)
}
