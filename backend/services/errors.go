package services

import "errors"

// Domain errors carry the Arabic message shown to the user. Controllers
// translate them to HTTP statuses; infrastructure failures keep their
// original error text.
var (
	ErrUnauthorized = errors.New("غير مصرح لك بتنفيذ هذا الإجراء")
	ErrNotFound     = errors.New("العنصر المطلوب غير موجود")
	ErrRateLimited  = errors.New("لقد تجاوزت الحد المسموح من المحاولات، حاول مرة أخرى بعد قليل")

	ErrAlreadyReported  = errors.New("لقد قمت بالإبلاغ عن هذا المحتوى من قبل")
	ErrAlreadyModerator = errors.New("هذا المستخدم مشرف على هذه المادة بالفعل")
	ErrAlreadyEnrolled  = errors.New("أنت مسجل في هذه المادة بالفعل")

	ErrNoQuestions     = errors.New("يجب أن يحتوي الاختبار على سؤال واحد على الأقل")
	ErrNotPending      = errors.New("لا يمكن تنفيذ هذا الإجراء إلا للمحتوى قيد المراجعة")
	ErrNotSubmittable  = errors.New("لا يمكن إرسال المحتوى للمراجعة في حالته الحالية")
	ErrApprovedLocked  = errors.New("لا يمكن تعديل محتوى تمت الموافقة عليه")
	ErrReasonRequired  = errors.New("يجب كتابة سبب الرفض")
	ErrReplyToReply    = errors.New("لا يمكن الرد على رد")
	ErrUserBanned      = errors.New("هذا المستخدم محظور")
	ErrInvalidReorder  = errors.New("قائمة الترتيب غير صالحة")
	ErrInvalidVoteType = errors.New("نوع التصويت غير صالح")

	ErrInvalidReportReason = errors.New("سبب الإبلاغ غير صالح")
	ErrInvalidReportStatus = errors.New("حالة الإبلاغ غير صالحة")
	ErrDescriptionTooLong  = errors.New("الوصف أطول من الحد المسموح (500 حرف)")
	ErrTextRequired        = errors.New("نص التعليق مطلوب")
)
