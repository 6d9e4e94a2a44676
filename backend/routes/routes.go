package routes

import (
	"log"

	"sirb_backend/backend/config"
	"sirb_backend/backend/controllers"
	"sirb_backend/backend/middleware"
	"sirb_backend/backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *log.Logger) {
	authz := services.NewAuthzService(db)
	storeLimiter := services.NewStoreRateLimiter(db)
	notifier := services.NewLogNotifier(logger)
	content := services.NewContentService(db, authz, notifier, logger)
	votes := services.NewVoteService(db)
	comments := services.NewCommentService(db, authz, storeLimiter)
	reports := services.NewReportService(db, authz, storeLimiter)
	reorder := services.NewReorderService(db, authz)
	moderators := services.NewModeratorService(db, authz)
	attempts := services.NewAttemptService(db)

	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	auth := app.Group("/api/auth", middleware.AuthRateLimiter())
	auth.Post("/register", authController.Register)
	auth.Post("/login", authController.Login)

	// Taxonomy browse (public) + admin management
	taxonomyController := controllers.NewTaxonomyController(db, reorder)
	app.Get("/api/universities", taxonomyController.GetUniversities)
	app.Get("/api/universities/:universityId/colleges", taxonomyController.GetColleges)
	app.Get("/api/colleges/:collegeId/subjects", taxonomyController.GetSubjects)
	app.Get("/api/subjects/:subjectId/chapters", taxonomyController.GetChapters)

	adminTaxonomy := app.Group("/api/admin", adminMiddleware)
	adminTaxonomy.Post("/universities", taxonomyController.CreateUniversity)
	adminTaxonomy.Put("/universities/:id", taxonomyController.UpdateUniversity)
	adminTaxonomy.Delete("/universities/:id", taxonomyController.DeleteUniversity)
	adminTaxonomy.Post("/colleges", taxonomyController.CreateCollege)
	adminTaxonomy.Put("/colleges/:id", taxonomyController.UpdateCollege)
	adminTaxonomy.Delete("/colleges/:id", taxonomyController.DeleteCollege)
	adminTaxonomy.Post("/subjects", taxonomyController.CreateSubject)
	adminTaxonomy.Put("/subjects/:id", taxonomyController.UpdateSubject)
	adminTaxonomy.Delete("/subjects/:id", taxonomyController.DeleteSubject)
	adminTaxonomy.Post("/chapters", taxonomyController.CreateChapter)
	adminTaxonomy.Put("/chapters/:id", taxonomyController.UpdateChapter)
	adminTaxonomy.Delete("/chapters/:id", taxonomyController.DeleteChapter)

	// Enrollment
	enrollmentController := controllers.NewEnrollmentController(db)
	app.Post("/api/subjects/:subjectId/enroll", authMiddleware, enrollmentController.Enroll)
	app.Delete("/api/subjects/:subjectId/enroll", authMiddleware, enrollmentController.Unenroll)
	app.Get("/api/my/subjects", authMiddleware, enrollmentController.MySubjects)

	// Canvases
	canvasController := controllers.NewCanvasController(db, content)
	voteController := controllers.NewVoteController(votes)
	commentController := controllers.NewCommentController(db, comments)
	canvases := app.Group("/api/canvases", authMiddleware)
	canvases.Post("/", canvasController.CreateCanvas)
	canvases.Get("/:id", canvasController.GetCanvas)
	canvases.Put("/:id", canvasController.UpdateCanvas)
	canvases.Post("/:id/submit", canvasController.SubmitCanvas)
	canvases.Post("/:id/cancel", canvasController.CancelCanvas)
	canvases.Delete("/:id", canvasController.DeleteCanvas)
	canvases.Post("/:id/approve", canvasController.ApproveCanvas)
	canvases.Post("/:id/reject", canvasController.RejectCanvas)
	canvases.Post("/:id/vote", voteController.VoteCanvas)
	canvases.Post("/:id/comments", commentController.AddCanvasComment)
	canvases.Get("/:id/comments", commentController.GetCanvasComments)
	canvases.Delete("/:id/comments/:commentId", commentController.DeleteCanvasComment)
	canvases.Put("/:id/comments/:commentId/flags", commentController.SetCanvasCommentFlags)
	canvases.Post("/:id/comments/:commentId/vote", voteController.VoteCanvasComment)

	// Quizzes
	quizController := controllers.NewQuizController(db, content, attempts)
	quizzes := app.Group("/api/quizzes", authMiddleware)
	quizzes.Post("/", quizController.CreateQuiz)
	quizzes.Get("/:id", quizController.GetQuiz)
	quizzes.Put("/:id", quizController.UpdateQuiz)
	quizzes.Post("/:id/submit", quizController.SubmitQuiz)
	quizzes.Post("/:id/cancel", quizController.CancelQuiz)
	quizzes.Delete("/:id", quizController.DeleteQuiz)
	quizzes.Post("/:id/approve", quizController.ApproveQuiz)
	quizzes.Post("/:id/reject", quizController.RejectQuiz)
	quizzes.Post("/:id/questions", quizController.AddQuestion)
	quizzes.Delete("/:id/questions/:questionId", quizController.DeleteQuestion)
	quizzes.Post("/:id/attempts", quizController.SubmitAnswers)
	quizzes.Get("/:id/attempts", quizController.GetMyAttempts)
	quizzes.Post("/:id/vote", voteController.VoteQuiz)
	quizzes.Post("/:id/comments", commentController.AddQuizComment)
	quizzes.Get("/:id/comments", commentController.GetQuizComments)
	quizzes.Delete("/:id/comments/:commentId", commentController.DeleteQuizComment)
	quizzes.Post("/:id/comments/:commentId/vote", voteController.VoteQuizComment)

	// Chapter content listing + reordering
	app.Get("/api/chapters/:chapterId/canvases", authMiddleware, canvasController.GetChapterCanvases)
	app.Get("/api/chapters/:chapterId/quizzes", authMiddleware, quizController.GetChapterQuizzes)
	app.Post("/api/chapters/:chapterId/canvases/reorder", authMiddleware, taxonomyController.ReorderCanvases)
	app.Post("/api/chapters/:chapterId/quizzes/reorder", authMiddleware, taxonomyController.ReorderQuizzes)

	// Reports
	reportController := controllers.NewReportController(reports)
	app.Post("/api/reports", authMiddleware, reportController.CreateReport)
	adminReports := app.Group("/api/admin/reports", adminMiddleware)
	adminReports.Get("/", reportController.ListReports)
	adminReports.Post("/:id/resolve", reportController.ResolveReport)
	adminReports.Post("/:id/dismiss", reportController.DismissReport)

	// Moderator management
	moderatorController := controllers.NewModeratorController(moderators)
	adminModerators := app.Group("/api/admin/moderators", adminMiddleware)
	adminModerators.Post("/", moderatorController.AssignModerator)
	adminModerators.Delete("/:id/subjects/:subjectId", moderatorController.RemoveModerator)
	adminModerators.Get("/search", moderatorController.SearchUsers)

	// Uploads
	uploadController := controllers.NewUploadController(cfg)
	app.Post("/api/uploads/url", middleware.UploadRateLimiter(), authMiddleware, uploadController.CreateUploadURL)
}
