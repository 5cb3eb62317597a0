package learnRoutes

import (
	learnController "ascend/controllers/learn"
	"ascend/middleware"
	learnValidator "ascend/validators/learn"

	"github.com/gofiber/fiber/v2"
)

func SetupLearnRoutes(app *fiber.App) {
	learnGroup := app.Group("/learn", middleware.JWTMiddleware)

	learnGroup.Post("/program/:programId/enroll", learnValidator.IDParam("programId", "programID"), learnController.EnrollInProgram)
	learnGroup.Get("/enrollments", learnController.GetEnrollments)
	learnGroup.Get("/program/:programId", learnValidator.IDParam("programId", "programID"), learnController.GetProgramDetails)
	learnGroup.Get("/program/:programId/progress", learnValidator.IDParam("programId", "programID"), learnController.GetUserProgress)

	learnGroup.Get("/lesson/:lessonId/gates", learnValidator.IDParam("lessonId", "lessonID"), learnController.GetGateStatus)
	learnGroup.Get("/lesson/:lessonId/unlock", learnValidator.IDParam("lessonId", "lessonID"), learnController.GetLessonUnlockStatus)
	learnGroup.Post("/lesson/:lessonId/video", learnValidator.IDParam("lessonId", "lessonID"), learnValidator.VideoProgress(), learnController.UpdateVideoProgress)
	learnGroup.Post("/lesson/:lessonId/complete", learnValidator.IDParam("lessonId", "lessonID"), learnController.CompleteLesson)
	learnGroup.Post("/lesson/:lessonId/assessment", learnValidator.IDParam("lessonId", "lessonID"), learnValidator.AssessmentSubmit(), learnController.SubmitAssessment)

	learnGroup.Post("/tactic/:tacticId/toggle", learnValidator.IDParam("tacticId", "tacticID"), learnController.ToggleTactic)
}
