package catalogRoutes

import (
	catalogController "ascend/controllers/catalog"
	"ascend/middleware"
	catalogValidator "ascend/validators/catalog"

	"github.com/gofiber/fiber/v2"
)

func SetupCatalogRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/catalog", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("catalog:manage"))

	adminGroup.Post("/program", catalogValidator.Program(), catalogController.CreateProgram)
	adminGroup.Get("/programs", catalogController.GetAllPrograms)
	adminGroup.Patch("/program/:programId", catalogValidator.IDParam("programId", "programID"), catalogValidator.Program(), catalogController.UpdateProgram)
	adminGroup.Post("/program/:programId/publish", catalogValidator.IDParam("programId", "programID"), catalogController.PublishProgram)
	adminGroup.Delete("/program/:programId", catalogValidator.IDParam("programId", "programID"), catalogController.DeleteProgram)

	adminGroup.Post("/program/:programId/phase", catalogValidator.IDParam("programId", "programID"), catalogValidator.Phase(), catalogController.CreatePhase)
	adminGroup.Get("/program/:programId/phases", catalogValidator.IDParam("programId", "programID"), catalogController.GetProgramPhases)
	adminGroup.Patch("/phase/:phaseId", catalogValidator.IDParam("phaseId", "phaseID"), catalogValidator.Phase(), catalogController.UpdatePhase)
	adminGroup.Post("/phase/:phaseId/publish", catalogValidator.IDParam("phaseId", "phaseID"), catalogController.PublishPhase)

	adminGroup.Post("/phase/:phaseId/lesson", catalogValidator.IDParam("phaseId", "phaseID"), catalogValidator.Lesson(), catalogController.CreateLesson)
	adminGroup.Get("/phase/:phaseId/lessons", catalogValidator.IDParam("phaseId", "phaseID"), catalogController.GetPhaseLessons)
	adminGroup.Patch("/lesson/:lessonId", catalogValidator.IDParam("lessonId", "lessonID"), catalogValidator.Lesson(), catalogController.UpdateLesson)
	adminGroup.Post("/lesson/:lessonId/publish", catalogValidator.IDParam("lessonId", "lessonID"), catalogController.PublishLesson)

	adminGroup.Post("/lesson/:lessonId/tactic", catalogValidator.IDParam("lessonId", "lessonID"), catalogValidator.Tactic(), catalogController.CreateTactic)
	adminGroup.Get("/lesson/:lessonId/tactics", catalogValidator.IDParam("lessonId", "lessonID"), catalogController.GetLessonTactics)
	adminGroup.Post("/tactic/:tacticId/publish", catalogValidator.IDParam("tacticId", "tacticID"), catalogController.PublishTactic)

	adminGroup.Post("/lesson/:lessonId/question", catalogValidator.IDParam("lessonId", "lessonID"), catalogValidator.Question(), catalogController.AddAssessmentQuestion)
}
