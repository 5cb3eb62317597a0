package protocolRoutes

import (
	protocolController "ascend/controllers/protocol"
	"ascend/middleware"
	protocolValidator "ascend/validators/protocol"

	"github.com/gofiber/fiber/v2"
)

func SetupProtocolRoutes(app *fiber.App) {
	protocolGroup := app.Group("/protocol", middleware.JWTMiddleware)

	protocolGroup.Post("/", protocolValidator.Create(), protocolController.CreateProtocol)
	protocolGroup.Get("/active", protocolController.GetActiveProtocol)
	protocolGroup.Get("/history", protocolController.GetProtocolHistory)
	protocolGroup.Post("/:protocolId/complete", protocolValidator.ProtocolIDParam(), protocolValidator.CompleteDay(), protocolController.CompleteProtocolDay)
	protocolGroup.Post("/:protocolId/pause", protocolValidator.ProtocolIDParam(), protocolController.PauseProtocol)
	protocolGroup.Post("/:protocolId/resume", protocolValidator.ProtocolIDParam(), protocolController.ResumeProtocol)
	protocolGroup.Post("/:protocolId/abandon", protocolValidator.ProtocolIDParam(), protocolController.AbandonProtocol)

	protocolGroup.Get("/streak", protocolController.GetStreak)
	protocolGroup.Post("/streak/skip-token", protocolController.UseSkipToken)

	adminGroup := app.Group("/admin/protocol", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("protocol:manage"))
	adminGroup.Post("/advance", protocolController.TriggerProtocolAdvancement)
}
