package protocolController

import (
	"ascend/database"
	"ascend/middleware"
	protocolModels "ascend/models/protocol"
	"ascend/services"
	"ascend/utils"
	protocolValidator "ascend/validators/protocol"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateProtocol starts a new 7-day protocol for the user
func CreateProtocol(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedProtocol").(*protocolValidator.CreateProtocolRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	proto, err := services.CreateProtocol(database.Database.Db, userID, reqData.Title, reqData.Description)
	if err != nil {
		if errors.Is(err, services.ErrActiveProtocolOpen) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You already have an active protocol!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create protocol!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Protocol created successfully!", proto)
}

// GetActiveProtocol returns the user's active protocol with its day
// completions, or an empty payload when none is running
func GetActiveProtocol(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var proto protocolModels.Protocol
	result := database.Database.Db.
		Where("user_id = ? AND status = ? AND is_deleted = ?", userID, protocolModels.StatusActive, false).
		First(&proto)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No active protocol!", nil)
	}

	var completions []protocolModels.ProtocolCompletion
	database.Database.Db.
		Where("protocol_id = ?", proto.ID).
		Order("day_number ASC").
		Find(&completions)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Active protocol fetched successfully!", fiber.Map{
		"protocol":    proto,
		"completions": completions,
	})
}

// GetProtocolHistory lists all of the user's protocols, newest first
func GetProtocolHistory(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var protocols []protocolModels.Protocol
	database.Database.Db.
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at DESC").
		Find(&protocols)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Protocol history fetched successfully!", protocols)
}

// CompleteProtocolDay marks one day of the protocol complete and feeds
// the streak ledger. Milestone awards trigger the congratulation email
// and an analytics event.
func CompleteProtocolDay(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	protocolID := c.Locals("protocolID").(uint)
	reqData, ok := c.Locals("validatedCompleteDay").(*protocolValidator.CompleteDayRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := services.CompleteProtocolDay(database.Database.Db, userID, protocolID, reqData.DayNumber)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProtocolNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Protocol not found!", nil)
		case errors.Is(err, services.ErrProtocolNotActive):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Protocol is not active!", nil)
		case errors.Is(err, services.ErrInvalidDayNumber):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Day number must be between 1 and 7!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete protocol day!", nil)
		}
	}

	if result.Streak.MilestoneAwarded > 0 {
		utils.SendMilestoneEmail(userID, result.Streak.MilestoneAwarded)
		utils.EmitEvent(utils.SinkEvent{
			EventID:   result.Streak.MilestoneEventID,
			EventType: "streak.milestone",
			UserID:    userID,
			Data: map[string]interface{}{
				"milestone":   result.Streak.MilestoneAwarded,
				"protocol_id": protocolID,
			},
		})
	}

	message := fmt.Sprintf("Day %d completed!", result.DayNumber)
	if result.AlreadyCompleted {
		message = fmt.Sprintf("Day %d was already completed!", result.DayNumber)
	} else if result.ProtocolCompleted {
		message = "Protocol completed, well done!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, result)
}

// PauseProtocol pauses the user's protocol
func PauseProtocol(c *fiber.Ctx) error {
	return changeProtocolStatus(c, services.PauseProtocol, "Protocol paused!")
}

// ResumeProtocol resumes a paused protocol
func ResumeProtocol(c *fiber.Ctx) error {
	return changeProtocolStatus(c, services.ResumeProtocol, "Protocol resumed!")
}

// AbandonProtocol abandons the user's protocol
func AbandonProtocol(c *fiber.Ctx) error {
	return changeProtocolStatus(c, services.AbandonProtocol, "Protocol abandoned!")
}

func changeProtocolStatus(c *fiber.Ctx, fn func(*gorm.DB, uint, uint) error, successMsg string) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	protocolID := c.Locals("protocolID").(uint)

	if err := fn(database.Database.Db, userID, protocolID); err != nil {
		switch {
		case errors.Is(err, services.ErrProtocolNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Protocol not found!", nil)
		case errors.Is(err, services.ErrProtocolTerminal):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Protocol is already completed or expired!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update protocol!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, successMsg, nil)
}

// TriggerProtocolAdvancement runs the daily advancement batch on
// demand. Admin only, intended for support and testing.
func TriggerProtocolAdvancement(c *fiber.Ctx) error {
	summary := utils.RunProtocolAdvancement()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Protocol advancement completed!", summary)
}
