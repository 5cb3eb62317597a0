package protocolController

import (
	"ascend/database"
	"ascend/middleware"
	"ascend/services"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// GetStreak returns the user's streak ledger
func GetStreak(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	streak, err := services.GetStreak(database.Database.Db, userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch streak!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Streak fetched successfully!", streak)
}

// UseSkipToken spends a skip token to protect the streak across a
// missed day
func UseSkipToken(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	result, err := services.UseSkipToken(database.Database.Db, userID)
	if err != nil {
		if errors.Is(err, services.ErrNoSkipTokens) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "No skip tokens available!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to use skip token!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Skip token used!", result)
}
