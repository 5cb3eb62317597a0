package protocolValidator

import (
	"ascend/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateProtocolRequest is the payload for starting a new protocol
type CreateProtocolRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description"`
}

// CompleteDayRequest carries the day being completed
type CompleteDayRequest struct {
	DayNumber int `json:"day_number" validate:"required,min=1,max=7"`
}

// Create validates the new protocol payload
func Create() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateProtocolRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Title is required (min 3 characters)!", nil)
		}
		c.Locals("validatedProtocol", reqData)
		return c.Next()
	}
}

// CompleteDay validates the day completion payload
func CompleteDay() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CompleteDayRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Day number must be between 1 and 7!", nil)
		}
		c.Locals("validatedCompleteDay", reqData)
		return c.Next()
	}
}

// ProtocolIDParam validates the protocolId path parameter
func ProtocolIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params("protocolId"))
		if raw == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "protocolId is required!", nil)
		}
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid protocolId!", nil)
		}
		c.Locals("protocolID", uint(id))
		return c.Next()
	}
}
