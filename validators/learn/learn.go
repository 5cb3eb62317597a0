package learnValidator

import (
	"ascend/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// VideoProgressRequest carries a watch-percent update
type VideoProgressRequest struct {
	Percent float64 `json:"percent" validate:"min=0,max=100"`
}

// AssessmentSubmitRequest carries the selected option ids for a submission
type AssessmentSubmitRequest struct {
	SelectedOptionIDs []uint `json:"selected_option_ids" validate:"required,min=1"`
}

// VideoProgress validates the video progress payload
func VideoProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(VideoProgressRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Percent must be between 0 and 100!", nil)
		}
		c.Locals("validatedVideoProgress", reqData)
		return c.Next()
	}
}

// AssessmentSubmit validates the assessment submission payload
func AssessmentSubmit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AssessmentSubmitRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "At least one selected option is required!", nil)
		}
		c.Locals("validatedAssessment", reqData)
		return c.Next()
	}
}

// IDParam validates a numeric path parameter and stores it in locals
// under localKey
func IDParam(param, localKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params(param))
		if raw == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, param+" is required!", nil)
		}
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+param+"!", nil)
		}
		c.Locals(localKey, uint(id))
		return c.Next()
	}
}
