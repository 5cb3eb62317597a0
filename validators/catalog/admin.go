package catalogValidator

import (
	"ascend/middleware"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ProgramRequest is the admin payload for creating or updating a program
type ProgramRequest struct {
	Title            string `json:"title" validate:"required,min=3"`
	Description      string `json:"description"`
	Author           string `json:"author"`
	ThumbnailURL     string `json:"thumbnail_url"`
	DefaultDripModel string `json:"default_drip_model" validate:"omitempty,oneof=IMMEDIATE CALENDAR RELATIVE PROGRESS"`
}

// PhaseRequest is the admin payload for creating or updating a phase
type PhaseRequest struct {
	Title               string     `json:"title" validate:"required,min=3"`
	Description         string     `json:"description"`
	OrderIndex          int        `json:"order_index" validate:"required,min=1"`
	DripModel           string     `json:"drip_model" validate:"omitempty,oneof=IMMEDIATE CALENDAR RELATIVE PROGRESS INHERIT"`
	UnlockAt            *time.Time `json:"unlock_at"`
	UnlockOffsetDays    int        `json:"unlock_offset_days" validate:"min=0"`
	UnlockOffsetHours   int        `json:"unlock_offset_hours" validate:"min=0"`
	PrerequisitePhaseID *uint      `json:"prerequisite_phase_id"`
}

// LessonRequest is the admin payload for creating or updating a lesson,
// including its gate thresholds and optional drip override
type LessonRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" validate:"required,min=1"`

	VideoURL             string  `json:"video_url"`
	RequiresVideo        bool    `json:"requires_video"`
	RequiredWatchPercent float64 `json:"required_watch_percent" validate:"min=0,max=100"`

	RequiresTacticsComplete bool `json:"requires_tactics_complete"`

	RequiresAssessment     bool `json:"requires_assessment"`
	AssessmentPassingScore int  `json:"assessment_passing_score" validate:"min=0,max=100"`

	DripModel            string     `json:"drip_model" validate:"omitempty,oneof=IMMEDIATE CALENDAR RELATIVE PROGRESS"`
	UnlockAt             *time.Time `json:"unlock_at"`
	UnlockOffsetDays     int        `json:"unlock_offset_days" validate:"min=0"`
	UnlockOffsetHours    int        `json:"unlock_offset_hours" validate:"min=0"`
	PrerequisiteLessonID *uint      `json:"prerequisite_lesson_id"`
}

// TacticRequest is the admin payload for creating or updating a tactic
type TacticRequest struct {
	Title       string `json:"title" validate:"required,min=2"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" validate:"required,min=1"`
	IsRequired  *bool  `json:"is_required"`
}

// OptionRequest is one option inside a question payload
type OptionRequest struct {
	OptionText string `json:"option_text" validate:"required"`
	IsCorrect  bool   `json:"is_correct"`
	OrderIndex int    `json:"order_index"`
}

// QuestionRequest is the admin payload for adding an assessment question
type QuestionRequest struct {
	Question   string          `json:"question" validate:"required,min=3"`
	OrderIndex int             `json:"order_index"`
	Options    []OptionRequest `json:"options" validate:"required,min=2,dive"`
}

// Program validates the program payload
func Program() fiber.Handler {
	return bodyValidator[ProgramRequest]("validatedProgram")
}

// Phase validates the phase payload
func Phase() fiber.Handler {
	return bodyValidator[PhaseRequest]("validatedPhase")
}

// Lesson validates the lesson payload
func Lesson() fiber.Handler {
	return bodyValidator[LessonRequest]("validatedLesson")
}

// Tactic validates the tactic payload
func Tactic() fiber.Handler {
	return bodyValidator[TacticRequest]("validatedTactic")
}

// Question validates the assessment question payload
func Question() fiber.Handler {
	return bodyValidator[QuestionRequest]("validatedQuestion")
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

// bodyValidator parses the request body into T, runs struct validation
// and stores the result in locals
func bodyValidator[T any](localKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			if verrs, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range verrs {
					errors[strings.ToLower(fe.Field())] = "Failed validation: " + fe.Tag()
				}
			} else {
				errors["body"] = err.Error()
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(localKey, reqData)
		return c.Next()
	}
}
