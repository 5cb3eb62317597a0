package learnController

import (
	"ascend/database"
	"ascend/middleware"
	"ascend/services"
	learnValidator "ascend/validators/learn"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// respondServiceError maps engine sentinel errors onto the JSON envelope
func respondServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrLessonNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	case errors.Is(err, services.ErrTacticNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Tactic not found!", nil)
	case errors.Is(err, services.ErrPhaseNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Phase not found!", nil)
	case errors.Is(err, services.ErrNotEnrolled):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this program!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}

// GetGateStatus returns the lesson's gate breakdown for the user. Pure
// read, so the UI can poll it freely.
func GetGateStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(uint)

	gates, err := services.EvaluateGates(database.Database.Db, userID, lessonID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Gate status fetched successfully!", gates)
}

// UpdateVideoProgress records a watch-percent update for the lesson
func UpdateVideoProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(uint)
	reqData, ok := c.Locals("validatedVideoProgress").(*learnValidator.VideoProgressRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := services.UpdateVideoProgress(database.Database.Db, userID, lessonID, reqData.Percent)
	if err != nil {
		return respondServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video progress updated successfully!", result)
}

// CompleteLesson attempts to mark the lesson complete. When gates are
// not met the response carries the full breakdown so the client can
// show which requirement is missing.
func CompleteLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(uint)

	result, err := services.CompleteLesson(database.Database.Db, userID, lessonID)
	if err != nil {
		return respondServiceError(c, err)
	}

	if !result.Completed {
		return middleware.JsonResponse(c, fiber.StatusOK, false, "Completion requirements not met yet!", result)
	}
	if result.AlreadyCompleted {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson was already completed!", result)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson completed successfully!", result)
}

// ToggleTactic toggles a tactic's completion state
func ToggleTactic(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	tacticID := c.Locals("tacticID").(uint)

	result, err := services.ToggleTacticCompletion(database.Database.Db, userID, tacticID)
	if err != nil {
		return respondServiceError(c, err)
	}

	message := "Tactic marked as completed!"
	if !result.Completed {
		message = "Tactic unmarked!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, result)
}

// SubmitAssessment scores an assessment submission for the lesson
func SubmitAssessment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(uint)
	reqData, ok := c.Locals("validatedAssessment").(*learnValidator.AssessmentSubmitRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := services.SubmitAssessment(database.Database.Db, userID, lessonID, reqData.SelectedOptionIDs)
	if err != nil {
		return respondServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment submitted!", result)
}

// GetLessonUnlockStatus reports whether the lesson is currently unlocked
func GetLessonUnlockStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(uint)

	unlocked, err := services.IsLessonUnlocked(database.Database.Db, userID, lessonID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unlock status fetched successfully!", fiber.Map{
		"lesson_id": lessonID,
		"unlocked":  unlocked,
	})
}
