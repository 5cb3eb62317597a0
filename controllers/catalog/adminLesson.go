package catalogController

import (
	"ascend/database"
	"ascend/middleware"
	"ascend/models/catalog"
	catalogValidator "ascend/validators/catalog"

	"github.com/gofiber/fiber/v2"
)

// CreateLesson adds a lesson to a phase with its gating configuration
func CreateLesson(c *fiber.Ctx) error {
	phaseID := c.Locals("phaseID").(uint)
	reqData, ok := c.Locals("validatedLesson").(*catalogValidator.LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var phase catalog.Phase
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", phaseID, false).First(&phase).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Phase not found!", nil)
	}

	var clash catalog.Lesson
	if err := database.Database.Db.Where("phase_id = ? AND order_index = ? AND is_deleted = ?",
		phaseID, reqData.OrderIndex, false).First(&clash).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A lesson with this order index already exists!", nil)
	}

	lesson := catalog.Lesson{
		PhaseID:     phaseID,
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  reqData.OrderIndex,
		Status:      catalog.StatusDraft,

		VideoURL:      reqData.VideoURL,
		RequiresVideo: reqData.RequiresVideo,

		RequiresTacticsComplete: reqData.RequiresTacticsComplete,
		RequiresAssessment:      reqData.RequiresAssessment,

		DripModel:            reqData.DripModel,
		UnlockAt:             reqData.UnlockAt,
		UnlockOffsetDays:     reqData.UnlockOffsetDays,
		UnlockOffsetHours:    reqData.UnlockOffsetHours,
		PrerequisiteLessonID: reqData.PrerequisiteLessonID,
	}
	if reqData.RequiredWatchPercent > 0 {
		lesson.RequiredWatchPercent = reqData.RequiredWatchPercent
	}
	if reqData.AssessmentPassingScore > 0 {
		lesson.AssessmentPassingScore = reqData.AssessmentPassingScore
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson created successfully!", lesson)
}

// UpdateLesson updates a lesson's content, gates and drip override
func UpdateLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(uint)
	reqData, ok := c.Locals("validatedLesson").(*catalogValidator.LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var lesson catalog.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	lesson.Title = reqData.Title
	lesson.Description = reqData.Description
	lesson.OrderIndex = reqData.OrderIndex
	lesson.VideoURL = reqData.VideoURL
	lesson.RequiresVideo = reqData.RequiresVideo
	lesson.RequiresTacticsComplete = reqData.RequiresTacticsComplete
	lesson.RequiresAssessment = reqData.RequiresAssessment
	lesson.DripModel = reqData.DripModel
	lesson.UnlockAt = reqData.UnlockAt
	lesson.UnlockOffsetDays = reqData.UnlockOffsetDays
	lesson.UnlockOffsetHours = reqData.UnlockOffsetHours
	lesson.PrerequisiteLessonID = reqData.PrerequisiteLessonID
	if reqData.RequiredWatchPercent > 0 {
		lesson.RequiredWatchPercent = reqData.RequiredWatchPercent
	}
	if reqData.AssessmentPassingScore > 0 {
		lesson.AssessmentPassingScore = reqData.AssessmentPassingScore
	}

	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

// PublishLesson flips a lesson to PUBLISHED; the parent phase must be
// published first
func PublishLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(uint)

	var lesson catalog.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var phase catalog.Phase
	if err := database.Database.Db.Where("id = ? AND status = ? AND is_deleted = ?",
		lesson.PhaseID, catalog.StatusPublished, false).First(&phase).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Publish the parent phase first!", nil)
	}

	lesson.Status = catalog.StatusPublished
	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson published successfully!", lesson)
}

// GetPhaseLessons lists a phase's lessons for the admin dashboard
func GetPhaseLessons(c *fiber.Ctx) error {
	phaseID := c.Locals("phaseID").(uint)

	var lessons []catalog.Lesson
	if err := database.Database.Db.Where("phase_id = ? AND is_deleted = ?", phaseID, false).
		Order("order_index asc").Find(&lessons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", lessons)
}
