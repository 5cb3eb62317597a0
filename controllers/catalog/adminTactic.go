package catalogController

import (
	"ascend/database"
	"ascend/middleware"
	"ascend/models/catalog"
	catalogValidator "ascend/validators/catalog"

	"github.com/gofiber/fiber/v2"
)

// CreateTactic adds an action-item tactic to a lesson
func CreateTactic(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(uint)
	reqData, ok := c.Locals("validatedTactic").(*catalogValidator.TacticRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var lesson catalog.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var clash catalog.Tactic
	if err := database.Database.Db.Where("lesson_id = ? AND order_index = ? AND is_deleted = ?",
		lessonID, reqData.OrderIndex, false).First(&clash).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A tactic with this order index already exists!", nil)
	}

	tactic := catalog.Tactic{
		LessonID:    lessonID,
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  reqData.OrderIndex,
		Status:      catalog.StatusDraft,
		IsRequired:  true,
	}
	if reqData.IsRequired != nil {
		tactic.IsRequired = *reqData.IsRequired
	}

	if err := database.Database.Db.Create(&tactic).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create tactic!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tactic created successfully!", tactic)
}

// PublishTactic flips a tactic to PUBLISHED; the parent lesson must be
// published first
func PublishTactic(c *fiber.Ctx) error {
	tacticID := c.Locals("tacticID").(uint)

	var tactic catalog.Tactic
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", tacticID, false).First(&tactic).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Tactic not found!", nil)
	}

	var lesson catalog.Lesson
	if err := database.Database.Db.Where("id = ? AND status = ? AND is_deleted = ?",
		tactic.LessonID, catalog.StatusPublished, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Publish the parent lesson first!", nil)
	}

	tactic.Status = catalog.StatusPublished
	if err := database.Database.Db.Save(&tactic).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish tactic!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tactic published successfully!", tactic)
}

// AddAssessmentQuestion adds a question with its options to a lesson's
// assessment
func AddAssessmentQuestion(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(uint)
	reqData, ok := c.Locals("validatedQuestion").(*catalogValidator.QuestionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var lesson catalog.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	hasCorrect := false
	for _, opt := range reqData.Options {
		if opt.IsCorrect {
			hasCorrect = true
			break
		}
	}
	if !hasCorrect {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "At least one option must be correct!", nil)
	}

	question := catalog.AssessmentQuestion{
		LessonID:   lessonID,
		Question:   reqData.Question,
		OrderIndex: reqData.OrderIndex,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&question).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question!", nil)
	}
	for _, opt := range reqData.Options {
		option := catalog.AssessmentOption{
			QuestionID: question.ID,
			OptionText: opt.OptionText,
			IsCorrect:  opt.IsCorrect,
			OrderIndex: opt.OrderIndex,
		}
		if err := tx.Create(&option).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question options!", nil)
		}
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment question added successfully!", question)
}

// GetLessonTactics lists a lesson's tactics for the admin dashboard
func GetLessonTactics(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(uint)

	var tactics []catalog.Tactic
	if err := database.Database.Db.Where("lesson_id = ? AND is_deleted = ?", lessonID, false).
		Order("order_index asc").Find(&tactics).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tactics!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tactics fetched successfully!", tactics)
}
