package catalogController

import (
	"ascend/database"
	"ascend/middleware"
	"ascend/models/catalog"
	catalogValidator "ascend/validators/catalog"

	"github.com/gofiber/fiber/v2"
)

// CreatePhase adds a phase to a program
func CreatePhase(c *fiber.Ctx) error {
	programID := c.Locals("programID").(uint)
	reqData, ok := c.Locals("validatedPhase").(*catalogValidator.PhaseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var program catalog.Program
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", programID, false).First(&program).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found!", nil)
	}

	// Order index must be unique within the program
	var clash catalog.Phase
	if err := database.Database.Db.Where("program_id = ? AND order_index = ? AND is_deleted = ?",
		programID, reqData.OrderIndex, false).First(&clash).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A phase with this order index already exists!", nil)
	}

	phase := catalog.Phase{
		ProgramID:           programID,
		Title:               reqData.Title,
		Description:         reqData.Description,
		OrderIndex:          reqData.OrderIndex,
		Status:              catalog.StatusDraft,
		UnlockAt:            reqData.UnlockAt,
		UnlockOffsetDays:    reqData.UnlockOffsetDays,
		UnlockOffsetHours:   reqData.UnlockOffsetHours,
		PrerequisitePhaseID: reqData.PrerequisitePhaseID,
	}
	if reqData.DripModel != "" {
		phase.DripModel = reqData.DripModel
	}

	if err := database.Database.Db.Create(&phase).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create phase!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Phase created successfully!", phase)
}

// UpdatePhase updates a phase, including its drip configuration
func UpdatePhase(c *fiber.Ctx) error {
	phaseID := c.Locals("phaseID").(uint)
	reqData, ok := c.Locals("validatedPhase").(*catalogValidator.PhaseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var phase catalog.Phase
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", phaseID, false).First(&phase).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Phase not found!", nil)
	}

	phase.Title = reqData.Title
	phase.Description = reqData.Description
	phase.OrderIndex = reqData.OrderIndex
	phase.UnlockAt = reqData.UnlockAt
	phase.UnlockOffsetDays = reqData.UnlockOffsetDays
	phase.UnlockOffsetHours = reqData.UnlockOffsetHours
	phase.PrerequisitePhaseID = reqData.PrerequisitePhaseID
	if reqData.DripModel != "" {
		phase.DripModel = reqData.DripModel
	}

	if err := database.Database.Db.Save(&phase).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update phase!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Phase updated successfully!", phase)
}

// PublishPhase flips a phase to PUBLISHED. The parent program must be
// published first: a child cannot be reachable before its parent.
func PublishPhase(c *fiber.Ctx) error {
	phaseID := c.Locals("phaseID").(uint)

	var phase catalog.Phase
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", phaseID, false).First(&phase).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Phase not found!", nil)
	}

	var program catalog.Program
	if err := database.Database.Db.Where("id = ? AND status = ? AND is_deleted = ?",
		phase.ProgramID, catalog.StatusPublished, false).First(&program).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Publish the parent program first!", nil)
	}

	phase.Status = catalog.StatusPublished
	if err := database.Database.Db.Save(&phase).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish phase!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Phase published successfully!", phase)
}

// GetProgramPhases lists a program's phases for the admin dashboard
func GetProgramPhases(c *fiber.Ctx) error {
	programID := c.Locals("programID").(uint)

	var phases []catalog.Phase
	if err := database.Database.Db.Where("program_id = ? AND is_deleted = ?", programID, false).
		Order("order_index asc").Find(&phases).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch phases!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Phases fetched successfully!", phases)
}
