package catalogController

import (
	"ascend/database"
	"ascend/middleware"
	"ascend/models/catalog"
	catalogValidator "ascend/validators/catalog"

	"github.com/gofiber/fiber/v2"
)

// CreateProgram creates a new draft program
func CreateProgram(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedProgram").(*catalogValidator.ProgramRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	program := catalog.Program{
		Title:        reqData.Title,
		Description:  reqData.Description,
		Author:       reqData.Author,
		ThumbnailURL: reqData.ThumbnailURL,
		Status:       catalog.StatusDraft,
	}
	if reqData.DefaultDripModel != "" {
		program.DefaultDripModel = reqData.DefaultDripModel
	}

	if err := database.Database.Db.Create(&program).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create program!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Program created successfully!", program)
}

// UpdateProgram updates an existing program
func UpdateProgram(c *fiber.Ctx) error {
	programID := c.Locals("programID").(uint)
	reqData, ok := c.Locals("validatedProgram").(*catalogValidator.ProgramRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var program catalog.Program
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", programID, false).First(&program).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found!", nil)
	}

	program.Title = reqData.Title
	program.Description = reqData.Description
	program.Author = reqData.Author
	program.ThumbnailURL = reqData.ThumbnailURL
	if reqData.DefaultDripModel != "" {
		program.DefaultDripModel = reqData.DefaultDripModel
	}

	if err := database.Database.Db.Save(&program).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update program!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Program updated successfully!", program)
}

// PublishProgram flips a program to PUBLISHED, making it reachable by learners
func PublishProgram(c *fiber.Ctx) error {
	programID := c.Locals("programID").(uint)

	var program catalog.Program
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", programID, false).First(&program).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found!", nil)
	}

	program.Status = catalog.StatusPublished
	if err := database.Database.Db.Save(&program).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish program!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Program published successfully!", program)
}

// GetAllPrograms lists programs for the admin dashboard, drafts included
func GetAllPrograms(c *fiber.Ctx) error {
	var programs []catalog.Program
	if err := database.Database.Db.Where("is_deleted = ?", false).
		Order("created_at desc").Find(&programs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch programs!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Programs fetched successfully!", programs)
}

// DeleteProgram soft-deletes a program
func DeleteProgram(c *fiber.Ctx) error {
	programID := c.Locals("programID").(uint)

	var program catalog.Program
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", programID, false).First(&program).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found!", nil)
	}

	program.IsDeleted = true
	if err := database.Database.Db.Save(&program).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete program!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Program deleted successfully!", nil)
}
