package learnController

import (
	"ascend/database"
	"ascend/middleware"
	"ascend/models/progress"
	"ascend/services"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// EnrollInProgram enrolls the authenticated user into a published program
func EnrollInProgram(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	programID := c.Locals("programID").(uint)

	enrollment, err := services.Enroll(database.Database.Db, userID, programID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProgramNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found or not published!", nil)
		case errors.Is(err, services.ErrAlreadyEnrolled):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this program!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in program!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in program successfully!", enrollment)
}

// GetEnrollments lists the user's enrollments
func GetEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var enrollments []progress.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", enrollments)
}
