package learnController

import (
	"ascend/database"
	"ascend/middleware"
	"ascend/models/catalog"
	"ascend/models/progress"
	"ascend/services"

	"github.com/gofiber/fiber/v2"
)

// PhaseNode is a phase with its lessons and the lazily evaluated unlock
// state for the requesting user
type PhaseNode struct {
	catalog.Phase
	Unlocked bool         `json:"unlocked"`
	Progress *progress.PhaseProgress `json:"progress,omitempty"`
	Lessons  []LessonNode `json:"lessons"`
}

// LessonNode is a lesson with its unlock state and the user's progress
type LessonNode struct {
	catalog.Lesson
	Unlocked bool                     `json:"unlocked"`
	Progress *progress.LessonProgress `json:"progress,omitempty"`
}

// GetProgramDetails returns the published program tree with per-node
// unlock flags. Unlock state is computed on read so CALENDAR and
// RELATIVE drips always reflect the current clock.
func GetProgramDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	programID := c.Locals("programID").(uint)
	db := database.Database.Db

	var program catalog.Program
	if err := db.Where("id = ? AND status = ? AND is_deleted = ?",
		programID, catalog.StatusPublished, false).First(&program).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found!", nil)
	}

	var enrollment progress.Enrollment
	isEnrolled := db.Where("user_id = ? AND program_id = ? AND is_deleted = ?",
		userID, programID, false).First(&enrollment).Error == nil

	var phases []catalog.Phase
	db.Where("program_id = ? AND status = ? AND is_deleted = ?",
		programID, catalog.StatusPublished, false).
		Order("order_index asc").Find(&phases)

	tree := make([]PhaseNode, 0, len(phases))
	for _, phase := range phases {
		node := PhaseNode{Phase: phase}

		unlocked, err := services.IsPhaseUnlocked(db, userID, phase.ID)
		if err == nil {
			node.Unlocked = unlocked
		}

		var pp progress.PhaseProgress
		if err := db.Where("user_id = ? AND phase_id = ?", userID, phase.ID).First(&pp).Error; err == nil {
			node.Progress = &pp
		}

		var lessons []catalog.Lesson
		db.Where("phase_id = ? AND status = ? AND is_deleted = ?",
			phase.ID, catalog.StatusPublished, false).
			Order("order_index asc").Find(&lessons)

		node.Lessons = make([]LessonNode, 0, len(lessons))
		for _, lesson := range lessons {
			ln := LessonNode{Lesson: lesson}
			if node.Unlocked {
				lessonUnlocked, err := services.IsLessonUnlocked(db, userID, lesson.ID)
				if err == nil {
					ln.Unlocked = lessonUnlocked
				}
			}
			var lp progress.LessonProgress
			if err := db.Where("user_id = ? AND lesson_id = ?", userID, lesson.ID).First(&lp).Error; err == nil {
				ln.Progress = &lp
			}
			node.Lessons = append(node.Lessons, ln)
		}
		tree = append(tree, node)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Program details fetched successfully!", fiber.Map{
		"program":     program,
		"phases":      tree,
		"is_enrolled": isEnrolled,
		"enrollment":  enrollment,
	})
}

// GetUserProgress returns the user's enrollment with per-phase progress
func GetUserProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	programID := c.Locals("programID").(uint)
	db := database.Database.Db

	var enrollment progress.Enrollment
	if err := db.Where("user_id = ? AND program_id = ? AND is_deleted = ?",
		userID, programID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this program!", nil)
	}

	var phaseProgress []progress.PhaseProgress
	db.Joins("JOIN phases ON phase_progresses.phase_id = phases.id").
		Where("phase_progresses.user_id = ? AND phases.program_id = ?", userID, programID).
		Order("phases.order_index asc").
		Find(&phaseProgress)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment":     enrollment,
		"phase_progress": phaseProgress,
	})
}
