package services

import (
	"ascend/models/catalog"
	"ascend/models/progress"
	"errors"

	"gorm.io/gorm"
)

// ToggleResult is the outcome of a tactic toggle
type ToggleResult struct {
	Completed                bool       `json:"completed"` // state after the toggle
	TacticsCompletedCount    int        `json:"tactics_completed_count"`
	TacticsTotalCount        int        `json:"tactics_total_count"`
	TacticsCompletionPercent float64    `json:"tactics_completion_percent"`
	Gates                    GateStatus `json:"gates"`
}

// ToggleTacticCompletion toggles a tactic: inserts a completion row if
// none exists, deletes it if one does. The owning lesson's tactic
// counters and gate flags are recomputed from scratch in the same
// transaction, so the tactics gate reflects the new count immediately.
func ToggleTacticCompletion(db *gorm.DB, userID, tacticID uint) (ToggleResult, error) {
	var result ToggleResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var tactic catalog.Tactic
		if err := tx.Where("id = ? AND status = ? AND is_deleted = ?",
			tacticID, catalog.StatusPublished, false).First(&tactic).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTacticNotFound
			}
			return err
		}

		var lesson catalog.Lesson
		if err := tx.Where("id = ? AND status = ? AND is_deleted = ?",
			tactic.LessonID, catalog.StatusPublished, false).First(&lesson).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLessonNotFound
			}
			return err
		}

		if err := requireEnrollmentForPhase(tx, userID, lesson.PhaseID); err != nil {
			return err
		}

		// Strict toggle: existing row means uncomplete, absent means complete
		var existing progress.TacticCompletion
		err := tx.Where("user_id = ? AND tactic_id = ?", userID, tacticID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			result.Completed = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			completion := progress.TacticCompletion{
				UserID:   userID,
				TacticID: tacticID,
				LessonID: lesson.ID,
			}
			if err := tx.Create(&completion).Error; err != nil {
				return err
			}
			result.Completed = true
		default:
			return err
		}

		lp, err := getOrCreateLessonProgress(tx, userID, lesson.ID)
		if err != nil {
			return err
		}
		if lp.Status == progress.ProgressNotStarted && result.Completed {
			lp.Status = progress.ProgressInProgress
		}

		gs, err := refreshLessonGates(tx, &lesson, lp)
		if err != nil {
			return err
		}
		result.TacticsCompletedCount = lp.TacticsCompletedCount
		result.TacticsTotalCount = lp.TacticsTotalCount
		result.TacticsCompletionPercent = lp.TacticsCompletionPercent
		result.Gates = gs

		return UpdatePhaseProgress(tx, userID, lesson.PhaseID)
	})

	return result, err
}
