package services

import (
	"ascend/models/catalog"
	"ascend/models/progress"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Enroll creates the (user, program) enrollment row and seeds a LOCKED
// PhaseProgress row per published phase. The enrollment timestamp is the
// origin for RELATIVE drip offsets.
func Enroll(db *gorm.DB, userID, programID uint) (*progress.Enrollment, error) {
	var enrollment progress.Enrollment

	err := db.Transaction(func(tx *gorm.DB) error {
		var program catalog.Program
		if err := tx.Where("id = ? AND status = ? AND is_deleted = ?",
			programID, catalog.StatusPublished, false).First(&program).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProgramNotFound
			}
			return err
		}

		var existing progress.Enrollment
		if err := tx.Where("user_id = ? AND program_id = ? AND is_deleted = ?",
			userID, programID, false).First(&existing).Error; err == nil {
			return ErrAlreadyEnrolled
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		enrollment = progress.Enrollment{
			UserID:     userID,
			ProgramID:  programID,
			Status:     progress.EnrollmentActive,
			EnrolledAt: time.Now(),
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}

		var phases []catalog.Phase
		if err := tx.Where("program_id = ? AND status = ? AND is_deleted = ?",
			programID, catalog.StatusPublished, false).
			Order("order_index asc").Find(&phases).Error; err != nil {
			return err
		}
		for _, phase := range phases {
			pp := progress.PhaseProgress{
				UserID:  userID,
				PhaseID: phase.ID,
				Status:  progress.ProgressLocked,
			}
			if err := tx.Create(&pp).Error; err != nil {
				return err
			}
		}

		return UpdateEnrollmentProgress(tx, userID, programID)
	})
	if err != nil {
		return nil, err
	}

	// Reload to pick up the counters written by the cascade
	if err := db.Where("id = ?", enrollment.ID).First(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}
