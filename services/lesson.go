package services

import (
	"ascend/models/catalog"
	"ascend/models/progress"
	"errors"
	"time"

	"gorm.io/gorm"
)

// CompleteLessonResult is the outcome of a completion attempt. When the
// gates are not met, Completed is false and Gates carries the breakdown
// so the caller can tell the user which requirement is missing.
type CompleteLessonResult struct {
	Completed        bool       `json:"completed"`
	AlreadyCompleted bool       `json:"already_completed"`
	Gates            GateStatus `json:"gates"`
}

// VideoProgressResult is the outcome of a video progress update
type VideoProgressResult struct {
	VideoWatchedPercent float64    `json:"video_watched_percent"`
	Gates               GateStatus `json:"gates"`
}

// CompleteLesson re-evaluates the gates and, when all applicable gates
// are met, marks the lesson completed and cascades the recount up
// through phase and enrollment. Idempotent: a lesson already completed
// is not re-stamped. Gates not met performs no mutation.
func CompleteLesson(db *gorm.DB, userID, lessonID uint) (CompleteLessonResult, error) {
	var result CompleteLessonResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var lesson catalog.Lesson
		if err := tx.Where("id = ? AND status = ? AND is_deleted = ?",
			lessonID, catalog.StatusPublished, false).First(&lesson).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLessonNotFound
			}
			return err
		}

		if err := requireEnrollmentForPhase(tx, userID, lesson.PhaseID); err != nil {
			return err
		}

		lp, err := getOrCreateLessonProgress(tx, userID, lessonID)
		if err != nil {
			return err
		}

		gs, err := refreshLessonGates(tx, &lesson, lp)
		if err != nil {
			return err
		}
		result.Gates = gs

		if !gs.AllMet {
			// Precondition failure: structured result, no mutation of
			// completion state
			return nil
		}

		if lp.Status == progress.ProgressCompleted {
			result.Completed = true
			result.AlreadyCompleted = true
			return nil
		}

		now := time.Now()
		lp.Status = progress.ProgressCompleted
		lp.CompletedAt = &now
		if err := tx.Save(lp).Error; err != nil {
			return err
		}
		result.Completed = true

		return UpdatePhaseProgress(tx, userID, lesson.PhaseID)
	})

	return result, err
}

// UpdateVideoProgress records a watch-percent gauge update. The stored
// percent never decreases, so gate state is monotonic while inputs only
// grow. Refreshes the gate flags immediately.
func UpdateVideoProgress(db *gorm.DB, userID, lessonID uint, percent float64) (VideoProgressResult, error) {
	var result VideoProgressResult

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var lesson catalog.Lesson
		if err := tx.Where("id = ? AND status = ? AND is_deleted = ?",
			lessonID, catalog.StatusPublished, false).First(&lesson).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLessonNotFound
			}
			return err
		}

		if err := requireEnrollmentForPhase(tx, userID, lesson.PhaseID); err != nil {
			return err
		}

		lp, err := getOrCreateLessonProgress(tx, userID, lessonID)
		if err != nil {
			return err
		}

		if percent > lp.VideoWatchedPercent {
			lp.VideoWatchedPercent = percent
		}
		if lp.Status == progress.ProgressNotStarted {
			lp.Status = progress.ProgressInProgress
		}

		gs, err := refreshLessonGates(tx, &lesson, lp)
		if err != nil {
			return err
		}
		result.VideoWatchedPercent = lp.VideoWatchedPercent
		result.Gates = gs

		return UpdatePhaseProgress(tx, userID, lesson.PhaseID)
	})

	return result, err
}

// UpdatePhaseProgress recounts completed-vs-total published lessons for
// a phase and updates the derived PhaseProgress row, then cascades into
// the enrollment recount. Safe to re-run; the completion timestamp is
// only stamped on the transition into COMPLETED.
func UpdatePhaseProgress(tx *gorm.DB, userID, phaseID uint) error {
	var phase catalog.Phase
	if err := tx.Where("id = ? AND is_deleted = ?", phaseID, false).First(&phase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPhaseNotFound
		}
		return err
	}

	var total int64
	if err := tx.Model(&catalog.Lesson{}).
		Where("phase_id = ? AND status = ? AND is_deleted = ?", phaseID, catalog.StatusPublished, false).
		Count(&total).Error; err != nil {
		return err
	}

	var completed int64
	if err := lessonProgressInPhase(tx, userID, phaseID).
		Where("lesson_progresses.status = ?", progress.ProgressCompleted).
		Count(&completed).Error; err != nil {
		return err
	}

	var started int64
	if err := lessonProgressInPhase(tx, userID, phaseID).
		Where("lesson_progresses.status IN ?", []string{progress.ProgressInProgress, progress.ProgressCompleted}).
		Count(&started).Error; err != nil {
		return err
	}

	var pp progress.PhaseProgress
	err := tx.Where("user_id = ? AND phase_id = ?", userID, phaseID).First(&pp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pp = progress.PhaseProgress{UserID: userID, PhaseID: phaseID, Status: progress.ProgressNotStarted}
		if err := tx.Create(&pp).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	pp.TotalLessons = int(total)
	pp.CompletedLessons = int(completed)
	if total > 0 {
		pp.ProgressPercent = float64(completed) / float64(total) * 100
	} else {
		pp.ProgressPercent = 0
	}

	switch {
	case total > 0 && completed >= total:
		if pp.Status != progress.ProgressCompleted {
			now := time.Now()
			pp.CompletedAt = &now
		}
		pp.Status = progress.ProgressCompleted
	case started > 0:
		pp.Status = progress.ProgressInProgress
	case pp.Status == progress.ProgressLocked:
		// Leave locked rows alone until the learner actually starts
	default:
		pp.Status = progress.ProgressNotStarted
	}

	if err := tx.Save(&pp).Error; err != nil {
		return err
	}

	return UpdateEnrollmentProgress(tx, userID, phase.ProgramID)
}

// UpdateEnrollmentProgress recounts the program-level denormalized
// counters on the enrollment row. Enrollment flips to COMPLETED when all
// required phases are complete; never hard-deleted, never un-completed.
func UpdateEnrollmentProgress(tx *gorm.DB, userID, programID uint) error {
	var enrollment progress.Enrollment
	if err := tx.Where("user_id = ? AND program_id = ? AND is_deleted = ?",
		userID, programID, false).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotEnrolled
		}
		return err
	}

	var totalPhases int64
	if err := tx.Model(&catalog.Phase{}).
		Where("program_id = ? AND status = ? AND is_deleted = ?", programID, catalog.StatusPublished, false).
		Count(&totalPhases).Error; err != nil {
		return err
	}

	var completedPhases int64
	if err := tx.Model(&progress.PhaseProgress{}).
		Joins("JOIN phases ON phase_progresses.phase_id = phases.id").
		Where("phase_progresses.user_id = ? AND phase_progresses.status = ?", userID, progress.ProgressCompleted).
		Where("phases.program_id = ? AND phases.status = ? AND phases.is_deleted = ?",
			programID, catalog.StatusPublished, false).
		Count(&completedPhases).Error; err != nil {
		return err
	}

	var totalLessons int64
	if err := tx.Model(&catalog.Lesson{}).
		Joins("JOIN phases ON lessons.phase_id = phases.id").
		Where("phases.program_id = ? AND phases.status = ? AND phases.is_deleted = ?",
			programID, catalog.StatusPublished, false).
		Where("lessons.status = ? AND lessons.is_deleted = ?", catalog.StatusPublished, false).
		Count(&totalLessons).Error; err != nil {
		return err
	}

	var completedLessons int64
	if err := tx.Model(&progress.LessonProgress{}).
		Joins("JOIN lessons ON lesson_progresses.lesson_id = lessons.id").
		Joins("JOIN phases ON lessons.phase_id = phases.id").
		Where("lesson_progresses.user_id = ? AND lesson_progresses.status = ?", userID, progress.ProgressCompleted).
		Where("phases.program_id = ? AND phases.status = ? AND phases.is_deleted = ?",
			programID, catalog.StatusPublished, false).
		Where("lessons.status = ? AND lessons.is_deleted = ?", catalog.StatusPublished, false).
		Count(&completedLessons).Error; err != nil {
		return err
	}

	enrollment.TotalPhases = int(totalPhases)
	enrollment.CompletedPhases = int(completedPhases)
	enrollment.TotalLessons = int(totalLessons)
	enrollment.CompletedLessons = int(completedLessons)
	if totalLessons > 0 {
		enrollment.ProgressPercent = float64(completedLessons) / float64(totalLessons) * 100
	} else {
		enrollment.ProgressPercent = 0
	}

	if totalPhases > 0 && completedPhases >= totalPhases && enrollment.Status != progress.EnrollmentCompleted {
		now := time.Now()
		enrollment.Status = progress.EnrollmentCompleted
		enrollment.CompletedAt = &now
	}

	return tx.Save(&enrollment).Error
}

// lessonProgressInPhase scopes LessonProgress rows to published lessons
// under one phase for a user
func lessonProgressInPhase(tx *gorm.DB, userID, phaseID uint) *gorm.DB {
	return tx.Model(&progress.LessonProgress{}).
		Joins("JOIN lessons ON lesson_progresses.lesson_id = lessons.id").
		Where("lesson_progresses.user_id = ?", userID).
		Where("lessons.phase_id = ? AND lessons.status = ? AND lessons.is_deleted = ?",
			phaseID, catalog.StatusPublished, false)
}

// requireEnrollmentForPhase resolves the phase's program and checks the
// user holds an active or completed enrollment for it
func requireEnrollmentForPhase(tx *gorm.DB, userID, phaseID uint) error {
	var phase catalog.Phase
	if err := tx.Where("id = ? AND is_deleted = ?", phaseID, false).First(&phase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPhaseNotFound
		}
		return err
	}
	var enrollment progress.Enrollment
	err := tx.Where("user_id = ? AND program_id = ? AND is_deleted = ?",
		userID, phase.ProgramID, false).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotEnrolled
	}
	return err
}
