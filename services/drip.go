package services

import (
	"ascend/models/catalog"
	"ascend/models/progress"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Drip rules are evaluated lazily on read rather than precomputed,
// because unlock state depends on wall clock for the CALENDAR and
// RELATIVE models and must always reflect "now".

// IsPhaseUnlocked reports whether a phase is currently unlocked for the
// user. An enrollment in the owning program is a hard precondition
// checked before any drip logic.
func IsPhaseUnlocked(db *gorm.DB, userID, phaseID uint) (bool, error) {
	return IsPhaseUnlockedAt(db, userID, phaseID, time.Now())
}

// IsPhaseUnlockedAt is the clock-injected variant of IsPhaseUnlocked
func IsPhaseUnlockedAt(db *gorm.DB, userID, phaseID uint, now time.Time) (bool, error) {
	var phase catalog.Phase
	if err := db.Where("id = ? AND status = ? AND is_deleted = ?",
		phaseID, catalog.StatusPublished, false).First(&phase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrPhaseNotFound
		}
		return false, err
	}

	enrollment, err := activeEnrollment(db, userID, phase.ProgramID)
	if err != nil {
		return false, err
	}
	if enrollment == nil {
		// No active or completed enrollment: always locked
		return false, nil
	}

	model := phase.DripModel
	if model == catalog.DripInherit || model == "" {
		var program catalog.Program
		if err := db.Where("id = ?", phase.ProgramID).First(&program).Error; err != nil {
			return false, err
		}
		model = program.DefaultDripModel
		if model == "" {
			model = catalog.DripImmediate
		}
	}

	switch model {
	case catalog.DripImmediate:
		return true, nil
	case catalog.DripCalendar:
		return phase.UnlockAt == nil || !now.Before(*phase.UnlockAt), nil
	case catalog.DripRelative:
		unlockTime := enrollment.EnrolledAt.
			AddDate(0, 0, phase.UnlockOffsetDays).
			Add(time.Duration(phase.UnlockOffsetHours) * time.Hour)
		return !now.Before(unlockTime), nil
	case catalog.DripProgress:
		if phase.OrderIndex <= 1 || phase.PrerequisitePhaseID == nil {
			return true, nil
		}
		return phaseCompleted(db, userID, *phase.PrerequisitePhaseID)
	default:
		return true, nil
	}
}

// IsLessonUnlocked reports whether a lesson is currently unlocked. The
// owning phase must be unlocked first; a lesson without its own drip
// override follows the default rule: the first lesson unlocks with the
// phase, every later lesson requires the previous lesson by order index
// to be completed.
func IsLessonUnlocked(db *gorm.DB, userID, lessonID uint) (bool, error) {
	return IsLessonUnlockedAt(db, userID, lessonID, time.Now())
}

// IsLessonUnlockedAt is the clock-injected variant of IsLessonUnlocked
func IsLessonUnlockedAt(db *gorm.DB, userID, lessonID uint, now time.Time) (bool, error) {
	var lesson catalog.Lesson
	if err := db.Where("id = ? AND status = ? AND is_deleted = ?",
		lessonID, catalog.StatusPublished, false).First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrLessonNotFound
		}
		return false, err
	}

	phaseUnlocked, err := IsPhaseUnlockedAt(db, userID, lesson.PhaseID, now)
	if err != nil {
		return false, err
	}
	if !phaseUnlocked {
		return false, nil
	}

	if lesson.DripModel != "" {
		return lessonOverrideUnlocked(db, userID, &lesson, now)
	}

	// Default rule: sequential by order index within the phase
	if lesson.OrderIndex <= 1 {
		return true, nil
	}
	var prev catalog.Lesson
	err = db.Where("phase_id = ? AND order_index < ? AND status = ? AND is_deleted = ?",
		lesson.PhaseID, lesson.OrderIndex, catalog.StatusPublished, false).
		Order("order_index desc").First(&prev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Gaps in the ordering: nothing published before this lesson
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return lessonCompleted(db, userID, prev.ID)
}

// lessonOverrideUnlocked evaluates a lesson's own drip override, same
// vocabulary as the phase but scoped to a prerequisite lesson
func lessonOverrideUnlocked(db *gorm.DB, userID uint, lesson *catalog.Lesson, now time.Time) (bool, error) {
	switch lesson.DripModel {
	case catalog.DripImmediate:
		return true, nil
	case catalog.DripCalendar:
		return lesson.UnlockAt == nil || !now.Before(*lesson.UnlockAt), nil
	case catalog.DripRelative:
		var phase catalog.Phase
		if err := db.Where("id = ?", lesson.PhaseID).First(&phase).Error; err != nil {
			return false, err
		}
		enrollment, err := activeEnrollment(db, userID, phase.ProgramID)
		if err != nil {
			return false, err
		}
		if enrollment == nil {
			return false, nil
		}
		unlockTime := enrollment.EnrolledAt.
			AddDate(0, 0, lesson.UnlockOffsetDays).
			Add(time.Duration(lesson.UnlockOffsetHours) * time.Hour)
		return !now.Before(unlockTime), nil
	case catalog.DripProgress:
		if lesson.OrderIndex <= 1 || lesson.PrerequisiteLessonID == nil {
			return true, nil
		}
		return lessonCompleted(db, userID, *lesson.PrerequisiteLessonID)
	default:
		return true, nil
	}
}

// activeEnrollment returns the user's ACTIVE or COMPLETED enrollment for
// a program, or nil when there is none
func activeEnrollment(db *gorm.DB, userID, programID uint) (*progress.Enrollment, error) {
	var enrollment progress.Enrollment
	err := db.Where("user_id = ? AND program_id = ? AND is_deleted = ? AND status IN ?",
		userID, programID, false,
		[]string{progress.EnrollmentActive, progress.EnrollmentCompleted}).
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func phaseCompleted(db *gorm.DB, userID, phaseID uint) (bool, error) {
	var pp progress.PhaseProgress
	err := db.Where("user_id = ? AND phase_id = ? AND status = ?",
		userID, phaseID, progress.ProgressCompleted).First(&pp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func lessonCompleted(db *gorm.DB, userID, lessonID uint) (bool, error) {
	var lp progress.LessonProgress
	err := db.Where("user_id = ? AND lesson_id = ? AND status = ?",
		userID, lessonID, progress.ProgressCompleted).First(&lp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}
