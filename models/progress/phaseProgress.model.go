package progress

import (
	"time"

	"gorm.io/gorm"
)

// Phase/lesson progress status values
const (
	ProgressLocked     = "LOCKED"
	ProgressNotStarted = "NOT_STARTED"
	ProgressInProgress = "IN_PROGRESS"
	ProgressCompleted  = "COMPLETED"
)

// PhaseProgress is one row per (user, phase). Derived, not authoritative:
// always recomputable from LessonProgress rows.
type PhaseProgress struct {
	gorm.Model
	UserID  uint `json:"user_id" gorm:"index;not null;uniqueIndex:idx_user_phase"`
	PhaseID uint `json:"phase_id" gorm:"index;not null;uniqueIndex:idx_user_phase"`

	Status           string     `json:"status" gorm:"default:'LOCKED'"`
	CompletedLessons int        `json:"completed_lessons" gorm:"default:0"`
	TotalLessons     int        `json:"total_lessons" gorm:"default:0"`
	ProgressPercent  float64    `json:"progress_percent" gorm:"default:0"`
	CompletedAt      *time.Time `json:"completed_at"`
}
