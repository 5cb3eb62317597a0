package progress

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment status values
const (
	EnrollmentActive    = "ACTIVE"
	EnrollmentCompleted = "COMPLETED"
)

// Enrollment tracks a user's enrollment in a program with denormalized
// progress counters. One row per (user, program); never hard-deleted.
type Enrollment struct {
	gorm.Model
	UserID    uint `json:"user_id" gorm:"index;not null;uniqueIndex:idx_user_program"`
	ProgramID uint `json:"program_id" gorm:"index;not null;uniqueIndex:idx_user_program"`

	Status     string    `json:"status" gorm:"default:'ACTIVE'"`
	EnrolledAt time.Time `json:"enrolled_at"` // Origin for RELATIVE drip offsets

	CompletedPhases  int     `json:"completed_phases" gorm:"default:0"`
	TotalPhases      int     `json:"total_phases" gorm:"default:0"`
	CompletedLessons int     `json:"completed_lessons" gorm:"default:0"`
	TotalLessons     int     `json:"total_lessons" gorm:"default:0"`
	ProgressPercent  float64 `json:"progress_percent" gorm:"default:0"`

	CompletedAt *time.Time `json:"completed_at"`
	IsDeleted   bool       `gorm:"default:false"`
}
