package catalog

import (
	"time"

	"gorm.io/gorm"
)

// Phase is an ordered section within a program carrying drip configuration
type Phase struct {
	gorm.Model
	ProgramID   uint   `json:"program_id" gorm:"index;not null;uniqueIndex:idx_program_phase_order"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" gorm:"default:1;uniqueIndex:idx_program_phase_order"`
	Status      string `json:"status" gorm:"default:'DRAFT'"`

	// Drip configuration. INHERIT falls back to the program's default model.
	DripModel           string     `json:"drip_model" gorm:"default:'INHERIT'"`
	UnlockAt            *time.Time `json:"unlock_at"`                            // CALENDAR: absolute unlock timestamp
	UnlockOffsetDays    int        `json:"unlock_offset_days" gorm:"default:0"`  // RELATIVE: days after enrollment
	UnlockOffsetHours   int        `json:"unlock_offset_hours" gorm:"default:0"` // RELATIVE: hours after enrollment
	PrerequisitePhaseID *uint      `json:"prerequisite_phase_id"`                // PROGRESS: phase that must be completed first

	IsDeleted bool `gorm:"default:false"`
}
