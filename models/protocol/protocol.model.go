package protocol

import (
	"time"

	"gorm.io/gorm"
)

// Protocol status values. COMPLETED and EXPIRED are terminal.
const (
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
	StatusExpired   = "EXPIRED"
	StatusPaused    = "PAUSED"
	StatusAbandoned = "ABANDONED"
)

// TotalDays is the fixed length of a protocol window
const TotalDays = 7

// Protocol is a 7-day behavioral plan belonging to one user. CreatedAt
// (from gorm.Model) is the authoritative origin for day-number
// arithmetic: day 1 is the calendar date the protocol was created.
type Protocol struct {
	gorm.Model
	UserID      uint   `json:"user_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`

	Status        string `json:"status" gorm:"default:'ACTIVE'"`
	CurrentDay    int    `json:"current_day" gorm:"default:1"` // 1-7 cursor
	DaysCompleted int    `json:"days_completed" gorm:"default:0"`
	DaysSkipped   int    `json:"days_skipped" gorm:"default:0"`

	CompletedAt *time.Time `json:"completed_at"`
	IsDeleted   bool       `gorm:"default:false"`
}
