package catalog

import (
	"time"

	"gorm.io/gorm"
)

// Lesson is an ordered unit within a phase. Completion is gated by up to
// three configurable requirements: video watch percent, required tactics
// and an assessment pass threshold.
type Lesson struct {
	gorm.Model
	PhaseID     uint   `json:"phase_id" gorm:"index;not null;uniqueIndex:idx_phase_lesson_order"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" gorm:"default:1;uniqueIndex:idx_phase_lesson_order"`
	Status      string `json:"status" gorm:"default:'DRAFT'"`

	// Video gate
	VideoURL             string  `json:"video_url"`
	RequiresVideo        bool    `json:"requires_video" gorm:"default:false"`
	RequiredWatchPercent float64 `json:"required_watch_percent" gorm:"default:90"`

	// Tactics gate
	RequiresTacticsComplete bool `json:"requires_tactics_complete" gorm:"default:false"`

	// Assessment gate
	RequiresAssessment     bool `json:"requires_assessment" gorm:"default:false"`
	AssessmentPassingScore int  `json:"assessment_passing_score" gorm:"default:80"` // percent

	// Optional drip override, same vocabulary as Phase but the
	// prerequisite is a lesson. Empty model means "use the default rule":
	// first lesson unlocks with its phase, later lessons require the
	// previous lesson (by order index) to be completed.
	DripModel            string     `json:"drip_model" gorm:"default:''"`
	UnlockAt             *time.Time `json:"unlock_at"`
	UnlockOffsetDays     int        `json:"unlock_offset_days" gorm:"default:0"`
	UnlockOffsetHours    int        `json:"unlock_offset_hours" gorm:"default:0"`
	PrerequisiteLessonID *uint      `json:"prerequisite_lesson_id"`

	IsDeleted bool `gorm:"default:false"`
}
