package progress

import (
	"time"

	"gorm.io/gorm"
)

// LessonProgress is one row per (user, lesson) with two independent
// gauges (video watch percent, tactics completion percent), assessment
// attempt state and the three derived gate flags.
type LessonProgress struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"index;not null;uniqueIndex:idx_user_lesson"`
	LessonID uint `json:"lesson_id" gorm:"index;not null;uniqueIndex:idx_user_lesson"`

	Status string `json:"status" gorm:"default:'NOT_STARTED'"`

	VideoWatchedPercent      float64 `json:"video_watched_percent" gorm:"default:0"`
	TacticsCompletedCount    int     `json:"tactics_completed_count" gorm:"default:0"`
	TacticsTotalCount        int     `json:"tactics_total_count" gorm:"default:0"`
	TacticsCompletionPercent float64 `json:"tactics_completion_percent" gorm:"default:0"`

	BestScore        int  `json:"best_score" gorm:"default:0"` // percent, highest assessment attempt
	AssessmentPassed bool `json:"assessment_passed" gorm:"default:false"`

	// Gate flags. A gate whose requirement is configured off for the
	// lesson is vacuously met. AllGatesMet is the AND of the three.
	VideoGateMet      bool `json:"video_gate_met" gorm:"default:false"`
	TacticsGateMet    bool `json:"tactics_gate_met" gorm:"default:false"`
	AssessmentGateMet bool `json:"assessment_gate_met" gorm:"default:false"`
	AllGatesMet       bool `json:"all_gates_met" gorm:"default:false"`

	CompletedAt *time.Time `json:"completed_at"`
}
