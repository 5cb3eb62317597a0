package protocol

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaxSkipTokens bounds the skip-token balance
const MaxSkipTokens = 3

// Milestones are the consecutive-day thresholds that earn a milestone
// event, each recorded at most once per (user, milestone, protocol).
var Milestones = []int{7, 21, 66}

// UserStreak is the per-user streak and skip-token ledger. Mutated only
// inside the protocol-completion transaction.
type UserStreak struct {
	gorm.Model
	UserID             uint       `json:"user_id" gorm:"not null;uniqueIndex"`
	CurrentStreak      int        `json:"current_streak" gorm:"default:0"`
	LongestStreak      int        `json:"longest_streak" gorm:"default:0"`
	SkipTokens         int        `json:"skip_tokens" gorm:"default:0"` // 0-3
	LastCompletionDate *time.Time `json:"last_completion_date"`         // calendar date, midnight
}

// StreakMilestone records a milestone award exactly once per
// (user, milestone, protocol); the unique index enforces it.
type StreakMilestone struct {
	gorm.Model
	UserID     uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_user_milestone_protocol"`
	Milestone  int            `json:"milestone" gorm:"not null;uniqueIndex:idx_user_milestone_protocol"`
	ProtocolID uint           `json:"protocol_id" gorm:"not null;uniqueIndex:idx_user_milestone_protocol"`
	EventID    string         `json:"event_id" gorm:"type:varchar(36)"` // uuid handed to the event sink
	Payload    datatypes.JSON `json:"payload"`
	AwardedAt  time.Time      `json:"awarded_at"`
}
