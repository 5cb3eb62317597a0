package progress

import "time"

// TacticCompletion is existence-based: the row being present means the
// tactic is done, untoggling hard-deletes the row. The unique index
// makes the toggle race-safe. No soft-delete column on purpose, so a
// deleted row never collides with a re-toggle.
type TacticCompletion struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"index;not null;uniqueIndex:idx_user_tactic"`
	TacticID  uint      `json:"tactic_id" gorm:"index;not null;uniqueIndex:idx_user_tactic"`
	LessonID  uint      `json:"lesson_id" gorm:"index;not null"` // Denormalized for recounts
	CreatedAt time.Time `json:"created_at"`
}
