package protocol

import "time"

// Skip reasons recorded on auto-inserted completion rows
const (
	SkipReasonExpired  = "protocol expired"
	SkipReasonAdvanced = "auto-skipped by daily advancement"
)

// ProtocolCompletion is one row per (protocol, day_number), either a real
// completion or an auto-skip. The unique index is the serialization
// point between manual completion and the daily batch: whichever writer
// loses the race no-ops instead of double-counting. No soft-delete
// column so the uniqueness guarantee stays absolute.
type ProtocolCompletion struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	ProtocolID  uint      `json:"protocol_id" gorm:"index;not null;uniqueIndex:idx_protocol_day"`
	DayNumber   int       `json:"day_number" gorm:"not null;uniqueIndex:idx_protocol_day"` // 1-7
	AutoSkipped bool      `json:"auto_skipped" gorm:"default:false"`
	SkipReason  string    `json:"skip_reason" gorm:"default:''"`
	CompletedAt time.Time `json:"completed_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
