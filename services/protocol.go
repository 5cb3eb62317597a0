package services

import (
	protocolModels "ascend/models/protocol"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AdvanceSummary is what the daily batch reports back to the scheduler
type AdvanceSummary struct {
	Processed   int `json:"processed"`
	Advanced    int `json:"advanced"`
	Expired     int `json:"expired"`
	DaysSkipped int `json:"days_skipped"`
	Failed      int `json:"failed"`
}

// CompleteDayResult is the outcome of a manual day completion
type CompleteDayResult struct {
	DayNumber         int          `json:"day_number"`
	AlreadyCompleted  bool         `json:"already_completed"`
	CurrentDay        int          `json:"current_day"`
	DaysCompleted     int          `json:"days_completed"`
	DaysSkipped       int          `json:"days_skipped"`
	ProtocolCompleted bool         `json:"protocol_completed"`
	SkipTokenAwarded  bool         `json:"skip_token_awarded"`
	Streak            StreakResult `json:"streak"`
}

// CreateProtocol starts a new 7-day protocol for the user. One active
// protocol per user at a time.
func CreateProtocol(db *gorm.DB, userID uint, title, description string) (*protocolModels.Protocol, error) {
	var created protocolModels.Protocol

	err := db.Transaction(func(tx *gorm.DB) error {
		var existing protocolModels.Protocol
		err := tx.Where("user_id = ? AND status = ? AND is_deleted = ?",
			userID, protocolModels.StatusActive, false).First(&existing).Error
		if err == nil {
			return ErrActiveProtocolOpen
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		created = protocolModels.Protocol{
			UserID:      userID,
			Title:       title,
			Description: description,
			Status:      protocolModels.StatusActive,
			CurrentDay:  1,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// AdvanceProtocols runs the daily advancement batch over all active
// protocols. Each protocol is processed in its own transaction so a
// failure partway through never corrupts already-processed protocols
// and the batch can be retried safely.
func AdvanceProtocols(db *gorm.DB) (AdvanceSummary, error) {
	return AdvanceProtocolsAt(db, time.Now())
}

// AdvanceProtocolsAt is the clock-injected variant of AdvanceProtocols
func AdvanceProtocolsAt(db *gorm.DB, now time.Time) (AdvanceSummary, error) {
	var summary AdvanceSummary

	var ids []uint
	if err := db.Model(&protocolModels.Protocol{}).
		Where("status = ? AND is_deleted = ?", protocolModels.StatusActive, false).
		Pluck("id", &ids).Error; err != nil {
		return summary, err
	}

	for _, id := range ids {
		err := db.Transaction(func(tx *gorm.DB) error {
			return advanceOne(tx, id, now, &summary)
		})
		if err != nil {
			log.Printf("[PROTOCOL-SCHEDULER] Error advancing protocol %d: %v", id, err)
			summary.Failed++
			continue
		}
		summary.Processed++
	}

	return summary, nil
}

// advanceOne advances a single protocol to its actual day, inserting
// auto-skip rows for silently missed days and expiring protocols past
// the 7-day window. Re-running on the same day is a no-op.
func advanceOne(tx *gorm.DB, protocolID uint, now time.Time, summary *AdvanceSummary) error {
	var p protocolModels.Protocol
	if err := tx.Where("id = ? AND status = ? AND is_deleted = ?",
		protocolID, protocolModels.StatusActive, false).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Completed or paused since the id list was read
			return nil
		}
		return err
	}

	// Day 1 is the calendar date the protocol was created. 8 is a
	// sentinel meaning "past the 7-day window".
	actualDay := daysBetween(p.CreatedAt, now) + 1
	if actualDay < 1 {
		actualDay = 1
	}
	if actualDay > protocolModels.TotalDays+1 {
		actualDay = protocolModels.TotalDays + 1
	}

	switch {
	case actualDay > protocolModels.TotalDays:
		skipped, err := insertSkipsThrough(tx, p.ID, p.CurrentDay, protocolModels.TotalDays,
			protocolModels.SkipReasonExpired, now)
		if err != nil {
			return err
		}
		p.CurrentDay = protocolModels.TotalDays
		p.Status = protocolModels.StatusExpired
		completedAt := now
		p.CompletedAt = &completedAt
		if err := recountProtocolDays(tx, &p); err != nil {
			return err
		}
		if err := tx.Save(&p).Error; err != nil {
			return err
		}
		summary.Expired++
		summary.DaysSkipped += skipped

	case actualDay > p.CurrentDay:
		skipped, err := insertSkipsThrough(tx, p.ID, p.CurrentDay, actualDay-1,
			protocolModels.SkipReasonAdvanced, now)
		if err != nil {
			return err
		}
		p.CurrentDay = actualDay
		if p.CurrentDay > protocolModels.TotalDays {
			p.CurrentDay = protocolModels.TotalDays
		}
		if err := recountProtocolDays(tx, &p); err != nil {
			return err
		}
		if err := tx.Save(&p).Error; err != nil {
			return err
		}
		summary.Advanced++
		summary.DaysSkipped += skipped
	}
	// actualDay == CurrentDay: nothing to do

	return nil
}

// CompleteProtocolDay records a real completion for one day of the
// user's protocol and feeds the streak ledger. Shares the
// insert-only-if-absent discipline with the batch so a manual completion
// racing the daily advancement never double-counts.
func CompleteProtocolDay(db *gorm.DB, userID, protocolID uint, day int) (CompleteDayResult, error) {
	return CompleteProtocolDayAt(db, userID, protocolID, day, time.Now())
}

// CompleteProtocolDayAt is the clock-injected variant of CompleteProtocolDay
func CompleteProtocolDayAt(db *gorm.DB, userID, protocolID uint, day int, now time.Time) (CompleteDayResult, error) {
	var result CompleteDayResult
	result.DayNumber = day

	if day < 1 || day > protocolModels.TotalDays {
		return result, ErrInvalidDayNumber
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var p protocolModels.Protocol
		if err := tx.Where("id = ? AND user_id = ? AND is_deleted = ?",
			protocolID, userID, false).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProtocolNotFound
			}
			return err
		}
		if p.Status != protocolModels.StatusActive {
			return ErrProtocolNotActive
		}

		// Upsert: a day with any existing record is updated, never
		// re-created. A real completion overrides an auto-skip.
		var completion protocolModels.ProtocolCompletion
		existed := true
		err := tx.Where("protocol_id = ? AND day_number = ?", protocolID, day).First(&completion).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			completion = protocolModels.ProtocolCompletion{
				ProtocolID:  protocolID,
				DayNumber:   day,
				AutoSkipped: false,
				CompletedAt: now,
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&completion)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				existed = false
			} else {
				// The daily batch inserted this day between our read and
				// write; pick up its row and resolve it like any existing one
				if err := tx.Where("protocol_id = ? AND day_number = ?", protocolID, day).
					First(&completion).Error; err != nil {
					return err
				}
			}
		} else if err != nil {
			return err
		}

		if existed {
			if !completion.AutoSkipped {
				result.AlreadyCompleted = true
			} else {
				completion.AutoSkipped = false
				completion.SkipReason = ""
				completion.CompletedAt = now
				if err := tx.Save(&completion).Error; err != nil {
					return err
				}
			}
		}

		if err := recountProtocolDays(tx, &p); err != nil {
			return err
		}
		if next := day + 1; next > p.CurrentDay {
			p.CurrentDay = next
			if p.CurrentDay > protocolModels.TotalDays {
				p.CurrentDay = protocolModels.TotalDays
			}
		}

		// 7th distinct real completion finishes the protocol and earns
		// a skip token
		if p.DaysCompleted >= protocolModels.TotalDays && p.Status == protocolModels.StatusActive {
			p.Status = protocolModels.StatusCompleted
			completedAt := now
			p.CompletedAt = &completedAt
			result.ProtocolCompleted = true
		}

		if err := tx.Save(&p).Error; err != nil {
			return err
		}

		if !result.AlreadyCompleted {
			streak, err := recordStreakCompletion(tx, userID, protocolID, now)
			if err != nil {
				return err
			}
			result.Streak = streak
		} else {
			streak, err := currentStreak(tx, userID)
			if err != nil {
				return err
			}
			result.Streak = streak
		}

		if result.ProtocolCompleted {
			awarded, err := awardSkipToken(tx, userID)
			if err != nil {
				return err
			}
			result.SkipTokenAwarded = awarded
			result.Streak.SkipTokens, err = skipTokenBalance(tx, userID)
			if err != nil {
				return err
			}
		}

		result.CurrentDay = p.CurrentDay
		result.DaysCompleted = p.DaysCompleted
		result.DaysSkipped = p.DaysSkipped
		return nil
	})

	return result, err
}

// PauseProtocol moves an active protocol to PAUSED; the daily batch
// ignores paused protocols entirely.
func PauseProtocol(db *gorm.DB, userID, protocolID uint) error {
	return setProtocolStatus(db, userID, protocolID, protocolModels.StatusActive, protocolModels.StatusPaused)
}

// ResumeProtocol reactivates a paused protocol
func ResumeProtocol(db *gorm.DB, userID, protocolID uint) error {
	return setProtocolStatus(db, userID, protocolID, protocolModels.StatusPaused, protocolModels.StatusActive)
}

// AbandonProtocol marks an active or paused protocol abandoned
func AbandonProtocol(db *gorm.DB, userID, protocolID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var p protocolModels.Protocol
		if err := tx.Where("id = ? AND user_id = ? AND is_deleted = ?",
			protocolID, userID, false).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProtocolNotFound
			}
			return err
		}
		if p.Status == protocolModels.StatusCompleted || p.Status == protocolModels.StatusExpired {
			return ErrProtocolTerminal
		}
		p.Status = protocolModels.StatusAbandoned
		return tx.Save(&p).Error
	})
}

func setProtocolStatus(db *gorm.DB, userID, protocolID uint, from, to string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var p protocolModels.Protocol
		if err := tx.Where("id = ? AND user_id = ? AND is_deleted = ?",
			protocolID, userID, false).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProtocolNotFound
			}
			return err
		}
		if p.Status == protocolModels.StatusCompleted || p.Status == protocolModels.StatusExpired {
			return ErrProtocolTerminal
		}
		if p.Status != from {
			return ErrProtocolNotActive
		}
		p.Status = to
		return tx.Save(&p).Error
	})
}

// insertSkipsThrough inserts an auto-skip record for every day in
// [from, through] that has no completion row yet. Days that already
// have a record, real or skipped, are never touched: the insert defers
// to the (protocol_id, day_number) unique index, so a concurrent writer
// holding a day makes this a no-op instead of an error.
func insertSkipsThrough(tx *gorm.DB, protocolID uint, from, through int, reason string, now time.Time) (int, error) {
	inserted := 0
	for day := from; day <= through; day++ {
		skip := protocolModels.ProtocolCompletion{
			ProtocolID:  protocolID,
			DayNumber:   day,
			AutoSkipped: true,
			SkipReason:  reason,
			CompletedAt: now,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&skip)
		if res.Error != nil {
			return inserted, res.Error
		}
		inserted += int(res.RowsAffected)
	}
	return inserted, nil
}

// recountProtocolDays recomputes the denormalized day counters from the
// completion rows
func recountProtocolDays(tx *gorm.DB, p *protocolModels.Protocol) error {
	var completed int64
	if err := tx.Model(&protocolModels.ProtocolCompletion{}).
		Where("protocol_id = ? AND auto_skipped = ?", p.ID, false).
		Count(&completed).Error; err != nil {
		return err
	}
	var skipped int64
	if err := tx.Model(&protocolModels.ProtocolCompletion{}).
		Where("protocol_id = ? AND auto_skipped = ?", p.ID, true).
		Count(&skipped).Error; err != nil {
		return err
	}
	p.DaysCompleted = int(completed)
	p.DaysSkipped = int(skipped)
	return nil
}

// startOfDay truncates a timestamp to its calendar date
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts whole calendar days from a to b. The dates are
// compared by their components, not by elapsed duration, so a DST
// transition (23 or 25 hour day) never shifts the count.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	utcA := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	utcB := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(utcB.Sub(utcA).Hours() / 24)
}
