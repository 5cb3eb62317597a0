package services

import (
	protocolModels "ascend/models/protocol"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StreakResult reports the ledger state after a protocol-day completion
type StreakResult struct {
	CurrentStreak    int    `json:"current_streak"`
	LongestStreak    int    `json:"longest_streak"`
	StreakBroken     bool   `json:"streak_broken"`
	MilestoneAwarded int    `json:"milestone_awarded,omitempty"` // 0 when none
	MilestoneEventID string `json:"milestone_event_id,omitempty"`
	SkipTokens       int    `json:"skip_tokens"`
}

// SkipTokenResult reports the ledger state after a skip-token use
type SkipTokenResult struct {
	SkipTokens    int `json:"skip_tokens"`
	CurrentStreak int `json:"current_streak"`
}

// recordStreakCompletion applies one protocol-day completion to the
// user's streak ledger. Same-date repeats are no-ops, a one-day gap
// increments, anything larger resets to 1 with StreakBroken set.
// Milestones (7/21/66 consecutive days) are recorded exactly once per
// (user, milestone, protocol) behind the unique index.
func recordStreakCompletion(tx *gorm.DB, userID, protocolID uint, now time.Time) (StreakResult, error) {
	var result StreakResult

	streak, err := getOrCreateStreak(tx, userID)
	if err != nil {
		return result, err
	}

	today := startOfDay(now)
	switch {
	case streak.LastCompletionDate == nil:
		streak.CurrentStreak = 1
	case daysBetween(*streak.LastCompletionDate, today) == 0:
		// Already counted today; idempotent against repeat calls
		result.CurrentStreak = streak.CurrentStreak
		result.LongestStreak = streak.LongestStreak
		result.SkipTokens = streak.SkipTokens
		return result, nil
	case daysBetween(*streak.LastCompletionDate, today) == 1:
		streak.CurrentStreak++
	default:
		streak.CurrentStreak = 1
		result.StreakBroken = true
	}

	if streak.CurrentStreak > streak.LongestStreak {
		streak.LongestStreak = streak.CurrentStreak
	}
	streak.LastCompletionDate = &today

	if err := tx.Save(streak).Error; err != nil {
		return result, err
	}

	for _, milestone := range protocolModels.Milestones {
		if streak.CurrentStreak != milestone {
			continue
		}
		eventID, awarded, err := recordMilestone(tx, userID, protocolID, milestone, now)
		if err != nil {
			return result, err
		}
		if awarded {
			result.MilestoneAwarded = milestone
			result.MilestoneEventID = eventID
		}
	}

	result.CurrentStreak = streak.CurrentStreak
	result.LongestStreak = streak.LongestStreak
	result.SkipTokens = streak.SkipTokens
	return result, nil
}

// recordMilestone inserts the milestone row if this (user, milestone,
// protocol) has not been awarded before
func recordMilestone(tx *gorm.DB, userID, protocolID uint, milestone int, now time.Time) (string, bool, error) {
	var existing protocolModels.StreakMilestone
	err := tx.Where("user_id = ? AND milestone = ? AND protocol_id = ?",
		userID, milestone, protocolID).First(&existing).Error
	if err == nil {
		return "", false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, err
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"user_id":     userID,
		"protocol_id": protocolID,
		"milestone":   milestone,
		"awarded_at":  now,
	})
	row := protocolModels.StreakMilestone{
		UserID:     userID,
		Milestone:  milestone,
		ProtocolID: protocolID,
		EventID:    uuid.NewString(),
		Payload:    datatypes.JSON(payload),
		AwardedAt:  now,
	}
	if err := tx.Create(&row).Error; err != nil {
		return "", false, err
	}
	return row.EventID, true, nil
}

// UseSkipToken consumes one skip token to forgive a missed day:
// streak insurance. The last completion date is back-dated to today so
// the streak survives as if the user had completed a day. Fails with
// ErrNoSkipTokens on a zero balance.
func UseSkipToken(db *gorm.DB, userID uint) (SkipTokenResult, error) {
	return UseSkipTokenAt(db, userID, time.Now())
}

// UseSkipTokenAt is the clock-injected variant of UseSkipToken
func UseSkipTokenAt(db *gorm.DB, userID uint, now time.Time) (SkipTokenResult, error) {
	var result SkipTokenResult

	err := db.Transaction(func(tx *gorm.DB) error {
		streak, err := getOrCreateStreak(tx, userID)
		if err != nil {
			return err
		}
		result.SkipTokens = streak.SkipTokens
		result.CurrentStreak = streak.CurrentStreak
		if streak.SkipTokens <= 0 {
			return ErrNoSkipTokens
		}

		streak.SkipTokens--
		today := startOfDay(now)
		streak.LastCompletionDate = &today
		if err := tx.Save(streak).Error; err != nil {
			return err
		}

		result.SkipTokens = streak.SkipTokens
		result.CurrentStreak = streak.CurrentStreak
		return nil
	})

	return result, err
}

// GetStreak returns the user's ledger, zero-valued when none exists yet
func GetStreak(db *gorm.DB, userID uint) (*protocolModels.UserStreak, error) {
	var streak protocolModels.UserStreak
	err := db.Where("user_id = ?", userID).First(&streak).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &protocolModels.UserStreak{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &streak, nil
}

// awardSkipToken grants one token on full protocol completion, capped
func awardSkipToken(tx *gorm.DB, userID uint) (bool, error) {
	streak, err := getOrCreateStreak(tx, userID)
	if err != nil {
		return false, err
	}
	if streak.SkipTokens >= protocolModels.MaxSkipTokens {
		return false, nil
	}
	streak.SkipTokens++
	return true, tx.Save(streak).Error
}

func skipTokenBalance(tx *gorm.DB, userID uint) (int, error) {
	streak, err := getOrCreateStreak(tx, userID)
	if err != nil {
		return 0, err
	}
	return streak.SkipTokens, nil
}

func currentStreak(tx *gorm.DB, userID uint) (StreakResult, error) {
	streak, err := getOrCreateStreak(tx, userID)
	if err != nil {
		return StreakResult{}, err
	}
	return StreakResult{
		CurrentStreak: streak.CurrentStreak,
		LongestStreak: streak.LongestStreak,
		SkipTokens:    streak.SkipTokens,
	}, nil
}

func getOrCreateStreak(tx *gorm.DB, userID uint) (*protocolModels.UserStreak, error) {
	var streak protocolModels.UserStreak
	err := tx.Where("user_id = ?", userID).First(&streak).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		streak = protocolModels.UserStreak{UserID: userID}
		err = tx.Create(&streak).Error
	}
	if err != nil {
		return nil, err
	}
	return &streak, nil
}
