package services

import (
	protocolModels "ascend/models/protocol"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreakIncrementGapAndReset(t *testing.T) {
	db := setupTestDB(t)
	created := date(2025, time.January, 1)
	p := seedProtocol(t, db, 1, created)

	// Jan 1 and Jan 2 back to back
	result, err := CompleteProtocolDayAt(db, 1, p.ID, 1, date(2025, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Streak.CurrentStreak)

	result, err = CompleteProtocolDayAt(db, 1, p.ID, 2, date(2025, time.January, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Streak.CurrentStreak)
	assert.Equal(t, 2, result.Streak.LongestStreak)
	assert.False(t, result.Streak.StreakBroken)

	// Jan 3 missed; Jan 4 resets the streak to 1
	result, err = CompleteProtocolDayAt(db, 1, p.ID, 4, date(2025, time.January, 4))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Streak.CurrentStreak)
	assert.True(t, result.Streak.StreakBroken)
	assert.Equal(t, 2, result.Streak.LongestStreak)
}

func TestStreakSameDayCompletionsCountOnce(t *testing.T) {
	db := setupTestDB(t)
	created := date(2025, time.January, 1)
	p := seedProtocol(t, db, 1, created)

	day := date(2025, time.January, 1)
	result, err := CompleteProtocolDayAt(db, 1, p.ID, 1, day)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Streak.CurrentStreak)

	// A second distinct day completed on the same calendar date does
	// not double-count the streak
	result, err = CompleteProtocolDayAt(db, 1, p.ID, 2, day)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Streak.CurrentStreak)
}

func TestSevenDayStreakAwardsMilestone(t *testing.T) {
	db := setupTestDB(t)
	created := date(2025, time.January, 1)
	p := seedProtocol(t, db, 1, created)

	var last CompleteDayResult
	for day := 1; day <= 7; day++ {
		var err error
		last, err = CompleteProtocolDayAt(db, 1, p.ID, day, created.AddDate(0, 0, day-1))
		require.NoError(t, err)
	}

	assert.Equal(t, 7, last.Streak.CurrentStreak)
	assert.Equal(t, 7, last.Streak.MilestoneAwarded)
	assert.NotEmpty(t, last.Streak.MilestoneEventID)

	var milestone protocolModels.StreakMilestone
	require.NoError(t, db.Where("user_id = ? AND milestone = ? AND protocol_id = ?",
		1, 7, p.ID).First(&milestone).Error)
	assert.Equal(t, last.Streak.MilestoneEventID, milestone.EventID)
	assert.NotEmpty(t, milestone.Payload)
}

func TestMilestoneAwardedOncePerProtocol(t *testing.T) {
	db := setupTestDB(t)
	now := date(2025, time.February, 1)

	eventID, awarded, err := recordMilestone(db, 1, 42, 7, now)
	require.NoError(t, err)
	assert.True(t, awarded)
	assert.NotEmpty(t, eventID)

	// Second award for the same (user, milestone, protocol) no-ops
	eventID, awarded, err = recordMilestone(db, 1, 42, 7, now)
	require.NoError(t, err)
	assert.False(t, awarded)
	assert.Empty(t, eventID)

	// A different protocol earns its own award
	_, awarded, err = recordMilestone(db, 1, 43, 7, now)
	require.NoError(t, err)
	assert.True(t, awarded)
}

func TestProtocolCompletionAwardsSkipTokenUpToCap(t *testing.T) {
	db := setupTestDB(t)

	streak := protocolModels.UserStreak{UserID: 1, SkipTokens: protocolModels.MaxSkipTokens}
	require.NoError(t, db.Create(&streak).Error)

	awarded, err := awardSkipToken(db, 1)
	require.NoError(t, err)
	assert.False(t, awarded)

	var reloaded protocolModels.UserStreak
	require.NoError(t, db.Where("user_id = ?", 1).First(&reloaded).Error)
	assert.Equal(t, protocolModels.MaxSkipTokens, reloaded.SkipTokens)
}

func TestUseSkipTokenPreservesStreakAcrossMissedDay(t *testing.T) {
	db := setupTestDB(t)
	created := date(2025, time.March, 1)
	p := seedProtocol(t, db, 1, created)

	_, err := CompleteProtocolDayAt(db, 1, p.ID, 1, date(2025, time.March, 1))
	require.NoError(t, err)
	_, err = CompleteProtocolDayAt(db, 1, p.ID, 2, date(2025, time.March, 2))
	require.NoError(t, err)

	require.NoError(t, db.Model(&protocolModels.UserStreak{}).
		Where("user_id = ?", 1).Update("skip_tokens", 1).Error)

	// March 3 missed; the token back-dates the ledger to March 3
	result, err := UseSkipTokenAt(db, 1, date(2025, time.March, 3))
	require.NoError(t, err)
	assert.Equal(t, 0, result.SkipTokens)
	assert.Equal(t, 2, result.CurrentStreak)

	// March 4 continues the streak instead of resetting it
	dayResult, err := CompleteProtocolDayAt(db, 1, p.ID, 4, date(2025, time.March, 4))
	require.NoError(t, err)
	assert.Equal(t, 3, dayResult.Streak.CurrentStreak)
	assert.False(t, dayResult.Streak.StreakBroken)
}

func TestUseSkipTokenFailsOnZeroBalance(t *testing.T) {
	db := setupTestDB(t)

	_, err := UseSkipToken(db, 1)
	assert.ErrorIs(t, err, ErrNoSkipTokens)
}

func TestGetStreakZeroValuedWhenAbsent(t *testing.T) {
	db := setupTestDB(t)

	streak, err := GetStreak(db, 99)
	require.NoError(t, err)
	assert.Equal(t, uint(99), streak.UserID)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Equal(t, 0, streak.SkipTokens)
}
