package services

import (
	"ascend/models/progress"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleTacticRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	program, phase := seedProgram(t, db)
	lesson := seedLesson(t, db, phase.ID, 1)
	lesson.RequiresTacticsComplete = true
	require.NoError(t, db.Save(lesson).Error)
	tactic := seedTactic(t, db, lesson.ID, 1)
	enrollUser(t, db, 1, program.ID)

	result, err := ToggleTacticCompletion(db, 1, tactic.ID)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Equal(t, 1, result.TacticsCompletedCount)
	assert.True(t, result.Gates.Tactics.Met)

	var count int64
	require.NoError(t, db.Model(&progress.TacticCompletion{}).
		Where("user_id = ? AND tactic_id = ?", 1, tactic.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Second toggle hard-deletes the row and reopens the gate
	result, err = ToggleTacticCompletion(db, 1, tactic.ID)
	require.NoError(t, err)
	assert.False(t, result.Completed)
	assert.Equal(t, 0, result.TacticsCompletedCount)
	assert.False(t, result.Gates.Tactics.Met)

	require.NoError(t, db.Model(&progress.TacticCompletion{}).
		Where("user_id = ? AND tactic_id = ?", 1, tactic.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// Round trip ends re-completable
	result, err = ToggleTacticCompletion(db, 1, tactic.ID)
	require.NoError(t, err)
	assert.True(t, result.Completed)
}

func TestToggleTacticUpdatesCompletionPercent(t *testing.T) {
	db := setupTestDB(t)
	program, phase := seedProgram(t, db)
	lesson := seedLesson(t, db, phase.ID, 1)
	lesson.RequiresTacticsComplete = true
	require.NoError(t, db.Save(lesson).Error)
	first := seedTactic(t, db, lesson.ID, 1)
	seedTactic(t, db, lesson.ID, 2)
	enrollUser(t, db, 1, program.ID)

	result, err := ToggleTacticCompletion(db, 1, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TacticsTotalCount)
	assert.InDelta(t, 50.0, result.TacticsCompletionPercent, 0.01)
	assert.False(t, result.Gates.Tactics.Met)
}

func TestToggleTacticUnknownTactic(t *testing.T) {
	db := setupTestDB(t)

	_, err := ToggleTacticCompletion(db, 1, 999)
	assert.ErrorIs(t, err, ErrTacticNotFound)
}

func TestToggleTacticRequiresEnrollment(t *testing.T) {
	db := setupTestDB(t)
	_, phase := seedProgram(t, db)
	lesson := seedLesson(t, db, phase.ID, 1)
	tactic := seedTactic(t, db, lesson.ID, 1)

	_, err := ToggleTacticCompletion(db, 1, tactic.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}
