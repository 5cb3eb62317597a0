package services

import (
	"ascend/models/progress"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteLessonBlockedUntilGatesMet(t *testing.T) {
	db := setupTestDB(t)
	program, phase := seedProgram(t, db)
	lesson := seedLesson(t, db, phase.ID, 1)
	lesson.VideoURL = "https://cdn.example.com/v/1.mp4"
	lesson.RequiresVideo = true
	lesson.RequiredWatchPercent = 90
	require.NoError(t, db.Save(lesson).Error)
	enrollUser(t, db, 1, program.ID)

	result, err := CompleteLesson(db, 1, lesson.ID)
	require.NoError(t, err)
	assert.False(t, result.Completed)
	assert.False(t, result.Gates.Video.Met)

	// Failed attempt must not mutate completion state
	var lp progress.LessonProgress
	require.NoError(t, db.Where("user_id = ? AND lesson_id = ?", 1, lesson.ID).First(&lp).Error)
	assert.NotEqual(t, progress.ProgressCompleted, lp.Status)
	assert.Nil(t, lp.CompletedAt)

	_, err = UpdateVideoProgress(db, 1, lesson.ID, 95)
	require.NoError(t, err)

	result, err = CompleteLesson(db, 1, lesson.ID)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.False(t, result.AlreadyCompleted)
}

func TestCompleteLessonIdempotent(t *testing.T) {
	db := setupTestDB(t)
	program, phase := seedProgram(t, db)
	lesson := seedLesson(t, db, phase.ID, 1)
	enrollUser(t, db, 1, program.ID)

	result, err := CompleteLesson(db, 1, lesson.ID)
	require.NoError(t, err)
	require.True(t, result.Completed)

	var first progress.LessonProgress
	require.NoError(t, db.Where("user_id = ? AND lesson_id = ?", 1, lesson.ID).First(&first).Error)
	require.NotNil(t, first.CompletedAt)

	result, err = CompleteLesson(db, 1, lesson.ID)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.True(t, result.AlreadyCompleted)

	// The original completion timestamp survives the repeat
	var second progress.LessonProgress
	require.NoError(t, db.Where("user_id = ? AND lesson_id = ?", 1, lesson.ID).First(&second).Error)
	require.NotNil(t, second.CompletedAt)
	assert.Equal(t, first.CompletedAt.Unix(), second.CompletedAt.Unix())
}

func TestCompleteLessonRequiresEnrollment(t *testing.T) {
	db := setupTestDB(t)
	_, phase := seedProgram(t, db)
	lesson := seedLesson(t, db, phase.ID, 1)

	_, err := CompleteLesson(db, 1, lesson.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestVideoProgressNeverDecreases(t *testing.T) {
	db := setupTestDB(t)
	program, phase := seedProgram(t, db)
	lesson := seedLesson(t, db, phase.ID, 1)
	lesson.VideoURL = "https://cdn.example.com/v/1.mp4"
	lesson.RequiresVideo = true
	require.NoError(t, db.Save(lesson).Error)
	enrollUser(t, db, 1, program.ID)

	result, err := UpdateVideoProgress(db, 1, lesson.ID, 75)
	require.NoError(t, err)
	assert.Equal(t, 75.0, result.VideoWatchedPercent)

	// A seek backwards reports a lower percent; the gauge holds
	result, err = UpdateVideoProgress(db, 1, lesson.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 75.0, result.VideoWatchedPercent)
}

func TestVideoProgressClamped(t *testing.T) {
	db := setupTestDB(t)
	program, phase := seedProgram(t, db)
	lesson := seedLesson(t, db, phase.ID, 1)
	enrollUser(t, db, 1, program.ID)

	result, err := UpdateVideoProgress(db, 1, lesson.ID, 140)
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.VideoWatchedPercent)
}

func TestCompletionCascadesToPhaseAndEnrollment(t *testing.T) {
	db := setupTestDB(t)
	program, phase := seedProgram(t, db)
	first := seedLesson(t, db, phase.ID, 1)
	second := seedLesson(t, db, phase.ID, 2)
	enrollUser(t, db, 1, program.ID)

	_, err := CompleteLesson(db, 1, first.ID)
	require.NoError(t, err)

	var pp progress.PhaseProgress
	require.NoError(t, db.Where("user_id = ? AND phase_id = ?", 1, phase.ID).First(&pp).Error)
	assert.Equal(t, progress.ProgressInProgress, pp.Status)
	assert.Equal(t, 1, pp.CompletedLessons)
	assert.Equal(t, 2, pp.TotalLessons)
	assert.InDelta(t, 50.0, pp.ProgressPercent, 0.01)

	_, err = CompleteLesson(db, 1, second.ID)
	require.NoError(t, err)

	require.NoError(t, db.Where("user_id = ? AND phase_id = ?", 1, phase.ID).First(&pp).Error)
	assert.Equal(t, progress.ProgressCompleted, pp.Status)
	assert.NotNil(t, pp.CompletedAt)

	var enrollment progress.Enrollment
	require.NoError(t, db.Where("user_id = ? AND program_id = ?", 1, program.ID).First(&enrollment).Error)
	assert.Equal(t, progress.EnrollmentCompleted, enrollment.Status)
	assert.Equal(t, 1, enrollment.CompletedPhases)
	assert.Equal(t, 2, enrollment.CompletedLessons)
	assert.NotNil(t, enrollment.CompletedAt)
	assert.InDelta(t, 100.0, enrollment.ProgressPercent, 0.01)
}

func TestRecountMatchesCascadeAfterDirectRecompute(t *testing.T) {
	db := setupTestDB(t)
	program, phase := seedProgram(t, db)
	first := seedLesson(t, db, phase.ID, 1)
	seedLesson(t, db, phase.ID, 2)
	enrollUser(t, db, 1, program.ID)

	_, err := CompleteLesson(db, 1, first.ID)
	require.NoError(t, err)

	var before progress.PhaseProgress
	require.NoError(t, db.Where("user_id = ? AND phase_id = ?", 1, phase.ID).First(&before).Error)

	// Re-running the recount from scratch must land on the same numbers
	require.NoError(t, UpdatePhaseProgress(db, 1, phase.ID))

	var after progress.PhaseProgress
	require.NoError(t, db.Where("user_id = ? AND phase_id = ?", 1, phase.ID).First(&after).Error)
	assert.Equal(t, before.CompletedLessons, after.CompletedLessons)
	assert.Equal(t, before.TotalLessons, after.TotalLessons)
	assert.Equal(t, before.Status, after.Status)
}
