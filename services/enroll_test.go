package services

import (
	"ascend/models/catalog"
	"ascend/models/progress"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollSeedsLockedPhaseProgress(t *testing.T) {
	db := setupTestDB(t)
	program, phase := seedProgram(t, db)
	seedLesson(t, db, phase.ID, 1)

	enrollment, err := Enroll(db, 1, program.ID)
	require.NoError(t, err)
	assert.Equal(t, progress.EnrollmentActive, enrollment.Status)
	assert.False(t, enrollment.EnrolledAt.IsZero())
	assert.Equal(t, 1, enrollment.TotalPhases)
	assert.Equal(t, 1, enrollment.TotalLessons)

	var pp progress.PhaseProgress
	require.NoError(t, db.Where("user_id = ? AND phase_id = ?", 1, phase.ID).First(&pp).Error)
	assert.Equal(t, progress.ProgressLocked, pp.Status)
}

func TestEnrollTwiceFails(t *testing.T) {
	db := setupTestDB(t)
	program, _ := seedProgram(t, db)

	_, err := Enroll(db, 1, program.ID)
	require.NoError(t, err)

	_, err = Enroll(db, 1, program.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestEnrollRequiresPublishedProgram(t *testing.T) {
	db := setupTestDB(t)
	draft := catalog.Program{Title: "Draft program", Status: catalog.StatusDraft}
	require.NoError(t, db.Create(&draft).Error)

	_, err := Enroll(db, 1, draft.ID)
	assert.ErrorIs(t, err, ErrProgramNotFound)

	_, err = Enroll(db, 1, 999)
	assert.ErrorIs(t, err, ErrProgramNotFound)
}

func TestEnrollIgnoresDraftPhases(t *testing.T) {
	db := setupTestDB(t)
	program, _ := seedProgram(t, db)
	draft := catalog.Phase{ProgramID: program.ID, Title: "Draft phase", OrderIndex: 2}
	require.NoError(t, db.Create(&draft).Error)

	enrollment, err := Enroll(db, 1, program.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, enrollment.TotalPhases)

	var count int64
	require.NoError(t, db.Model(&progress.PhaseProgress{}).
		Where("user_id = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
