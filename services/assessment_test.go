package services

import (
	"ascend/models/catalog"
	"ascend/models/progress"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitAssessmentExactSetScoring(t *testing.T) {
	db := setupTestDB(t)
	program, phase := seedProgram(t, db)
	lesson := seedLesson(t, db, phase.ID, 1)
	lesson.RequiresAssessment = true
	lesson.AssessmentPassingScore = 80
	require.NoError(t, db.Save(lesson).Error)
	enrollUser(t, db, 1, program.ID)

	q1 := catalog.AssessmentQuestion{LessonID: lesson.ID, Question: "Q1", OrderIndex: 1}
	require.NoError(t, db.Create(&q1).Error)
	q1Right := catalog.AssessmentOption{QuestionID: q1.ID, OptionText: "right", IsCorrect: true}
	q1Wrong := catalog.AssessmentOption{QuestionID: q1.ID, OptionText: "wrong"}
	require.NoError(t, db.Create(&q1Right).Error)
	require.NoError(t, db.Create(&q1Wrong).Error)

	q2 := catalog.AssessmentQuestion{LessonID: lesson.ID, Question: "Q2", OrderIndex: 2}
	require.NoError(t, db.Create(&q2).Error)
	q2RightA := catalog.AssessmentOption{QuestionID: q2.ID, OptionText: "right a", IsCorrect: true}
	q2RightB := catalog.AssessmentOption{QuestionID: q2.ID, OptionText: "right b", IsCorrect: true}
	require.NoError(t, db.Create(&q2RightA).Error)
	require.NoError(t, db.Create(&q2RightB).Error)

	// Q1 right, Q2 only half the correct set: partial selections score zero
	result, err := SubmitAssessment(db, 1, lesson.ID, []uint{q1Right.ID, q2RightA.ID})
	require.NoError(t, err)
	assert.Equal(t, 50, result.Score)
	assert.Equal(t, 1, result.CorrectCount)
	assert.False(t, result.Passed)
	assert.Equal(t, 1, result.AttemptNumber)

	// Full correct set on both questions
	result, err = SubmitAssessment(db, 1, lesson.ID, []uint{q1Right.ID, q2RightA.ID, q2RightB.ID})
	require.NoError(t, err)
	assert.Equal(t, 100, result.Score)
	assert.True(t, result.Passed)
	assert.Equal(t, 2, result.AttemptNumber)
	assert.True(t, result.Gates.Assessment.Met)
}

func TestSubmitAssessmentBestScoreOnlyRaises(t *testing.T) {
	db := setupTestDB(t)
	program, phase := seedProgram(t, db)
	lesson := seedLesson(t, db, phase.ID, 1)
	lesson.RequiresAssessment = true
	lesson.AssessmentPassingScore = 80
	require.NoError(t, db.Save(lesson).Error)
	enrollUser(t, db, 1, program.ID)

	q := catalog.AssessmentQuestion{LessonID: lesson.ID, Question: "Q"}
	require.NoError(t, db.Create(&q).Error)
	right := catalog.AssessmentOption{QuestionID: q.ID, OptionText: "right", IsCorrect: true}
	wrong := catalog.AssessmentOption{QuestionID: q.ID, OptionText: "wrong"}
	require.NoError(t, db.Create(&right).Error)
	require.NoError(t, db.Create(&wrong).Error)

	result, err := SubmitAssessment(db, 1, lesson.ID, []uint{right.ID})
	require.NoError(t, err)
	assert.Equal(t, 100, result.BestScore)

	// A worse retake never lowers the stored best or closes the gate
	result, err = SubmitAssessment(db, 1, lesson.ID, []uint{wrong.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 100, result.BestScore)
	assert.True(t, result.Gates.Assessment.Met)

	var lp progress.LessonProgress
	require.NoError(t, db.Where("user_id = ? AND lesson_id = ?", 1, lesson.ID).First(&lp).Error)
	assert.Equal(t, 100, lp.BestScore)
	assert.True(t, lp.AssessmentPassed)
}

func TestSubmitAssessmentRecordsEveryAttempt(t *testing.T) {
	db := setupTestDB(t)
	program, phase := seedProgram(t, db)
	lesson := seedLesson(t, db, phase.ID, 1)
	enrollUser(t, db, 1, program.ID)

	q := catalog.AssessmentQuestion{LessonID: lesson.ID, Question: "Q"}
	require.NoError(t, db.Create(&q).Error)
	right := catalog.AssessmentOption{QuestionID: q.ID, OptionText: "right", IsCorrect: true}
	require.NoError(t, db.Create(&right).Error)

	for i := 0; i < 3; i++ {
		_, err := SubmitAssessment(db, 1, lesson.ID, []uint{right.ID})
		require.NoError(t, err)
	}

	var attempts []progress.AssessmentAttempt
	require.NoError(t, db.Where("user_id = ? AND lesson_id = ?", 1, lesson.ID).
		Order("attempt_number asc").Find(&attempts).Error)
	require.Len(t, attempts, 3)
	assert.Equal(t, 1, attempts[0].AttemptNumber)
	assert.Equal(t, 3, attempts[2].AttemptNumber)
}
