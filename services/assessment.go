package services

import (
	"ascend/models/catalog"
	"ascend/models/progress"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssessmentResult is the outcome of an assessment submission
type AssessmentResult struct {
	Score         int        `json:"score"` // percent
	CorrectCount  int        `json:"correct_count"`
	QuestionCount int        `json:"question_count"`
	Passed        bool       `json:"passed"`
	BestScore     int        `json:"best_score"`
	AttemptNumber int        `json:"attempt_number"`
	Gates         GateStatus `json:"gates"`
}

// SubmitAssessment scores a submission against the lesson's questions,
// records the attempt and raises the stored best score when exceeded. A
// question counts as correct only when the selected option set matches
// the correct option set exactly.
func SubmitAssessment(db *gorm.DB, userID, lessonID uint, selectedOptionIDs []uint) (AssessmentResult, error) {
	var result AssessmentResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var lesson catalog.Lesson
		if err := tx.Where("id = ? AND status = ? AND is_deleted = ?",
			lessonID, catalog.StatusPublished, false).First(&lesson).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLessonNotFound
			}
			return err
		}

		if err := requireEnrollmentForPhase(tx, userID, lesson.PhaseID); err != nil {
			return err
		}

		var questions []catalog.AssessmentQuestion
		if err := tx.Where("lesson_id = ? AND is_deleted = ?", lessonID, false).
			Order("order_index asc").Find(&questions).Error; err != nil {
			return err
		}

		selected := make(map[uint]bool, len(selectedOptionIDs))
		for _, id := range selectedOptionIDs {
			selected[id] = true
		}

		correctCount := 0
		for _, q := range questions {
			var options []catalog.AssessmentOption
			if err := tx.Where("question_id = ? AND is_deleted = ?", q.ID, false).Find(&options).Error; err != nil {
				return err
			}
			allMatch := true
			for _, opt := range options {
				if opt.IsCorrect != selected[opt.ID] {
					allMatch = false
					break
				}
			}
			if allMatch && len(options) > 0 {
				correctCount++
			}
		}

		score := 0
		if len(questions) > 0 {
			score = correctCount * 100 / len(questions)
		}
		passed := score >= lesson.AssessmentPassingScore

		var attemptCount int64
		if err := tx.Model(&progress.AssessmentAttempt{}).
			Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", userID, lessonID, false).
			Count(&attemptCount).Error; err != nil {
			return err
		}

		selectedJSON, _ := json.Marshal(selectedOptionIDs)
		attempt := progress.AssessmentAttempt{
			UserID:          userID,
			LessonID:        lessonID,
			SelectedOptions: datatypes.JSON(selectedJSON),
			Score:           score,
			CorrectCount:    correctCount,
			QuestionCount:   len(questions),
			Passed:          passed,
			AttemptNumber:   int(attemptCount) + 1,
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}

		lp, err := getOrCreateLessonProgress(tx, userID, lessonID)
		if err != nil {
			return err
		}
		if score > lp.BestScore {
			lp.BestScore = score
		}
		if passed {
			lp.AssessmentPassed = true
		}
		if lp.Status == progress.ProgressNotStarted {
			lp.Status = progress.ProgressInProgress
		}

		gs, err := refreshLessonGates(tx, &lesson, lp)
		if err != nil {
			return err
		}

		result = AssessmentResult{
			Score:         score,
			CorrectCount:  correctCount,
			QuestionCount: len(questions),
			Passed:        passed,
			BestScore:     lp.BestScore,
			AttemptNumber: attempt.AttemptNumber,
			Gates:         gs,
		}

		return UpdatePhaseProgress(tx, userID, lesson.PhaseID)
	})

	return result, err
}
