package services

import (
	"ascend/models/catalog"
	"ascend/models/progress"
	"errors"

	"gorm.io/gorm"
)

// VideoGate reports the video-watch requirement for a lesson
type VideoGate struct {
	Required  bool    `json:"required"`
	Threshold float64 `json:"threshold"`
	Current   float64 `json:"current"`
	Met       bool    `json:"met"`
}

// TacticsGate reports the required-tactics requirement for a lesson
type TacticsGate struct {
	Required  bool  `json:"required"`
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Met       bool  `json:"met"`
}

// AssessmentGate reports the assessment pass requirement for a lesson
type AssessmentGate struct {
	Required     bool `json:"required"`
	PassingScore int  `json:"passing_score"`
	BestScore    int  `json:"best_score"`
	Met          bool `json:"met"`
}

// GateStatus is the full gate breakdown for a (lesson, user) pair. A gate
// whose requirement is configured off is vacuously met; AllMet is the
// AND of the three.
type GateStatus struct {
	Video      VideoGate      `json:"video"`
	Tactics    TacticsGate    `json:"tactics"`
	Assessment AssessmentGate `json:"assessment"`
	AllMet     bool           `json:"all_met"`
}

// EvaluateGates computes the gate breakdown for a lesson and user. Pure
// read, no side effects, so it can back UI display without mutating
// anything.
func EvaluateGates(db *gorm.DB, userID, lessonID uint) (GateStatus, error) {
	var lesson catalog.Lesson
	if err := db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GateStatus{}, ErrLessonNotFound
		}
		return GateStatus{}, err
	}

	var lp progress.LessonProgress
	if err := db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&lp).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return GateStatus{}, err
	}
	// Missing progress row evaluates against zero values
	lp.UserID = userID
	lp.LessonID = lessonID

	return evaluateGates(db, &lesson, &lp)
}

// evaluateGates is the shared core for EvaluateGates and the gate-flag
// refresh path that runs inside mutating transactions.
func evaluateGates(db *gorm.DB, lesson *catalog.Lesson, lp *progress.LessonProgress) (GateStatus, error) {
	gs := GateStatus{}

	// Video gate: only applicable when a video is attached and required
	gs.Video.Required = lesson.RequiresVideo && lesson.VideoURL != ""
	gs.Video.Threshold = lesson.RequiredWatchPercent
	gs.Video.Current = lp.VideoWatchedPercent
	gs.Video.Met = !gs.Video.Required || lp.VideoWatchedPercent >= lesson.RequiredWatchPercent

	// Tactics gate: every required published tactic needs a completion row
	total, completed, err := countLessonTactics(db, lp.UserID, lesson.ID)
	if err != nil {
		return gs, err
	}
	gs.Tactics.Total = total
	gs.Tactics.Completed = completed
	gs.Tactics.Required = lesson.RequiresTacticsComplete && total > 0
	gs.Tactics.Met = !gs.Tactics.Required || completed >= total

	// Assessment gate: best score against the lesson's passing threshold
	gs.Assessment.Required = lesson.RequiresAssessment
	gs.Assessment.PassingScore = lesson.AssessmentPassingScore
	gs.Assessment.BestScore = lp.BestScore
	gs.Assessment.Met = !gs.Assessment.Required || lp.BestScore >= lesson.AssessmentPassingScore

	gs.AllMet = gs.Video.Met && gs.Tactics.Met && gs.Assessment.Met
	return gs, nil
}

// countLessonTactics counts required published tactics under a lesson and
// how many of them the user has completed
func countLessonTactics(db *gorm.DB, userID, lessonID uint) (total int64, completed int64, err error) {
	if err = db.Model(&catalog.Tactic{}).
		Where("lesson_id = ? AND is_required = ? AND status = ? AND is_deleted = ?",
			lessonID, true, catalog.StatusPublished, false).
		Count(&total).Error; err != nil {
		return
	}
	err = db.Model(&progress.TacticCompletion{}).
		Joins("JOIN tactics ON tactic_completions.tactic_id = tactics.id").
		Where("tactic_completions.user_id = ? AND tactic_completions.lesson_id = ?", userID, lessonID).
		Where("tactics.is_required = ? AND tactics.status = ? AND tactics.is_deleted = ?",
			true, catalog.StatusPublished, false).
		Count(&completed).Error
	return
}

// refreshLessonGates recomputes the stored gate flags and tactics
// counters on a LessonProgress row from the current data. Runs inside
// the caller's transaction; does not touch completion status.
func refreshLessonGates(tx *gorm.DB, lesson *catalog.Lesson, lp *progress.LessonProgress) (GateStatus, error) {
	gs, err := evaluateGates(tx, lesson, lp)
	if err != nil {
		return gs, err
	}

	lp.TacticsTotalCount = int(gs.Tactics.Total)
	lp.TacticsCompletedCount = int(gs.Tactics.Completed)
	if gs.Tactics.Total > 0 {
		lp.TacticsCompletionPercent = float64(gs.Tactics.Completed) / float64(gs.Tactics.Total) * 100
	} else {
		lp.TacticsCompletionPercent = 0
	}
	lp.VideoGateMet = gs.Video.Met
	lp.TacticsGateMet = gs.Tactics.Met
	lp.AssessmentGateMet = gs.Assessment.Met
	lp.AllGatesMet = gs.AllMet

	if err := tx.Save(lp).Error; err != nil {
		return gs, err
	}
	return gs, nil
}

// getOrCreateLessonProgress fetches the user's progress row for a lesson,
// creating a NOT_STARTED row when none exists yet
func getOrCreateLessonProgress(tx *gorm.DB, userID, lessonID uint) (*progress.LessonProgress, error) {
	var lp progress.LessonProgress
	err := tx.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&lp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		lp = progress.LessonProgress{
			UserID:   userID,
			LessonID: lessonID,
			Status:   progress.ProgressNotStarted,
		}
		err = tx.Create(&lp).Error
	}
	if err != nil {
		return nil, err
	}
	return &lp, nil
}
