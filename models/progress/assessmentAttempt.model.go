package progress

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssessmentAttempt records a single assessment submission
type AssessmentAttempt struct {
	gorm.Model
	UserID          uint           `json:"user_id" gorm:"index;not null"`
	LessonID        uint           `json:"lesson_id" gorm:"index;not null"`
	SelectedOptions datatypes.JSON `json:"selected_options"` // Array of selected option IDs
	Score           int            `json:"score"`            // percent
	CorrectCount    int            `json:"correct_count"`
	QuestionCount   int            `json:"question_count"`
	Passed          bool           `json:"passed" gorm:"default:false"`
	AttemptNumber   int            `json:"attempt_number" gorm:"default:1"`
	IsDeleted       bool           `gorm:"default:false"`
}
