package catalog

import "gorm.io/gorm"

// Tactic is an action-item checklist entry within a lesson. Only required
// tactics count toward the lesson's tactics gate.
type Tactic struct {
	gorm.Model
	LessonID    uint   `json:"lesson_id" gorm:"index;not null;uniqueIndex:idx_lesson_tactic_order"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" gorm:"default:1;uniqueIndex:idx_lesson_tactic_order"`
	IsRequired  bool   `json:"is_required" gorm:"default:true"`
	Status      string `json:"status" gorm:"default:'DRAFT'"`
	IsDeleted   bool   `gorm:"default:false"`
}
