package catalog

import "gorm.io/gorm"

// Node status values shared by every level of the content tree.
// Only PUBLISHED nodes are reachable by learners.
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
)

// Drip model values controlling when a phase or lesson unlocks
const (
	DripImmediate = "IMMEDIATE"
	DripCalendar  = "CALENDAR"
	DripRelative  = "RELATIVE"
	DripProgress  = "PROGRESS"
	DripInherit   = "INHERIT"
)

// Program is the top level of the content tree
type Program struct {
	gorm.Model
	Title            string `json:"title"`
	Description      string `json:"description"`
	Author           string `json:"author"`
	ThumbnailURL     string `json:"thumbnail_url"`
	Status           string `json:"status" gorm:"default:'DRAFT'"`
	DefaultDripModel string `json:"default_drip_model" gorm:"default:'IMMEDIATE'"` // Resolved when a phase is set to INHERIT
	IsDeleted        bool   `gorm:"default:false"`
}
