package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ProfileImage    string `gorm:"default:''"`
	Name            string `gorm:"default:''"`
	Email           string `gorm:"unique;not null"`
	Role            string `gorm:"default:'USER'"` // USER, COACH, ADMIN
	Password        string `gorm:"not null"`
	Timezone        string `gorm:"default:''"`
	IsEmailVerified bool   `gorm:"default:false"`
	LastLogin       *time.Time
	IsDeleted       bool `gorm:"default:false"`
}
