package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name            string    `gorm:"default:''"`
	Email           string    `gorm:"unique;not null"`
	Phone           string    `gorm:"default:''"`
	Role            string    `gorm:"default:'USER'"` // USER, ADMIN, SUPER-ADMIN
	IsEmailVerified bool      `gorm:"default:false"`
	IsPhoneVerified bool      `gorm:"default:false"`
	LastLogin       time.Time `gorm:"default:NULL"`
	IsDeleted       bool      `gorm:"default:false"`
}
