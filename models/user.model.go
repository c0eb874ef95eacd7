package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin   = "ADMIN"
	RoleTeacher = "TEACHER"
	RoleStudent = "STUDENT"
)

type User struct {
	gorm.Model
	ProfileImage string    `gorm:"default:''"`
	Name         string    `gorm:"default:''"`
	Email        string    `gorm:"unique;not null"`
	Mobile       string    `gorm:"default:''"`
	Role         string    `gorm:"default:'STUDENT'"` // STUDENT, TEACHER, ADMIN
	LastLogin    time.Time `gorm:"default:NULL"`
	IsDeleted    bool      `gorm:"default:false"`
}
