package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values assigned to users. STUDENT is the default on signup.
const (
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
	RoleAdmin   = "ADMIN"
)

type User struct {
	gorm.Model
	AvatarURL           string     `json:"avatar_url" gorm:"default:''"`
	FullName            string     `json:"full_name" gorm:"default:''"`
	Email               string     `json:"email" gorm:"unique;not null"`
	Role                string     `json:"role" gorm:"default:'STUDENT'"` // STUDENT, TEACHER, ADMIN
	Password            string     `json:"-" gorm:"not null"`
	IsActive            bool       `json:"is_active" gorm:"default:true"`
	LastLogin           time.Time  `json:"last_login" gorm:"default:NULL"`
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"-"`
	IsBlocked           bool       `json:"-" gorm:"default:false"`
	BlockedUntil        *time.Time `json:"-"`
	IsDeleted           bool       `json:"-" gorm:"default:false"`
}

// IsValidRole reports whether s is one of the assignable roles.
func IsValidRole(s string) bool {
	return s == RoleStudent || s == RoleTeacher || s == RoleAdmin
}
