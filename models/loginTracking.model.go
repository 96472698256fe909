package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginTracking is an audit row written on every login and logout.
type LoginTracking struct {
	gorm.Model
	UserID    uint      `json:"user_id" gorm:"index"`
	Action    string    `json:"action" gorm:"default:'LOGIN'"` // LOGIN, LOGOUT
	IPAddress string    `json:"ip_address"`
	Device    string    `json:"device"`
	Timestamp time.Time `json:"timestamp"`
	IsDeleted bool      `json:"-" gorm:"default:false"`
}
