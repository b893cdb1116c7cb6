package models

import "time"

// LoginStreak tracks consecutive-day logins per user. Updated at most once
// per calendar day.
type LoginStreak struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	Current   int       `json:"current"`
	Longest   int       `json:"longest"`
	LastLogin time.Time `json:"last_login"`
	UpdatedAt time.Time `json:"updated_at"`
}
