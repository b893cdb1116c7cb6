package models

import "time"

// Match represents a directed swipe-right edge from one user to another.
// The (liker, target) pair is unique; a persisted edge opens the chat
// between the two users.
type Match struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	LikerID   uint      `json:"liker_id" gorm:"index;uniqueIndex:idx_liker_target"`
	TargetID  uint      `json:"target_id" gorm:"index;uniqueIndex:idx_liker_target"`
	CreatedAt time.Time `json:"created_at"`
}

// Involves reports whether userID is one of the two match participants
func (m *Match) Involves(userID uint) bool {
	return m.LikerID == userID || m.TargetID == userID
}

// OtherUser returns the participant that is not userID
func (m *Match) OtherUser(userID uint) uint {
	if m.LikerID == userID {
		return m.TargetID
	}
	return m.LikerID
}

// SwipeRequest defines the request body for a swipe action
type SwipeRequest struct {
	Direction string `json:"direction" validate:"required,oneof=left right"`
}
