package models

import "time"

// Like represents a like on a post. The pair (post, user) is unique so a
// user can hold at most one like per post.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_like"` // MongoDB ObjectID as string
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_like"`
	CreatedAt time.Time `json:"created_at"`
}
