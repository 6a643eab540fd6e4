package models

import "time"

// Favorite bookmarks a post for a user.
type Favorite struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	PostID    uint      `gorm:"primaryKey;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Subscription opts a user into notifications about a post.
type Subscription struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	PostID    uint      `gorm:"primaryKey;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
