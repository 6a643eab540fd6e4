package models

import "time"

// Notification is a message delivered to a subscriber of a post.
type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	PostID    uint       `gorm:"not null;index" json:"post_id"`
	CommentID *uint      `json:"comment_id,omitempty"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	IsRead    bool       `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

// NotificationPage is one page of a user's notifications.
type NotificationPage struct {
	Messages []Notification `json:"messages"`
	Total    int64          `json:"total"`
}
