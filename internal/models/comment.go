package models

import "time"

// Comment is an answer to a post, or a reply to another comment when ParentID is set.
type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	PostID      uint      `gorm:"not null;index" json:"post_id"`
	ParentID    *uint     `gorm:"index" json:"parent_id,omitempty"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Status      Status    `gorm:"size:16;not null;default:active" json:"status"`
	IsBest      bool      `gorm:"not null;default:false" json:"is_best"`
	Locked      bool      `gorm:"not null;default:false" json:"locked"`
	AuthorLogin string    `gorm:"->;-:migration" json:"author,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
