package models

import "time"

// Status is the visibility state shared by posts and comments.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ValidStatus reports whether s is a known status.
func ValidStatus(s Status) bool {
	return s == StatusActive || s == StatusInactive
}

// Post represents a question or advice thread.
type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	AuthorID    uint       `gorm:"not null;index" json:"author_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Status      Status     `gorm:"size:16;not null;default:active;index" json:"status"`
	Locked      bool       `gorm:"not null;default:false" json:"locked"`
	PublishDate time.Time  `gorm:"not null;index" json:"publish_date"`
	Categories  []Category `gorm:"many2many:posts_categories;" json:"categories,omitempty"`
	// AuthorLogin and LikesCount are filled by listing queries only.
	AuthorLogin string    `gorm:"->;-:migration" json:"author,omitempty"`
	LikesCount  int       `gorm:"->;-:migration" json:"likes_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PostPage is one page of a post listing together with the unpaginated total.
type PostPage struct {
	Posts []Post `json:"posts"`
	Total int64  `json:"total"`
}
