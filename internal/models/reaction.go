package models

import (
	"fmt"
	"time"
)

// ReactionType is either a like or a dislike.
type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

// Opposite returns the reaction that excludes t.
func (t ReactionType) Opposite() ReactionType {
	if t == ReactionLike {
		return ReactionDislike
	}
	return ReactionLike
}

// TargetKind names the entity a reaction points at.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// ReactionTarget identifies a post or a comment.
type ReactionTarget struct {
	Kind TargetKind
	ID   uint
}

// PostTarget returns the target for a post.
func PostTarget(id uint) ReactionTarget { return ReactionTarget{Kind: TargetPost, ID: id} }

// CommentTarget returns the target for a comment.
func CommentTarget(id uint) ReactionTarget { return ReactionTarget{Kind: TargetComment, ID: id} }

// Column is the likes table column that references the target.
func (t ReactionTarget) Column() string {
	if t.Kind == TargetComment {
		return "comment_id"
	}
	return "post_id"
}

func (t ReactionTarget) String() string {
	return fmt.Sprintf("%s:%d", t.Kind, t.ID)
}

// Reaction is a like or dislike by one user on one post or comment.
type Reaction struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	AuthorID  uint         `gorm:"not null;uniqueIndex:idx_likes_author_post;uniqueIndex:idx_likes_author_comment" json:"author_id"`
	PostID    *uint        `gorm:"index;uniqueIndex:idx_likes_author_post" json:"post_id,omitempty"`
	CommentID *uint        `gorm:"index;uniqueIndex:idx_likes_author_comment" json:"comment_id,omitempty"`
	Type      ReactionType `gorm:"size:16;not null;index" json:"type"`
	CreatedAt time.Time    `json:"created_at"`
}

// TableName keeps the historical table name.
func (Reaction) TableName() string {
	return "likes"
}

// NewReaction builds a reaction row for target.
func NewReaction(authorID uint, target ReactionTarget, t ReactionType) *Reaction {
	r := &Reaction{AuthorID: authorID, Type: t}
	id := target.ID
	if target.Kind == TargetComment {
		r.CommentID = &id
	} else {
		r.PostID = &id
	}
	return r
}
