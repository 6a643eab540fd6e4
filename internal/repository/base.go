package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles every repository over one database handle, either
// the pool or an open transaction.
type Repositories struct {
	db            *gorm.DB
	Users         UserRepository
	Posts         PostRepository
	Comments      CommentRepository
	Categories    CategoryRepository
	Reactions     ReactionRepository
	Follows       FollowRepository
	Notifications NotificationRepository
}

// New builds the repositories for db.
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		db:            db,
		Users:         NewUserRepository(db),
		Posts:         NewPostRepository(db),
		Comments:      NewCommentRepository(db),
		Categories:    NewCategoryRepository(db),
		Reactions:     NewReactionRepository(db),
		Follows:       NewFollowRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// Transaction runs fn with repositories bound to a single transaction.
// Repositories assembled by hand without a database (test doubles) run fn
// directly.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
