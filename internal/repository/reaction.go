package repository

import (
	"context"
	"errors"

	"wiseadvice/internal/database"
	"wiseadvice/internal/models"

	"gorm.io/gorm"
)

// ReactionRepository defines persistence operations for likes and dislikes.
type ReactionRepository interface {
	// Find returns the actor's reaction on target of either type, or nil.
	Find(ctx context.Context, authorID uint, target models.ReactionTarget) (*models.Reaction, error)
	Create(ctx context.Context, reaction *models.Reaction) error
	Delete(ctx context.Context, id uint) error
	// Count returns the number of likes and dislikes on target.
	Count(ctx context.Context, target models.ReactionTarget) (likes, dislikes int64, err error)
	List(ctx context.Context, target models.ReactionTarget, kind models.ReactionType) ([]models.Reaction, error)
	DeleteByTarget(ctx context.Context, target models.ReactionTarget) error
	// DeleteByAuthor drops every reaction the user cast. Ratings are left as they are.
	DeleteByAuthor(ctx context.Context, authorID uint) error
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new ReactionRepository.
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) scope(ctx context.Context, target models.ReactionTarget) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Reaction{}).Where(target.Column()+" = ?", target.ID)
}

func (r *reactionRepository) Find(ctx context.Context, authorID uint, target models.ReactionTarget) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.scope(ctx, target).Where("author_id = ?", authorID).Take(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &reaction, nil
}

func (r *reactionRepository) Create(ctx context.Context, reaction *models.Reaction) error {
	if err := r.db.WithContext(ctx).Create(reaction).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewConflictError("reaction already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reactionRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Reaction{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reactionRepository) Count(ctx context.Context, target models.ReactionTarget) (int64, int64, error) {
	var rows []struct {
		Type  models.ReactionType
		Total int64
	}
	err := r.scope(ctx, target).
		Select("type, COUNT(*) AS total").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, models.NewInternalError(err)
	}

	var likes, dislikes int64
	for _, row := range rows {
		switch row.Type {
		case models.ReactionLike:
			likes = row.Total
		case models.ReactionDislike:
			dislikes = row.Total
		}
	}
	return likes, dislikes, nil
}

func (r *reactionRepository) List(ctx context.Context, target models.ReactionTarget, kind models.ReactionType) ([]models.Reaction, error) {
	reactions := []models.Reaction{}
	err := r.scope(ctx, target).
		Where("type = ?", string(kind)).
		Order("created_at ASC, id ASC").
		Find(&reactions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reactions, nil
}

func (r *reactionRepository) DeleteByTarget(ctx context.Context, target models.ReactionTarget) error {
	if err := r.db.WithContext(ctx).
		Where(target.Column()+" = ?", target.ID).
		Delete(&models.Reaction{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reactionRepository) DeleteByAuthor(ctx context.Context, authorID uint) error {
	if err := r.db.WithContext(ctx).Where("author_id = ?", authorID).Delete(&models.Reaction{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
