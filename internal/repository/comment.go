package repository

import (
	"context"
	"errors"

	"wiseadvice/internal/models"
	"wiseadvice/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	ListReplies(ctx context.Context, parentID uint) ([]models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	SetLocked(ctx context.Context, id uint, locked bool) error
	SetBest(ctx context.Context, postID, commentID uint) error
	// ReplyIDs returns the ids of direct replies to any of parentIDs.
	ReplyIDs(ctx context.Context, parentIDs []uint) ([]uint, error)
	// IDsByPost returns every comment id in the post's thread, replies included.
	IDsByPost(ctx context.Context, postID uint) ([]uint, error)
	IDsByAuthor(ctx context.Context, authorID uint) ([]uint, error)
	Delete(ctx context.Context, ids ...uint) error
}

type commentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, log: observability.NewRepoLogger("comments")}
}

func (r *commentRepository) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Comment{}).
		Select("comments.*, users.login AS author_login").
		Joins("JOIN users ON users.id = comments.author_id")
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"comment_id": comment.ID, "post_id": comment.PostID})
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.withAuthor(ctx).Where("comments.id = ?", id).Take(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

// ListByPost returns the top-level comments of a post, oldest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.withAuthor(ctx).
		Where("comments.post_id = ? AND comments.parent_id IS NULL", postID).
		Order("comments.created_at ASC, comments.id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) ListReplies(ctx context.Context, parentID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.withAuthor(ctx).
		Where("comments.parent_id = ?", parentID).
		Order("comments.created_at ASC, comments.id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Model(comment).
		Select("content", "status").
		Updates(comment).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	r.log.LogUpdate(ctx, map[string]any{"comment_id": comment.ID})
	return nil
}

func (r *commentRepository) SetLocked(ctx context.Context, id uint, locked bool) error {
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", id).
		Update("locked", locked).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// SetBest marks commentID as the best answer of postID and clears any
// previous choice.
func (r *commentRepository) SetBest(ctx context.Context, postID, commentID uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Comment{}).
		Where("post_id = ? AND is_best = ?", postID, true).
		Update("is_best", false).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := db.Model(&models.Comment{}).
		Where("id = ?", commentID).
		Update("is_best", true).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) ReplyIDs(ctx context.Context, parentIDs []uint) ([]uint, error) {
	ids := []uint{}
	if len(parentIDs) == 0 {
		return ids, nil
	}
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("parent_id IN ?", parentIDs).
		Pluck("id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *commentRepository) IDsByPost(ctx context.Context, postID uint) ([]uint, error) {
	ids := []uint{}
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// Delete removes comments together with notifications that reference them.
func (r *commentRepository) Delete(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	db := r.db.WithContext(ctx)
	if err := db.Where("comment_id IN ?", ids).Delete(&models.Notification{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := db.Where("id IN ?", ids).Delete(&models.Comment{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.log.LogDelete(ctx, map[string]any{"comment_ids": ids})
	return nil
}

func (r *commentRepository) IDsByAuthor(ctx context.Context, authorID uint) ([]uint, error) {
	ids := []uint{}
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("author_id = ?", authorID).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
