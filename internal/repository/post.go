package repository

import (
	"context"
	"errors"

	"wiseadvice/internal/models"
	"wiseadvice/internal/observability"
	"wiseadvice/internal/postquery"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	SetLocked(ctx context.Context, id uint, locked bool) error
	ReplaceCategories(ctx context.Context, post *models.Post, categories []models.Category) error
	Categories(ctx context.Context, postID uint) ([]models.Category, error)
	Delete(ctx context.Context, id uint) error
	IDsByAuthor(ctx context.Context, authorID uint) ([]uint, error)
	List(ctx context.Context, st postquery.Statement) ([]models.Post, int64, error)
}

type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"post_id": post.ID, "author_id": post.AuthorID})
	return nil
}

// GetByID loads a post with its author login, like count and categories.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Select("posts.*, users.login AS author_login, "+
			"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id AND likes.type = ?) AS likes_count",
			string(models.ReactionLike)).
		Joins("JOIN users ON users.id = posts.author_id").
		Preload("Categories").
		Where("posts.id = ?", id).
		Take(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Model(post).
		Select("title", "content", "status", "locked").
		Updates(post).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	r.log.LogUpdate(ctx, map[string]any{"post_id": post.ID})
	return nil
}

func (r *postRepository) SetLocked(ctx context.Context, id uint, locked bool) error {
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update("locked", locked).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) ReplaceCategories(ctx context.Context, post *models.Post, categories []models.Category) error {
	if err := r.db.WithContext(ctx).Model(post).Association("Categories").Replace(categories); err != nil {
		return models.NewInternalError(err)
	}
	post.Categories = categories
	return nil
}

func (r *postRepository) Categories(ctx context.Context, postID uint) ([]models.Category, error) {
	var cats []models.Category
	err := r.db.WithContext(ctx).
		Joins("JOIN posts_categories ON posts_categories.category_id = categories.id").
		Where("posts_categories.post_id = ?", postID).
		Order("categories.title ASC").
		Find(&cats).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return cats, nil
}

// Delete removes the post row and its category links. Reactions, comments
// and other dependents are removed by the caller beforehand.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Exec("DELETE FROM posts_categories WHERE post_id = ?", id).Error; err != nil {
		return models.NewInternalError(err)
	}
	res := db.Delete(&models.Post{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	r.log.LogDelete(ctx, map[string]any{"post_id": id})
	return nil
}

// List runs a compiled listing and its count query.
func (r *postRepository) List(ctx context.Context, st postquery.Statement) ([]models.Post, int64, error) {
	defer observability.TrackQuery("list", "posts")()

	db := r.db.WithContext(ctx)
	posts := []models.Post{}
	if err := db.Raw(st.SQL, st.Args...).Scan(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var total int64
	if err := db.Raw(st.CountSQL, st.CountArgs...).Scan(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

func (r *postRepository) IDsByAuthor(ctx context.Context, authorID uint) ([]uint, error) {
	ids := []uint{}
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
