package repository

import (
	"context"
	"errors"

	"wiseadvice/internal/database"
	"wiseadvice/internal/models"
	"wiseadvice/internal/observability"

	"gorm.io/gorm"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetByTitles(ctx context.Context, titles []string) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db, log: observability.NewRepoLogger("categories")}
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	cats := []models.Category{}
	if err := r.db.WithContext(ctx).Order("title ASC").Find(&cats).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return cats, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var cat models.Category
	if err := r.db.WithContext(ctx).First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &cat, nil
}

// GetByTitles returns the categories whose title is in titles. Unknown
// titles are silently absent from the result.
func (r *categoryRepository) GetByTitles(ctx context.Context, titles []string) ([]models.Category, error) {
	cats := []models.Category{}
	if len(titles) == 0 {
		return cats, nil
	}
	if err := r.db.WithContext(ctx).Where("title IN ?", titles).Order("title ASC").Find(&cats).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return cats, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewConflictError("Category with this title already exists")
		}
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"category_id": category.ID, "title": category.Title})
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	err := r.db.WithContext(ctx).Model(category).
		Select("title", "description").
		Updates(category).Error
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewConflictError("Category with this title already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Exec("DELETE FROM posts_categories WHERE category_id = ?", id).Error; err != nil {
		return models.NewInternalError(err)
	}
	res := db.Delete(&models.Category{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Category", id)
	}
	r.log.LogDelete(ctx, map[string]any{"category_id": id})
	return nil
}
