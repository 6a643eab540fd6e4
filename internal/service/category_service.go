package service

import (
	"context"
	"log/slog"
	"strings"

	"wiseadvice/internal/cache"
	"wiseadvice/internal/featureflags"
	"wiseadvice/internal/models"
	"wiseadvice/internal/repository"
)

// CategoryService manages categories. The full list is cached in Redis when
// the category_cache flag is on.
type CategoryService struct {
	repos *repository.Repositories
	auth  *Authorizer
	cache *cache.Cache
	flags *featureflags.Manager
}

type CategoryInput struct {
	Title       *string
	Description *string
}

func NewCategoryService(repos *repository.Repositories, auth *Authorizer, c *cache.Cache, flags *featureflags.Manager) *CategoryService {
	return &CategoryService{repos: repos, auth: auth, cache: c, flags: flags}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	if !s.flags.Enabled(featureflags.CategoryCache, 0) {
		return s.repos.Categories.List(ctx)
	}
	var cats []models.Category
	err := s.cache.Aside(ctx, cache.CategoryListKey, &cats, cache.CategoryListTTL, func() error {
		var fetchErr error
		cats, fetchErr = s.repos.Categories.List(ctx)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return cats, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return s.repos.Categories.GetByID(ctx, id)
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", models.NewValidationError("Title is required")
	}
	if strings.Contains(title, ",") {
		return "", models.NewValidationError("Title cannot contain commas")
	}
	if len(title) > 64 {
		return "", models.NewValidationError("Title too long (max 64 characters)")
	}
	return title, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, actorID uint, in CategoryInput) (*models.Category, error) {
	if err := s.auth.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if in.Title == nil {
		return nil, models.NewValidationError("Title is required")
	}
	title, err := normalizeTitle(*in.Title)
	if err != nil {
		return nil, err
	}
	cat := &models.Category{Title: title}
	if in.Description != nil {
		cat.Description = strings.TrimSpace(*in.Description)
	}
	if err := s.repos.Categories.Create(ctx, cat); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return cat, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, actorID, id uint, in CategoryInput) (*models.Category, error) {
	cat, err := s.repos.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.auth.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if in.Title == nil && in.Description == nil {
		return nil, models.NewValidationError("No data found")
	}
	if in.Title != nil {
		if cat.Title, err = normalizeTitle(*in.Title); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		cat.Description = strings.TrimSpace(*in.Description)
	}
	if err := s.repos.Categories.Update(ctx, cat); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return cat, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, actorID, id uint) error {
	if _, err := s.repos.Categories.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.auth.RequireAdmin(ctx, actorID); err != nil {
		return err
	}
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		return tx.Categories.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, cache.CategoryListKey)
	slog.DebugContext(ctx, "category cache invalidated")
}
