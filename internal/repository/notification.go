package repository

import (
	"context"
	"errors"
	"time"

	"wiseadvice/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	CreateBatch(ctx context.Context, items []models.Notification) error
	// ListForUser returns unread notifications and those read after
	// readSince, newest first.
	ListForUser(ctx context.Context, userID uint, readSince time.Time, limit, offset int) ([]models.Notification, int64, error)
	GetForUser(ctx context.Context, userID, id uint) (*models.Notification, error)
	MarkRead(ctx context.Context, id uint, at time.Time) error
	DeleteByPost(ctx context.Context, postID uint) error
	DeleteByUser(ctx context.Context, userID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateBatch(ctx context.Context, items []models.Notification) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationRepository) visible(ctx context.Context, userID uint, readSince time.Time) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND (is_read = ? OR read_at > ?)", userID, false, readSince)
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID uint, readSince time.Time, limit, offset int) ([]models.Notification, int64, error) {
	var total int64
	if err := r.visible(ctx, userID, readSince).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	items := []models.Notification{}
	err := r.visible(ctx, userID, readSince).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return items, total, nil
}

func (r *notificationRepository) GetForUser(ctx context.Context, userID, id uint) (*models.Notification, error) {
	var n models.Notification
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Take(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Notification", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &n, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uint, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_read": true, "read_at": at}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationRepository) DeleteByPost(ctx context.Context, postID uint) error {
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Notification{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationRepository) DeleteByUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Notification{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
