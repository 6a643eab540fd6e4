package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"wiseadvice/internal/featureflags"
	"wiseadvice/internal/models"
	"wiseadvice/internal/notifications"
	"wiseadvice/internal/observability"
	"wiseadvice/internal/repository"
)

const (
	// NotificationPageSize is the page size of the notification listing.
	NotificationPageSize = 4

	// Read notifications stay listed for this long after being read.
	readRetention = 7 * 24 * time.Hour

	excerptRunes = 80
)

// NotificationService fans post events out to subscribers and serves each
// user's notification list.
type NotificationService struct {
	repos    *repository.Repositories
	notifier *notifications.Notifier
	flags    *featureflags.Manager
	now      func() time.Time
}

// NewNotificationService creates a NotificationService. notifier and flags
// may be nil, which disables realtime push.
func NewNotificationService(repos *repository.Repositories, notifier *notifications.Notifier, flags *featureflags.Manager) *NotificationService {
	return &NotificationService{
		repos:    repos,
		notifier: notifier,
		flags:    flags,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NotifyPostChanged tells every subscriber that the post was edited. A
// subscribed actor is notified too. Failures are logged and counted, never returned.
func (s *NotificationService) NotifyPostChanged(ctx context.Context, post *models.Post, actor *models.User) {
	msg := fmt.Sprintf("Post %q was changed by %s", post.Title, actor.Login)
	s.fanOut(ctx, "post_changed", post.ID, nil, msg)
}

// NotifyCommented tells every subscriber about a new top-level comment.
func (s *NotificationService) NotifyCommented(ctx context.Context, post *models.Post, comment *models.Comment, actor *models.User) {
	msg := fmt.Sprintf("Post %q was commented on by %s: %s", post.Title, actor.Login, excerpt(comment.Content))
	commentID := comment.ID
	s.fanOut(ctx, "commented", post.ID, &commentID, msg)
}

func excerpt(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	r := []rune(content)
	if len(r) <= excerptRunes {
		return content
	}
	return string(r[:excerptRunes]) + "..."
}

func (s *NotificationService) fanOut(ctx context.Context, event string, postID uint, commentID *uint, message string) {
	subscribers, err := s.repos.Follows.SubscriberIDs(ctx, postID)
	if err != nil {
		s.fail(ctx, "subscribers", postID, err)
		return
	}

	items := make([]models.Notification, 0, len(subscribers))
	for _, uid := range subscribers {
		items = append(items, models.Notification{
			UserID:    uid,
			PostID:    postID,
			CommentID: commentID,
			Message:   message,
		})
	}
	if len(items) == 0 {
		return
	}

	if err := s.repos.Notifications.CreateBatch(ctx, items); err != nil {
		s.fail(ctx, "insert", postID, err)
		return
	}
	observability.NotificationsCreated.WithLabelValues(event).Add(float64(len(items)))

	if !s.notifier.Enabled() {
		return
	}
	for i := range items {
		if !s.flags.Enabled(featureflags.RealtimeNotifications, items[i].UserID) {
			continue
		}
		if err := s.notifier.PublishNotification(ctx, &items[i]); err != nil {
			s.fail(ctx, "publish", postID, err)
		}
	}
}

func (s *NotificationService) fail(ctx context.Context, stage string, postID uint, err error) {
	observability.NotificationFailures.WithLabelValues(stage).Inc()
	slog.ErrorContext(ctx, "notification fan-out failed",
		slog.String("stage", stage),
		slog.Uint64("post_id", uint64(postID)),
		slog.String("error", err.Error()),
	)
}

// List returns one page of the user's notifications, newest first. Read
// notifications drop out of the list a week after they were read.
func (s *NotificationService) List(ctx context.Context, userID uint, page int) (*models.NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	since := s.now().Add(-readRetention)
	items, total, err := s.repos.Notifications.ListForUser(ctx, userID, since, NotificationPageSize, (page-1)*NotificationPageSize)
	if err != nil {
		return nil, err
	}
	return &models.NotificationPage{Messages: items, Total: total}, nil
}

// MarkRead marks one of the user's notifications as read. Another user's
// notification is reported as not found.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) (*models.Notification, error) {
	n, err := s.repos.Notifications.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}
	at := s.now()
	if err := s.repos.Notifications.MarkRead(ctx, n.ID, at); err != nil {
		return nil, err
	}
	n.IsRead = true
	n.ReadAt = &at
	return n, nil
}
