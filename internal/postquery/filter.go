// Package postquery compiles post listing requests into parameterized SQL.
//
// A listing is a base select over posts joined with the author and the
// like count, narrowed by an ordered list of filters, grouped per post,
// sorted and paginated. Every user-supplied value is a bind parameter.
package postquery

import (
	"strings"
	"time"

	"wiseadvice/internal/models"
)

// Filter narrows a post listing. The set of filters is closed; see the
// variants below.
type Filter interface {
	// clause returns the SQL condition and its args. ok is false when the
	// filter has no effect and emits nothing.
	clause() (sql string, args []any, ok bool)
}

// CategoryFilter keeps posts tagged with any of the category titles.
type CategoryFilter struct {
	Titles []string
}

func (f CategoryFilter) clause() (string, []any, bool) {
	titles := make([]any, 0, len(f.Titles))
	for _, t := range f.Titles {
		if t = strings.TrimSpace(t); t != "" {
			titles = append(titles, t)
		}
	}
	if len(titles) == 0 {
		return "", nil, false
	}
	sql := "posts.id IN (SELECT posts_categories.post_id FROM posts_categories" +
		" JOIN categories ON categories.id = posts_categories.category_id" +
		" WHERE categories.title IN (" + placeholders(len(titles)) + "))"
	return sql, titles, true
}

// CategoryIDFilter keeps posts tagged with one category.
type CategoryIDFilter struct {
	CategoryID uint
}

func (f CategoryIDFilter) clause() (string, []any, bool) {
	return "posts.id IN (SELECT posts_categories.post_id FROM posts_categories" +
		" WHERE posts_categories.category_id = ?)", []any{f.CategoryID}, true
}

// DateRangeFilter keeps posts published within [Start, End].
type DateRangeFilter struct {
	Start time.Time
	End   time.Time
}

func (f DateRangeFilter) clause() (string, []any, bool) {
	return "posts.publish_date BETWEEN ? AND ?", []any{f.Start.UTC(), f.End.UTC()}, true
}

// StatusFilter keeps posts with the given status.
type StatusFilter struct {
	Status models.Status
}

func (f StatusFilter) clause() (string, []any, bool) {
	if f.Status == "" {
		return "", nil, false
	}
	return "posts.status = ?", []any{string(f.Status)}, true
}

// VisibilityFilter hides inactive posts from anyone but their author.
// Admins see everything; anonymous viewers (ViewerID 0) see active posts.
type VisibilityFilter struct {
	ViewerID uint
	Admin    bool
}

func (f VisibilityFilter) clause() (string, []any, bool) {
	switch {
	case f.Admin:
		return "", nil, false
	case f.ViewerID == 0:
		return "posts.status = ?", []any{string(models.StatusActive)}, true
	default:
		return "(posts.status = ? OR posts.author_id = ?)", []any{string(models.StatusActive), f.ViewerID}, true
	}
}

// AuthorFilter keeps posts written by one user.
type AuthorFilter struct {
	AuthorID uint
}

func (f AuthorFilter) clause() (string, []any, bool) {
	return "posts.author_id = ?", []any{f.AuthorID}, true
}

// FavoritesFilter keeps posts the user has bookmarked.
type FavoritesFilter struct {
	UserID uint
}

func (f FavoritesFilter) clause() (string, []any, bool) {
	return "posts.id IN (SELECT favorites.post_id FROM favorites WHERE favorites.user_id = ?)", []any{f.UserID}, true
}

// SubscriptionsFilter keeps posts the user is subscribed to.
type SubscriptionsFilter struct {
	UserID uint
}

func (f SubscriptionsFilter) clause() (string, []any, bool) {
	return "posts.id IN (SELECT subscriptions.post_id FROM subscriptions WHERE subscriptions.user_id = ?)", []any{f.UserID}, true
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
