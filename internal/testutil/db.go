// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"wiseadvice/internal/database"
	"wiseadvice/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated in-memory SQLite database. The pool is
// pinned to one connection so every query sees the same memory database;
// code under test must therefore not query outside an open transaction.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// TestPassword is the plain-text password of users created by CreateUser.
const TestPassword = "Secret123!"

var passwordHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

// UserOption customizes a fixture user.
type UserOption func(*models.User)

// Admin makes the fixture user an administrator.
func Admin() UserOption {
	return func(u *models.User) { u.Role = models.RoleAdmin }
}

// Unconfirmed leaves the fixture user's email unconfirmed.
func Unconfirmed() UserOption {
	return func(u *models.User) { u.IsConfirmed = false }
}

// CreateUser inserts a confirmed user with a fake unique login and email.
func CreateUser(t testing.TB, db *gorm.DB, opts ...UserOption) *models.User {
	t.Helper()
	login := strings.ToLower(gofakeit.Username())
	if len(login) > 20 {
		login = login[:20]
	}
	u := &models.User{
		Login:       fmt.Sprintf("%s%d", login, gofakeit.Number(1000, 999999)),
		Email:       fmt.Sprintf("%d.%s", gofakeit.Number(1000, 999999), gofakeit.Email()),
		Password:    passwordHash,
		FullName:    gofakeit.Name(),
		Role:        models.RoleUser,
		IsConfirmed: true,
		Avatar:      models.DefaultAvatar,
	}
	for _, opt := range opts {
		opt(u)
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// PostOption customizes a fixture post.
type PostOption func(*models.Post)

// Locked creates the post locked.
func Locked() PostOption {
	return func(p *models.Post) { p.Locked = true }
}

// Inactive creates the post with inactive status.
func Inactive() PostOption {
	return func(p *models.Post) { p.Status = models.StatusInactive }
}

// PublishedAt sets the publish date.
func PublishedAt(at time.Time) PostOption {
	return func(p *models.Post) { p.PublishDate = at.UTC() }
}

// WithCategories tags the post.
func WithCategories(cats ...models.Category) PostOption {
	return func(p *models.Post) { p.Categories = cats }
}

// CreatePost inserts an active post by author.
func CreatePost(t testing.TB, db *gorm.DB, author *models.User, opts ...PostOption) *models.Post {
	t.Helper()
	p := &models.Post{
		AuthorID:    author.ID,
		Title:       gofakeit.Sentence(5),
		Content:     gofakeit.Paragraph(1, 3, 12, " "),
		Status:      models.StatusActive,
		PublishDate: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

// CreateComment inserts a top-level comment on post.
func CreateComment(t testing.TB, db *gorm.DB, author *models.User, post *models.Post) *models.Comment {
	t.Helper()
	c := &models.Comment{
		AuthorID: author.ID,
		PostID:   post.ID,
		Content:  gofakeit.Sentence(8),
		Status:   models.StatusActive,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return c
}

// CreateCategory inserts a category.
func CreateCategory(t testing.TB, db *gorm.DB, title string) *models.Category {
	t.Helper()
	c := &models.Category{Title: title, Description: gofakeit.Sentence(6)}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

// React inserts a reaction row directly, bypassing rating bookkeeping.
func React(t testing.TB, db *gorm.DB, author *models.User, target models.ReactionTarget, kind models.ReactionType) {
	t.Helper()
	if err := db.Create(models.NewReaction(author.ID, target, kind)).Error; err != nil {
		t.Fatalf("create reaction: %v", err)
	}
}
