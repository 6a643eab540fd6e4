package service

import (
	"context"
	"testing"

	"wiseadvice/internal/models"
	"wiseadvice/internal/repository"
	"wiseadvice/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testEnv wires the services over one in-memory database.
type testEnv struct {
	db            *gorm.DB
	repos         *repository.Repositories
	auth          *Authorizer
	reactions     *ReactionService
	notifications *NotificationService
	posts         *PostService
	comments      *CommentService
	users         *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	repos := repository.New(db)
	auth := NewAuthorizer(repos.Users)
	reactions := NewReactionService(repos, auth)
	notes := NewNotificationService(repos, nil, nil)
	return &testEnv{
		db:            db,
		repos:         repos,
		auth:          auth,
		reactions:     reactions,
		notifications: notes,
		posts:         NewPostService(repos, auth, reactions, notes),
		comments:      NewCommentService(repos, auth, reactions, notes),
		users:         NewUserService(repos, auth, reactions),
	}
}

func (e *testEnv) rating(t *testing.T, userID uint) int {
	t.Helper()
	u, err := e.repos.Users.GetByID(context.Background(), userID)
	require.NoError(t, err)
	return u.Rating
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, models.HasCode(err, code), "expected %s, got %v", code, err)
}
