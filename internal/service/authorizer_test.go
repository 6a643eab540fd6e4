package service

import (
	"context"
	"testing"

	"wiseadvice/internal/models"
	"wiseadvice/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	repository.UserRepository
	users map[uint]*models.User
}

func (s *stubUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, models.NewNotFoundError("User", id)
}

func newStubAuthorizer() *Authorizer {
	return NewAuthorizer(&stubUserRepo{users: map[uint]*models.User{
		1: {ID: 1, Role: models.RoleUser},
		2: {ID: 2, Role: models.RoleAdmin},
	}})
}

func TestAuthorizer_IsAdmin(t *testing.T) {
	a := newStubAuthorizer()
	ctx := context.Background()

	for id, want := range map[uint]bool{0: false, 1: false, 2: true, 99: false} {
		got, err := a.IsAdmin(ctx, id)
		require.NoError(t, err)
		assert.Equalf(t, want, got, "user %d", id)
	}
}

func TestAuthorizer_RequireOwnerOrAdmin(t *testing.T) {
	a := newStubAuthorizer()
	ctx := context.Background()

	assert.NoError(t, a.RequireOwnerOrAdmin(ctx, 1, 1, "edit this post"))
	assert.NoError(t, a.RequireOwnerOrAdmin(ctx, 2, 1, "edit this post"))

	err := a.RequireOwnerOrAdmin(ctx, 1, 3, "edit this post")
	requireCode(t, err, models.CodeForbidden)
	assert.Contains(t, err.Error(), "You are not allowed to edit this post")
}

func TestAuthorizer_Locks(t *testing.T) {
	a := newStubAuthorizer()
	ctx := context.Background()

	assert.NoError(t, a.RequireUnlocked(false, "post"))
	requireCode(t, a.RequireUnlocked(true, "post"), models.CodeForbidden)

	assert.NoError(t, a.RequireUnlockedOrAdmin(ctx, 2, true, "comment"))
	requireCode(t, a.RequireUnlockedOrAdmin(ctx, 1, true, "comment"), models.CodeForbidden)
	requireCode(t, a.RequireAdmin(ctx, 1), models.CodeForbidden)
}
