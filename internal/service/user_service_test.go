package service

import (
	"context"
	"testing"

	"wiseadvice/internal/models"
	"wiseadvice/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_CreateAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, env.db)
	admin := testutil.CreateUser(t, env.db, testutil.Admin())

	_, err := env.users.CreateUser(ctx, user.ID, CreateUserInput{Login: "newbie", Password: "Passw0rd", Email: "newbie@example.com"})
	requireCode(t, err, models.CodeForbidden)

	_, err = env.users.CreateUser(ctx, admin.ID, CreateUserInput{Login: "boss", Password: "Passw0rd", Email: "boss@example.com", Role: "root"})
	requireCode(t, err, models.CodeValidation)

	created, err := env.users.CreateUser(ctx, admin.ID, CreateUserInput{Login: "newbie", Password: "Passw0rd", Email: "Newbie@Example.com"})
	require.NoError(t, err)
	assert.True(t, created.IsConfirmed)
	assert.Equal(t, "newbie@example.com", created.Email)
	assert.Equal(t, models.RoleUser, created.Role)

	_, err = env.users.UpdateUser(ctx, UpdateUserInput{ActorID: created.ID, UserID: created.ID, Role: ptr("admin")})
	requireCode(t, err, models.CodeForbidden)

	_, err = env.users.UpdateUser(ctx, UpdateUserInput{ActorID: user.ID, UserID: created.ID, FullName: ptr("Nope")})
	requireCode(t, err, models.CodeForbidden)

	updated, err := env.users.UpdateUser(ctx, UpdateUserInput{ActorID: created.ID, UserID: created.ID, FullName: ptr("New Bie"), Password: ptr("Another1")})
	require.NoError(t, err)
	assert.Equal(t, "New Bie", updated.FullName)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("Another1")))

	promoted, err := env.users.UpdateUser(ctx, UpdateUserInput{ActorID: admin.ID, UserID: created.ID, Role: ptr("admin")})
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())
}

func TestUserService_DeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, env.db, testutil.Admin())
	doomed := testutil.CreateUser(t, env.db)
	other := testutil.CreateUser(t, env.db)

	ownPost := testutil.CreatePost(t, env.db, doomed)
	otherPost := testutil.CreatePost(t, env.db, other)
	foreignComment := testutil.CreateComment(t, env.db, other, ownPost)
	ownComment := testutil.CreateComment(t, env.db, doomed, otherPost)

	require.NoError(t, env.reactions.Apply(ctx, doomed.ID, models.PostTarget(otherPost.ID), models.ReactionLike))
	require.NoError(t, env.reactions.Apply(ctx, doomed.ID, models.CommentTarget(foreignComment.ID), models.ReactionLike))
	require.Equal(t, 2, env.rating(t, other.ID))
	require.NoError(t, env.posts.Subscribe(ctx, doomed.ID, otherPost.ID))

	requireCode(t, env.users.DeleteUser(ctx, other.ID, doomed.ID), models.CodeForbidden)
	require.NoError(t, env.users.DeleteUser(ctx, admin.ID, doomed.ID))

	_, err := env.repos.Users.GetByID(ctx, doomed.ID)
	requireCode(t, err, models.CodeNotFound)
	_, err = env.repos.Posts.GetByID(ctx, ownPost.ID)
	requireCode(t, err, models.CodeNotFound)
	_, err = env.repos.Comments.GetByID(ctx, ownComment.ID)
	requireCode(t, err, models.CodeNotFound)
	_, err = env.repos.Comments.GetByID(ctx, foreignComment.ID)
	requireCode(t, err, models.CodeNotFound)

	_, err = env.repos.Posts.GetByID(ctx, otherPost.ID)
	require.NoError(t, err)
	likes, _, err := env.repos.Reactions.Count(ctx, models.PostTarget(otherPost.ID))
	require.NoError(t, err)
	assert.Zero(t, likes)

	subs, err := env.repos.Follows.SubscriberIDs(ctx, otherPost.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestUserService_Promote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, env.db)

	promoted, err := env.users.Promote(ctx, user.Login)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())

	_, err = env.users.Promote(ctx, "ghost")
	requireCode(t, err, models.CodeNotFound)
}
