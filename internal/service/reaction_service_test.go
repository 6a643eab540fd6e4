package service

import (
	"context"
	"testing"

	"wiseadvice/internal/models"
	"wiseadvice/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactionService_DuplicateLikeConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, env.db)
	voter := testutil.CreateUser(t, env.db)
	post := testutil.CreatePost(t, env.db, author)
	target := models.PostTarget(post.ID)

	require.NoError(t, env.reactions.Apply(ctx, voter.ID, target, models.ReactionLike))
	err := env.reactions.Apply(ctx, voter.ID, target, models.ReactionLike)
	requireCode(t, err, models.CodeConflict)

	likes, dislikes, err := env.repos.Reactions.Count(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)
	assert.Zero(t, dislikes)
	assert.Equal(t, 1, env.rating(t, author.ID))
}

func TestReactionService_SwapMovesRatingByTwo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, env.db)
	voter := testutil.CreateUser(t, env.db)
	post := testutil.CreatePost(t, env.db, author)
	comment := testutil.CreateComment(t, env.db, author, post)

	for _, target := range []models.ReactionTarget{models.PostTarget(post.ID), models.CommentTarget(comment.ID)} {
		before := env.rating(t, author.ID)
		require.NoError(t, env.reactions.Apply(ctx, voter.ID, target, models.ReactionDislike))
		assert.Equal(t, before-1, env.rating(t, author.ID))

		require.NoError(t, env.reactions.Apply(ctx, voter.ID, target, models.ReactionLike))
		assert.Equal(t, before+1, env.rating(t, author.ID))

		existing, err := env.repos.Reactions.Find(ctx, voter.ID, target)
		require.NoError(t, err)
		require.NotNil(t, existing)
		assert.Equal(t, models.ReactionLike, existing.Type)
	}
}

func TestReactionService_Remove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, env.db)
	voter := testutil.CreateUser(t, env.db)
	post := testutil.CreatePost(t, env.db, author)
	target := models.PostTarget(post.ID)

	err := env.reactions.Remove(ctx, voter.ID, target, models.ReactionLike)
	requireCode(t, err, models.CodeForbidden)

	require.NoError(t, env.reactions.Apply(ctx, voter.ID, target, models.ReactionDislike))
	requireCode(t, env.reactions.Remove(ctx, voter.ID, target, models.ReactionLike), models.CodeForbidden)

	require.NoError(t, env.reactions.Remove(ctx, voter.ID, target, models.ReactionDislike))
	assert.Zero(t, env.rating(t, author.ID))
}

func TestReactionService_LockedTargetRejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, env.db)
	admin := testutil.CreateUser(t, env.db, testutil.Admin())
	post := testutil.CreatePost(t, env.db, author, testutil.Locked())

	err := env.reactions.Apply(ctx, admin.ID, models.PostTarget(post.ID), models.ReactionLike)
	requireCode(t, err, models.CodeForbidden)
	assert.Zero(t, env.rating(t, author.ID))
}

func TestReactionService_UnknownTarget(t *testing.T) {
	env := newTestEnv(t)
	voter := testutil.CreateUser(t, env.db)

	err := env.reactions.Apply(context.Background(), voter.ID, models.PostTarget(404), models.ReactionLike)
	requireCode(t, err, models.CodeNotFound)
}
