package repository

import (
	"testing"

	"wiseadvice/internal/models"
	"wiseadvice/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactionRepository_FindCountAndList(t *testing.T) {
	db, repos, ctx := setupTestDB(t)
	author := testutil.CreateUser(t, db)
	a := testutil.CreateUser(t, db)
	b := testutil.CreateUser(t, db)
	c := testutil.CreateUser(t, db)
	post := testutil.CreatePost(t, db, author)
	comment := testutil.CreateComment(t, db, author, post)

	target := models.PostTarget(post.ID)
	testutil.React(t, db, a, target, models.ReactionLike)
	testutil.React(t, db, b, target, models.ReactionLike)
	testutil.React(t, db, c, target, models.ReactionDislike)
	testutil.React(t, db, a, models.CommentTarget(comment.ID), models.ReactionDislike)

	likes, dislikes, err := repos.Reactions.Count(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, int64(2), likes)
	assert.Equal(t, int64(1), dislikes)

	found, err := repos.Reactions.Find(ctx, c.ID, target)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, models.ReactionDislike, found.Type)

	missing, err := repos.Reactions.Find(ctx, author.ID, target)
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := repos.Reactions.List(ctx, target, models.ReactionLike)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, repos.Reactions.DeleteByTarget(ctx, target))
	likes, dislikes, err = repos.Reactions.Count(ctx, target)
	require.NoError(t, err)
	assert.Zero(t, likes+dislikes)

	// The comment reaction is a different target and survives.
	likes, dislikes, err = repos.Reactions.Count(ctx, models.CommentTarget(comment.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(0), likes)
	assert.Equal(t, int64(1), dislikes)
}

func TestReactionRepository_OnePerUserAndTarget(t *testing.T) {
	db, repos, ctx := setupTestDB(t)
	author := testutil.CreateUser(t, db)
	fan := testutil.CreateUser(t, db)
	post := testutil.CreatePost(t, db, author)

	require.NoError(t, repos.Reactions.Create(ctx, models.NewReaction(fan.ID, models.PostTarget(post.ID), models.ReactionLike)))
	err := repos.Reactions.Create(ctx, models.NewReaction(fan.ID, models.PostTarget(post.ID), models.ReactionDislike))
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeConflict))
}
