package repository

import (
	"testing"
	"time"

	"wiseadvice/internal/models"
	"wiseadvice/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_ReadWindow(t *testing.T) {
	db, repos, ctx := setupTestDB(t)
	author := testutil.CreateUser(t, db)
	reader := testutil.CreateUser(t, db)
	other := testutil.CreateUser(t, db)
	post := testutil.CreatePost(t, db, author)

	now := time.Now().UTC()
	eightDaysAgo := now.Add(-8 * 24 * time.Hour)
	threeDaysAgo := now.Add(-3 * 24 * time.Hour)

	items := []models.Notification{
		{UserID: reader.ID, PostID: post.ID, Message: "unread"},
		{UserID: reader.ID, PostID: post.ID, Message: "read long ago", IsRead: true, ReadAt: &eightDaysAgo},
		{UserID: reader.ID, PostID: post.ID, Message: "read recently", IsRead: true, ReadAt: &threeDaysAgo},
		{UserID: other.ID, PostID: post.ID, Message: "someone else"},
	}
	require.NoError(t, repos.Notifications.CreateBatch(ctx, items))

	cutoff := now.Add(-7 * 24 * time.Hour)
	list, total, err := repos.Notifications.ListForUser(ctx, reader.ID, cutoff, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	var messages []string
	for _, n := range list {
		messages = append(messages, n.Message)
	}
	assert.ElementsMatch(t, []string{"unread", "read recently"}, messages)
}

func TestNotificationRepository_MarkReadScopedToRecipient(t *testing.T) {
	db, repos, ctx := setupTestDB(t)
	author := testutil.CreateUser(t, db)
	reader := testutil.CreateUser(t, db)
	post := testutil.CreatePost(t, db, author)

	items := []models.Notification{{UserID: reader.ID, PostID: post.ID, Message: "hello"}}
	require.NoError(t, repos.Notifications.CreateBatch(ctx, items))
	id := items[0].ID
	require.NotZero(t, id)

	_, err := repos.Notifications.GetForUser(ctx, author.ID, id)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	at := time.Now().UTC()
	require.NoError(t, repos.Notifications.MarkRead(ctx, id, at))

	n, err := repos.Notifications.GetForUser(ctx, reader.ID, id)
	require.NoError(t, err)
	assert.True(t, n.IsRead)
	require.NotNil(t, n.ReadAt)
	assert.WithinDuration(t, at, *n.ReadAt, time.Second)
}
