package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"wiseadvice/internal/featureflags"
	"wiseadvice/internal/models"
	"wiseadvice/internal/notifications"
	"wiseadvice/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short text", excerpt("short \n text"))

	long := ""
	for i := 0; i < 100; i++ {
		long += "é"
	}
	got := excerpt(long)
	assert.Equal(t, 83, len([]rune(got)))
	assert.Contains(t, got, "...")
}

func TestNotificationService_FanOutReachesEverySubscriber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, env.db)
	follower := testutil.CreateUser(t, env.db)
	post := testutil.CreatePost(t, env.db, author)
	require.NoError(t, env.posts.Subscribe(ctx, author.ID, post.ID))
	require.NoError(t, env.posts.Subscribe(ctx, follower.ID, post.ID))

	_, err := env.comments.CreateComment(ctx, CreateCommentInput{AuthorID: author.ID, PostID: post.ID, Content: "Update: solved it"})
	require.NoError(t, err)

	for _, uid := range []uint{follower.ID, author.ID} {
		page, err := env.notifications.List(ctx, uid, 1)
		require.NoError(t, err)
		require.Len(t, page.Messages, 1, "user %d", uid)
		assert.Contains(t, page.Messages[0].Message, "was commented on by "+author.Login)
		assert.NotNil(t, page.Messages[0].CommentID)
	}
}

func TestNotificationService_ListPagesAndMarkRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, env.db)
	follower := testutil.CreateUser(t, env.db)
	stranger := testutil.CreateUser(t, env.db)
	post := testutil.CreatePost(t, env.db, author)
	require.NoError(t, env.posts.Subscribe(ctx, follower.ID, post.ID))

	for i := 0; i < 5; i++ {
		env.notifications.NotifyPostChanged(ctx, post, author)
	}

	first, err := env.notifications.List(ctx, follower.ID, 1)
	require.NoError(t, err)
	assert.Len(t, first.Messages, NotificationPageSize)
	assert.Equal(t, int64(5), first.Total)

	second, err := env.notifications.List(ctx, follower.ID, 2)
	require.NoError(t, err)
	assert.Len(t, second.Messages, 1)

	id := first.Messages[0].ID
	_, err = env.notifications.MarkRead(ctx, stranger.ID, id)
	requireCode(t, err, models.CodeNotFound)

	read, err := env.notifications.MarkRead(ctx, follower.ID, id)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	require.NotNil(t, read.ReadAt)

	env.notifications.now = func() time.Time { return time.Now().UTC().Add(8 * 24 * time.Hour) }
	later, err := env.notifications.List(ctx, follower.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), later.Total)
}

func TestNotificationService_PublishesRealtime(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	env := newTestEnv(t)
	env.notifications = NewNotificationService(env.repos, notifications.NewNotifier(rdb), featureflags.NewManager("realtime_notifications=on"))
	ctx := context.Background()
	author := testutil.CreateUser(t, env.db)
	follower := testutil.CreateUser(t, env.db)
	post := testutil.CreatePost(t, env.db, author)
	require.NoError(t, env.posts.Subscribe(ctx, follower.ID, post.ID))

	sub := rdb.Subscribe(ctx, notifications.UserChannel(follower.ID))
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	env.notifications.NotifyPostChanged(ctx, post, author)

	select {
	case msg := <-sub.Channel():
		var ev notifications.Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		assert.Equal(t, "notification", ev.Type)
		require.NotNil(t, ev.Payload)
		assert.Equal(t, follower.ID, ev.Payload.UserID)
		assert.Equal(t, post.ID, ev.Payload.PostID)
	case <-time.After(2 * time.Second):
		t.Fatal("no realtime notification published")
	}
}
