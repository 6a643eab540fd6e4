package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wiseadvice/internal/models"
	"wiseadvice/internal/testutil"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func execute(t *testing.T, db *gorm.DB, args ...string) (string, error) {
	t.Helper()
	opts := &RootOptions{OpenDB: func() (*gorm.DB, error) { return db, nil }}
	cmd := newRootCommand(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPromoteCommand(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db)

	out, err := execute(t, db, "promote", user.Login)
	require.NoError(t, err)
	assert.Contains(t, out, "is now an admin")

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, models.RoleAdmin, got.Role)
}

func TestPromoteCommand_Errors(t *testing.T) {
	db := testutil.NewTestDB(t)

	_, err := execute(t, db, "promote")
	assert.Error(t, err)

	_, err = execute(t, db, "promote", "nobody")
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestSeedCommand(t *testing.T) {
	db := testutil.NewTestDB(t)

	out, err := execute(t, db, "seed", "--users", "2", "--posts", "3", "--seed", "11")
	require.NoError(t, err)
	assert.Contains(t, out, "users: 2")
	assert.Contains(t, out, "posts: 3")
}

func TestMigrateCommand(t *testing.T) {
	db := testutil.NewTestDB(t)

	out, err := execute(t, db, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema up to date")
}

func TestWatchCommand(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"notification","message":"first"}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"notification","message":"second"}`))
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		// Wait for the client to close its side.
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	out, err := execute(t, nil, "watch", "--url", wsURL, "--token", "tok")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "first")
	assert.Contains(t, lines[1], "second")

	_, err = execute(t, nil, "watch", "--url", wsURL, "--token", "wrong")
	assert.ErrorContains(t, err, "status 401")
}

func TestWatchCommand_RequiresToken(t *testing.T) {
	t.Setenv("WISE_TOKEN", "")
	_, err := execute(t, nil, "watch", "--url", "ws://127.0.0.1:1/")
	assert.ErrorContains(t, err, "token is required")
}
