package server

import (
	"fmt"
	"net/http"
	"testing"

	"wiseadvice/internal/models"
	"wiseadvice/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idOf(t *testing.T, body map[string]any) uint {
	t.Helper()
	id, ok := body["id"].(float64)
	require.True(t, ok, "response has no id: %v", body)
	return uint(id)
}

func TestPostLifecycle(t *testing.T) {
	s, app, db := newTestServer(t, testConfig())
	admin := testutil.CreateUser(t, db, testutil.Admin())
	author := testutil.CreateUser(t, db)
	reader := testutil.CreateUser(t, db)
	testutil.CreateCategory(t, db, "Career")

	adminTok := tokenFor(t, s, admin)
	authorTok := tokenFor(t, s, author)
	readerTok := tokenFor(t, s, reader)

	newPost := fiber.Map{"title": "Should I switch teams?", "content": "Looking for advice", "categories": "Career"}

	t.Run("create requires auth", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, "/api/posts", "", newPost)
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("create validates body", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/posts", authorTok, fiber.Map{"content": "no title"})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, models.CodeValidation, body["code"])
	})

	status, body := doJSON(t, app, http.MethodPost, "/api/posts", authorTok, newPost)
	require.Equal(t, fiber.StatusCreated, status, body)
	postID := idOf(t, body)
	postPath := fmt.Sprintf("/api/posts/%d", postID)

	t.Run("anonymous read", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodGet, postPath, "", nil)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "Should I switch teams?", body["title"])

		status, raw := doRaw(t, app, http.MethodGet, postPath+"/categories", "", nil)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Contains(t, string(raw), "Career")
	})

	t.Run("like twice is rejected", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, postPath+"/like", readerTok, nil)
		assert.Equal(t, fiber.StatusOK, status)
		status, body := doJSON(t, app, http.MethodPost, postPath+"/like", readerTok, nil)
		assert.Equal(t, fiber.StatusForbidden, status)
		assert.Equal(t, models.CodeConflict, body["code"])
	})

	t.Run("only the owner edits", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPatch, postPath, readerTok, fiber.Map{"title": "Hijacked"})
		assert.Equal(t, fiber.StatusForbidden, status)
		status, body := doJSON(t, app, http.MethodPatch, postPath, authorTok, fiber.Map{"title": "Should I switch departments?"})
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "Should I switch departments?", body["title"])
	})

	t.Run("lock blocks comments until unlocked", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPatch, postPath+"/lock", authorTok, nil)
		assert.Equal(t, fiber.StatusForbidden, status)

		status, body := doJSON(t, app, http.MethodPatch, postPath+"/lock", adminTok, nil)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, true, body["locked"])

		comment := fiber.Map{"content": "Talk to your manager first"}
		status, _ = doJSON(t, app, http.MethodPost, postPath+"/comments", readerTok, comment)
		assert.Equal(t, fiber.StatusForbidden, status)

		status, _ = doJSON(t, app, http.MethodPatch, postPath+"/unlock", adminTok, nil)
		require.Equal(t, fiber.StatusOK, status)

		status, body = doJSON(t, app, http.MethodPost, postPath+"/comments", readerTok, comment)
		assert.Equal(t, fiber.StatusOK, status)
		commentID := idOf(t, body)

		status, raw := doRaw(t, app, http.MethodGet, postPath+"/comments", "", nil)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Contains(t, string(raw), "Talk to your manager first")

		best := fmt.Sprintf("%s/comments/%d", postPath, commentID)
		status, _ = doJSON(t, app, http.MethodPatch, best, readerTok, nil)
		assert.Equal(t, fiber.StatusForbidden, status)
		status, _ = doJSON(t, app, http.MethodPatch, best, authorTok, nil)
		assert.Equal(t, fiber.StatusOK, status)
	})

	t.Run("favorites", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, postPath+"/favorites", readerTok, nil)
		assert.Equal(t, fiber.StatusCreated, status)
		status, _ = doJSON(t, app, http.MethodPost, postPath+"/favorites", readerTok, nil)
		assert.Equal(t, fiber.StatusOK, status)

		status, body := doJSON(t, app, http.MethodGet, "/api/posts/favorites", readerTok, nil)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, float64(1), body["total"])
	})

	t.Run("delete", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodDelete, postPath, readerTok, nil)
		assert.Equal(t, fiber.StatusForbidden, status)
		status, _ = doJSON(t, app, http.MethodDelete, postPath, authorTok, nil)
		assert.Equal(t, fiber.StatusOK, status)
		status, _ = doJSON(t, app, http.MethodGet, postPath, "", nil)
		assert.Equal(t, fiber.StatusNotFound, status)
	})
}

func TestGetPosts_PaginationAndVisibility(t *testing.T) {
	s, app, db := newTestServer(t, testConfig())
	author := testutil.CreateUser(t, db)
	admin := testutil.CreateUser(t, db, testutil.Admin())
	for i := 0; i < 4; i++ {
		testutil.CreatePost(t, db, author)
	}
	testutil.CreatePost(t, db, author, testutil.Inactive())

	status, body := doJSON(t, app, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(4), body["total"])
	assert.Len(t, body["posts"], 3)

	status, body = doJSON(t, app, http.MethodGet, "/api/posts?page=2", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["posts"], 1)

	status, body = doJSON(t, app, http.MethodGet, "/api/posts", tokenFor(t, s, admin), nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(5), body["total"])

	status, body = doJSON(t, app, http.MethodGet, "/api/user/posts", tokenFor(t, s, author), nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(5), body["total"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/posts?status=archived", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCategoryHandlers(t *testing.T) {
	s, app, db := newTestServer(t, testConfig())
	admin := testutil.CreateUser(t, db, testutil.Admin())
	user := testutil.CreateUser(t, db)

	cat := fiber.Map{"title": "Health", "description": "Body and mind"}
	status, _ := doJSON(t, app, http.MethodPost, "/api/categories", tokenFor(t, s, user), cat)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/categories", tokenFor(t, s, admin), cat)
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Equal(t, "Health", body["title"])

	status, body = doJSON(t, app, http.MethodPost, "/api/categories", tokenFor(t, s, admin), cat)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, models.CodeConflict, body["code"])

	status, raw := doRaw(t, app, http.MethodGet, "/api/categories", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(raw), "Body and mind")
}
