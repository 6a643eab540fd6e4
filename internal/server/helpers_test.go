package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"wiseadvice/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeParam(t *testing.T) {
	cases := map[string]string{
		"id":           "ID",
		"commentId":    "comment ID",
		"postId":       "post ID",
		"parentPostId": "parent post ID",
		"token":        "token",
	}
	for in, want := range cases {
		assert.Equal(t, want, humanizeParam(in), in)
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, statusFor(models.CodeValidation, fiber.StatusForbidden))
	assert.Equal(t, fiber.StatusUnauthorized, statusFor(models.CodeUnauthorized, fiber.StatusBadRequest))
	assert.Equal(t, fiber.StatusForbidden, statusFor(models.CodeForbidden, fiber.StatusBadRequest))
	assert.Equal(t, fiber.StatusNotFound, statusFor(models.CodeNotFound, fiber.StatusBadRequest))
	assert.Equal(t, fiber.StatusForbidden, statusFor(models.CodeConflict, fiber.StatusForbidden))
	assert.Equal(t, fiber.StatusBadRequest, statusFor(models.CodeConflict, fiber.StatusBadRequest))
	assert.Equal(t, fiber.StatusServiceUnavailable, statusFor(models.CodeUnavailable, fiber.StatusBadRequest))
	assert.Equal(t, fiber.StatusInternalServerError, statusFor(models.CodeInternal, fiber.StatusBadRequest))
}

func TestParseIDAndRespondServiceError(t *testing.T) {
	s := &Server{}
	app := fiber.New()
	app.Get("/comments/:commentId", func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "commentId")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})
	app.Get("/fail/:kind", func(c *fiber.Ctx) error {
		switch c.Params("kind") {
		case "conflict":
			return respondServiceError(c, models.NewConflictError("You already liked this"), fiber.StatusForbidden)
		case "missing":
			return respondServiceError(c, models.NewNotFoundError("Post", 7), fiber.StatusBadRequest)
		default:
			return respondServiceError(c, errors.New("boom"), fiber.StatusBadRequest)
		}
	})

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/comments/12", fiber.StatusOK, ""},
		{"/comments/abc", fiber.StatusBadRequest, models.CodeValidation},
		{"/comments/0", fiber.StatusBadRequest, models.CodeValidation},
		{"/fail/conflict", fiber.StatusForbidden, models.CodeConflict},
		{"/fail/missing", fiber.StatusNotFound, models.CodeNotFound},
		{"/fail/other", fiber.StatusInternalServerError, models.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil), -1)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.code != "" {
				var body models.ErrorResponse
				require.NoError(t, decodeBody(resp, &body))
				assert.Equal(t, tt.code, body.Code)
			}
		})
	}

	status, body := doJSON(t, app, http.MethodGet, "/comments/abc", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid comment ID", body["error"])
}

func decodeBody(resp *http.Response, dst any) error {
	return json.NewDecoder(resp.Body).Decode(dst)
}
