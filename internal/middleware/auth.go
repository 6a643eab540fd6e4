// Package middleware provides the Fiber middleware shared by every route:
// authentication, rate limiting, logging, metrics and tracing.
package middleware

import (
	"context"
	"errors"
	"strings"

	"wiseadvice/internal/models"
	"wiseadvice/internal/tokens"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the auth middleware.
const (
	LocalUserID = "userID"
	LocalRole   = "role"
	LocalClaims = "claims"
)

// TokenVerifier validates a raw session token.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*tokens.Claims, error)
}

var errMissingToken = errors.New("authorization header required")

// BearerToken extracts the token from "Authorization: Bearer <token>".
// When allowQuery is set, a "token" query parameter is accepted as well,
// which browsers need for websocket upgrades.
func BearerToken(c *fiber.Ctx, allowQuery bool) (string, error) {
	if allowQuery {
		if tok := c.Query("token"); tok != "" {
			return tok, nil
		}
	}

	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", errMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}

// Auth enforces a valid session token and stores the caller in locals.
func Auth(verifier TokenVerifier, allowQuery bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := authenticate(c, verifier, allowQuery)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(err.Error()))
		}
		setIdentity(c, claims)
		return c.Next()
	}
}

// OptionalAuth stores the caller when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if claims, err := authenticate(c, verifier, false); err == nil {
			setIdentity(c, claims)
		}
		return c.Next()
	}
}

func authenticate(c *fiber.Ctx, verifier TokenVerifier, allowQuery bool) (*tokens.Claims, error) {
	raw, err := BearerToken(c, allowQuery)
	if err != nil {
		return nil, err
	}
	claims, err := verifier.Verify(c.UserContext(), raw)
	if err != nil {
		switch {
		case errors.Is(err, tokens.ErrExpired):
			return nil, errors.New("token has expired")
		case errors.Is(err, tokens.ErrRevoked):
			return nil, errors.New("token has been revoked")
		default:
			return nil, errors.New("invalid or expired token")
		}
	}
	return claims, nil
}

func setIdentity(c *fiber.Ctx, claims *tokens.Claims) {
	c.Locals(LocalUserID, claims.UserID)
	c.Locals(LocalRole, claims.Role)
	c.Locals(LocalClaims, claims)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, claims.UserID))
}

// UserID returns the authenticated user id, or false for anonymous requests.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(LocalUserID).(uint)
	return id, ok && id != 0
}

// Claims returns the verified token claims of the current request.
func Claims(c *fiber.Ctx) (*tokens.Claims, bool) {
	claims, ok := c.Locals(LocalClaims).(*tokens.Claims)
	return claims, ok
}
