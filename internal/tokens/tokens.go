// Package tokens issues and verifies the signed JWTs used for sessions,
// email confirmation and password resets.
package tokens

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"wiseadvice/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	issuer   = "wiseadvice-api"
	audience = "wiseadvice-client"
)

// Purpose restricts what a token may be used for.
type Purpose string

const (
	PurposeAccess        Purpose = "access"
	PurposeEmailConfirm  Purpose = "email_confirm"
	PurposePasswordReset Purpose = "password_reset"
)

// TTL returns the lifetime of tokens issued for p.
func (p Purpose) TTL() time.Duration {
	switch p {
	case PurposeEmailConfirm:
		return 6 * time.Hour
	case PurposePasswordReset:
		return time.Hour
	default:
		return 24 * time.Hour
	}
}

var (
	// ErrExpired is returned for a well-formed token past its expiry.
	ErrExpired = errors.New("token has expired")
	// ErrInvalid covers bad signatures, wrong purpose, issuer or audience.
	ErrInvalid = errors.New("invalid token")
	// ErrRevoked is returned for a logged-out session token.
	ErrRevoked = errors.New("token has been revoked")
)

// Claims is the payload carried by every token.
type Claims struct {
	UserID  uint        `json:"userId"`
	Login   string      `json:"login,omitempty"`
	Email   string      `json:"email,omitempty"`
	Role    models.Role `json:"role,omitempty"`
	Purpose Purpose     `json:"purpose"`
	jwt.RegisteredClaims
}

// Manager signs and parses tokens with a shared HMAC secret. Revocation
// is tracked in Redis when a client is configured.
type Manager struct {
	secret []byte
	rdb    *redis.Client
	now    func() time.Time
}

// NewManager creates a token manager. rdb may be nil, which disables revocation.
func NewManager(secret string, rdb *redis.Client) *Manager {
	return &Manager{
		secret: []byte(secret),
		rdb:    rdb,
		now:    time.Now,
	}
}

// Issue signs a token of the given purpose for user.
func (m *Manager) Issue(p Purpose, user *models.User) (string, *Claims, error) {
	if len(m.secret) == 0 {
		return "", nil, fmt.Errorf("JWT secret not configured")
	}

	now := m.now()
	claims := &Claims{
		UserID:  user.ID,
		Login:   user.Login,
		Email:   user.Email,
		Purpose: p,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(p.TTL())),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	if p == PurposeAccess {
		claims.Role = user.Role
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Parse validates raw and checks that it was issued for want.
func (m *Manager) Parse(raw string, want Purpose) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if claims.Purpose != want {
		return nil, fmt.Errorf("%w: wrong purpose %q", ErrInvalid, claims.Purpose)
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("%w: missing user", ErrInvalid)
	}
	return claims, nil
}

// Verify parses a session token and rejects revoked ones.
func (m *Manager) Verify(ctx context.Context, raw string) (*Claims, error) {
	return m.VerifyPurpose(ctx, raw, PurposeAccess)
}

// VerifyPurpose is Verify for any purpose. Single-use tokens are revoked
// by their consumer after use.
func (m *Manager) VerifyPurpose(ctx context.Context, raw string, want Purpose) (*Claims, error) {
	claims, err := m.Parse(raw, want)
	if err != nil {
		return nil, err
	}
	if m.rdb != nil && claims.ID != "" {
		n, err := m.rdb.Exists(ctx, revokedKey(claims.ID)).Result()
		if err == nil && n > 0 {
			return nil, ErrRevoked
		}
	}
	return claims, nil
}

// Revoke blacklists the token until it would have expired anyway.
func (m *Manager) Revoke(ctx context.Context, claims *Claims) error {
	if m.rdb == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	return m.rdb.Set(ctx, revokedKey(claims.ID), 1, ttl).Err()
}

func revokedKey(jti string) string {
	return "blacklist:" + jti
}
