package tokens

import (
	"context"
	"testing"
	"time"

	"wiseadvice/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func testUser() *models.User {
	return &models.User{ID: 42, Login: "sage", Email: "sage@example.com", Role: models.RoleAdmin}
}

func TestPurposeTTL(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 24*time.Hour, PurposeAccess.TTL())
	assert.Equal(t, 6*time.Hour, PurposeEmailConfirm.TTL())
	assert.Equal(t, time.Hour, PurposePasswordReset.TTL())
}

func TestManager_IssueAndParse(t *testing.T) {
	t.Parallel()
	m := NewManager(testSecret, nil)

	raw, issued, err := m.Issue(PurposeAccess, testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := m.Parse(raw, PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "sage", claims.Login)
	assert.Equal(t, "42", claims.Subject)
}

func TestManager_ParseRejections(t *testing.T) {
	t.Parallel()
	m := NewManager(testSecret, nil)
	confirm, _, err := m.Issue(PurposeEmailConfirm, testUser())
	require.NoError(t, err)

	other := NewManager("another-secret-key-1234567890123456789012", nil)
	foreign, _, err := other.Issue(PurposeAccess, testUser())
	require.NoError(t, err)

	expiredManager := NewManager(testSecret, nil)
	expiredManager.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	expired, _, err := expiredManager.Issue(PurposeAccess, testUser())
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"userId": 1, "purpose": "access"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"Wrong Purpose", confirm, ErrInvalid},
		{"Wrong Secret", foreign, ErrInvalid},
		{"Expired", expired, ErrExpired},
		{"Unsigned", unsigned, ErrInvalid},
		{"Garbage", "not.a.token", ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Parse(tt.raw, PurposeAccess)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestManager_RevokeAndVerify(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	m := NewManager(testSecret, rdb)
	ctx := context.Background()

	raw, claims, err := m.Issue(PurposeAccess, testUser())
	require.NoError(t, err)

	_, err = m.Verify(ctx, raw)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, claims))
	assert.True(t, mr.Exists("blacklist:"+claims.ID))

	_, err = m.Verify(ctx, raw)
	assert.ErrorIs(t, err, ErrRevoked)
}

func TestManager_RevokeWithoutRedisIsNoop(t *testing.T) {
	t.Parallel()
	m := NewManager(testSecret, nil)
	raw, claims, err := m.Issue(PurposeAccess, testUser())
	require.NoError(t, err)

	assert.NoError(t, m.Revoke(context.Background(), claims))
	_, err = m.Verify(context.Background(), raw)
	assert.NoError(t, err)
}
