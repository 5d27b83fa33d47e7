package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIdentity() Identity {
	return Identity{UserID: 42, Username: "alice", Email: "alice@example.com", FullName: "Alice A."}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := New("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour)

	token, err := svc.GenerateAccessToken(testIdentity())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice A.", claims.FullName)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := New("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour)

	token, err := svc.GenerateRefreshToken(42)
	require.NoError(t, err)

	claims, err := svc.ParseRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.NotEmpty(t, claims.ID)
}

func TestRefreshTokensAreDistinct(t *testing.T) {
	svc := New("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour)

	t1, err := svc.GenerateRefreshToken(42)
	require.NoError(t, err)
	t2, err := svc.GenerateRefreshToken(42)
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	svc := New("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour)

	access, err := svc.GenerateAccessToken(testIdentity())
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(42)
	require.NoError(t, err)

	_, err = svc.ParseRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.ParseAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	svc := New("access-secret", "refresh-secret", time.Hour, time.Hour)
	other := New("other-secret", "other-refresh", time.Hour, time.Hour)

	token, err := svc.GenerateAccessToken(testIdentity())
	require.NoError(t, err)

	_, err = other.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	svc := New("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	token, err := svc.GenerateAccessToken(testIdentity())
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateFailsWithoutSecret(t *testing.T) {
	svc := New("", "", time.Hour, time.Hour)

	_, err := svc.GenerateAccessToken(testIdentity())
	assert.ErrorIs(t, err, ErrMissingSecret)
	_, err = svc.GenerateRefreshToken(1)
	assert.ErrorIs(t, err, ErrMissingSecret)
}
