package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue("64f000000000000000000001")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "64f000000000000000000001", userID)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := NewTokenService("secret-a").Issue("64f000000000000000000001")
	require.NoError(t, err)

	_, err = NewTokenService("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbageRejected(t *testing.T) {
	svc := NewTokenService("test-secret")

	_, err := svc.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// Tokens are valid for 24 hours: one issued an hour ago verifies, one issued
// 25 hours ago does not.
func TestTokenExpiry(t *testing.T) {
	svc := NewTokenService("test-secret")

	svc.now = func() time.Time { return time.Now().Add(-1 * time.Hour) }
	fresh, err := svc.Issue("64f000000000000000000001")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }
	stale, err := svc.Issue("64f000000000000000000001")
	require.NoError(t, err)

	_, err = svc.Verify(fresh)
	assert.NoError(t, err)

	_, err = svc.Verify(stale)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
