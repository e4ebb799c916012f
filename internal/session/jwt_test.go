package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkdash-be/internal/session"
)

func TestIssuePair_Roundtrip(t *testing.T) {
	svc := session.NewJWTService("test-secret", time.Hour)

	pair, err := svc.IssuePair("user-1", "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.Verify(pair.AccessToken, "access")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)

	refreshClaims, err := svc.Verify(pair.RefreshToken, "refresh")
	require.NoError(t, err)
	assert.Equal(t, "user-1", refreshClaims.UserID)
}

func TestVerify_WrongKind_Rejected(t *testing.T) {
	svc := session.NewJWTService("test-secret", time.Hour)

	pair, err := svc.IssuePair("user-1", "user@example.com")
	require.NoError(t, err)

	_, err = svc.Verify(pair.RefreshToken, "access")
	assert.ErrorIs(t, err, session.ErrInvalidToken)

	_, err = svc.Verify(pair.AccessToken, "refresh")
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestVerify_ExpiredToken_Rejected(t *testing.T) {
	svc := session.NewJWTService("test-secret", -time.Minute)

	pair, err := svc.IssuePair("user-1", "user@example.com")
	require.NoError(t, err)

	_, err = svc.Verify(pair.AccessToken, "access")
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestVerify_DifferentSecret_Rejected(t *testing.T) {
	minting := session.NewJWTService("secret-a", time.Hour)
	verifying := session.NewJWTService("secret-b", time.Hour)

	pair, err := minting.IssuePair("user-1", "user@example.com")
	require.NoError(t, err)

	_, err = verifying.Verify(pair.AccessToken, "access")
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}
