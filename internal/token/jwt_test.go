package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddanilov/authcore/internal/model"
)

func newTestSigner() *JWT {
	return NewJWT("access-secret", "refresh-secret", 15*time.Minute, 30*24*time.Hour)
}

func TestJWT_AccessRoundTrip(t *testing.T) {
	signer := newTestSigner()
	userID := uuid.New()

	tokenString, err := signer.SignAccess(userID)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	got, err := signer.VerifyAccess(tokenString)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWT_RefreshRoundTrip(t *testing.T) {
	signer := newTestSigner()
	userID := uuid.New()

	tokenString, err := signer.SignRefresh(userID)
	require.NoError(t, err)

	got, err := signer.VerifyRefresh(tokenString)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWT_ClassSeparation(t *testing.T) {
	signer := newTestSigner()
	userID := uuid.New()

	access, err := signer.SignAccess(userID)
	require.NoError(t, err)
	refresh, err := signer.SignRefresh(userID)
	require.NoError(t, err)

	// Distinct secrets: each class fails the other's signature check.
	_, err = signer.VerifyRefresh(access)
	assert.ErrorIs(t, err, model.ErrInvalidOrExpiredToken)

	_, err = signer.VerifyAccess(refresh)
	assert.ErrorIs(t, err, model.ErrInvalidOrExpiredToken)
}

func TestJWT_TypeMismatchWithSharedSecret(t *testing.T) {
	// Even with one secret for both classes the typ claim keeps them apart.
	signer := NewJWT("shared", "shared", time.Minute, time.Minute)

	access, err := signer.SignAccess(uuid.New())
	require.NoError(t, err)

	_, err = signer.VerifyRefresh(access)
	assert.ErrorIs(t, err, model.ErrInvalidOrExpiredToken)
}

func TestJWT_Expired(t *testing.T) {
	signer := NewJWT("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	access, err := signer.SignAccess(uuid.New())
	require.NoError(t, err)
	refresh, err := signer.SignRefresh(uuid.New())
	require.NoError(t, err)

	_, err = signer.VerifyAccess(access)
	assert.ErrorIs(t, err, model.ErrInvalidOrExpiredToken)

	_, err = signer.VerifyRefresh(refresh)
	assert.ErrorIs(t, err, model.ErrInvalidOrExpiredToken)
}

func TestJWT_WrongSecret(t *testing.T) {
	signer := newTestSigner()
	other := NewJWT("other-access", "other-refresh", 15*time.Minute, time.Hour)

	tokenString, err := signer.SignRefresh(uuid.New())
	require.NoError(t, err)

	_, err = other.VerifyRefresh(tokenString)
	assert.ErrorIs(t, err, model.ErrInvalidOrExpiredToken)
}

func TestJWT_Malformed(t *testing.T) {
	signer := newTestSigner()

	for _, tokenString := range []string{"", "garbage", "a.b.c"} {
		_, err := signer.VerifyAccess(tokenString)
		assert.ErrorIs(t, err, model.ErrInvalidOrExpiredToken)
	}
}

func TestJWT_UniqueTokenValues(t *testing.T) {
	signer := newTestSigner()
	userID := uuid.New()

	first, err := signer.SignRefresh(userID)
	require.NoError(t, err)
	second, err := signer.SignRefresh(userID)
	require.NoError(t, err)

	// Tokens carry a random jti, so two issues in the same instant never
	// collide on the stored unique token column.
	assert.NotEqual(t, first, second)
}
