package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt_HashAndCompare(t *testing.T) {
	h := NewBcrypt()

	digest, err := h.Hash("correct-horse-battery")
	require.NoError(t, err)
	require.NotEmpty(t, digest)

	assert.True(t, h.Compare("correct-horse-battery", digest))
	assert.False(t, h.Compare("wrong-password", digest))
}

func TestBcrypt_FixedCost(t *testing.T) {
	h := NewBcrypt()

	digest, err := h.Hash("some-password")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, Cost, cost)
}
