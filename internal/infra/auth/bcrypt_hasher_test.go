package auth

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	domainerrors "roster/internal/domain/errors"
)

// Low cost keeps the test suite fast; the production default stays at bcrypt.DefaultCost.
const testCost = bcrypt.MinCost

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := NewBcryptHasherWithCost(testCost)

	password := "secret1"
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	ok, err := hasher.Check(password, hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBcryptHasher_HashSaltsEveryCall(t *testing.T) {
	hasher := NewBcryptHasherWithCost(testCost)

	hash1, err := hasher.Hash("samepassword")
	require.NoError(t, err)
	hash2, err := hasher.Hash("samepassword")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)

	for _, hash := range []string{hash1, hash2} {
		ok, err := hasher.Check("samepassword", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestBcryptHasher_HashRejectsEmptyPassword(t *testing.T) {
	hasher := NewBcryptHasher()

	_, err := hasher.Hash("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrEmptyPassword))
}

func TestBcryptHasher_Check(t *testing.T) {
	hasher := NewBcryptHasherWithCost(testCost)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)

	ok, err := hasher.Check("secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Check("secret2", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = hasher.Check("", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_CheckMalformedHash(t *testing.T) {
	hasher := NewBcryptHasher()

	for _, malformed := range []string{"", "not-a-hash", "$2a$10$tooshort"} {
		ok, err := hasher.Check("secret1", malformed)
		assert.False(t, ok)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrMalformedHash), "hash: %q", malformed)
	}
}

func TestBcryptHasher_WithCustomCost(t *testing.T) {
	customCost := 6
	hasher := NewBcryptHasherWithCost(customCost)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, customCost, cost)
}

func TestBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	hasher := NewBcryptHasherWithCost(99)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
