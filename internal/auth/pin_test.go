package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPin(t *testing.T) {
	hash, err := HashPin("2468")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPin(hash, "2468")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPin(hash, "1357")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPinRejectsShortPin(t *testing.T) {
	_, err := HashPin("123")
	assert.Error(t, err)
}

func TestHashPinSaltsEachHash(t *testing.T) {
	first, err := HashPin("2468")
	require.NoError(t, err)
	second, err := HashPin("2468")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerifyPinMalformedHash(t *testing.T) {
	ok, err := VerifyPin("not-a-hash", "2468")
	require.NoError(t, err)
	assert.False(t, ok)
}
