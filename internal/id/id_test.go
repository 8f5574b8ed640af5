package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Format(t *testing.T) {
	got, err := Generate(PrefixItem)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "itm-"))
	assert.Len(t, got, len(PrefixItem)+1+21)
}

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		got, err := Generate(PrefixMember)
		require.NoError(t, err)
		assert.False(t, seen[got], "duplicate id %s", got)
		seen[got] = true
	}
}

func TestMustGenerate(t *testing.T) {
	assert.NotPanics(t, func() {
		got := MustGenerate(PrefixTag)
		assert.True(t, strings.HasPrefix(got, "tag-"))
	})
}
