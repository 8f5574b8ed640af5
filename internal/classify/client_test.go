package classify

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

func TestClassifyDisabledWithoutEndpoint(t *testing.T) {
	client := NewClient("", slog.New(slog.DiscardHandler))
	assert.False(t, client.Enabled())
	assert.Nil(t, client.Classify(context.Background(), []byte{0x1}, "image/jpeg"))
}

func TestClassifyParsesSuggestion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"category":"TOP","season":"WINTER","color":"BLUE","warmth":4,"waterproof":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, slog.New(slog.DiscardHandler))

	suggestion := client.Classify(context.Background(), []byte{0x1, 0x2}, "image/jpeg")
	require.NotNil(t, suggestion)
	assert.Equal(t, domain.CategoryTop, suggestion.Category)
	assert.Equal(t, 4, suggestion.Warmth)
	assert.True(t, suggestion.Waterproof)
}

func TestClassifyFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, slog.New(slog.DiscardHandler))
	assert.Nil(t, client.Classify(context.Background(), []byte{0x1}, "image/jpeg"))
}

func TestClassifyRejectsOutOfTaxonomy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"category":"CAPE","season":"WINTER","color":"BLUE","warmth":3}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, slog.New(slog.DiscardHandler))
	assert.Nil(t, client.Classify(context.Background(), []byte{0x1}, "image/jpeg"))
}
