package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/id"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestMember(t *testing.T, s *Store, name string) *domain.Member {
	t.Helper()

	m := &domain.Member{
		ID:        id.MustGenerate(id.PrefixMember),
		Name:      name,
		Gender:    "male",
		Age:       8,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, s.CreateMember(context.Background(), m))
	return m
}

func createTestItem(t *testing.T, s *Store, memberID, description string, mutate ...func(*domain.ClothingItem)) *domain.ClothingItem {
	t.Helper()

	item := &domain.ClothingItem{
		ID:          id.MustGenerate(id.PrefixItem),
		MemberID:    memberID,
		Description: description,
		Category:    domain.CategoryTop,
		Warmth:      3,
		Season:      domain.SeasonSpringAutumn,
		Color:       domain.ColorBlue,
	}
	for _, fn := range mutate {
		fn(item)
	}
	require.NoError(t, s.CreateItem(context.Background(), item))
	return item
}

func createTestTag(t *testing.T, s *Store, name string) *domain.Tag {
	t.Helper()

	tag := &domain.Tag{
		ID:        id.MustGenerate(id.PrefixTag),
		Name:      name,
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateTag(context.Background(), tag))
	return tag
}
