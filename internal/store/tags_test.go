package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagNameUniqueness_CaseSensitive(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	red := createTestTag(t, s, "Red")

	// Exact duplicate rejected.
	dup := *red
	dup.ID = "tag-other"
	err := s.CreateTag(ctx, &dup)
	assert.ErrorIs(t, err, ErrTagExists)

	// Different case is a different tag.
	lower := createTestTag(t, s, "red")

	got, err := s.GetTagByName(ctx, "Red")
	require.NoError(t, err)
	assert.Equal(t, red.ID, got.ID)

	got, err = s.GetTagByName(ctx, "red")
	require.NoError(t, err)
	assert.Equal(t, lower.ID, got.ID)
}

func TestGetTagByName_Missing(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetTagByName(context.Background(), "Ghost")
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestCountItemsWithTag(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	member := createTestMember(t, s, "Anna")
	tag := createTestTag(t, s, "Warm")

	count, err := s.CountItemsWithTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	a := createTestItem(t, s, member.ID, "sweater")
	b := createTestItem(t, s, member.ID, "parka")
	require.NoError(t, s.SetItemTags(ctx, a.ID, []string{tag.ID}))
	require.NoError(t, s.SetItemTags(ctx, b.ID, []string{tag.ID}))

	count, err = s.CountItemsWithTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Replacing an item's tags drops the old join.
	require.NoError(t, s.SetItemTags(ctx, a.ID, nil))
	count, err = s.CountItemsWithTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeleteTagRemovesJoins(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	member := createTestMember(t, s, "Anna")
	tag := createTestTag(t, s, "Cozy")
	keep := createTestTag(t, s, "Keep")

	item := createTestItem(t, s, member.ID, "fleece")
	require.NoError(t, s.SetItemTags(ctx, item.ID, []string{tag.ID, keep.ID}))

	require.NoError(t, s.DeleteTag(ctx, tag.ID))

	_, err := s.GetTag(ctx, tag.ID)
	assert.ErrorIs(t, err, ErrTagNotFound)

	// The name is free for reuse and the surviving join is intact.
	createTestTag(t, s, "Cozy")
	tagIDs, err := s.ItemTagIDs(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{keep.ID}, tagIDs)
}

func TestSettingsRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// Defaults before anything is saved.
	settings, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.False(t, settings.AdminMode)
	assert.Empty(t, settings.PinHash)

	settings.AdminMode = true
	settings.PinHash = "$argon2id$..."
	require.NoError(t, s.SaveSettings(ctx, settings))

	got, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, got.AdminMode)
	assert.Equal(t, settings.PinHash, got.PinHash)
}
