package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

func TestItemCreatedAtImmutable(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	member := createTestMember(t, s, "Anna")

	item := createTestItem(t, s, member.ID, "blue jacket")
	created := item.CreatedAt
	require.False(t, created.IsZero())

	edited := *item
	edited.Description = "blue rain jacket"
	edited.CreatedAt = time.Time{} // callers can't reset it
	require.NoError(t, s.UpdateItem(ctx, &edited))

	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "blue rain jacket", got.Description)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestUpdateItemDoesNotTouchLastWorn(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	member := createTestMember(t, s, "Anna")
	item := createTestItem(t, s, member.ID, "sneakers")

	wornAt := time.Now().Add(-time.Hour)
	require.NoError(t, s.MarkItemsWorn(ctx, []string{item.ID}, wornAt))

	edited := *item
	edited.LastWornAt = 0 // ignored
	require.NoError(t, s.UpdateItem(ctx, &edited))

	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, wornAt.UnixMilli(), got.LastWornAt)
}

func TestMarkItemsWorn_Atomic(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	member := createTestMember(t, s, "Anna")
	a := createTestItem(t, s, member.ID, "top")
	b := createTestItem(t, s, member.ID, "pants")

	err := s.MarkItemsWorn(ctx, []string{a.ID, "itm-missing", b.ID}, time.Now())
	require.ErrorIs(t, err, ErrItemNotFound)

	// Neither item was stamped: the transaction rolled back.
	got, err := s.GetItem(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.NeverWorn())
}

func TestListItemsFiltered(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	member := createTestMember(t, s, "Anna")
	other := createTestMember(t, s, "Ben")

	winter := createTestItem(t, s, member.ID, "wool sweater", func(i *domain.ClothingItem) {
		i.Season = domain.SeasonWinter
	})
	summer := createTestItem(t, s, member.ID, "linen shirt", func(i *domain.ClothingItem) {
		i.Season = domain.SeasonSummer
	})
	stored := createTestItem(t, s, member.ID, "stored sweater", func(i *domain.ClothingItem) {
		i.Season = domain.SeasonWinter
		i.Stored = true
	})
	createTestItem(t, s, other.ID, "not hers")

	// Default view: in-use only, everything else neutral.
	got, err := s.ListItemsFiltered(ctx, member.ID, FilterParams{Mode: domain.ViewInUse})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Stored view.
	got, err = s.ListItemsFiltered(ctx, member.ID, FilterParams{Mode: domain.ViewStored})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, stored.ID, got[0].ID)

	// Season filter is exact, no transitional fallback.
	season := domain.SeasonWinter
	got, err = s.ListItemsFiltered(ctx, member.ID, FilterParams{Mode: domain.ViewInUse, Season: &season})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, winter.ID, got[0].ID)

	// Case-insensitive substring query.
	got, err = s.ListItemsFiltered(ctx, member.ID, FilterParams{Mode: domain.ViewInUse, Query: "LINEN"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, summer.ID, got[0].ID)

	// Empty query matches everything.
	got, err = s.ListItemsFiltered(ctx, member.ID, FilterParams{Mode: domain.ViewInUse, Query: "  "})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestListItemsFiltered_Tags(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	member := createTestMember(t, s, "Anna")

	party := createTestTag(t, s, "Party")
	warm := createTestTag(t, s, "Warm")

	both := createTestItem(t, s, member.ID, "sequin sweater")
	partyOnly := createTestItem(t, s, member.ID, "sequin top")
	createTestItem(t, s, member.ID, "plain top")

	require.NoError(t, s.SetItemTags(ctx, both.ID, []string{party.ID, warm.ID}))
	require.NoError(t, s.SetItemTags(ctx, partyOnly.ID, []string{party.ID}))

	// Empty selection: no tag restriction.
	got, err := s.ListItemsFiltered(ctx, member.ID, FilterParams{Mode: domain.ViewInUse})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// Single tag.
	got, err = s.ListItemsFiltered(ctx, member.ID, FilterParams{Mode: domain.ViewInUse, TagIDs: []string{party.ID}})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Multiple tags narrow: item must carry them all.
	got, err = s.ListItemsFiltered(ctx, member.ID, FilterParams{Mode: domain.ViewInUse, TagIDs: []string{party.ID, warm.ID}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, both.ID, got[0].ID)
}

func TestDeleteItemCleansJoinsAndHistory(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	anna := createTestMember(t, s, "Anna")
	ben := createTestMember(t, s, "Ben")

	item := createTestItem(t, s, anna.ID, "hand-me-down coat")
	tag := createTestTag(t, s, "Coat")
	require.NoError(t, s.SetItemTags(ctx, item.ID, []string{tag.ID}))

	_, err := s.TransferItem(ctx, item.ID, ben.ID, time.Now())
	require.NoError(t, err)

	require.NoError(t, s.DeleteItem(ctx, item.ID))

	_, err = s.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)

	count, err := s.CountItemsWithTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	records, err := s.ListTransfersByItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Empty(t, records)

	// The new owner's list no longer contains it.
	items, err := s.ListItemsByMember(ctx, ben.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteMemberCascades(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	anna := createTestMember(t, s, "Anna")
	ben := createTestMember(t, s, "Ben")

	kept := createTestItem(t, s, ben.ID, "bens own")
	givenAway := createTestItem(t, s, anna.ID, "annas old coat")
	_, err := s.TransferItem(ctx, givenAway.ID, ben.ID, time.Now())
	require.NoError(t, err)
	owned := createTestItem(t, s, anna.ID, "annas dress")

	require.NoError(t, s.DeleteMember(ctx, anna.ID))

	_, err = s.GetMember(ctx, anna.ID)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	// Anna's owned item is gone; Ben's items survive.
	_, err = s.GetItem(ctx, owned.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
	_, err = s.GetItem(ctx, kept.ID)
	assert.NoError(t, err)
	_, err = s.GetItem(ctx, givenAway.ID)
	assert.NoError(t, err, "item transferred away belongs to Ben now")

	// Transfer rows naming Anna are gone.
	records, err := s.ListTransfersByMember(ctx, ben.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}
