package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

func TestSnapshotDefaultsToInUseView(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	member := env.createMember(t, "Emma")

	env.createItem(t, member.ID, "Blue shirt", nil)
	env.createItem(t, member.ID, "Winter coat", func(in *ItemInput) {
		in.Stored = true
	})

	state, err := env.wardrobe.Snapshot(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "Emma", state.MemberName)
	assert.Equal(t, domain.ViewInUse, state.Filters.Mode)
	require.Len(t, state.Items, 1)
	assert.Equal(t, "Blue shirt", state.Items[0].Description)
}

func TestSetViewModeShowsStoredItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	member := env.createMember(t, "Emma")

	env.createItem(t, member.ID, "Blue shirt", nil)
	env.createItem(t, member.ID, "Winter coat", func(in *ItemInput) {
		in.Stored = true
	})

	state, err := env.wardrobe.SetViewMode(ctx, member.ID, domain.ViewStored)
	require.NoError(t, err)
	require.Len(t, state.Items, 1)
	assert.Equal(t, "Winter coat", state.Items[0].Description)
}

func TestFiltersCompose(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	member := env.createMember(t, "Emma")

	env.createItem(t, member.ID, "Red summer dress", func(in *ItemInput) {
		in.Season = domain.SeasonSummer
		in.TagNames = []string{"Festlich"}
	})
	env.createItem(t, member.ID, "Blue summer shirt", func(in *ItemInput) {
		in.Season = domain.SeasonSummer
	})
	env.createItem(t, member.ID, "Red winter dress", func(in *ItemInput) {
		in.Season = domain.SeasonWinter
		in.TagNames = []string{"Festlich"}
	})

	festlich, _, err := env.tags.GetOrCreateTag(ctx, "Festlich")
	require.NoError(t, err)

	// Tag filter alone.
	state, err := env.wardrobe.SetTagFilter(ctx, member.ID, []string{festlich.ID})
	require.NoError(t, err)
	assert.Len(t, state.Items, 2)

	// Tag AND season.
	summer := domain.SeasonSummer
	state, err = env.wardrobe.SetSeason(ctx, member.ID, &summer)
	require.NoError(t, err)
	require.Len(t, state.Items, 1)
	assert.Equal(t, "Red summer dress", state.Items[0].Description)

	// Adding a non-matching query empties the view.
	state, err = env.wardrobe.SetQuery(ctx, member.ID, "coat")
	require.NoError(t, err)
	assert.Empty(t, state.Items)

	// Accent- and case-insensitive substring search.
	state, err = env.wardrobe.SetQuery(ctx, member.ID, "DRESS")
	require.NoError(t, err)
	assert.Len(t, state.Items, 1)
}

func TestTagUsageCountsFollowViewMode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	member := env.createMember(t, "Emma")

	env.createItem(t, member.ID, "Party dress", func(in *ItemInput) {
		in.TagNames = []string{"Festlich"}
	})
	env.createItem(t, member.ID, "Stored gown", func(in *ItemInput) {
		in.Stored = true
		in.TagNames = []string{"Festlich"}
	})

	findTag := func(state *ViewState, name string) *TagView {
		for i := range state.Tags {
			if state.Tags[i].Tag.Name == name {
				return &state.Tags[i]
			}
		}
		return nil
	}

	state, err := env.wardrobe.Snapshot(ctx, member.ID)
	require.NoError(t, err)
	tv := findTag(state, "Festlich")
	require.NotNil(t, tv)
	assert.Equal(t, 1, tv.UsageCount)
	assert.True(t, tv.Deletable)

	state, err = env.wardrobe.SetViewMode(ctx, member.ID, domain.ViewStored)
	require.NoError(t, err)
	tv = findTag(state, "Festlich")
	require.NotNil(t, tv)
	assert.Equal(t, 1, tv.UsageCount)
}

func TestProtectedTagsNotDeletableInView(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	member := env.createMember(t, "Emma")
	require.NoError(t, env.tags.EnsureDefaultTags(ctx))

	state, err := env.wardrobe.Snapshot(ctx, member.ID)
	require.NoError(t, err)

	for _, tv := range state.Tags {
		assert.False(t, tv.Deletable, tv.Tag.Name)
	}
}

func TestOutdatedSetComputedOverCurrentView(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	// Girl, age 6: recommended garment size 120.
	member := env.createMember(t, "Emma")

	small := env.createItem(t, member.ID, "Outgrown shirt", func(in *ItemInput) {
		in.SizeLabel = "104"
	})
	env.createItem(t, member.ID, "Current shirt", func(in *ItemInput) {
		in.SizeLabel = "122"
	})

	state, err := env.wardrobe.Snapshot(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{small.ID}, state.OutdatedItemIDs)
}

func TestSubscribeDeliversInitialAndUpdatedSnapshots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	member := env.createMember(t, "Emma")
	env.createItem(t, member.ID, "Blue shirt", nil)

	ch, cancel, err := env.wardrobe.Subscribe(ctx, member.ID)
	require.NoError(t, err)
	defer cancel()

	initial := waitForState(t, ch, func(s *ViewState) bool { return true })
	assert.Len(t, initial.Items, 1)

	// A store change pushes a fresh snapshot without torn state: the new
	// item and its tag count arrive together.
	env.createItem(t, member.ID, "Party dress", func(in *ItemInput) {
		in.TagNames = []string{"Festlich"}
	})

	updated := waitForState(t, ch, func(s *ViewState) bool { return len(s.Items) == 2 })
	var festlichCount int
	for _, tv := range updated.Tags {
		if tv.Tag.Name == "Festlich" {
			festlichCount = tv.UsageCount
		}
	}
	assert.Equal(t, 1, festlichCount)
}

func TestSubscribeUnknownMember(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.wardrobe.Subscribe(context.Background(), "mem-missing")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestAdminModeReflectedInSnapshots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	member := env.createMember(t, "Emma")

	state, err := env.wardrobe.Snapshot(ctx, member.ID)
	require.NoError(t, err)
	assert.False(t, state.AdminMode)

	env.enableAdmin(t)

	state, err = env.wardrobe.Snapshot(ctx, member.ID)
	require.NoError(t, err)
	assert.True(t, state.AdminMode)
}
