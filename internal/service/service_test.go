package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/sse"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
)

// testEnv wires a real badger store and a running event bus for service
// tests.
type testEnv struct {
	store      *store.Store
	sseManager *sse.Manager
	members    *MemberService
	items      *ItemService
	tags       *TagService
	locations  *LocationService
	settings   *SettingsService
	wardrobe   *WardrobeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	st, err := store.New(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	manager := sse.NewManager(logger)
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)
	t.Cleanup(cancel)

	tags := NewTagService(st, manager, logger)
	items := NewItemService(st, tags, manager, nil, nil, logger)
	wardrobe := NewWardrobeService(st, manager, logger)
	t.Cleanup(wardrobe.Close)

	return &testEnv{
		store:      st,
		sseManager: manager,
		members:    NewMemberService(st, manager, logger),
		items:      items,
		tags:       tags,
		locations:  NewLocationService(st, manager, logger),
		settings:   NewSettingsService(st, manager, logger),
		wardrobe:   wardrobe,
	}
}

func (e *testEnv) createMember(t *testing.T, name string) *domain.Member {
	t.Helper()
	m, err := e.members.CreateMember(context.Background(), MemberInput{Name: name, Gender: "girl", Age: 6})
	require.NoError(t, err)
	return m
}

func (e *testEnv) createItem(t *testing.T, memberID, description string, mutate func(*ItemInput)) *domain.ClothingItem {
	t.Helper()
	input := ItemInput{
		Description: description,
		Category:    domain.CategoryTop,
		Warmth:      3,
		Season:      domain.SeasonSpringAutumn,
		Color:       domain.ColorBlue,
	}
	if mutate != nil {
		mutate(&input)
	}
	item, err := e.items.CreateItem(context.Background(), memberID, input)
	require.NoError(t, err)
	return item
}

// enableAdmin sets a PIN and switches admin mode on.
func (e *testEnv) enableAdmin(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.settings.ChangePin(ctx, "", "2468", "2468"))
	_, err := e.settings.EnableAdminMode(ctx, "2468")
	require.NoError(t, err)
}

// waitForState reads snapshots from a subscription channel until pred is
// satisfied or the timeout passes.
func waitForState(t *testing.T, ch <-chan *ViewState, pred func(*ViewState) bool) *ViewState {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case state, ok := <-ch:
			if !ok {
				t.Fatal("subscription channel closed while waiting for state")
			}
			if pred(state) {
				return state
			}
		case <-deadline:
			t.Fatal("timed out waiting for view state")
		}
	}
}
