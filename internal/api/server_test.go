package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/recommend"
	"github.com/wardrobeapp/wardrobe-server/internal/service"
	"github.com/wardrobeapp/wardrobe-server/internal/sse"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
)

// stubWeatherProvider returns a fixed reading without any network call.
type stubWeatherProvider struct {
	weather *domain.Weather
	err     error
}

func (s *stubWeatherProvider) Current(_ context.Context, _, _ float64) (*domain.Weather, error) {
	return s.weather, s.err
}

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api humatest.TestAPI
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWithWeather(t, &stubWeatherProvider{
		weather: &domain.Weather{Temperature: -3, Apparent: -5, Code: 0, Icon: "☀️"},
	})
}

func setupTestServerWithWeather(t *testing.T, weather service.WeatherProvider) *testServer {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	st, err := store.New(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	sseManager := sse.NewManager(logger)
	ctx, cancel := context.WithCancel(context.Background())
	go sseManager.Start(ctx)
	t.Cleanup(cancel)

	tags := service.NewTagService(st, sseManager, logger)
	members := service.NewMemberService(st, sseManager, logger)
	items := service.NewItemService(st, tags, sseManager, nil, nil, logger)
	locations := service.NewLocationService(st, sseManager, logger)
	settings := service.NewSettingsService(st, sseManager, logger)
	wardrobe := service.NewWardrobeService(st, sseManager, logger)
	t.Cleanup(wardrobe.Close)
	outfit := service.NewOutfitService(st, weather, recommend.New(), items, logger)

	s := NewServer(Services{
		Members:   members,
		Items:     items,
		Tags:      tags,
		Locations: locations,
		Settings:  settings,
		Wardrobe:  wardrobe,
		Outfit:    outfit,
	}, sse.NewHandler(sseManager, logger), logger)

	return &testServer{Server: s, api: humatest.Wrap(t, s.api)}
}

// createMember creates a member through the API and returns its ID.
func (ts *testServer) createMember(t *testing.T, name string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/members", map[string]any{
		"name":   name,
		"gender": "girl",
		"age":    6,
	})
	require.Equal(t, http.StatusOK, resp.Code, "create member failed: %s", resp.Body.String())

	var member MemberResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &member))
	require.NotEmpty(t, member.ID)
	return member.ID
}

// createItem creates an item through the API and returns its ID.
func (ts *testServer) createItem(t *testing.T, memberID string, body map[string]any) string {
	t.Helper()

	base := map[string]any{
		"description": "Blue shirt",
		"category":    "TOP",
		"warmth":      3,
		"season":      "SPRING_AUTUMN",
		"color":       "BLUE",
	}
	for k, v := range body {
		base[k] = v
	}

	resp := ts.api.Post("/api/v1/members/"+memberID+"/items", base)
	require.Equal(t, http.StatusOK, resp.Code, "create item failed: %s", resp.Body.String())

	var item ItemResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &item))
	return item.ID
}

// enableAdminMode sets a PIN and switches admin mode on.
func (ts *testServer) enableAdminMode(t *testing.T) {
	t.Helper()

	resp := ts.api.Post("/api/v1/settings/pin", map[string]any{
		"new_pin":     "2468",
		"confirm_pin": "2468",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/settings/admin-mode", map[string]any{
		"enabled": true,
		"pin":     "2468",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

// === Tests ===

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMemberLifecycle(t *testing.T) {
	ts := setupTestServer(t)

	memberID := ts.createMember(t, "Alma")

	resp := ts.api.Get("/api/v1/members/" + memberID)
	assert.Equal(t, http.StatusOK, resp.Code)

	var member MemberResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &member))
	assert.Equal(t, "Alma", member.Name)
	assert.Equal(t, 6, member.Age)

	resp = ts.api.Put("/api/v1/members/"+memberID, map[string]any{
		"name":   "Alma Updated",
		"gender": "girl",
		"age":    7,
	})
	assert.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &member))
	assert.Equal(t, "Alma Updated", member.Name)
	assert.Equal(t, 7, member.Age)

	resp = ts.api.Delete("/api/v1/members/" + memberID)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/members/" + memberID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGetMemberSizes(t *testing.T) {
	ts := setupTestServer(t)

	memberID := ts.createMember(t, "Alma")

	resp := ts.api.Get("/api/v1/members/" + memberID + "/sizes")
	require.Equal(t, http.StatusOK, resp.Code)

	var sizes service.SizeRecommendation
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &sizes))
	require.NotNil(t, sizes.Garment)
	require.NotNil(t, sizes.Shoe)
	assert.Equal(t, 120, *sizes.Garment)
	assert.Equal(t, 27, *sizes.Shoe)
}

func TestCreateItem_ValidationRejected(t *testing.T) {
	ts := setupTestServer(t)

	memberID := ts.createMember(t, "Alma")

	resp := ts.api.Post("/api/v1/members/"+memberID+"/items", map[string]any{
		"description": "Puffer jacket",
		"category":    "TOP",
		"warmth":      9,
		"season":      "WINTER",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCreateItem_UnknownMember(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/members/missing/items", map[string]any{
		"description": "Puffer jacket",
		"category":    "TOP",
		"warmth":      4,
		"season":      "WINTER",
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestItemTagsResolvedOnCreate(t *testing.T) {
	ts := setupTestServer(t)

	memberID := ts.createMember(t, "Alma")
	itemID := ts.createItem(t, memberID, map[string]any{
		"tag_names": []string{"Party", "Rain gear"},
	})

	resp := ts.api.Get("/api/v1/items/" + itemID + "/tags")
	require.Equal(t, http.StatusOK, resp.Code)

	var out struct {
		Tags []TagResponse `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Len(t, out.Tags, 2)
}

func TestDeleteTag_GuardedWhenInUse(t *testing.T) {
	ts := setupTestServer(t)

	memberID := ts.createMember(t, "Alma")
	ts.createItem(t, memberID, map[string]any{"tag_names": []string{"Party"}})

	resp := ts.api.Get("/api/v1/tags")
	require.Equal(t, http.StatusOK, resp.Code)

	var tagList struct {
		Tags []TagResponse `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tagList))
	require.Len(t, tagList.Tags, 1)
	tagID := tagList.Tags[0].ID

	// In use without admin mode: prevented.
	resp = ts.api.Delete("/api/v1/tags/" + tagID)
	assert.Equal(t, http.StatusConflict, resp.Code)

	// Admin mode on: still needs the force confirmation.
	ts.enableAdminMode(t)
	resp = ts.api.Delete("/api/v1/tags/" + tagID)
	assert.Equal(t, http.StatusConflict, resp.Code)

	// Forced with admin mode on: deleted.
	resp = ts.api.Delete("/api/v1/tags/" + tagID + "?force=true")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var result service.DeleteGuardResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Equal(t, service.DeleteOutcomeDeleted, result.Outcome)
	assert.Equal(t, 1, result.Count)
}

func TestDeleteTag_UnusedDeletedOutright(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/tags", map[string]any{"name": "Fancy"})
	require.Equal(t, http.StatusOK, resp.Code)

	var created struct {
		Tag     TagResponse `json:"tag"`
		Created bool        `json:"created"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.True(t, created.Created)

	resp = ts.api.Delete("/api/v1/tags/" + created.Tag.ID)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestLocationNfcLookup(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/locations", map[string]any{
		"name":   "Attic box",
		"nfc_id": "nfc-123",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var loc LocationResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &loc))

	resp = ts.api.Get("/api/v1/locations/by-nfc/nfc-123")
	require.Equal(t, http.StatusOK, resp.Code)

	var found LocationResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &found))
	assert.Equal(t, loc.ID, found.ID)
	assert.Equal(t, "Attic box", found.Name)

	resp = ts.api.Get("/api/v1/locations/by-nfc/nope")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSettingsAdminFlow(t *testing.T) {
	ts := setupTestServer(t)

	// Enabling admin mode before a PIN exists is rejected.
	resp := ts.api.Post("/api/v1/settings/admin-mode", map[string]any{
		"enabled": true,
		"pin":     "2468",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	ts.enableAdminMode(t)

	resp = ts.api.Get("/api/v1/settings")
	require.Equal(t, http.StatusOK, resp.Code)

	var settings service.Settings
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &settings))
	assert.True(t, settings.AdminMode)
	assert.True(t, settings.PinSet)

	// Wrong PIN is rejected after disabling.
	resp = ts.api.Post("/api/v1/settings/admin-mode", map[string]any{"enabled": false})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/settings/admin-mode", map[string]any{
		"enabled": true,
		"pin":     "0000",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRecommendOutfit(t *testing.T) {
	ts := setupTestServer(t)

	memberID := ts.createMember(t, "Alma")
	ts.createItem(t, memberID, map[string]any{
		"description": "Wool sweater", "category": "TOP", "warmth": 4, "season": "WINTER",
	})
	ts.createItem(t, memberID, map[string]any{
		"description": "Ski pants", "category": "PANTS", "warmth": 4, "season": "WINTER",
	})
	ts.createItem(t, memberID, map[string]any{
		"description": "Winter boots", "category": "SHOES", "warmth": 4, "season": "WINTER",
	})

	resp := ts.api.Get("/api/v1/members/" + memberID + "/outfit?lat=52.52&lon=13.405")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var result service.OutfitResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.NotNil(t, result.Weather)
	require.NotNil(t, result.Outfit)
	assert.False(t, result.WeatherUnavailable)
	require.NotNil(t, result.Outfit.Top)
	assert.Equal(t, "Wool sweater", result.Outfit.Top.Description)

	// Confirm stamps worn timestamps.
	resp = ts.api.Post("/api/v1/members/"+memberID+"/outfit/confirm", map[string]any{
		"top_id":   result.Outfit.Top.ID,
		"pants_id": result.Outfit.Pants.ID,
		"shoes_id": result.Outfit.Shoes.ID,
	})
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/items/" + result.Outfit.Top.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	var item ItemResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &item))
	assert.Positive(t, item.LastWornAt)
}

func TestRecommendOutfit_WeatherUnavailable(t *testing.T) {
	ts := setupTestServerWithWeather(t, &stubWeatherProvider{err: context.DeadlineExceeded})

	memberID := ts.createMember(t, "Alma")

	resp := ts.api.Get("/api/v1/members/" + memberID + "/outfit?lat=52.52&lon=13.405")
	require.Equal(t, http.StatusOK, resp.Code)

	var result service.OutfitResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.True(t, result.WeatherUnavailable)
	assert.Nil(t, result.Weather)
	assert.Nil(t, result.Outfit)
}

func TestMemberViewFilters(t *testing.T) {
	ts := setupTestServer(t)

	memberID := ts.createMember(t, "Alma")
	ts.createItem(t, memberID, map[string]any{"description": "Summer dress", "season": "SUMMER"})
	ts.createItem(t, memberID, map[string]any{"description": "Rain coat", "season": "SPRING_AUTUMN"})

	resp := ts.api.Get("/api/v1/members/" + memberID + "/view")
	require.Equal(t, http.StatusOK, resp.Code)

	var state service.ViewState
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &state))
	assert.Len(t, state.Items, 2)
	assert.Equal(t, domain.ViewInUse, state.Filters.Mode)

	resp = ts.api.Patch("/api/v1/members/"+memberID+"/view/filters", map[string]any{
		"query": "dress",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &state))
	require.Len(t, state.Items, 1)
	assert.Equal(t, "Summer dress", state.Items[0].Description)

	resp = ts.api.Patch("/api/v1/members/"+memberID+"/view/filters", map[string]any{
		"season": "INVALID",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestTransferItemEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	fromID := ts.createMember(t, "Alma")
	toID := ts.createMember(t, "Noah")
	itemID := ts.createItem(t, fromID, nil)

	resp := ts.api.Post("/api/v1/items/"+itemID+"/transfer", map[string]any{
		"to_member_id": toID,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var out struct {
		Transfer TransferResponse `json:"transfer"`
		Item     ItemResponse     `json:"item"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, fromID, out.Transfer.FromMemberID)
	assert.Equal(t, toID, out.Transfer.ToMemberID)
	assert.Equal(t, toID, out.Item.MemberID)

	resp = ts.api.Get("/api/v1/items/" + itemID + "/transfers")
	require.Equal(t, http.StatusOK, resp.Code)

	var history struct {
		Transfers []TransferResponse `json:"transfers"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &history))
	assert.Len(t, history.Transfers, 1)
}
