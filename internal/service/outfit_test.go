package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/recommend"
)

// stubWeather returns a fixed snapshot or a fixed error.
type stubWeather struct {
	weather *domain.Weather
	err     error
}

func (s *stubWeather) Current(_ context.Context, _, _ float64) (*domain.Weather, error) {
	return s.weather, s.err
}

func newOutfitService(env *testEnv, provider WeatherProvider) *OutfitService {
	engine := recommend.NewWithRand(rand.New(rand.NewPCG(1, 2)))
	return NewOutfitService(env.store, provider, engine, env.items, slog.New(slog.DiscardHandler))
}

func outfitWardrobe(t *testing.T, env *testEnv, memberID string) {
	t.Helper()
	for _, garment := range []struct {
		description string
		category    domain.Category
	}{
		{"Wool sweater", domain.CategoryTop},
		{"Lined pants", domain.CategoryPants},
		{"Winter boots", domain.CategoryShoes},
	} {
		env.createItem(t, memberID, garment.description, func(in *ItemInput) {
			in.Category = garment.category
			in.Warmth = 4
			in.Season = domain.SeasonWinter
		})
	}
}

func TestRecommendReturnsCompleteOutfit(t *testing.T) {
	env := newTestEnv(t)
	member := env.createMember(t, "Emma")
	outfitWardrobe(t, env, member.ID)

	svc := newOutfitService(env, &stubWeather{weather: &domain.Weather{Apparent: -2, Code: 0}})

	result, err := svc.Recommend(context.Background(), member.ID, 52.52, 13.405, domain.OutfitRef{})
	require.NoError(t, err)
	assert.False(t, result.WeatherUnavailable)
	require.NotNil(t, result.Outfit)
	assert.Equal(t, string(recommend.ReasonBasic), result.Reason)
	assert.False(t, result.CanRefresh) // single combination
}

func TestRecommendWeatherFailureFailsClosed(t *testing.T) {
	env := newTestEnv(t)
	member := env.createMember(t, "Emma")
	outfitWardrobe(t, env, member.ID)

	svc := newOutfitService(env, &stubWeather{err: errors.New("connection refused")})

	result, err := svc.Recommend(context.Background(), member.ID, 52.52, 13.405, domain.OutfitRef{})
	require.NoError(t, err)
	assert.True(t, result.WeatherUnavailable)
	assert.Nil(t, result.Weather)
	assert.Nil(t, result.Outfit)
}

func TestRecommendUnknownMember(t *testing.T) {
	env := newTestEnv(t)
	svc := newOutfitService(env, &stubWeather{weather: &domain.Weather{}})

	_, err := svc.Recommend(context.Background(), "mem-missing", 0, 0, domain.OutfitRef{})
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestRecommendNoMatchPropagatesReason(t *testing.T) {
	env := newTestEnv(t)
	member := env.createMember(t, "Emma")
	// Summer-only wardrobe against a freezing forecast.
	env.createItem(t, member.ID, "Tank top", func(in *ItemInput) {
		in.Season = domain.SeasonSummer
		in.Warmth = 1
	})

	svc := newOutfitService(env, &stubWeather{weather: &domain.Weather{Apparent: -5, Code: 0}})

	result, err := svc.Recommend(context.Background(), member.ID, 0, 0, domain.OutfitRef{})
	require.NoError(t, err)
	assert.Nil(t, result.Outfit)
	assert.Equal(t, string(recommend.ReasonNoMatch), result.Reason)
	assert.False(t, result.CanRefresh)
}

func TestConfirmStampsWornTimestamps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	member := env.createMember(t, "Emma")
	outfitWardrobe(t, env, member.ID)

	items, err := env.items.ListItems(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)

	var ref domain.OutfitRef
	for _, item := range items {
		switch item.Category {
		case domain.CategoryTop:
			ref.TopID = item.ID
		case domain.CategoryPants:
			ref.PantsID = item.ID
		case domain.CategoryShoes:
			ref.ShoesID = item.ID
		}
	}

	svc := newOutfitService(env, &stubWeather{weather: &domain.Weather{}})
	require.NoError(t, svc.Confirm(ctx, ref, ""))

	for _, itemID := range []string{ref.TopID, ref.PantsID, ref.ShoesID} {
		item, err := env.items.GetItem(ctx, itemID)
		require.NoError(t, err)
		assert.False(t, item.NeverWorn())
	}
}
