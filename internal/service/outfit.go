package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/recommend"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
)

// WeatherProvider fetches current conditions for a coordinate pair.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (*domain.Weather, error)
}

// OutfitResult is the full recommendation response. Weather is nil when
// the fetch failed; the recommendation is then skipped entirely rather
// than guessed from stale data.
type OutfitResult struct {
	Weather            *domain.Weather `json:"weather,omitempty"`
	Outfit             *domain.Outfit  `json:"outfit,omitempty"`
	Reason             string          `json:"reason,omitempty"`
	CanRefresh         bool            `json:"can_refresh"`
	WeatherUnavailable bool            `json:"weather_unavailable,omitempty"`
}

// OutfitService produces weather-driven outfit recommendations.
type OutfitService struct {
	store   *store.Store
	weather WeatherProvider
	engine  *recommend.Engine
	items   *ItemService
	logger  *slog.Logger
}

// NewOutfitService creates a new outfit service.
func NewOutfitService(st *store.Store, weather WeatherProvider, engine *recommend.Engine, items *ItemService, logger *slog.Logger) *OutfitService {
	return &OutfitService{
		store:   st,
		weather: weather,
		engine:  engine,
		items:   items,
		logger:  logger,
	}
}

// Recommend fetches current weather and runs the recommendation engine
// over the member's full item set. last carries the previously shown
// outfit for the re-roll flow; a zero ref means first roll.
func (s *OutfitService) Recommend(ctx context.Context, memberID string, lat, lon float64, last domain.OutfitRef) (*OutfitResult, error) {
	if _, err := s.store.GetMember(ctx, memberID); err != nil {
		return nil, ErrMemberNotFound
	}

	weather, err := s.weather.Current(ctx, lat, lon)
	if err != nil {
		// Fail closed: no weather, no recommendation, no transport error
		// surfaced to the UI.
		s.logger.Warn("weather fetch failed, skipping recommendation",
			"member_id", memberID,
			"error", err)
		return &OutfitResult{WeatherUnavailable: true}, nil
	}

	items, err := s.store.ListItemsByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	result := s.engine.Recommend(weather, items, last, time.Now())

	out := &OutfitResult{
		Weather:    weather,
		Reason:     string(result.Reason),
		CanRefresh: result.CanRefresh,
	}
	if result.Outfit != nil && result.Outfit.Complete() {
		out.Outfit = result.Outfit
	}

	s.logger.Info("outfit recommended",
		"member_id", memberID,
		"reason", string(result.Reason),
		"can_refresh", result.CanRefresh)

	return out, nil
}

// Confirm marks the accepted outfit's items as worn. HAT is optional and
// included only when present.
func (s *OutfitService) Confirm(ctx context.Context, outfit domain.OutfitRef, hatID string) error {
	itemIDs := make([]string, 0, 4)
	for _, itemID := range []string{outfit.TopID, outfit.PantsID, outfit.ShoesID, hatID} {
		if itemID != "" {
			itemIDs = append(itemIDs, itemID)
		}
	}
	return s.items.MarkWorn(ctx, itemIDs)
}
