package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	domainerrors "github.com/wardrobeapp/wardrobe-server/internal/errors"
	"github.com/wardrobeapp/wardrobe-server/internal/id"
	"github.com/wardrobeapp/wardrobe-server/internal/sse"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
)

// LocationService orchestrates storage location operations.
type LocationService struct {
	store      *store.Store
	sseManager *sse.Manager
	logger     *slog.Logger
}

// NewLocationService creates a new location service.
func NewLocationService(st *store.Store, sseManager *sse.Manager, logger *slog.Logger) *LocationService {
	return &LocationService{
		store:      st,
		sseManager: sseManager,
		logger:     logger,
	}
}

// ListLocations returns all storage locations ordered by name.
func (s *LocationService) ListLocations(ctx context.Context) ([]*domain.Location, error) {
	return s.store.ListLocations(ctx)
}

// GetLocation returns a single location by id.
func (s *LocationService) GetLocation(ctx context.Context, locationID string) (*domain.Location, error) {
	loc, err := s.store.GetLocation(ctx, locationID)
	if errors.Is(err, store.ErrLocationNotFound) {
		return nil, ErrLocationNotFound
	}
	return loc, err
}

// GetLocationByNfcID resolves a scanned NFC tag to a location.
func (s *LocationService) GetLocationByNfcID(ctx context.Context, nfcID string) (*domain.Location, error) {
	loc, err := s.store.GetLocationByNfcID(ctx, nfcID)
	if errors.Is(err, store.ErrLocationNotFound) {
		return nil, ErrLocationNotFound
	}
	return loc, err
}

// CreateLocation creates a new storage location.
func (s *LocationService) CreateLocation(ctx context.Context, name, nfcID string) (*domain.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerrors.Validation("location name is required")
	}

	now := time.Now()
	loc := &domain.Location{
		ID:        id.MustGenerate(id.PrefixLocation),
		Name:      name,
		NfcID:     strings.TrimSpace(nfcID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateLocation(ctx, loc); err != nil {
		return nil, err
	}

	s.sseManager.Emit(sse.NewLocationEvent(sse.EventLocationCreated, loc))
	s.logger.Info("location created", "location_id", loc.ID, "name", loc.Name)

	return loc, nil
}

// UpdateLocation renames a location or rebinds its NFC tag.
func (s *LocationService) UpdateLocation(ctx context.Context, locationID, name, nfcID string) (*domain.Location, error) {
	loc, err := s.GetLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerrors.Validation("location name is required")
	}

	loc.Name = name
	loc.NfcID = strings.TrimSpace(nfcID)
	loc.UpdatedAt = time.Now()

	if err := s.store.UpdateLocation(ctx, loc); err != nil {
		return nil, err
	}

	s.sseManager.Emit(sse.NewLocationEvent(sse.EventLocationUpdated, loc))
	s.logger.Info("location updated", "location_id", loc.ID, "name", loc.Name)

	return loc, nil
}

// DeleteLocation applies the two-tier delete guard. Deleting a location
// that still stores items requires admin mode plus an explicit force
// delete; items themselves are never deleted, only detached.
func (s *LocationService) DeleteLocation(ctx context.Context, locationID string) (*DeleteGuardResult, error) {
	if _, err := s.GetLocation(ctx, locationID); err != nil {
		return nil, err
	}

	count, err := s.store.CountItemsAtLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}

	if count == 0 {
		if err := s.store.DeleteLocation(ctx, locationID); err != nil {
			return nil, err
		}
		s.sseManager.Emit(sse.NewDeletedEvent(sse.EventLocationDeleted, locationID))
		s.logger.Info("location deleted", "location_id", locationID)
		return &DeleteGuardResult{Outcome: DeleteOutcomeDeleted, Count: 0}, nil
	}

	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings.AdminMode {
		return &DeleteGuardResult{Outcome: DeleteOutcomeConfirmRequired, Count: count}, nil
	}
	return &DeleteGuardResult{Outcome: DeleteOutcomePrevented, Count: count}, nil
}

// ForceDeleteLocation removes a location still in use, detaching its items.
// Only valid with admin mode on.
func (s *LocationService) ForceDeleteLocation(ctx context.Context, locationID string) (*DeleteGuardResult, error) {
	if _, err := s.GetLocation(ctx, locationID); err != nil {
		return nil, err
	}

	count, err := s.store.CountItemsAtLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}

	if count > 0 {
		settings, err := s.store.GetSettings(ctx)
		if err != nil {
			return nil, err
		}
		if !settings.AdminMode {
			return &DeleteGuardResult{Outcome: DeleteOutcomePrevented, Count: count}, nil
		}
	}

	if err := s.store.DeleteLocation(ctx, locationID); err != nil {
		return nil, err
	}

	s.sseManager.Emit(sse.NewDeletedEvent(sse.EventLocationDeleted, locationID))
	s.logger.Info("location force-deleted", "location_id", locationID, "item_count", count)

	return &DeleteGuardResult{Outcome: DeleteOutcomeDeleted, Count: count}, nil
}
