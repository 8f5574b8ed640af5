package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/auth"
	domainerrors "github.com/wardrobeapp/wardrobe-server/internal/errors"
	"github.com/wardrobeapp/wardrobe-server/internal/sse"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
)

// PIN flow errors. Each maps to an inline, user-correctable message.
var (
	ErrWrongPin    = domainerrors.InvalidCredentials("current PIN is incorrect")
	ErrPinTooShort = domainerrors.Validation("PIN must be at least 4 digits")
	ErrPinMismatch = domainerrors.Validation("PIN confirmation does not match")
	ErrNoPinSet    = domainerrors.Validation("no admin PIN has been set")
)

// Settings is the app settings view exposed to callers. The PIN hash
// never leaves the service.
type Settings struct {
	AdminMode bool `json:"admin_mode"`
	PinSet    bool `json:"pin_set"`
}

// SettingsService manages the admin gate and its PIN.
type SettingsService struct {
	store      *store.Store
	sseManager *sse.Manager
	logger     *slog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(st *store.Store, sseManager *sse.Manager, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		store:      st,
		sseManager: sseManager,
		logger:     logger,
	}
}

// GetSettings returns the current settings view.
func (s *SettingsService) GetSettings(ctx context.Context) (*Settings, error) {
	stored, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &Settings{AdminMode: stored.AdminMode, PinSet: stored.PinHash != ""}, nil
}

// AdminMode reports whether admin mode is currently on.
func (s *SettingsService) AdminMode(ctx context.Context) (bool, error) {
	stored, err := s.store.GetSettings(ctx)
	if err != nil {
		return false, err
	}
	return stored.AdminMode, nil
}

// EnableAdminMode turns admin mode on after verifying the PIN.
func (s *SettingsService) EnableAdminMode(ctx context.Context, pin string) (*Settings, error) {
	stored, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if stored.PinHash == "" {
		return nil, ErrNoPinSet
	}

	ok, err := auth.VerifyPin(stored.PinHash, pin)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrWrongPin
	}

	stored.AdminMode = true
	stored.UpdatedAt = time.Now()
	if err := s.store.SaveSettings(ctx, stored); err != nil {
		return nil, err
	}

	s.sseManager.Emit(sse.NewSettingsEvent(true))
	s.logger.Info("admin mode enabled")

	return &Settings{AdminMode: true, PinSet: true}, nil
}

// DisableAdminMode turns admin mode off. No PIN required; leaving the
// privileged state is always allowed.
func (s *SettingsService) DisableAdminMode(ctx context.Context) (*Settings, error) {
	stored, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	stored.AdminMode = false
	stored.UpdatedAt = time.Now()
	if err := s.store.SaveSettings(ctx, stored); err != nil {
		return nil, err
	}

	s.sseManager.Emit(sse.NewSettingsEvent(false))
	s.logger.Info("admin mode disabled")

	return &Settings{AdminMode: false, PinSet: stored.PinHash != ""}, nil
}

// ChangePin sets a new admin PIN. The current PIN must be supplied once
// one has been set; the new PIN must meet the minimum length and match
// its confirmation re-entry.
func (s *SettingsService) ChangePin(ctx context.Context, currentPin, newPin, confirmPin string) error {
	stored, err := s.store.GetSettings(ctx)
	if err != nil {
		return err
	}

	if stored.PinHash != "" {
		ok, err := auth.VerifyPin(stored.PinHash, currentPin)
		if err != nil {
			return err
		}
		if !ok {
			return ErrWrongPin
		}
	}

	if len(newPin) < auth.MinPinLength {
		return ErrPinTooShort
	}
	if newPin != confirmPin {
		return ErrPinMismatch
	}

	hash, err := auth.HashPin(newPin)
	if err != nil {
		return err
	}

	stored.PinHash = hash
	stored.UpdatedAt = time.Now()
	if err := s.store.SaveSettings(ctx, stored); err != nil {
		return err
	}

	s.sseManager.Emit(sse.NewSettingsEvent(stored.AdminMode))
	s.logger.Info("admin PIN changed")

	return nil
}
