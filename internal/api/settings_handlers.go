package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/service"
)

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSettings",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings",
		Summary:     "Get settings",
		Tags:        []string{"Settings"},
	}, s.handleGetSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "setAdminMode",
		Method:      http.MethodPost,
		Path:        "/api/v1/settings/admin-mode",
		Summary:     "Enable or disable admin mode",
		Description: "Enabling requires the PIN; disabling never does",
		Tags:        []string{"Settings"},
	}, s.handleSetAdminMode)

	huma.Register(s.api, huma.Operation{
		OperationID: "changePin",
		Method:      http.MethodPost,
		Path:        "/api/v1/settings/pin",
		Summary:     "Change the admin PIN",
		Description: "The current PIN is only required once one has been set",
		Tags:        []string{"Settings"},
	}, s.handleChangePin)
}

// === DTOs ===

// SettingsOutput wraps the settings view.
type SettingsOutput struct {
	Body service.Settings
}

// AdminModeInput wraps an admin-mode toggle request.
type AdminModeInput struct {
	Body struct {
		Enabled bool   `json:"enabled"`
		Pin     string `json:"pin,omitempty" doc:"Required when enabling"`
	}
}

// ChangePinInput wraps a PIN change request.
type ChangePinInput struct {
	Body struct {
		CurrentPin string `json:"current_pin,omitempty" doc:"Omitted on first-time setup"`
		NewPin     string `json:"new_pin" validate:"required"`
		ConfirmPin string `json:"confirm_pin" validate:"required"`
	}
}

// === Handlers ===

func (s *Server) handleGetSettings(ctx context.Context, _ *struct{}) (*SettingsOutput, error) {
	settings, err := s.services.Settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &SettingsOutput{Body: *settings}, nil
}

func (s *Server) handleSetAdminMode(ctx context.Context, input *AdminModeInput) (*SettingsOutput, error) {
	var (
		settings *service.Settings
		err      error
	)
	if input.Body.Enabled {
		settings, err = s.services.Settings.EnableAdminMode(ctx, input.Body.Pin)
	} else {
		settings, err = s.services.Settings.DisableAdminMode(ctx)
	}
	if err != nil {
		return nil, err
	}
	return &SettingsOutput{Body: *settings}, nil
}

func (s *Server) handleChangePin(ctx context.Context, input *ChangePinInput) (*SettingsOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	if err := s.services.Settings.ChangePin(ctx, input.Body.CurrentPin, input.Body.NewPin, input.Body.ConfirmPin); err != nil {
		return nil, err
	}

	settings, err := s.services.Settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &SettingsOutput{Body: *settings}, nil
}
