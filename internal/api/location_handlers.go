package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/service"
)

func (s *Server) registerLocationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLocations",
		Method:      http.MethodGet,
		Path:        "/api/v1/locations",
		Summary:     "List storage locations",
		Tags:        []string{"Locations"},
	}, s.handleListLocations)

	huma.Register(s.api, huma.Operation{
		OperationID: "createLocation",
		Method:      http.MethodPost,
		Path:        "/api/v1/locations",
		Summary:     "Create storage location",
		Tags:        []string{"Locations"},
	}, s.handleCreateLocation)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLocation",
		Method:      http.MethodGet,
		Path:        "/api/v1/locations/{id}",
		Summary:     "Get storage location",
		Tags:        []string{"Locations"},
	}, s.handleGetLocation)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateLocation",
		Method:      http.MethodPut,
		Path:        "/api/v1/locations/{id}",
		Summary:     "Update storage location",
		Tags:        []string{"Locations"},
	}, s.handleUpdateLocation)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteLocation",
		Method:      http.MethodDelete,
		Path:        "/api/v1/locations/{id}",
		Summary:     "Delete storage location",
		Description: "Items in the location are detached, never deleted. Occupied locations require admin mode plus force=true",
		Tags:        []string{"Locations"},
	}, s.handleDeleteLocation)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLocationByNfc",
		Method:      http.MethodGet,
		Path:        "/api/v1/locations/by-nfc/{nfcID}",
		Summary:     "Resolve location by NFC sticker",
		Tags:        []string{"Locations"},
	}, s.handleGetLocationByNfc)
}

// === DTOs ===

// LocationResponse contains storage location data in API responses.
type LocationResponse struct {
	ID        string    `json:"id" doc:"Location ID"`
	Name      string    `json:"name"`
	NfcID     string    `json:"nfc_id,omitempty" doc:"Paired NFC sticker identifier"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toLocationResponse(l *domain.Location) LocationResponse {
	return LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		NfcID:     l.NfcID,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// LocationRequest is the request body for creating or updating a location.
type LocationRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	NfcID string `json:"nfc_id,omitempty" validate:"max=100"`
}

// ListLocationsOutput wraps the location list for Huma.
type ListLocationsOutput struct {
	Body struct {
		Locations []LocationResponse `json:"locations"`
	}
}

// LocationIDInput identifies a location by path.
type LocationIDInput struct {
	ID string `path:"id" doc:"Location ID"`
}

// LocationBodyInput wraps a location create request.
type LocationBodyInput struct {
	Body LocationRequest
}

// LocationUpdateInput wraps a location update request.
type LocationUpdateInput struct {
	ID   string `path:"id" doc:"Location ID"`
	Body LocationRequest
}

// LocationOutput wraps a single location response.
type LocationOutput struct {
	Body LocationResponse
}

// DeleteLocationInput identifies the location and carries the force flag.
type DeleteLocationInput struct {
	ID    string `path:"id" doc:"Location ID"`
	Force bool   `query:"force" doc:"Confirm deletion of an occupied location (admin mode required)"`
}

// NfcLookupInput identifies a location by its paired NFC sticker.
type NfcLookupInput struct {
	NfcID string `path:"nfcID" doc:"NFC sticker identifier"`
}

// === Handlers ===

func (s *Server) handleListLocations(ctx context.Context, _ *struct{}) (*ListLocationsOutput, error) {
	locations, err := s.services.Locations.ListLocations(ctx)
	if err != nil {
		return nil, err
	}

	out := &ListLocationsOutput{}
	out.Body.Locations = make([]LocationResponse, len(locations))
	for i, l := range locations {
		out.Body.Locations[i] = toLocationResponse(l)
	}
	return out, nil
}

func (s *Server) handleCreateLocation(ctx context.Context, input *LocationBodyInput) (*LocationOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	l, err := s.services.Locations.CreateLocation(ctx, input.Body.Name, input.Body.NfcID)
	if err != nil {
		return nil, err
	}
	return &LocationOutput{Body: toLocationResponse(l)}, nil
}

func (s *Server) handleGetLocation(ctx context.Context, input *LocationIDInput) (*LocationOutput, error) {
	l, err := s.services.Locations.GetLocation(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &LocationOutput{Body: toLocationResponse(l)}, nil
}

func (s *Server) handleUpdateLocation(ctx context.Context, input *LocationUpdateInput) (*LocationOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	l, err := s.services.Locations.UpdateLocation(ctx, input.ID, input.Body.Name, input.Body.NfcID)
	if err != nil {
		return nil, err
	}
	return &LocationOutput{Body: toLocationResponse(l)}, nil
}

func (s *Server) handleDeleteLocation(ctx context.Context, input *DeleteLocationInput) (*DeleteGuardOutput, error) {
	var (
		result *service.DeleteGuardResult
		err    error
	)
	if input.Force {
		result, err = s.services.Locations.ForceDeleteLocation(ctx, input.ID)
	} else {
		result, err = s.services.Locations.DeleteLocation(ctx, input.ID)
	}
	if err != nil {
		return nil, err
	}
	if result.Outcome != service.DeleteOutcomeDeleted {
		return nil, guardConflict("location", result)
	}
	return &DeleteGuardOutput{Body: *result}, nil
}

func (s *Server) handleGetLocationByNfc(ctx context.Context, input *NfcLookupInput) (*LocationOutput, error) {
	l, err := s.services.Locations.GetLocationByNfcID(ctx, input.NfcID)
	if err != nil {
		return nil, err
	}
	return &LocationOutput{Body: toLocationResponse(l)}, nil
}
