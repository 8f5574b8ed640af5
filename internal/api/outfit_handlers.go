package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/service"
)

func (s *Server) registerOutfitRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "recommendOutfit",
		Method:      http.MethodGet,
		Path:        "/api/v1/members/{id}/outfit",
		Summary:     "Recommend an outfit",
		Description: "Picks a weather-appropriate top, pants and shoes. Pass the previous pick to avoid an immediate repeat",
		Tags:        []string{"Outfit"},
	}, s.handleRecommendOutfit)

	huma.Register(s.api, huma.Operation{
		OperationID: "confirmOutfit",
		Method:      http.MethodPost,
		Path:        "/api/v1/members/{id}/outfit/confirm",
		Summary:     "Confirm a worn outfit",
		Description: "Stamps the worn timestamp on the chosen items, including an optional hat",
		Tags:        []string{"Outfit"},
	}, s.handleConfirmOutfit)
}

// === DTOs ===

// RecommendOutfitInput carries the member, coordinates, and the
// previous pick for anti-repeat.
type RecommendOutfitInput struct {
	ID        string  `path:"id" doc:"Member ID"`
	Latitude  float64 `query:"lat" doc:"Latitude in decimal degrees"`
	Longitude float64 `query:"lon" doc:"Longitude in decimal degrees"`
	LastTop   string  `query:"last_top" doc:"Top item ID of the previous recommendation"`
	LastPants string  `query:"last_pants" doc:"Pants item ID of the previous recommendation"`
	LastShoes string  `query:"last_shoes" doc:"Shoes item ID of the previous recommendation"`
}

// OutfitOutput wraps a recommendation result.
type OutfitOutput struct {
	Body service.OutfitResult
}

// ConfirmOutfitInput wraps an outfit confirmation.
type ConfirmOutfitInput struct {
	ID   string `path:"id" doc:"Member ID"`
	Body struct {
		TopID   string `json:"top_id" validate:"required"`
		PantsID string `json:"pants_id" validate:"required"`
		ShoesID string `json:"shoes_id" validate:"required"`
		HatID   string `json:"hat_id,omitempty" doc:"Optional hat worn with the outfit"`
	}
}

// === Handlers ===

func (s *Server) handleRecommendOutfit(ctx context.Context, input *RecommendOutfitInput) (*OutfitOutput, error) {
	last := domain.OutfitRef{
		TopID:   input.LastTop,
		PantsID: input.LastPants,
		ShoesID: input.LastShoes,
	}

	result, err := s.services.Outfit.Recommend(ctx, input.ID, input.Latitude, input.Longitude, last)
	if err != nil {
		return nil, err
	}
	return &OutfitOutput{Body: *result}, nil
}

func (s *Server) handleConfirmOutfit(ctx context.Context, input *ConfirmOutfitInput) (*struct{}, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	if _, err := s.services.Members.GetMember(ctx, input.ID); err != nil {
		return nil, err
	}

	ref := domain.OutfitRef{
		TopID:   input.Body.TopID,
		PantsID: input.Body.PantsID,
		ShoesID: input.Body.ShoesID,
	}
	if err := s.services.Outfit.Confirm(ctx, ref, input.Body.HatID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}
