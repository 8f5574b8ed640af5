package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/classify"
	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/service"
)

func (s *Server) registerItemRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMemberItems",
		Method:      http.MethodGet,
		Path:        "/api/v1/members/{id}/items",
		Summary:     "List a member's items",
		Tags:        []string{"Items"},
	}, s.handleListMemberItems)

	huma.Register(s.api, huma.Operation{
		OperationID: "createItem",
		Method:      http.MethodPost,
		Path:        "/api/v1/members/{id}/items",
		Summary:     "Create item",
		Tags:        []string{"Items"},
	}, s.handleCreateItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "getItem",
		Method:      http.MethodGet,
		Path:        "/api/v1/items/{id}",
		Summary:     "Get item",
		Tags:        []string{"Items"},
	}, s.handleGetItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateItem",
		Method:      http.MethodPut,
		Path:        "/api/v1/items/{id}",
		Summary:     "Update item",
		Tags:        []string{"Items"},
	}, s.handleUpdateItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteItem",
		Method:      http.MethodDelete,
		Path:        "/api/v1/items/{id}",
		Summary:     "Delete item",
		Tags:        []string{"Items"},
	}, s.handleDeleteItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "attachItemPhoto",
		Method:      http.MethodPost,
		Path:        "/api/v1/items/{id}/photo",
		Summary:     "Attach item photo",
		Description: "Stores the photo, generates a thumbnail and blurhash, and returns attribute suggestions when classification is enabled",
		Tags:        []string{"Items"},
	}, s.handleAttachItemPhoto)

	huma.Register(s.api, huma.Operation{
		OperationID: "markItemsWorn",
		Method:      http.MethodPost,
		Path:        "/api/v1/items/worn",
		Summary:     "Mark items worn",
		Description: "Stamps the worn timestamp on every listed item atomically",
		Tags:        []string{"Items"},
	}, s.handleMarkItemsWorn)

	huma.Register(s.api, huma.Operation{
		OperationID: "transferItem",
		Method:      http.MethodPost,
		Path:        "/api/v1/items/{id}/transfer",
		Summary:     "Transfer item to another member",
		Tags:        []string{"Items"},
	}, s.handleTransferItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "getItemTransfers",
		Method:      http.MethodGet,
		Path:        "/api/v1/items/{id}/transfers",
		Summary:     "Get item transfer history",
		Tags:        []string{"Items"},
	}, s.handleGetItemTransfers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getItemTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/items/{id}/tags",
		Summary:     "Get item tags",
		Tags:        []string{"Items"},
	}, s.handleGetItemTags)
}

// === DTOs ===

// ItemResponse contains clothing item data in API responses.
type ItemResponse struct {
	ID           string          `json:"id" doc:"Item ID"`
	MemberID     string          `json:"member_id" doc:"Owning member"`
	Description  string          `json:"description"`
	ImagePath    string          `json:"image_path,omitempty"`
	BlurHash     string          `json:"blur_hash,omitempty"`
	Stored       bool            `json:"stored"`
	LocationID   string          `json:"location_id,omitempty"`
	Category     domain.Category `json:"category"`
	Warmth       int             `json:"warmth"`
	Season       domain.Season   `json:"season"`
	Color        domain.Color    `json:"color,omitempty"`
	Waterproof   bool            `json:"waterproof"`
	OccasionTags string          `json:"occasion_tags,omitempty"`
	SizeLabel    string          `json:"size_label,omitempty"`
	Favorite     bool            `json:"favorite"`
	LastWornAt   int64           `json:"last_worn_at" doc:"Unix milliseconds, 0 when never worn"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toItemResponse(item *domain.ClothingItem) ItemResponse {
	return ItemResponse{
		ID:           item.ID,
		MemberID:     item.MemberID,
		Description:  item.Description,
		ImagePath:    item.ImagePath,
		BlurHash:     item.BlurHash,
		Stored:       item.Stored,
		LocationID:   item.LocationID,
		Category:     item.Category,
		Warmth:       item.Warmth,
		Season:       item.Season,
		Color:        item.Color,
		Waterproof:   item.Waterproof,
		OccasionTags: item.OccasionTags,
		SizeLabel:    item.SizeLabel,
		Favorite:     item.Favorite,
		LastWornAt:   item.LastWornAt,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

func toItemResponses(items []*domain.ClothingItem) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, item := range items {
		out[i] = toItemResponse(item)
	}
	return out
}

// ItemRequest is the request body for creating or updating an item.
// TagNames distinguishes absent (leave existing tags alone) from an
// empty list (clear all tags).
type ItemRequest struct {
	Description  string   `json:"description" validate:"required,max=200"`
	Category     string   `json:"category" validate:"required" doc:"TOP, PANTS, SHOES or HAT"`
	Warmth       int      `json:"warmth" validate:"gte=1,lte=5" doc:"1 thinnest to 5 thickest"`
	Season       string   `json:"season" validate:"required" doc:"SPRING_AUTUMN, SUMMER or WINTER"`
	Color        string   `json:"color,omitempty" doc:"Palette color, optional"`
	Waterproof   bool     `json:"waterproof,omitempty"`
	Stored       bool     `json:"stored,omitempty"`
	LocationID   string   `json:"location_id,omitempty"`
	OccasionTags string   `json:"occasion_tags,omitempty" validate:"max=200"`
	SizeLabel    string   `json:"size_label,omitempty" validate:"max=40"`
	Favorite     bool     `json:"favorite,omitempty"`
	TagNames     []string `json:"tag_names,omitempty"`
}

func (r ItemRequest) toInput() service.ItemInput {
	return service.ItemInput{
		Description:  r.Description,
		Category:     domain.Category(r.Category),
		Warmth:       r.Warmth,
		Season:       domain.Season(r.Season),
		Color:        domain.Color(r.Color),
		Waterproof:   r.Waterproof,
		Stored:       r.Stored,
		LocationID:   r.LocationID,
		OccasionTags: r.OccasionTags,
		SizeLabel:    r.SizeLabel,
		Favorite:     r.Favorite,
		TagNames:     r.TagNames,
	}
}

// MemberItemsInput identifies an owning member by path.
type MemberItemsInput struct {
	MemberID string `path:"id" doc:"Member ID"`
}

// ListItemsOutput wraps the item list for Huma.
type ListItemsOutput struct {
	Body struct {
		Items []ItemResponse `json:"items"`
	}
}

// CreateItemInput wraps an item create request.
type CreateItemInput struct {
	MemberID string `path:"id" doc:"Member ID"`
	Body     ItemRequest
}

// ItemIDInput identifies an item by path.
type ItemIDInput struct {
	ID string `path:"id" doc:"Item ID"`
}

// UpdateItemInput wraps an item update request.
type UpdateItemInput struct {
	ID   string `path:"id" doc:"Item ID"`
	Body ItemRequest
}

// ItemOutput wraps a single item response.
type ItemOutput struct {
	Body ItemResponse
}

// PhotoInput carries a raw image upload.
type PhotoInput struct {
	ID          string `path:"id" doc:"Item ID"`
	ContentType string `header:"Content-Type" doc:"Image MIME type"`
	RawBody     []byte
}

// PhotoOutput wraps the item after photo processing plus any
// classification suggestion.
type PhotoOutput struct {
	Body struct {
		Item       ItemResponse         `json:"item"`
		Suggestion *classify.Suggestion `json:"suggestion,omitempty"`
	}
}

// WornInput wraps a mark-worn request.
type WornInput struct {
	Body struct {
		ItemIDs []string `json:"item_ids" validate:"required,min=1"`
	}
}

// TransferInput wraps an ownership transfer request.
type TransferInput struct {
	ID   string `path:"id" doc:"Item ID"`
	Body struct {
		ToMemberID string `json:"to_member_id" validate:"required"`
	}
}

// TransferOutput wraps the recorded transfer and the item under its
// new owner.
type TransferOutput struct {
	Body struct {
		Transfer TransferResponse `json:"transfer"`
		Item     ItemResponse     `json:"item"`
	}
}

// ItemTagsOutput wraps an item's resolved tags.
type ItemTagsOutput struct {
	Body struct {
		Tags []TagResponse `json:"tags"`
	}
}

// === Handlers ===

func (s *Server) handleListMemberItems(ctx context.Context, input *MemberItemsInput) (*ListItemsOutput, error) {
	items, err := s.services.Items.ListItems(ctx, input.MemberID)
	if err != nil {
		return nil, err
	}

	out := &ListItemsOutput{}
	out.Body.Items = toItemResponses(items)
	return out, nil
}

func (s *Server) handleCreateItem(ctx context.Context, input *CreateItemInput) (*ItemOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	item, err := s.services.Items.CreateItem(ctx, input.MemberID, input.Body.toInput())
	if err != nil {
		return nil, err
	}
	return &ItemOutput{Body: toItemResponse(item)}, nil
}

func (s *Server) handleGetItem(ctx context.Context, input *ItemIDInput) (*ItemOutput, error) {
	item, err := s.services.Items.GetItem(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ItemOutput{Body: toItemResponse(item)}, nil
}

func (s *Server) handleUpdateItem(ctx context.Context, input *UpdateItemInput) (*ItemOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	item, err := s.services.Items.UpdateItem(ctx, input.ID, input.Body.toInput())
	if err != nil {
		return nil, err
	}
	return &ItemOutput{Body: toItemResponse(item)}, nil
}

func (s *Server) handleDeleteItem(ctx context.Context, input *ItemIDInput) (*struct{}, error) {
	if err := s.services.Items.DeleteItem(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleAttachItemPhoto(ctx context.Context, input *PhotoInput) (*PhotoOutput, error) {
	item, suggestion, err := s.services.Items.AttachPhoto(ctx, input.ID, input.RawBody, input.ContentType)
	if err != nil {
		return nil, err
	}

	out := &PhotoOutput{}
	out.Body.Item = toItemResponse(item)
	out.Body.Suggestion = suggestion
	return out, nil
}

func (s *Server) handleMarkItemsWorn(ctx context.Context, input *WornInput) (*struct{}, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	if err := s.services.Items.MarkWorn(ctx, input.Body.ItemIDs); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleTransferItem(ctx context.Context, input *TransferInput) (*TransferOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	record, err := s.services.Items.Transfer(ctx, input.ID, input.Body.ToMemberID)
	if err != nil {
		return nil, err
	}

	item, err := s.services.Items.GetItem(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := &TransferOutput{}
	out.Body.Transfer = toTransferResponses([]*domain.TransferRecord{record})[0]
	out.Body.Item = toItemResponse(item)
	return out, nil
}

func (s *Server) handleGetItemTransfers(ctx context.Context, input *ItemIDInput) (*TransfersOutput, error) {
	if _, err := s.services.Items.GetItem(ctx, input.ID); err != nil {
		return nil, err
	}

	records, err := s.services.Items.TransferHistory(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := &TransfersOutput{}
	out.Body.Transfers = toTransferResponses(records)
	return out, nil
}

func (s *Server) handleGetItemTags(ctx context.Context, input *ItemIDInput) (*ItemTagsOutput, error) {
	tags, err := s.services.Items.ItemTags(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := &ItemTagsOutput{}
	out.Body.Tags = toTagResponses(tags)
	return out, nil
}
