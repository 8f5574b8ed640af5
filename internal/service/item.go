package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/classify"
	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	domainerrors "github.com/wardrobeapp/wardrobe-server/internal/errors"
	"github.com/wardrobeapp/wardrobe-server/internal/id"
	"github.com/wardrobeapp/wardrobe-server/internal/media/images"
	"github.com/wardrobeapp/wardrobe-server/internal/sse"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
)

// ErrItemNotFound is returned when an item id resolves to nothing.
var ErrItemNotFound = domainerrors.NotFound("item not found")

// ItemInput carries the editable item fields. TagNames are resolved
// through the tag service's get-or-create flow.
type ItemInput struct {
	Description  string
	Category     domain.Category
	Warmth       int
	Season       domain.Season
	Color        domain.Color
	Waterproof   bool
	Stored       bool
	LocationID   string
	OccasionTags string
	SizeLabel    string
	Favorite     bool
	TagNames     []string
}

// ItemService orchestrates clothing item operations.
type ItemService struct {
	store      *store.Store
	tags       *TagService
	sseManager *sse.Manager
	processor  *images.Processor
	classifier *classify.Client
	logger     *slog.Logger
}

// NewItemService creates a new item service.
func NewItemService(st *store.Store, tags *TagService, sseManager *sse.Manager, processor *images.Processor, classifier *classify.Client, logger *slog.Logger) *ItemService {
	return &ItemService{
		store:      st,
		tags:       tags,
		sseManager: sseManager,
		processor:  processor,
		classifier: classifier,
		logger:     logger,
	}
}

func validateItemInput(input ItemInput) error {
	if strings.TrimSpace(input.Description) == "" {
		return domainerrors.Validation("item description is required")
	}
	if !input.Category.Valid() {
		return domainerrors.Validationf("invalid category %q", input.Category)
	}
	if !input.Season.Valid() {
		return domainerrors.Validationf("invalid season %q", input.Season)
	}
	if input.Color != "" && !input.Color.Valid() {
		return domainerrors.Validationf("invalid color %q", input.Color)
	}
	if input.Warmth < domain.WarmthMin || input.Warmth > domain.WarmthMax {
		return domainerrors.Validationf("warmth must be between %d and %d", domain.WarmthMin, domain.WarmthMax)
	}
	return nil
}

// GetItem returns a single item by id.
func (s *ItemService) GetItem(ctx context.Context, itemID string) (*domain.ClothingItem, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if errors.Is(err, store.ErrItemNotFound) {
		return nil, ErrItemNotFound
	}
	return item, err
}

// ListItems returns all items for a member, newest first.
func (s *ItemService) ListItems(ctx context.Context, memberID string) ([]*domain.ClothingItem, error) {
	return s.store.ListItemsByMember(ctx, memberID)
}

// CreateItem catalogues a new garment for a member.
func (s *ItemService) CreateItem(ctx context.Context, memberID string, input ItemInput) (*domain.ClothingItem, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}
	if _, err := s.store.GetMember(ctx, memberID); err != nil {
		if errors.Is(err, store.ErrMemberNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	now := time.Now()
	item := &domain.ClothingItem{
		ID:           id.MustGenerate(id.PrefixItem),
		MemberID:     memberID,
		Description:  strings.TrimSpace(input.Description),
		Category:     input.Category,
		Warmth:       input.Warmth,
		Season:       input.Season,
		Color:        input.Color,
		Waterproof:   input.Waterproof,
		Stored:       input.Stored,
		LocationID:   input.LocationID,
		OccasionTags: input.OccasionTags,
		SizeLabel:    strings.TrimSpace(input.SizeLabel),
		Favorite:     input.Favorite,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	if err := s.applyTagNames(ctx, item.ID, input.TagNames); err != nil {
		return nil, err
	}

	s.sseManager.Emit(sse.NewItemEvent(sse.EventItemCreated, item))
	s.logger.Info("item created",
		"item_id", item.ID,
		"member_id", memberID,
		"category", string(item.Category))

	return item, nil
}

// UpdateItem edits a garment. Ownership, creation time, and wear history
// are preserved regardless of the input.
func (s *ItemService) UpdateItem(ctx context.Context, itemID string, input ItemInput) (*domain.ClothingItem, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}

	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	item.Description = strings.TrimSpace(input.Description)
	item.Category = input.Category
	item.Warmth = input.Warmth
	item.Season = input.Season
	item.Color = input.Color
	item.Waterproof = input.Waterproof
	item.Stored = input.Stored
	item.LocationID = input.LocationID
	item.OccasionTags = input.OccasionTags
	item.SizeLabel = strings.TrimSpace(input.SizeLabel)
	item.Favorite = input.Favorite
	item.Touch()

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	if input.TagNames != nil {
		if err := s.applyTagNames(ctx, item.ID, input.TagNames); err != nil {
			return nil, err
		}
	}

	s.sseManager.Emit(sse.NewItemEvent(sse.EventItemUpdated, item))
	s.logger.Info("item updated", "item_id", item.ID)

	return item, nil
}

// DeleteItem removes a garment, its tag joins, transfer history, and photo.
func (s *ItemService) DeleteItem(ctx context.Context, itemID string) error {
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return err
	}

	if err := s.store.DeleteItem(ctx, itemID); err != nil {
		return err
	}

	if s.processor != nil {
		if err := s.processor.Remove(itemID); err != nil {
			s.logger.Warn("failed to remove item photo", "item_id", itemID, "error", err)
		}
	}

	s.sseManager.Emit(sse.NewDeletedEvent(sse.EventItemDeleted, itemID))
	s.logger.Info("item deleted", "item_id", itemID)

	return nil
}

// AttachPhoto stores a photo for an item and records its BlurHash
// placeholder. Returns a classification suggestion when the vision
// endpoint is configured and succeeds; a nil suggestion is not an error.
func (s *ItemService) AttachPhoto(ctx context.Context, itemID string, imgData []byte, contentType string) (*domain.ClothingItem, *classify.Suggestion, error) {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}

	hash, err := s.processor.Process(itemID, imgData)
	if err != nil {
		return nil, nil, domainerrors.Validation("could not process image").WithCause(err)
	}

	item.ImagePath = itemID + ".jpg"
	item.BlurHash = hash
	item.Touch()
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, nil, err
	}

	// Best effort; never blocks the upload on classifier health.
	var suggestion *classify.Suggestion
	if s.classifier != nil {
		suggestion = s.classifier.Classify(ctx, imgData, contentType)
	}

	s.sseManager.Emit(sse.NewItemEvent(sse.EventItemUpdated, item))
	s.logger.Info("item photo attached",
		"item_id", itemID,
		"classified", suggestion != nil)

	return item, suggestion, nil
}

// ItemTags returns the tags attached to an item.
func (s *ItemService) ItemTags(ctx context.Context, itemID string) ([]*domain.Tag, error) {
	tagIDs, err := s.store.ItemTagIDs(ctx, itemID)
	if err != nil {
		return nil, err
	}

	tags := make([]*domain.Tag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		tag, err := s.store.GetTag(ctx, tagID)
		if err != nil {
			if errors.Is(err, store.ErrTagNotFound) {
				continue
			}
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// MarkWorn stamps the wear timestamp on a set of items atomically.
func (s *ItemService) MarkWorn(ctx context.Context, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}

	now := time.Now()
	if err := s.store.MarkItemsWorn(ctx, itemIDs, now); err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return ErrItemNotFound
		}
		return err
	}

	s.sseManager.Emit(sse.NewItemsWornEvent(itemIDs, now))
	s.logger.Info("items marked worn", "count", len(itemIDs))

	return nil
}

// Transfer moves an item to a new owner and appends a history row
// recording the previous owner.
func (s *ItemService) Transfer(ctx context.Context, itemID, toMemberID string) (*domain.TransferRecord, error) {
	record, err := s.store.TransferItem(ctx, itemID, toMemberID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, store.ErrItemNotFound):
			return nil, ErrItemNotFound
		case errors.Is(err, store.ErrMemberNotFound):
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	s.sseManager.Emit(sse.NewTransferEvent(record, item))
	s.logger.Info("item transferred",
		"item_id", itemID,
		"from_member_id", record.FromMemberID,
		"to_member_id", record.ToMemberID)

	return record, nil
}

// TransferHistory returns the ownership history of an item, oldest first.
func (s *ItemService) TransferHistory(ctx context.Context, itemID string) ([]*domain.TransferRecord, error) {
	return s.store.ListTransfersByItem(ctx, itemID)
}

// MemberTransferHistory returns all transfers involving a member.
func (s *ItemService) MemberTransferHistory(ctx context.Context, memberID string) ([]*domain.TransferRecord, error) {
	return s.store.ListTransfersByMember(ctx, memberID)
}

// applyTagNames resolves the names through get-or-create and replaces the
// item's tag joins.
func (s *ItemService) applyTagNames(ctx context.Context, itemID string, names []string) error {
	tagIDs := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		tag, _, err := s.tags.GetOrCreateTag(ctx, name)
		if err != nil {
			if errors.Is(err, ErrEmptyTagName) {
				continue
			}
			return err
		}
		if _, dup := seen[tag.ID]; dup {
			continue
		}
		seen[tag.ID] = struct{}{}
		tagIDs = append(tagIDs, tag.ID)
	}
	return s.store.SetItemTags(ctx, itemID, tagIDs)
}
