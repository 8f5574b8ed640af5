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

// Tag service errors.
var (
	ErrEmptyTagName     = domainerrors.Validation("tag name is empty after trimming")
	ErrProtectedTag     = domainerrors.Validation("default tags cannot be deleted")
	ErrTagNotFound      = domainerrors.NotFound("tag not found")
	ErrLocationNotFound = domainerrors.NotFound("location not found")
)

// TagService orchestrates occasion tag operations.
type TagService struct {
	store      *store.Store
	sseManager *sse.Manager
	logger     *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(st *store.Store, sseManager *sse.Manager, logger *slog.Logger) *TagService {
	return &TagService{
		store:      st,
		sseManager: sseManager,
		logger:     logger,
	}
}

// ListTags returns all tags ordered by name.
func (s *TagService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx)
}

// GetOrCreateTag resolves a raw tag name to a tag, creating it when no
// exact match exists. Matching is case sensitive; "Festlich" and
// "festlich" are distinct tags.
func (s *TagService) GetOrCreateTag(ctx context.Context, rawName string) (*domain.Tag, bool, error) {
	name := strings.TrimSpace(rawName)
	if name == "" {
		return nil, false, ErrEmptyTagName
	}

	existing, err := s.store.GetTagByName(ctx, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrTagNotFound) {
		return nil, false, err
	}

	tag := &domain.Tag{
		ID:        id.MustGenerate(id.PrefixTag),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateTag(ctx, tag); err != nil {
		// Lost a race with a concurrent create; fall back to the winner.
		if errors.Is(err, store.ErrTagExists) {
			existing, getErr := s.store.GetTagByName(ctx, name)
			if getErr != nil {
				return nil, false, getErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	s.sseManager.Emit(sse.NewTagEvent(tag))
	s.logger.Info("tag created", "tag_id", tag.ID, "name", tag.Name)

	return tag, true, nil
}

// EnsureDefaultTags creates the protected default tags that are missing.
// Idempotent; called at startup.
func (s *TagService) EnsureDefaultTags(ctx context.Context) error {
	for _, name := range domain.DefaultTagNames {
		_, err := s.store.GetTagByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrTagNotFound) {
			return err
		}

		tag := &domain.Tag{
			ID:        id.MustGenerate(id.PrefixTag),
			Name:      name,
			CreatedAt: time.Now(),
		}
		if err := s.store.CreateTag(ctx, tag); err != nil && !errors.Is(err, store.ErrTagExists) {
			return err
		}
		s.logger.Info("default tag created", "name", name)
	}
	return nil
}

// DeleteTag applies the two-tier delete guard. An unused tag is deleted
// outright. A tag still referenced by items is never deleted here: with
// admin mode on the caller gets CONFIRM_REQUIRED and may follow up with
// ForceDeleteTag, otherwise PREVENTED. Protected default tags are never
// deletable.
func (s *TagService) DeleteTag(ctx context.Context, tagID string) (*DeleteGuardResult, error) {
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		if errors.Is(err, store.ErrTagNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	if domain.IsProtectedTagName(tag.Name) {
		return nil, ErrProtectedTag
	}

	count, err := s.store.CountItemsWithTag(ctx, tagID)
	if err != nil {
		return nil, err
	}

	if count == 0 {
		if err := s.store.DeleteTag(ctx, tagID); err != nil {
			return nil, err
		}
		s.sseManager.Emit(sse.NewDeletedEvent(sse.EventTagDeleted, tagID))
		s.logger.Info("tag deleted", "tag_id", tagID, "name", tag.Name)
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

// ForceDeleteTag removes a tag regardless of usage. Only valid with admin
// mode on; the in-use guard still applies without it.
func (s *TagService) ForceDeleteTag(ctx context.Context, tagID string) (*DeleteGuardResult, error) {
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		if errors.Is(err, store.ErrTagNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	if domain.IsProtectedTagName(tag.Name) {
		return nil, ErrProtectedTag
	}

	count, err := s.store.CountItemsWithTag(ctx, tagID)
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

	if err := s.store.DeleteTag(ctx, tagID); err != nil {
		return nil, err
	}

	s.sseManager.Emit(sse.NewDeletedEvent(sse.EventTagDeleted, tagID))
	s.logger.Info("tag force-deleted", "tag_id", tagID, "name", tag.Name, "item_count", count)

	return &DeleteGuardResult{Outcome: DeleteOutcomeDeleted, Count: count}, nil
}
