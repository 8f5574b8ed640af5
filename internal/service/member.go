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
	"github.com/wardrobeapp/wardrobe-server/internal/sizing"
	"github.com/wardrobeapp/wardrobe-server/internal/sse"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
)

// ErrMemberNotFound is returned when a member id resolves to nothing.
var ErrMemberNotFound = domainerrors.NotFound("member not found")

// MemberInput carries the editable member fields.
type MemberInput struct {
	Name      string
	Gender    string
	Age       int
	BirthDate *time.Time
}

// SizeRecommendation is the per-member size guidance derived from the
// height tables. Nil sizes mean no recommendation (adult or unknown
// gender).
type SizeRecommendation struct {
	Garment *int `json:"garment,omitempty"`
	Shoe    *int `json:"shoe,omitempty"`
}

// MemberService orchestrates family member operations.
type MemberService struct {
	store      *store.Store
	sseManager *sse.Manager
	logger     *slog.Logger
}

// NewMemberService creates a new member service.
func NewMemberService(st *store.Store, sseManager *sse.Manager, logger *slog.Logger) *MemberService {
	return &MemberService{
		store:      st,
		sseManager: sseManager,
		logger:     logger,
	}
}

// ListMembers returns all members, oldest first.
func (s *MemberService) ListMembers(ctx context.Context) ([]*domain.Member, error) {
	return s.store.ListMembers(ctx)
}

// GetMember returns a single member by id.
func (s *MemberService) GetMember(ctx context.Context, memberID string) (*domain.Member, error) {
	m, err := s.store.GetMember(ctx, memberID)
	if errors.Is(err, store.ErrMemberNotFound) {
		return nil, ErrMemberNotFound
	}
	return m, err
}

// CreateMember adds a new family member.
func (s *MemberService) CreateMember(ctx context.Context, input MemberInput) (*domain.Member, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.Validation("member name is required")
	}
	if input.Age < 0 {
		return nil, domainerrors.Validation("age cannot be negative")
	}

	now := time.Now()
	m := &domain.Member{
		ID:        id.MustGenerate(id.PrefixMember),
		Name:      name,
		Gender:    strings.TrimSpace(input.Gender),
		Age:       input.Age,
		BirthDate: input.BirthDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateMember(ctx, m); err != nil {
		return nil, err
	}

	s.sseManager.Emit(sse.NewMemberEvent(sse.EventMemberCreated, m))
	s.logger.Info("member created", "member_id", m.ID, "name", m.Name)

	return m, nil
}

// UpdateMember edits a member's profile fields.
func (s *MemberService) UpdateMember(ctx context.Context, memberID string, input MemberInput) (*domain.Member, error) {
	m, err := s.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.Validation("member name is required")
	}
	if input.Age < 0 {
		return nil, domainerrors.Validation("age cannot be negative")
	}

	m.Name = name
	m.Gender = strings.TrimSpace(input.Gender)
	m.Age = input.Age
	m.BirthDate = input.BirthDate
	m.Touch()

	if err := s.store.UpdateMember(ctx, m); err != nil {
		return nil, err
	}

	s.sseManager.Emit(sse.NewMemberEvent(sse.EventMemberUpdated, m))
	s.logger.Info("member updated", "member_id", m.ID)

	return m, nil
}

// DeleteMember removes a member together with their items and any
// transfer history naming them.
func (s *MemberService) DeleteMember(ctx context.Context, memberID string) error {
	if _, err := s.GetMember(ctx, memberID); err != nil {
		return err
	}

	if err := s.store.DeleteMember(ctx, memberID); err != nil {
		return err
	}

	s.sseManager.Emit(sse.NewDeletedEvent(sse.EventMemberDeleted, memberID))
	s.logger.Info("member deleted", "member_id", memberID)

	return nil
}

// RecommendedSizes returns size guidance for a member. Adults and members
// with an unrecognized gender token get an empty recommendation.
func (s *MemberService) RecommendedSizes(ctx context.Context, memberID string) (*SizeRecommendation, error) {
	m, err := s.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	rec, ok := sizing.Recommend(m.Gender, sizing.AgeOf(m, time.Now()))
	if !ok {
		return &SizeRecommendation{}, nil
	}

	garment := rec.Top
	shoe := rec.Shoes
	return &SizeRecommendation{Garment: &garment, Shoe: &shoe}, nil
}

// CountOutdatedItems counts a member's items whose size label falls below
// the current recommendation. Always zero for adults.
func (s *MemberService) CountOutdatedItems(ctx context.Context, memberID string) (int, error) {
	m, err := s.GetMember(ctx, memberID)
	if err != nil {
		return 0, err
	}

	items, err := s.store.ListItemsByMember(ctx, memberID)
	if err != nil {
		return 0, err
	}

	return sizing.CountOutdated(items, m, time.Now()), nil
}
