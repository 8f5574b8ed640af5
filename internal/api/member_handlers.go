package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/service"
)

func (s *Server) registerMemberRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMembers",
		Method:      http.MethodGet,
		Path:        "/api/v1/members",
		Summary:     "List members",
		Description: "Returns all household members",
		Tags:        []string{"Members"},
	}, s.handleListMembers)

	huma.Register(s.api, huma.Operation{
		OperationID: "createMember",
		Method:      http.MethodPost,
		Path:        "/api/v1/members",
		Summary:     "Create member",
		Tags:        []string{"Members"},
	}, s.handleCreateMember)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMember",
		Method:      http.MethodGet,
		Path:        "/api/v1/members/{id}",
		Summary:     "Get member",
		Tags:        []string{"Members"},
	}, s.handleGetMember)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateMember",
		Method:      http.MethodPut,
		Path:        "/api/v1/members/{id}",
		Summary:     "Update member",
		Tags:        []string{"Members"},
	}, s.handleUpdateMember)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteMember",
		Method:      http.MethodDelete,
		Path:        "/api/v1/members/{id}",
		Summary:     "Delete member",
		Description: "Removes a member together with their items and transfer history",
		Tags:        []string{"Members"},
	}, s.handleDeleteMember)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMemberSizes",
		Method:      http.MethodGet,
		Path:        "/api/v1/members/{id}/sizes",
		Summary:     "Get recommended sizes",
		Description: "Returns garment and shoe size guidance derived from age and gender",
		Tags:        []string{"Members"},
	}, s.handleGetMemberSizes)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMemberOutdatedCount",
		Method:      http.MethodGet,
		Path:        "/api/v1/members/{id}/outdated-count",
		Summary:     "Count outgrown items",
		Description: "Counts items whose size label falls below the member's recommended size. Always zero for adults",
		Tags:        []string{"Members"},
	}, s.handleGetMemberOutdatedCount)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMemberTransfers",
		Method:      http.MethodGet,
		Path:        "/api/v1/members/{id}/transfers",
		Summary:     "Get member transfer history",
		Tags:        []string{"Members"},
	}, s.handleGetMemberTransfers)
}

// === DTOs ===

// MemberResponse contains member data in API responses.
type MemberResponse struct {
	ID        string     `json:"id" doc:"Member ID"`
	Name      string     `json:"name" doc:"Display name"`
	Gender    string     `json:"gender,omitempty" doc:"Free-text gender token"`
	Age       int        `json:"age" doc:"Stored age in years"`
	BirthDate *time.Time `json:"birth_date,omitempty" doc:"Birth date, authoritative for age when set"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func toMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Gender:    m.Gender,
		Age:       m.Age,
		BirthDate: m.BirthDate,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// MemberRequest is the request body for creating or updating a member.
type MemberRequest struct {
	Name      string     `json:"name" validate:"required,max=100" doc:"Display name"`
	Gender    string     `json:"gender,omitempty" validate:"max=40" doc:"Free-text gender token"`
	Age       int        `json:"age,omitempty" validate:"gte=0,lte=120" doc:"Age in years"`
	BirthDate *time.Time `json:"birth_date,omitempty" doc:"Birth date"`
}

// ListMembersOutput wraps the member list for Huma.
type ListMembersOutput struct {
	Body struct {
		Members []MemberResponse `json:"members"`
	}
}

// MemberInput identifies a member by path.
type MemberInput struct {
	ID string `path:"id" doc:"Member ID"`
}

// MemberBodyInput wraps a member write request.
type MemberBodyInput struct {
	Body MemberRequest
}

// MemberUpdateInput wraps a member update request.
type MemberUpdateInput struct {
	ID   string `path:"id" doc:"Member ID"`
	Body MemberRequest
}

// MemberOutput wraps a single member response.
type MemberOutput struct {
	Body MemberResponse
}

// MemberSizesOutput wraps the size recommendation response.
type MemberSizesOutput struct {
	Body service.SizeRecommendation
}

// TransferResponse contains one transfer history row.
type TransferResponse struct {
	ID            string    `json:"id" doc:"Transfer ID"`
	ItemID        string    `json:"item_id"`
	FromMemberID  string    `json:"from_member_id" doc:"Owner before the transfer"`
	ToMemberID    string    `json:"to_member_id" doc:"Owner after the transfer"`
	TransferredAt time.Time `json:"transferred_at"`
}

func toTransferResponses(records []*domain.TransferRecord) []TransferResponse {
	out := make([]TransferResponse, len(records))
	for i, r := range records {
		out[i] = TransferResponse{
			ID:            r.ID,
			ItemID:        r.ItemID,
			FromMemberID:  r.FromMemberID,
			ToMemberID:    r.ToMemberID,
			TransferredAt: r.TransferredAt,
		}
	}
	return out
}

// TransfersOutput wraps a transfer history response.
type TransfersOutput struct {
	Body struct {
		Transfers []TransferResponse `json:"transfers"`
	}
}

// === Handlers ===

func (s *Server) handleListMembers(ctx context.Context, _ *struct{}) (*ListMembersOutput, error) {
	members, err := s.services.Members.ListMembers(ctx)
	if err != nil {
		return nil, err
	}

	out := &ListMembersOutput{}
	out.Body.Members = make([]MemberResponse, len(members))
	for i, m := range members {
		out.Body.Members[i] = toMemberResponse(m)
	}
	return out, nil
}

func (s *Server) handleCreateMember(ctx context.Context, input *MemberBodyInput) (*MemberOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	m, err := s.services.Members.CreateMember(ctx, service.MemberInput{
		Name:      input.Body.Name,
		Gender:    input.Body.Gender,
		Age:       input.Body.Age,
		BirthDate: input.Body.BirthDate,
	})
	if err != nil {
		return nil, err
	}
	return &MemberOutput{Body: toMemberResponse(m)}, nil
}

func (s *Server) handleGetMember(ctx context.Context, input *MemberInput) (*MemberOutput, error) {
	m, err := s.services.Members.GetMember(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &MemberOutput{Body: toMemberResponse(m)}, nil
}

func (s *Server) handleUpdateMember(ctx context.Context, input *MemberUpdateInput) (*MemberOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	m, err := s.services.Members.UpdateMember(ctx, input.ID, service.MemberInput{
		Name:      input.Body.Name,
		Gender:    input.Body.Gender,
		Age:       input.Body.Age,
		BirthDate: input.Body.BirthDate,
	})
	if err != nil {
		return nil, err
	}
	return &MemberOutput{Body: toMemberResponse(m)}, nil
}

func (s *Server) handleDeleteMember(ctx context.Context, input *MemberInput) (*struct{}, error) {
	if err := s.services.Members.DeleteMember(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleGetMemberSizes(ctx context.Context, input *MemberInput) (*MemberSizesOutput, error) {
	rec, err := s.services.Members.RecommendedSizes(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &MemberSizesOutput{Body: *rec}, nil
}

// OutdatedCountOutput wraps the outgrown item count.
type OutdatedCountOutput struct {
	Body struct {
		Count int `json:"count"`
	}
}

func (s *Server) handleGetMemberOutdatedCount(ctx context.Context, input *MemberInput) (*OutdatedCountOutput, error) {
	count, err := s.services.Members.CountOutdatedItems(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := &OutdatedCountOutput{}
	out.Body.Count = count
	return out, nil
}

func (s *Server) handleGetMemberTransfers(ctx context.Context, input *MemberInput) (*TransfersOutput, error) {
	if _, err := s.services.Members.GetMember(ctx, input.ID); err != nil {
		return nil, err
	}

	records, err := s.services.Items.MemberTransferHistory(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := &TransfersOutput{}
	out.Body.Transfers = toTransferResponses(records)
	return out, nil
}
