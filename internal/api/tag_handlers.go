package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	domainerrors "github.com/wardrobeapp/wardrobe-server/internal/errors"
	"github.com/wardrobeapp/wardrobe-server/internal/service"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTag",
		Method:      http.MethodPost,
		Path:        "/api/v1/tags",
		Summary:     "Create tag",
		Description: "Creates a tag, or returns the existing one when the trimmed name already exists",
		Tags:        []string{"Tags"},
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Delete tag",
		Description: "Unused tags are removed outright. Tags still attached to items require admin mode plus force=true",
		Tags:        []string{"Tags"},
	}, s.handleDeleteTag)
}

// === DTOs ===

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID        string    `json:"id" doc:"Tag ID"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toTagResponse(t *domain.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
}

func toTagResponses(tags []*domain.Tag) []TagResponse {
	out := make([]TagResponse, len(tags))
	for i, t := range tags {
		out[i] = toTagResponse(t)
	}
	return out
}

// ListTagsOutput wraps the tag list for Huma.
type ListTagsOutput struct {
	Body struct {
		Tags []TagResponse `json:"tags"`
	}
}

// CreateTagInput wraps a tag create request.
type CreateTagInput struct {
	Body struct {
		Name string `json:"name" validate:"required,max=60" doc:"Tag name, trimmed"`
	}
}

// CreateTagOutput wraps the created or reused tag.
type CreateTagOutput struct {
	Body struct {
		Tag     TagResponse `json:"tag"`
		Created bool        `json:"created" doc:"False when an existing tag was reused"`
	}
}

// DeleteTagInput identifies the tag and carries the force flag.
type DeleteTagInput struct {
	ID    string `path:"id" doc:"Tag ID"`
	Force bool   `query:"force" doc:"Confirm deletion of a tag still in use (admin mode required)"`
}

// DeleteGuardOutput wraps the outcome of a guarded delete.
type DeleteGuardOutput struct {
	Body service.DeleteGuardResult
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	tags, err := s.services.Tags.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	out := &ListTagsOutput{}
	out.Body.Tags = toTagResponses(tags)
	return out, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*CreateTagOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	tag, created, err := s.services.Tags.GetOrCreateTag(ctx, input.Body.Name)
	if err != nil {
		return nil, err
	}

	out := &CreateTagOutput{}
	out.Body.Tag = toTagResponse(tag)
	out.Body.Created = created
	return out, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *DeleteTagInput) (*DeleteGuardOutput, error) {
	var (
		result *service.DeleteGuardResult
		err    error
	)
	if input.Force {
		result, err = s.services.Tags.ForceDeleteTag(ctx, input.ID)
	} else {
		result, err = s.services.Tags.DeleteTag(ctx, input.ID)
	}
	if err != nil {
		return nil, err
	}
	if result.Outcome != service.DeleteOutcomeDeleted {
		return nil, guardConflict("tag", result)
	}
	return &DeleteGuardOutput{Body: *result}, nil
}

// guardConflict maps a non-deleted guard outcome onto a 409 so clients
// can surface the confirm dialog or the admin-mode hint.
func guardConflict(kind string, result *service.DeleteGuardResult) error {
	msg := kind + " is still in use"
	if result.Outcome == service.DeleteOutcomeConfirmRequired {
		msg = kind + " deletion requires confirmation"
	}
	return domainerrors.Conflict(msg).WithDetails(map[string]any{
		"outcome": result.Outcome,
		"count":   result.Count,
	})
}
