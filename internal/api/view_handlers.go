package api

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	domainerrors "github.com/wardrobeapp/wardrobe-server/internal/errors"
	"github.com/wardrobeapp/wardrobe-server/internal/service"
)

func (s *Server) registerViewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getMemberView",
		Method:      http.MethodGet,
		Path:        "/api/v1/members/{id}/view",
		Summary:     "Get wardrobe view snapshot",
		Description: "Returns the member's filtered wardrobe view in one consistent snapshot",
		Tags:        []string{"View"},
	}, s.handleGetMemberView)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateMemberViewFilters",
		Method:      http.MethodPatch,
		Path:        "/api/v1/members/{id}/view/filters",
		Summary:     "Update wardrobe view filters",
		Description: "Applies the provided filter changes and returns the recomputed snapshot. Present fields are applied, absent fields keep their current value",
		Tags:        []string{"View"},
	}, s.handleUpdateViewFilters)
}

// === DTOs ===

// ViewIDInput identifies a member view by path.
type ViewIDInput struct {
	ID string `path:"id" doc:"Member ID"`
}

// ViewFiltersRequest carries partial filter updates. Pointer fields
// distinguish absent from explicitly cleared.
type ViewFiltersRequest struct {
	TagIDs *[]string `json:"tag_ids,omitempty" doc:"Tag filter; empty list clears it"`
	Query  *string   `json:"query,omitempty" doc:"Substring match on description, case-insensitive"`
	Season *string   `json:"season,omitempty" doc:"Season filter; empty string clears it"`
	Mode   *string   `json:"mode,omitempty" doc:"IN_USE or STORED"`
}

// UpdateViewFiltersInput wraps a filter update request.
type UpdateViewFiltersInput struct {
	ID   string `path:"id" doc:"Member ID"`
	Body ViewFiltersRequest
}

// ViewOutput wraps a view snapshot.
type ViewOutput struct {
	Body service.ViewState
}

// === Handlers ===

func (s *Server) handleGetMemberView(ctx context.Context, input *ViewIDInput) (*ViewOutput, error) {
	state, err := s.services.Wardrobe.Snapshot(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ViewOutput{Body: *state}, nil
}

func (s *Server) handleUpdateViewFilters(ctx context.Context, input *UpdateViewFiltersInput) (*ViewOutput, error) {
	var (
		state *service.ViewState
		err   error
	)

	if input.Body.TagIDs != nil {
		if state, err = s.services.Wardrobe.SetTagFilter(ctx, input.ID, *input.Body.TagIDs); err != nil {
			return nil, err
		}
	}
	if input.Body.Query != nil {
		if state, err = s.services.Wardrobe.SetQuery(ctx, input.ID, *input.Body.Query); err != nil {
			return nil, err
		}
	}
	if input.Body.Season != nil {
		var season *domain.Season
		if *input.Body.Season != "" {
			v := domain.Season(*input.Body.Season)
			if !v.Valid() {
				return nil, domainerrors.Validation("invalid season filter")
			}
			season = &v
		}
		if state, err = s.services.Wardrobe.SetSeason(ctx, input.ID, season); err != nil {
			return nil, err
		}
	}
	if input.Body.Mode != nil {
		mode := domain.ViewMode(*input.Body.Mode)
		if mode != domain.ViewInUse && mode != domain.ViewStored {
			return nil, domainerrors.Validation("invalid view mode")
		}
		if state, err = s.services.Wardrobe.SetViewMode(ctx, input.ID, mode); err != nil {
			return nil, err
		}
	}

	if state == nil {
		// No filter fields present; return the current snapshot unchanged.
		if state, err = s.services.Wardrobe.Snapshot(ctx, input.ID); err != nil {
			return nil, err
		}
	}
	return &ViewOutput{Body: *state}, nil
}

// handleViewStream streams view snapshots over SSE. Each frame is the
// full recomputed ViewState, so clients replace rather than patch.
func (s *Server) handleViewStream(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	if r.Context().Err() != nil {
		return
	}

	updates, cancel, err := s.services.Wardrobe.Subscribe(r.Context(), memberID)
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			http.Error(w, "member not found", http.StatusNotFound)
			return
		}
		s.logger.Error("failed to open view stream",
			slog.String("member_id", memberID),
			slog.String("error", err.Error()))
		http.Error(w, "failed to open view stream", http.StatusInternalServerError)
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	rc := http.NewResponseController(w)
	if err := rc.Flush(); err != nil {
		s.logger.Error("failed to flush headers", slog.String("error", err.Error()))
		return
	}

	streamLogger := s.logger.With(slog.String("member_id", memberID))

	heartbeatTicker := time.NewTicker(30 * time.Second)
	defer heartbeatTicker.Stop()

	ctx := r.Context()
	for {
		select {
		case state, ok := <-updates:
			if !ok {
				// Session retired, typically because the member was deleted.
				streamLogger.Info("view session retired")
				return
			}
			if err := writeSSEFrame(w, rc, "view", state); err != nil {
				streamLogger.Info("view stream client disconnected during send")
				return
			}

		case <-heartbeatTicker.C:
			if err := writeSSEFrame(w, rc, "heartbeat", map[string]string{"status": "alive"}); err != nil {
				streamLogger.Info("view stream client disconnected during heartbeat")
				return
			}

		case <-ctx.Done():
			streamLogger.Info("view stream client disconnected")
			return
		}
	}
}

func writeSSEFrame(w http.ResponseWriter, rc *http.ResponseController, eventType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling frame: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}

	return rc.Flush()
}
