package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/sizing"
	"github.com/wardrobeapp/wardrobe-server/internal/sse"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
)

// sessionGracePeriod is how long a session with no subscribers survives
// before teardown. Rapid re-subscription (client reconnects, navigation
// bounce) reuses the warm session instead of recomputing from scratch.
const sessionGracePeriod = 5 * time.Second

// ViewFilters is the tuple of filter inputs a session composes. Each
// field is independently settable.
type ViewFilters struct {
	TagIDs []string        `json:"tag_ids"`
	Query  string          `json:"query"`
	Season *domain.Season  `json:"season,omitempty"`
	Mode   domain.ViewMode `json:"mode"`
}

// TagView is a tag annotated for the current view.
type TagView struct {
	Tag *domain.Tag `json:"tag"`
	// UsageCount counts items carrying this tag within the current
	// view-mode subset, not the whole wardrobe.
	UsageCount int  `json:"usage_count"`
	Deletable  bool `json:"deletable"`
}

// ViewState is the aggregated snapshot published to view subscribers.
// It is always built in one pass so items, tag counts, and the outdated
// set can never disagree with each other.
type ViewState struct {
	MemberID   string                 `json:"member_id"`
	MemberName string                 `json:"member_name"`
	Members    []*domain.Member       `json:"members"`
	Tags       []TagView              `json:"tags"`
	Locations  []*domain.Location     `json:"locations"`
	Items      []*domain.ClothingItem `json:"items"`
	// OutdatedItemIDs flags items in the current view whose size label
	// falls below the member's recommended size. Always empty for adults.
	OutdatedItemIDs []string    `json:"outdated_item_ids"`
	AdminMode       bool        `json:"admin_mode"`
	Filters         ViewFilters `json:"filters"`
}

// viewSession is the per-member reactive state: current filters plus the
// set of live subscribers.
type viewSession struct {
	memberID    string
	filters     ViewFilters
	subscribers map[int]chan *ViewState
	nextSubID   int
	observer    *sse.Observer
	retireTimer *time.Timer
	mu          sync.Mutex
}

// WardrobeService composes tag, search, season, and view-mode filters
// into live per-member view snapshots.
type WardrobeService struct {
	store      *store.Store
	sseManager *sse.Manager
	logger     *slog.Logger

	mu       sync.Mutex
	sessions map[string]*viewSession
}

// NewWardrobeService creates a new wardrobe view service.
func NewWardrobeService(st *store.Store, sseManager *sse.Manager, logger *slog.Logger) *WardrobeService {
	return &WardrobeService{
		store:      st,
		sseManager: sseManager,
		logger:     logger,
		sessions:   make(map[string]*viewSession),
	}
}

// Snapshot computes a one-shot view for a member using the session's
// current filters (or defaults when no session exists).
func (s *WardrobeService) Snapshot(ctx context.Context, memberID string) (*ViewState, error) {
	filters := ViewFilters{Mode: domain.ViewInUse}

	s.mu.Lock()
	if session, ok := s.sessions[memberID]; ok {
		session.mu.Lock()
		filters = session.filters
		session.mu.Unlock()
	}
	s.mu.Unlock()

	return s.compute(ctx, memberID, filters)
}

// Subscribe opens a live view subscription for a member. The returned
// channel immediately receives the current snapshot and then a fresh one
// after every relevant data or filter change. Slow consumers only ever
// miss intermediate snapshots: delivery is latest-wins, never torn.
// The returned cancel function must be called when the consumer detaches.
func (s *WardrobeService) Subscribe(ctx context.Context, memberID string) (<-chan *ViewState, func(), error) {
	if _, err := s.store.GetMember(ctx, memberID); err != nil {
		return nil, nil, ErrMemberNotFound
	}

	session := s.getOrCreateSession(memberID)

	session.mu.Lock()
	if session.retireTimer != nil {
		session.retireTimer.Stop()
		session.retireTimer = nil
	}
	subID := session.nextSubID
	session.nextSubID++
	ch := make(chan *ViewState, 1)
	session.subscribers[subID] = ch
	filters := session.filters
	session.mu.Unlock()

	// Deliver the initial snapshot before any change events.
	state, err := s.compute(ctx, memberID, filters)
	if err != nil {
		s.removeSubscriber(session, subID)
		return nil, nil, err
	}
	ch <- state

	cancel := func() { s.removeSubscriber(session, subID) }
	return ch, cancel, nil
}

// SetTagFilter replaces the selected tag-id set. An empty set means no
// tag restriction.
func (s *WardrobeService) SetTagFilter(ctx context.Context, memberID string, tagIDs []string) (*ViewState, error) {
	return s.updateFilters(ctx, memberID, func(f *ViewFilters) {
		f.TagIDs = tagIDs
	})
}

// SetQuery replaces the free-text search query.
func (s *WardrobeService) SetQuery(ctx context.Context, memberID, query string) (*ViewState, error) {
	return s.updateFilters(ctx, memberID, func(f *ViewFilters) {
		f.Query = query
	})
}

// SetSeason replaces the season filter. nil clears it.
func (s *WardrobeService) SetSeason(ctx context.Context, memberID string, season *domain.Season) (*ViewState, error) {
	return s.updateFilters(ctx, memberID, func(f *ViewFilters) {
		f.Season = season
	})
}

// SetViewMode switches between the in-use and stored views.
func (s *WardrobeService) SetViewMode(ctx context.Context, memberID string, mode domain.ViewMode) (*ViewState, error) {
	return s.updateFilters(ctx, memberID, func(f *ViewFilters) {
		f.Mode = mode
	})
}

func (s *WardrobeService) updateFilters(ctx context.Context, memberID string, apply func(*ViewFilters)) (*ViewState, error) {
	if _, err := s.store.GetMember(ctx, memberID); err != nil {
		return nil, ErrMemberNotFound
	}

	session := s.getOrCreateSession(memberID)

	session.mu.Lock()
	apply(&session.filters)
	if session.filters.Mode == "" {
		session.filters.Mode = domain.ViewInUse
	}
	filters := session.filters
	session.mu.Unlock()

	state, err := s.compute(ctx, memberID, filters)
	if err != nil {
		return nil, err
	}

	s.publish(session, state)
	return state, nil
}

// getOrCreateSession returns the member's session, spinning up the event
// pump on first use.
func (s *WardrobeService) getOrCreateSession(memberID string) *viewSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[memberID]; ok {
		return session
	}

	session := &viewSession{
		memberID:    memberID,
		filters:     ViewFilters{Mode: domain.ViewInUse},
		subscribers: make(map[int]chan *ViewState),
		observer:    s.sseManager.Observe(),
	}
	s.sessions[memberID] = session

	go s.pump(session)

	s.logger.Debug("view session started", "member_id", memberID)
	return session
}

// pump recomputes and republishes the snapshot on every store change
// event. Exits when the session's observer is unregistered.
func (s *WardrobeService) pump(session *viewSession) {
	for range session.observer.Events {
		session.mu.Lock()
		hasSubscribers := len(session.subscribers) > 0
		filters := session.filters
		session.mu.Unlock()

		if !hasSubscribers {
			continue
		}

		state, err := s.compute(context.Background(), session.memberID, filters)
		if err != nil {
			// The member may have just been deleted; drop the session.
			s.logger.Debug("view recompute failed, retiring session",
				"member_id", session.memberID,
				"error", err)
			s.retire(session)
			return
		}

		s.publish(session, state)
	}
}

// publish delivers a snapshot to every subscriber, replacing any stale
// undelivered one.
func (s *WardrobeService) publish(session *viewSession, state *ViewState) {
	session.mu.Lock()
	defer session.mu.Unlock()

	for _, ch := range session.subscribers {
		select {
		case ch <- state:
		default:
			// Swap the unconsumed snapshot for the fresh one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- state:
			default:
			}
		}
	}
}

func (s *WardrobeService) removeSubscriber(session *viewSession, subID int) {
	session.mu.Lock()
	if ch, ok := session.subscribers[subID]; ok {
		delete(session.subscribers, subID)
		close(ch)
	}
	empty := len(session.subscribers) == 0
	if empty && session.retireTimer == nil {
		session.retireTimer = time.AfterFunc(sessionGracePeriod, func() {
			session.mu.Lock()
			stillEmpty := len(session.subscribers) == 0
			session.mu.Unlock()
			if stillEmpty {
				s.retire(session)
			}
		})
	}
	session.mu.Unlock()
}

// retire unregisters the session's observer (ending the pump) and drops
// it from the session table.
func (s *WardrobeService) retire(session *viewSession) {
	s.mu.Lock()
	if current, ok := s.sessions[session.memberID]; ok && current == session {
		delete(s.sessions, session.memberID)
	}
	s.mu.Unlock()

	session.mu.Lock()
	for subID, ch := range session.subscribers {
		delete(session.subscribers, subID)
		close(ch)
	}
	if session.retireTimer != nil {
		session.retireTimer.Stop()
		session.retireTimer = nil
	}
	session.mu.Unlock()

	s.sseManager.Unobserve(session.observer)
	s.logger.Debug("view session retired", "member_id", session.memberID)
}

// Close retires all sessions. Called on shutdown.
func (s *WardrobeService) Close() {
	s.mu.Lock()
	sessions := make([]*viewSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.Unlock()

	for _, session := range sessions {
		s.retire(session)
	}
}

// compute builds one consistent ViewState from the store. Everything is
// read up front and derived in a single pass.
func (s *WardrobeService) compute(ctx context.Context, memberID string, filters ViewFilters) (*ViewState, error) {
	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.store.ListItemsFiltered(ctx, memberID, store.FilterParams{
		TagIDs: filters.TagIDs,
		Query:  filters.Query,
		Season: filters.Season,
		Mode:   filters.Mode,
	})
	if err != nil {
		return nil, err
	}

	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	locations, err := s.store.ListLocations(ctx)
	if err != nil {
		return nil, err
	}

	itemTags, err := s.store.MapItemTags(ctx, memberID)
	if err != nil {
		return nil, err
	}

	allItems, err := s.store.ListItemsByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	// Tag usage counts run over the view-mode subset, so switching to the
	// stored view shows how many stored items carry each tag.
	stored := filters.Mode == domain.ViewStored
	usage := make(map[string]int)
	for _, item := range allItems {
		if item.Stored != stored {
			continue
		}
		for _, tagID := range itemTags[item.ID] {
			usage[tagID]++
		}
	}

	tagViews := make([]TagView, 0, len(tags))
	for _, tag := range tags {
		tagViews = append(tagViews, TagView{
			Tag:        tag,
			UsageCount: usage[tag.ID],
			Deletable:  !domain.IsProtectedTagName(tag.Name),
		})
	}

	outdated := sizing.OutdatedIDs(items, member, time.Now())
	outdatedIDs := make([]string, 0, len(outdated))
	for _, item := range items {
		if _, ok := outdated[item.ID]; ok {
			outdatedIDs = append(outdatedIDs, item.ID)
		}
	}

	return &ViewState{
		MemberID:        member.ID,
		MemberName:      member.Name,
		Members:         members,
		Tags:            tagViews,
		Locations:       locations,
		Items:           items,
		OutdatedItemIDs: outdatedIDs,
		AdminMode:       settings.AdminMode,
		Filters:         filters,
	}, nil
}
