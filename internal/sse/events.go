// Package sse implements Server-Sent Events for real-time wardrobe updates
// and in-process event broadcasting.
package sse

import (
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventMemberCreated represents a family member creation event.
	EventMemberCreated EventType = "member.created"
	// EventMemberUpdated represents a family member update event.
	EventMemberUpdated EventType = "member.updated"
	// EventMemberDeleted represents a family member deletion event.
	EventMemberDeleted EventType = "member.deleted"

	// EventItemCreated represents a clothing item creation event.
	EventItemCreated EventType = "item.created"
	// EventItemUpdated represents a clothing item update event.
	EventItemUpdated EventType = "item.updated"
	// EventItemDeleted represents a clothing item deletion event.
	EventItemDeleted EventType = "item.deleted"
	// EventItemsWorn represents wear timestamps being recorded for a set of items.
	EventItemsWorn EventType = "item.worn"

	// EventTagCreated represents an occasion tag creation event.
	EventTagCreated EventType = "tag.created"
	// EventTagDeleted represents an occasion tag deletion event.
	EventTagDeleted EventType = "tag.deleted"

	// EventLocationCreated represents a storage location creation event.
	EventLocationCreated EventType = "location.created"
	// EventLocationUpdated represents a storage location update event.
	EventLocationUpdated EventType = "location.updated"
	// EventLocationDeleted represents a storage location deletion event.
	EventLocationDeleted EventType = "location.deleted"

	// EventTransferRecorded represents an item changing owners.
	EventTransferRecorded EventType = "transfer.recorded"

	// EventSettingsUpdated represents an app settings change (admin mode, PIN).
	EventSettingsUpdated EventType = "settings.updated"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an event delivered to SSE clients and in-process observers.
// The Data field contains the event payload as a JSON object for direct
// deserialization on the client.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// MemberEventData is the data payload for member events.
type MemberEventData struct {
	Member *domain.Member `json:"member"`
}

// ItemEventData is the data payload for item create/update events.
type ItemEventData struct {
	Item *domain.ClothingItem `json:"item"`
}

// ItemsWornEventData is the data payload for wear-recording events.
type ItemsWornEventData struct {
	WornAt  time.Time `json:"worn_at"`
	ItemIDs []string  `json:"item_ids"`
}

// DeletedEventData is the shared payload for deletion events.
type DeletedEventData struct {
	DeletedAt time.Time `json:"deleted_at"`
	ID        string    `json:"id"`
}

// TagEventData is the data payload for tag creation events.
type TagEventData struct {
	Tag *domain.Tag `json:"tag"`
}

// LocationEventData is the data payload for location events.
type LocationEventData struct {
	Location *domain.Location `json:"location"`
}

// TransferEventData is the data payload for ownership transfer events.
type TransferEventData struct {
	Transfer *domain.TransferRecord `json:"transfer"`
	Item     *domain.ClothingItem   `json:"item"`
}

// SettingsEventData is the data payload for settings events.
// The PIN hash is never included.
type SettingsEventData struct {
	AdminMode bool `json:"admin_mode"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewMemberEvent creates a member created/updated event.
func NewMemberEvent(eventType EventType, member *domain.Member) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      MemberEventData{Member: member},
	}
}

// NewItemEvent creates an item created/updated event.
func NewItemEvent(eventType EventType, item *domain.ClothingItem) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      ItemEventData{Item: item},
	}
}

// NewItemsWornEvent creates an event recording wear of the given items.
func NewItemsWornEvent(itemIDs []string, wornAt time.Time) Event {
	return Event{
		Type:      EventItemsWorn,
		Timestamp: time.Now(),
		Data:      ItemsWornEventData{ItemIDs: itemIDs, WornAt: wornAt},
	}
}

// NewDeletedEvent creates a deletion event for any entity type.
func NewDeletedEvent(eventType EventType, entityID string) Event {
	now := time.Now()
	return Event{
		Type:      eventType,
		Timestamp: now,
		Data:      DeletedEventData{ID: entityID, DeletedAt: now},
	}
}

// NewTagEvent creates a tag creation event.
func NewTagEvent(tag *domain.Tag) Event {
	return Event{
		Type:      EventTagCreated,
		Timestamp: time.Now(),
		Data:      TagEventData{Tag: tag},
	}
}

// NewLocationEvent creates a location created/updated event.
func NewLocationEvent(eventType EventType, location *domain.Location) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      LocationEventData{Location: location},
	}
}

// NewTransferEvent creates an ownership transfer event.
func NewTransferEvent(transfer *domain.TransferRecord, item *domain.ClothingItem) Event {
	return Event{
		Type:      EventTransferRecorded,
		Timestamp: time.Now(),
		Data:      TransferEventData{Transfer: transfer, Item: item},
	}
}

// NewSettingsEvent creates a settings change event.
func NewSettingsEvent(adminMode bool) Event {
	return Event{
		Type:      EventSettingsUpdated,
		Timestamp: time.Now(),
		Data:      SettingsEventData{AdminMode: adminMode},
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	now := time.Now()
	return Event{
		Type:      EventHeartbeat,
		Timestamp: now,
		Data:      HeartbeatEventData{ServerTime: now},
	}
}
