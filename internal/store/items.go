package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/normalize"
)

// FilterParams restricts a per-member item listing. Zero values are
// neutral: no tags means no tag restriction, an empty query matches
// everything, a nil season means all seasons, and an empty mode skips the
// stored/in-use split.
type FilterParams struct {
	TagIDs []string
	Query  string
	Season *domain.Season
	Mode   domain.ViewMode
}

// CreateItem stores a new item. CreatedAt is stamped here if the caller
// left it zero, and never changes afterwards.
func (s *Store) CreateItem(ctx context.Context, item *domain.ClothingItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := itemPrefix + item.ID
		if _, err := txn.Get([]byte(key)); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now()
		}
		item.UpdatedAt = item.CreatedAt

		if err := setJSON(txn, key, item); err != nil {
			return err
		}
		return txn.Set([]byte(memberItemsPrefix+item.MemberID+":"+item.ID), []byte(item.ID))
	})
}

// GetItem retrieves an item by id.
func (s *Store) GetItem(ctx context.Context, id string) (*domain.ClothingItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var item *domain.ClothingItem
	err := s.db.View(func(txn *badger.Txn) error {
		i, err := getJSON[domain.ClothingItem](txn, itemPrefix+id)
		if errors.Is(err, ErrNotFound) {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}
		item = i
		return nil
	})
	return item, err
}

// UpdateItem overwrites an item's editable fields. CreatedAt and
// LastWornAt always carry over from the stored copy; wearing is recorded
// only through MarkItemsWorn. Ownership changes only through TransferItem.
func (s *Store) UpdateItem(ctx context.Context, item *domain.ClothingItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		existing, err := getJSON[domain.ClothingItem](txn, itemPrefix+item.ID)
		if errors.Is(err, ErrNotFound) {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}

		item.CreatedAt = existing.CreatedAt
		item.LastWornAt = existing.LastWornAt
		item.MemberID = existing.MemberID
		item.UpdatedAt = time.Now()

		return setJSON(txn, itemPrefix+item.ID, item)
	})
}

// DeleteItem removes an item, its tag joins and its transfer history.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		item, err := getJSON[domain.ClothingItem](txn, itemPrefix+id)
		if errors.Is(err, ErrNotFound) {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}
		return deleteItemInTxn(txn, id, item.MemberID)
	})
}

// deleteItemInTxn is the shared item cascade used by DeleteItem and the
// member cascade.
func deleteItemInTxn(txn *badger.Txn, itemID, memberID string) error {
	// Tag joins, both directions.
	tagIDs, err := scanIndexValues(txn, itemTagsPrefix+itemID+":")
	if err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if err := txn.Delete([]byte(tagItemsPrefix + tagID + ":" + itemID)); err != nil {
			return err
		}
	}
	if err := deletePrefix(txn, itemTagsPrefix+itemID+":"); err != nil {
		return err
	}

	// Transfer history rows for this item.
	xferIDs, err := scanIndexValues(txn, itemTransfersIdx+itemID+":")
	if err != nil {
		return err
	}
	for _, xferID := range xferIDs {
		rec, err := getJSON[domain.TransferRecord](txn, transferPrefix+xferID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if err := deleteTransferInTxn(txn, rec); err != nil {
			return err
		}
	}

	if err := txn.Delete([]byte(memberItemsPrefix + memberID + ":" + itemID)); err != nil {
		return err
	}
	return txn.Delete([]byte(itemPrefix + itemID))
}

// ListItemsByMember returns every item a member owns, newest first.
func (s *Store) ListItemsByMember(ctx context.Context, memberID string) ([]*domain.ClothingItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var items []*domain.ClothingItem
	err := s.db.View(func(txn *badger.Txn) error {
		ids, err := scanIndexValues(txn, memberItemsPrefix+memberID+":")
		if err != nil {
			return err
		}
		for _, id := range ids {
			item, err := getJSON[domain.ClothingItem](txn, itemPrefix+id)
			if errors.Is(err, ErrNotFound) {
				continue // index ahead of a concurrent delete
			}
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// ListItemsFiltered returns a member's items restricted by tags (an item
// must carry every selected tag), case-insensitive description substring,
// exact season, and the stored/in-use view mode.
func (s *Store) ListItemsFiltered(ctx context.Context, memberID string, params FilterParams) ([]*domain.ClothingItem, error) {
	items, err := s.ListItemsByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	joins, err := s.MapItemTags(ctx, memberID)
	if err != nil {
		return nil, err
	}

	filtered := make([]*domain.ClothingItem, 0, len(items))
	for _, item := range items {
		if !matchesFilter(item, params, joins[item.ID]) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, nil
}

func matchesFilter(item *domain.ClothingItem, params FilterParams, tagIDs []string) bool {
	if len(params.TagIDs) > 0 {
		have := make(map[string]bool, len(tagIDs))
		for _, id := range tagIDs {
			have[id] = true
		}
		for _, want := range params.TagIDs {
			if !have[want] {
				return false
			}
		}
	}

	if !normalize.ContainsFold(item.Description, strings.TrimSpace(params.Query)) {
		return false
	}

	// Exact season match only; the transitional SPRING_AUTUMN fallback is a
	// recommender rule, not a catalogue rule.
	if params.Season != nil && item.Season != *params.Season {
		return false
	}

	switch params.Mode {
	case domain.ViewInUse:
		return !item.Stored
	case domain.ViewStored:
		return item.Stored
	default:
		return true
	}
}

// MarkItemsWorn stamps the last-worn timestamp on each item in one
// transaction. Used when an outfit is confirmed or a single item is
// marked worn.
func (s *Store) MarkItemsWorn(ctx context.Context, ids []string, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, id := range ids {
			item, err := getJSON[domain.ClothingItem](txn, itemPrefix+id)
			if errors.Is(err, ErrNotFound) {
				return ErrItemNotFound
			}
			if err != nil {
				return err
			}
			item.MarkWorn(now)
			if err := setJSON(txn, itemPrefix+id, item); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetItemTags replaces the set of tags on an item.
func (s *Store) SetItemTags(ctx context.Context, itemID string, tagIDs []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := getJSON[domain.ClothingItem](txn, itemPrefix+itemID); errors.Is(err, ErrNotFound) {
			return ErrItemNotFound
		} else if err != nil {
			return err
		}

		// Clear old joins.
		old, err := scanIndexValues(txn, itemTagsPrefix+itemID+":")
		if err != nil {
			return err
		}
		for _, tagID := range old {
			if err := txn.Delete([]byte(tagItemsPrefix + tagID + ":" + itemID)); err != nil {
				return err
			}
		}
		if err := deletePrefix(txn, itemTagsPrefix+itemID+":"); err != nil {
			return err
		}

		for _, tagID := range tagIDs {
			if _, err := getJSON[domain.Tag](txn, tagPrefix+tagID); errors.Is(err, ErrNotFound) {
				return ErrTagNotFound
			} else if err != nil {
				return err
			}
			if err := txn.Set([]byte(itemTagsPrefix+itemID+":"+tagID), []byte(tagID)); err != nil {
				return err
			}
			if err := txn.Set([]byte(tagItemsPrefix+tagID+":"+itemID), []byte(itemID)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ItemTagIDs returns the tag ids attached to one item.
func (s *Store) ItemTagIDs(ctx context.Context, itemID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tagIDs []string
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		tagIDs, err = scanIndexValues(txn, itemTagsPrefix+itemID+":")
		return err
	})
	return tagIDs, err
}

// MapItemTags returns itemID → tagIDs for every item a member owns.
func (s *Store) MapItemTags(ctx context.Context, memberID string) (map[string][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(map[string][]string)
	err := s.db.View(func(txn *badger.Txn) error {
		itemIDs, err := scanIndexValues(txn, memberItemsPrefix+memberID+":")
		if err != nil {
			return err
		}
		for _, itemID := range itemIDs {
			tagIDs, err := scanIndexValues(txn, itemTagsPrefix+itemID+":")
			if err != nil {
				return err
			}
			if len(tagIDs) > 0 {
				out[itemID] = tagIDs
			}
		}
		return nil
	})
	return out, err
}
