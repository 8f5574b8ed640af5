package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

// CreateLocation stores a new storage location.
func (s *Store) CreateLocation(ctx context.Context, l *domain.Location) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := locationPrefix + l.ID
		if _, err := txn.Get([]byte(key)); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := setJSON(txn, key, l); err != nil {
			return err
		}
		if l.NfcID != "" {
			return txn.Set([]byte(locationByNfc+l.NfcID), []byte(l.ID))
		}
		return nil
	})
}

// GetLocation retrieves a location by id.
func (s *Store) GetLocation(ctx context.Context, id string) (*domain.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var loc *domain.Location
	err := s.db.View(func(txn *badger.Txn) error {
		l, err := getJSON[domain.Location](txn, locationPrefix+id)
		if errors.Is(err, ErrNotFound) {
			return ErrLocationNotFound
		}
		if err != nil {
			return err
		}
		loc = l
		return nil
	})
	return loc, err
}

// GetLocationByNfcID resolves a scanned NFC sticker to its location.
func (s *Store) GetLocationByNfcID(ctx context.Context, nfcID string) (*domain.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var loc *domain.Location
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(locationByNfc + nfcID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrLocationNotFound
		}
		if err != nil {
			return err
		}

		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}

		l, err := getJSON[domain.Location](txn, locationPrefix+id)
		if errors.Is(err, ErrNotFound) {
			return ErrLocationNotFound
		}
		if err != nil {
			return err
		}
		loc = l
		return nil
	})
	return loc, err
}

// UpdateLocation overwrites a location, preserving CreatedAt and keeping
// the NFC index in sync.
func (s *Store) UpdateLocation(ctx context.Context, l *domain.Location) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		existing, err := getJSON[domain.Location](txn, locationPrefix+l.ID)
		if errors.Is(err, ErrNotFound) {
			return ErrLocationNotFound
		}
		if err != nil {
			return err
		}

		if existing.NfcID != "" && existing.NfcID != l.NfcID {
			if err := txn.Delete([]byte(locationByNfc + existing.NfcID)); err != nil {
				return err
			}
		}
		if l.NfcID != "" {
			if err := txn.Set([]byte(locationByNfc+l.NfcID), []byte(l.ID)); err != nil {
				return err
			}
		}

		l.CreatedAt = existing.CreatedAt
		l.UpdatedAt = time.Now()
		return setJSON(txn, locationPrefix+l.ID, l)
	})
}

// ListLocations returns all locations sorted by name.
func (s *Store) ListLocations(ctx context.Context) ([]*domain.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var locs []*domain.Location
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		locs, err = scanPrefix[domain.Location](txn, locationPrefix)
		return err
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(locs, func(i, j int) bool {
		return locs[i].Name < locs[j].Name
	})
	return locs, nil
}

// CountItemsAtLocation returns how many items reference the location.
func (s *Store) CountItemsAtLocation(ctx context.Context, locationID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var count int
	err := s.db.View(func(txn *badger.Txn) error {
		items, err := scanPrefix[domain.ClothingItem](txn, itemPrefix)
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.LocationID == locationID {
				count++
			}
		}
		return nil
	})
	return count, err
}

// DeleteLocation removes a location and detaches (never deletes) the items
// referencing it, in one transaction.
func (s *Store) DeleteLocation(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		loc, err := getJSON[domain.Location](txn, locationPrefix+id)
		if errors.Is(err, ErrNotFound) {
			return ErrLocationNotFound
		}
		if err != nil {
			return err
		}

		items, err := scanPrefix[domain.ClothingItem](txn, itemPrefix)
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.LocationID != id {
				continue
			}
			item.LocationID = ""
			item.UpdatedAt = time.Now()
			if err := setJSON(txn, itemPrefix+item.ID, item); err != nil {
				return err
			}
		}

		if loc.NfcID != "" {
			if err := txn.Delete([]byte(locationByNfc + loc.NfcID)); err != nil {
				return err
			}
		}
		return txn.Delete([]byte(locationPrefix + id))
	})
}
