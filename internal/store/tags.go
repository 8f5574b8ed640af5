package store

import (
	"context"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

// CreateTag stores a new tag. Names are unique, case-sensitively.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		nameKey := []byte(tagByNamePrefix + t.Name)
		if _, err := txn.Get(nameKey); err == nil {
			return ErrTagExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := setJSON(txn, tagPrefix+t.ID, t); err != nil {
			return err
		}
		return txn.Set(nameKey, []byte(t.ID))
	})
}

// GetTag retrieves a tag by id.
func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tag *domain.Tag
	err := s.db.View(func(txn *badger.Txn) error {
		t, err := getJSON[domain.Tag](txn, tagPrefix+id)
		if errors.Is(err, ErrNotFound) {
			return ErrTagNotFound
		}
		if err != nil {
			return err
		}
		tag = t
		return nil
	})
	return tag, err
}

// GetTagByName retrieves a tag by its exact, case-sensitive name.
func (s *Store) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tag *domain.Tag
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(tagByNamePrefix + name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrTagNotFound
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

		t, err := getJSON[domain.Tag](txn, tagPrefix+id)
		if errors.Is(err, ErrNotFound) {
			return ErrTagNotFound
		}
		if err != nil {
			return err
		}
		tag = t
		return nil
	})
	return tag, err
}

// ListTags returns all tags sorted by name.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tags []*domain.Tag
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		tags, err = scanPrefix[domain.Tag](txn, tagPrefix)
		return err
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})
	return tags, nil
}

// CountItemsWithTag returns how many items currently carry the tag.
func (s *Store) CountItemsWithTag(ctx context.Context, tagID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var count int
	err := s.db.View(func(txn *badger.Txn) error {
		ids, err := scanIndexValues(txn, tagItemsPrefix+tagID+":")
		if err != nil {
			return err
		}
		count = len(ids)
		return nil
	})
	return count, err
}

// DeleteTag removes a tag, its name index and all its item joins.
// The caller is responsible for the delete-guard policy; the store always
// obeys.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		tag, err := getJSON[domain.Tag](txn, tagPrefix+id)
		if errors.Is(err, ErrNotFound) {
			return ErrTagNotFound
		}
		if err != nil {
			return err
		}

		itemIDs, err := scanIndexValues(txn, tagItemsPrefix+id+":")
		if err != nil {
			return err
		}
		for _, itemID := range itemIDs {
			if err := txn.Delete([]byte(itemTagsPrefix + itemID + ":" + id)); err != nil {
				return err
			}
		}
		if err := deletePrefix(txn, tagItemsPrefix+id+":"); err != nil {
			return err
		}

		if err := txn.Delete([]byte(tagByNamePrefix + tag.Name)); err != nil {
			return err
		}
		return txn.Delete([]byte(tagPrefix + id))
	})
}
