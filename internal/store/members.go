package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

// CreateMember stores a new member.
func (s *Store) CreateMember(ctx context.Context, m *domain.Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := memberPrefix + m.ID
		if _, err := txn.Get([]byte(key)); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return setJSON(txn, key, m)
	})
}

// GetMember retrieves a member by id.
func (s *Store) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var member *domain.Member
	err := s.db.View(func(txn *badger.Txn) error {
		m, err := getJSON[domain.Member](txn, memberPrefix+id)
		if errors.Is(err, ErrNotFound) {
			return ErrMemberNotFound
		}
		if err != nil {
			return err
		}
		member = m
		return nil
	})
	return member, err
}

// UpdateMember overwrites a member, preserving CreatedAt.
func (s *Store) UpdateMember(ctx context.Context, m *domain.Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		existing, err := getJSON[domain.Member](txn, memberPrefix+m.ID)
		if errors.Is(err, ErrNotFound) {
			return ErrMemberNotFound
		}
		if err != nil {
			return err
		}
		m.CreatedAt = existing.CreatedAt
		m.UpdatedAt = time.Now()
		return setJSON(txn, memberPrefix+m.ID, m)
	})
}

// ListMembers returns all members ordered by creation time.
func (s *Store) ListMembers(ctx context.Context) ([]*domain.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var members []*domain.Member
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		members, err = scanPrefix[domain.Member](txn, memberPrefix)
		return err
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(members, func(i, j int) bool {
		return members[i].CreatedAt.Before(members[j].CreatedAt)
	})
	return members, nil
}

// DeleteMember removes a member and cascades to owned items, their tag
// joins, and every transfer record where the member is source or target.
// The whole cascade commits in one transaction.
func (s *Store) DeleteMember(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := getJSON[domain.Member](txn, memberPrefix+id); errors.Is(err, ErrNotFound) {
			return ErrMemberNotFound
		} else if err != nil {
			return err
		}

		// Owned items and their joins.
		itemIDs, err := scanIndexValues(txn, memberItemsPrefix+id+":")
		if err != nil {
			return err
		}
		for _, itemID := range itemIDs {
			if err := deleteItemInTxn(txn, itemID, id); err != nil {
				return err
			}
		}

		// Transfers where the member is source or target. Item-side cascade
		// above already removed transfers of owned items; this catches rows
		// where the member gave an item away and no longer owns it.
		records, err := scanPrefix[domain.TransferRecord](txn, transferPrefix)
		if err != nil {
			return err
		}
		for _, rec := range records {
			if rec.FromMemberID != id && rec.ToMemberID != id {
				continue
			}
			if err := deleteTransferInTxn(txn, rec); err != nil {
				return err
			}
		}

		return txn.Delete([]byte(memberPrefix + id))
	})
}
