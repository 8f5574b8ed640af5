package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/id"
)

// TransferItem moves an item to a new owner and appends the ledger row in
// one transaction: either both happen or neither does. The previous owner
// is captured from the stored item before the owner field is rewritten.
func (s *Store) TransferItem(ctx context.Context, itemID, toMemberID string, now time.Time) (*domain.TransferRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var record *domain.TransferRecord
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := getJSON[domain.ClothingItem](txn, itemPrefix+itemID)
		if errors.Is(err, ErrNotFound) {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}

		if _, err := getJSON[domain.Member](txn, memberPrefix+toMemberID); errors.Is(err, ErrNotFound) {
			return ErrMemberNotFound
		} else if err != nil {
			return err
		}

		fromMemberID := item.MemberID

		// Re-home the item and move its member index entry.
		if err := txn.Delete([]byte(memberItemsPrefix + fromMemberID + ":" + itemID)); err != nil {
			return err
		}
		if err := txn.Set([]byte(memberItemsPrefix+toMemberID+":"+itemID), []byte(itemID)); err != nil {
			return err
		}
		item.MemberID = toMemberID
		item.UpdatedAt = now
		if err := setJSON(txn, itemPrefix+itemID, item); err != nil {
			return err
		}

		rec := &domain.TransferRecord{
			ID:            id.MustGenerate(id.PrefixTransfer),
			ItemID:        itemID,
			FromMemberID:  fromMemberID,
			ToMemberID:    toMemberID,
			TransferredAt: now,
		}
		if err := setJSON(txn, transferPrefix+rec.ID, rec); err != nil {
			return err
		}
		if err := txn.Set([]byte(itemTransfersIdx+itemID+":"+rec.ID), []byte(rec.ID)); err != nil {
			return err
		}
		for _, memberID := range []string{fromMemberID, toMemberID} {
			if err := txn.Set([]byte(memberTransfersIdx+memberID+":"+rec.ID), []byte(rec.ID)); err != nil {
				return err
			}
		}

		record = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListTransfersByItem returns an item's ledger rows, oldest first.
func (s *Store) ListTransfersByItem(ctx context.Context, itemID string) ([]*domain.TransferRecord, error) {
	return s.listTransfers(ctx, itemTransfersIdx+itemID+":")
}

// ListTransfersByMember returns every ledger row where the member is
// source or target, oldest first.
func (s *Store) ListTransfersByMember(ctx context.Context, memberID string) ([]*domain.TransferRecord, error) {
	return s.listTransfers(ctx, memberTransfersIdx+memberID+":")
}

func (s *Store) listTransfers(ctx context.Context, indexPrefix string) ([]*domain.TransferRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []*domain.TransferRecord
	err := s.db.View(func(txn *badger.Txn) error {
		ids, err := scanIndexValues(txn, indexPrefix)
		if err != nil {
			return err
		}
		for _, xferID := range ids {
			rec, err := getJSON[domain.TransferRecord](txn, transferPrefix+xferID)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].TransferredAt.Before(records[j].TransferredAt)
	})
	return records, nil
}

// deleteTransferInTxn removes a ledger row and all its index entries.
func deleteTransferInTxn(txn *badger.Txn, rec *domain.TransferRecord) error {
	if err := txn.Delete([]byte(itemTransfersIdx + rec.ItemID + ":" + rec.ID)); err != nil {
		return err
	}
	for _, memberID := range []string{rec.FromMemberID, rec.ToMemberID} {
		if err := txn.Delete([]byte(memberTransfersIdx + memberID + ":" + rec.ID)); err != nil {
			return err
		}
	}
	return txn.Delete([]byte(transferPrefix + rec.ID))
}
