package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// getJSON reads and unmarshals a single record inside a transaction.
// Returns ErrNotFound when the key is absent.
func getJSON[T any](txn *badger.Txn, key string) (*T, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	var out T
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &out, nil
}

// setJSON marshals and writes a single record inside a transaction.
func setJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := txn.Set([]byte(key), data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// scanPrefix collects every primary record under prefix, skipping idx: keys.
func scanPrefix[T any](txn *badger.Txn, prefix string) ([]*T, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)

	it := txn.NewIterator(opts)
	defer it.Close()

	var out []*T
	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		key := string(it.Item().Key())
		if strings.HasPrefix(key[len(prefix):], "idx:") {
			continue
		}

		var rec T
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		out = append(out, &rec)
	}
	return out, nil
}

// scanIndexValues collects the values stored under an index prefix
// (index entries store the target record's id as the value).
func scanIndexValues(txn *badger.Txn, prefix string) ([]string, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)

	it := txn.NewIterator(opts)
	defer it.Close()

	var out []string
	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		var id string
		err := it.Item().Value(func(val []byte) error {
			id = string(val)
			return nil
		})
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// deletePrefix removes every key under prefix inside a transaction.
func deletePrefix(txn *badger.Txn, prefix string) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	opts.PrefetchValues = false

	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	for _, key := range keys {
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
