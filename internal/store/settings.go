package store

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// AppSettings is the singleton settings record. AdminMode gates
// destructive deletes; PinHash is an argon2id hash of the 4-digit admin
// PIN (empty until the user sets one).
type AppSettings struct {
	AdminMode bool      `json:"admin_mode"`
	PinHash   string    `json:"pin_hash,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetSettings returns the settings record, or defaults when none exists.
func (s *Store) GetSettings(ctx context.Context) (*AppSettings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	settings := &AppSettings{}
	err := s.db.View(func(txn *badger.Txn) error {
		got, err := getJSON[AppSettings](txn, settingsKey)
		if errors.Is(err, ErrNotFound) {
			return nil // defaults: admin off, no PIN
		}
		if err != nil {
			return err
		}
		settings = got
		return nil
	})
	return settings, err
}

// SaveSettings overwrites the settings record.
func (s *Store) SaveSettings(ctx context.Context, settings *AppSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	settings.UpdatedAt = time.Now()
	return s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, settingsKey, settings)
	})
}
