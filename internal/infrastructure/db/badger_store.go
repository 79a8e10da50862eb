// Package db implements the record store: durable keyed storage for the
// costs and settings collections.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"

	"github.com/omri-harel/cost-ledger/internal/domain/entity"
	"github.com/omri-harel/cost-ledger/internal/domain/repository"
)

// Clock supplies the record store's timestamps. Injected so tests can pin it
// instead of depending on real time.
type Clock func() time.Time

// The two collections share one key space under distinct prefixes.
const (
	costKeyPrefix    = "cost:"
	settingKeyPrefix = "setting:"
)

// BadgerStore implements the expense and setting repositories on BadgerDB,
// with records serialized as JSON values.
type BadgerStore struct {
	db    *badger.DB
	clock Clock
}

// OpenBadgerStore opens (or creates) the store at path. Opening an existing
// store reuses it as-is, so repeated opens are idempotent.
func OpenBadgerStore(path string, clock Clock) (*BadgerStore, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	badgerDB, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	return NewBadgerStore(badgerDB, clock), nil
}

// NewBadgerStore wraps an already-open BadgerDB. A nil clock defaults to
// time.Now.
func NewBadgerStore(badgerDB *badger.DB, clock Clock) *BadgerStore {
	if clock == nil {
		clock = time.Now
	}

	return &BadgerStore{db: badgerDB, clock: clock}
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Create persists a new expense record, assigning its id and stamping
// recorded-at from the store clock. Draft fields are stored verbatim.
func (s *BadgerStore) Create(ctx context.Context, draft entity.ExpenseDraft) (*entity.ExpenseRecord, error) {
	rec := &entity.ExpenseRecord{
		ID:          uuid.New().String(),
		Amount:      draft.Amount,
		Currency:    draft.Currency,
		Category:    draft.Category,
		Description: draft.Description,
		RecordedAt:  s.clock(),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, &repository.StoreWriteError{Collection: "costs", Err: err}
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(costKeyPrefix+rec.ID), data)
	})
	if err != nil {
		return nil, &repository.StoreWriteError{Collection: "costs", Err: err}
	}

	return rec, nil
}

// ListAll returns every stored expense record. Iteration order follows the
// key space, which callers must not rely on.
func (s *BadgerStore) ListAll(ctx context.Context) ([]entity.ExpenseRecord, error) {
	records := make([]entity.ExpenseRecord, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(costKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec entity.ExpenseRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			records = append(records, rec)
		}

		return nil
	})
	if err != nil {
		return nil, &repository.StoreReadError{Collection: "costs", Err: err}
	}

	return records, nil
}

// GetSetting returns the stored value for key, or ErrSettingNotFound. A
// stored empty string comes back as a valid value.
func (s *BadgerStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value string

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(settingKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", repository.ErrSettingNotFound
	}
	if err != nil {
		return "", &repository.StoreReadError{Collection: "settings", Err: err}
	}

	return value, nil
}

// PutSetting stores value under key, overwriting any previous value.
func (s *BadgerStore) PutSetting(ctx context.Context, key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(settingKeyPrefix+key), []byte(value))
	})
	if err != nil {
		return &repository.StoreWriteError{Collection: "settings", Err: err}
	}

	return nil
}
