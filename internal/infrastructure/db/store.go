package db

import (
	"fmt"

	"github.com/omri-harel/cost-ledger/internal/domain/repository"
)

// Store bundles the two repositories backed by one storage medium.
type Store interface {
	repository.ExpenseRepository
	repository.SettingRepository
	Close() error
}

// Backend names for OpenStore.
const (
	BadgerBackend = "badger"
	SQLiteBackend = "sqlite"
)

// OpenStore opens the record store selected by backend. An empty backend
// defaults to badger.
func OpenStore(backend, badgerPath, sqlitePath string, clock Clock) (Store, error) {
	switch backend {
	case SQLiteBackend:
		return OpenSQLiteStore(sqlitePath, clock)
	case BadgerBackend, "":
		return OpenBadgerStore(badgerPath, clock)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", backend)
	}
}
