package repository

import (
	"context"

	"github.com/omri-harel/cost-ledger/internal/domain/entity"
)

// ExpenseRepository defines the interface for the costs collection.
type ExpenseRepository interface {
	// Create persists a new expense record, assigning its id and stamping
	// recorded-at from the store clock, and returns the stored record.
	Create(ctx context.Context, draft entity.ExpenseDraft) (*entity.ExpenseRecord, error)

	// ListAll returns every stored expense record. Ordering is unspecified;
	// callers that need a specific order must sort.
	ListAll(ctx context.Context) ([]entity.ExpenseRecord, error)
}

// SettingRepository defines the interface for the settings collection.
// Writes are last-write-wins.
type SettingRepository interface {
	// GetSetting returns the stored value for key, or ErrSettingNotFound if
	// the key has never been written.
	GetSetting(ctx context.Context, key string) (string, error)

	// PutSetting stores value under key, overwriting any previous value.
	PutSetting(ctx context.Context, key, value string) error
}
