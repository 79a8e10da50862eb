package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/omri-harel/cost-ledger/internal/domain/entity"
	"github.com/omri-harel/cost-ledger/internal/domain/repository"
)

// SQLiteStore implements the expense and setting repositories on SQLite.
// Each collection is one table; schema setup runs through embedded
// migrations.
type SQLiteStore struct {
	db    *sql.DB
	clock Clock
}

// OpenSQLiteStore opens the database at path and applies any pending
// migrations. Migrations are a no-op on an already-initialized database,
// which keeps opening idempotent.
func OpenSQLiteStore(path string, clock Clock) (*SQLiteStore, error) {
	if clock == nil {
		clock = time.Now
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(path); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: sqlDB, clock: clock}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Create persists a new expense record, assigning its id and stamping
// recorded-at from the store clock.
func (s *SQLiteStore) Create(ctx context.Context, draft entity.ExpenseDraft) (*entity.ExpenseRecord, error) {
	rec := &entity.ExpenseRecord{
		ID:          uuid.New().String(),
		Amount:      draft.Amount,
		Currency:    draft.Currency,
		Category:    draft.Category,
		Description: draft.Description,
		RecordedAt:  s.clock(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO costs (id, amount, currency, category, description, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Amount, rec.Currency, rec.Category, rec.Description,
		rec.RecordedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, &repository.StoreWriteError{Collection: "costs", Err: err}
	}

	return rec, nil
}

// ListAll returns every stored expense record.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]entity.ExpenseRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, amount, currency, category, description, recorded_at FROM costs`)
	if err != nil {
		return nil, &repository.StoreReadError{Collection: "costs", Err: err}
	}
	defer rows.Close()

	records := make([]entity.ExpenseRecord, 0)
	for rows.Next() {
		var rec entity.ExpenseRecord
		var recordedAt string

		if err := rows.Scan(&rec.ID, &rec.Amount, &rec.Currency, &rec.Category,
			&rec.Description, &recordedAt); err != nil {
			return nil, &repository.StoreReadError{Collection: "costs", Err: err}
		}

		ts, err := time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, &repository.StoreReadError{Collection: "costs", Err: fmt.Errorf("bad recorded_at for %s: %w", rec.ID, err)}
		}
		rec.RecordedAt = ts

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &repository.StoreReadError{Collection: "costs", Err: err}
	}

	return records, nil
}

// GetSetting returns the stored value for key, or ErrSettingNotFound.
func (s *SQLiteStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value string

	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrSettingNotFound
	}
	if err != nil {
		return "", &repository.StoreReadError{Collection: "settings", Err: err}
	}

	return value, nil
}

// PutSetting stores value under key, overwriting any previous value.
func (s *SQLiteStore) PutSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return &repository.StoreWriteError{Collection: "settings", Err: err}
	}

	return nil
}
