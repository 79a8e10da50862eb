package entity

import (
	"time"
)

// ExpenseRecord represents a single dated expense as persisted by the record
// store. ID and RecordedAt are assigned by the store at creation time and are
// never mutated afterwards; the remaining fields are stored exactly as the
// caller supplied them.
type ExpenseRecord struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// ExpenseDraft carries the caller-supplied fields of a new expense record.
type ExpenseDraft struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}
