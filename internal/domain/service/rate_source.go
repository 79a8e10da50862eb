package service

import (
	"context"

	"github.com/omri-harel/cost-ledger/internal/domain/entity"
)

// RateSource defines the interface for retrieving the current rate table
// from a source address.
type RateSource interface {
	// FetchRates performs exactly one retrieval of address and returns the
	// rate table it publishes. No retries, no caching between calls.
	FetchRates(ctx context.Context, address string) (entity.RateTable, error)
}
