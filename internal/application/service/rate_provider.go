package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/omri-harel/cost-ledger/internal/domain/entity"
	"github.com/omri-harel/cost-ledger/internal/domain/repository"
	domainservice "github.com/omri-harel/cost-ledger/internal/domain/service"
	"github.com/omri-harel/cost-ledger/internal/infrastructure/logger"
)

// SourceAddressKey is the well-known settings key holding the user override
// for the rate-source address. An empty stored value means "use the default".
const SourceAddressKey = "rate_source_url"

// RateProvider resolves the configured rate-source address and retrieves the
// rate table for a single report request.
type RateProvider struct {
	settings       repository.SettingRepository
	source         domainservice.RateSource
	defaultAddress string
	logger         logger.Logger
}

// NewRateProvider creates a new rate provider. defaultAddress is used
// whenever no usable override is stored in settings.
func NewRateProvider(settings repository.SettingRepository, source domainservice.RateSource, defaultAddress string, log logger.Logger) *RateProvider {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateProvider{
		settings:       settings,
		source:         source,
		defaultAddress: defaultAddress,
		logger:         log,
	}
}

// ResolveSourceAddress yields the address to fetch rates from. It never
// fails outward: a missing key, a stored empty string, or a settings read
// error all fall back to the built-in default. A stored empty string is left
// in place; it is a valid value that happens to mean "use the default".
func (p *RateProvider) ResolveSourceAddress(ctx context.Context) string {
	value, err := p.settings.GetSetting(ctx, SourceAddressKey)
	if err != nil {
		if !errors.Is(err, repository.ErrSettingNotFound) {
			p.logger.Warn("Settings read failed, using default rate source", map[string]interface{}{
				"key":   SourceAddressKey,
				"error": err.Error(),
			})
		}
		return p.defaultAddress
	}

	if value == "" {
		return p.defaultAddress
	}

	return value
}

// CurrentRates fetches the rate table from the resolved source address.
// Exactly one retrieval per call; fetch and format failures propagate to the
// caller unchanged.
func (p *RateProvider) CurrentRates(ctx context.Context) (entity.RateTable, error) {
	address := p.ResolveSourceAddress(ctx)

	table, err := p.source.FetchRates(ctx, address)
	if err != nil {
		p.logger.Error("Failed to retrieve rate table", map[string]interface{}{
			"address": address,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("failed to retrieve rate table: %w", err)
	}

	p.logger.Debug("Rate table retrieved", map[string]interface{}{
		"address":    address,
		"currencies": len(table),
	})

	return table, nil
}
