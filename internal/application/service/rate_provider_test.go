package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/omri-harel/cost-ledger/internal/domain/entity"
	"github.com/omri-harel/cost-ledger/internal/domain/repository"
	domainservice "github.com/omri-harel/cost-ledger/internal/domain/service"
	"github.com/omri-harel/cost-ledger/internal/infrastructure/logger"
)

// MockSettingRepository is a mock implementation of the setting repository.
type MockSettingRepository struct {
	mock.Mock
}

func (m *MockSettingRepository) GetSetting(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockSettingRepository) PutSetting(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// MockRateSource is a mock implementation of the rate source.
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) FetchRates(ctx context.Context, address string) (entity.RateTable, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.RateTable), args.Error(1)
}

const defaultAddress = "https://rates.example.com/latest.json"

func TestResolveSourceAddress(t *testing.T) {
	log := logger.NewJSONLogger(nil, logger.ErrorLevel)
	ctx := context.Background()

	t.Run("Stored override wins", func(t *testing.T) {
		settings := new(MockSettingRepository)
		provider := NewRateProvider(settings, new(MockRateSource), defaultAddress, log)

		settings.On("GetSetting", ctx, SourceAddressKey).Return("https://rates.override.test/r.json", nil).Once()

		assert.Equal(t, "https://rates.override.test/r.json", provider.ResolveSourceAddress(ctx))
	})

	t.Run("Missing key falls back to default", func(t *testing.T) {
		settings := new(MockSettingRepository)
		provider := NewRateProvider(settings, new(MockRateSource), defaultAddress, log)

		settings.On("GetSetting", ctx, SourceAddressKey).Return("", repository.ErrSettingNotFound).Once()

		assert.Equal(t, defaultAddress, provider.ResolveSourceAddress(ctx))
	})

	t.Run("Stored empty string falls back to default", func(t *testing.T) {
		settings := new(MockSettingRepository)
		provider := NewRateProvider(settings, new(MockRateSource), defaultAddress, log)

		settings.On("GetSetting", ctx, SourceAddressKey).Return("", nil).Once()

		assert.Equal(t, defaultAddress, provider.ResolveSourceAddress(ctx))
	})

	t.Run("Settings read failure is absorbed", func(t *testing.T) {
		settings := new(MockSettingRepository)
		provider := NewRateProvider(settings, new(MockRateSource), defaultAddress, log)

		readErr := &repository.StoreReadError{Collection: "settings", Err: errors.New("corrupted")}
		settings.On("GetSetting", ctx, SourceAddressKey).Return("", readErr).Once()

		assert.Equal(t, defaultAddress, provider.ResolveSourceAddress(ctx))
	})
}

func TestCurrentRates(t *testing.T) {
	log := logger.NewJSONLogger(nil, logger.ErrorLevel)
	ctx := context.Background()

	t.Run("Fetches once from the resolved address", func(t *testing.T) {
		settings := new(MockSettingRepository)
		source := new(MockRateSource)
		provider := NewRateProvider(settings, source, defaultAddress, log)

		table := entity.RateTable{"USD": 1, "GBP": 0.6}
		settings.On("GetSetting", ctx, SourceAddressKey).Return("", repository.ErrSettingNotFound).Once()
		source.On("FetchRates", ctx, defaultAddress).Return(table, nil).Once()

		got, err := provider.CurrentRates(ctx)

		assert.NoError(t, err)
		assert.Equal(t, table, got)
		source.AssertExpectations(t)
	})

	t.Run("Fetch failure keeps its type through wrapping", func(t *testing.T) {
		settings := new(MockSettingRepository)
		source := new(MockRateSource)
		provider := NewRateProvider(settings, source, defaultAddress, log)

		fetchErr := &domainservice.RateFetchError{Address: defaultAddress, StatusCode: 503, Err: errors.New("unavailable")}
		settings.On("GetSetting", ctx, SourceAddressKey).Return("", repository.ErrSettingNotFound).Once()
		source.On("FetchRates", ctx, defaultAddress).Return(nil, fetchErr).Once()

		_, err := provider.CurrentRates(ctx)

		assert.Error(t, err)
		var typed *domainservice.RateFetchError
		assert.True(t, errors.As(err, &typed))
		assert.Equal(t, 503, typed.StatusCode)
	})
}
