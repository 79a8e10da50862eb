// Package mocks holds shared testify mocks for the repository and rate
// source interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/omri-harel/cost-ledger/internal/domain/entity"
)

// MockExpenseRepository mocks the ExpenseRepository interface.
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, draft entity.ExpenseDraft) (*entity.ExpenseRecord, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ExpenseRecord), args.Error(1)
}

func (m *MockExpenseRepository) ListAll(ctx context.Context) ([]entity.ExpenseRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ExpenseRecord), args.Error(1)
}

// MockSettingRepository mocks the SettingRepository interface.
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

// MockRateSource mocks the RateSource interface.
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

// MockRatesProvider mocks the report service's RatesProvider interface.
type MockRatesProvider struct {
	mock.Mock
}

func (m *MockRatesProvider) CurrentRates(ctx context.Context) (entity.RateTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.RateTable), args.Error(1)
}
