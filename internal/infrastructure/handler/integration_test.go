package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/omri-harel/cost-ledger/internal/application/service"
	"github.com/omri-harel/cost-ledger/internal/config"
	"github.com/omri-harel/cost-ledger/internal/domain/entity"
	domainservice "github.com/omri-harel/cost-ledger/internal/domain/service"
	"github.com/omri-harel/cost-ledger/internal/infrastructure/db"
	"github.com/omri-harel/cost-ledger/internal/infrastructure/handler"
	"github.com/omri-harel/cost-ledger/internal/infrastructure/logger"
	"github.com/omri-harel/cost-ledger/internal/infrastructure/middleware"
	"github.com/omri-harel/cost-ledger/internal/mocks"
)

// setupTestServer wires a real badger store and a mocked rate source behind
// the full router, the same shape cmd/server builds.
func setupTestServer(t *testing.T, rateSource *mocks.MockRateSource, clock db.Clock) (*httptest.Server, func()) {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	badgerDB, err := badger.Open(opts)
	require.NoError(t, err)

	store := db.NewBadgerStore(badgerDB, clock)
	log := logger.NewJSONLogger(nil, logger.ErrorLevel)

	rateProvider := service.NewRateProvider(store, rateSource, config.DefaultRatesAddress, log)
	expenseService := service.NewExpenseService(store, log)
	reportService := service.NewReportService(store, rateProvider, log)

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	handler.NewCostHandler(expenseService, log).RegisterRoutes(router)
	handler.NewSettingsHandler(store, log).RegisterRoutes(router)
	handler.NewReportHandler(reportService, log).RegisterRoutes(router)

	server := httptest.NewServer(router)

	cleanup := func() {
		server.Close()
		badgerDB.Close()
	}

	return server, cleanup
}

func postCost(t *testing.T, server *httptest.Server, body string) handler.CostResponse {
	t.Helper()

	resp, err := http.Post(server.URL+"/costs", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created handler.CostResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	return created
}

func TestCostCreationAndListing(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	rateSource := new(mocks.MockRateSource)
	server, cleanup := setupTestServer(t, rateSource, nil)
	defer cleanup()

	created := postCost(t, server, `{"amount":200,"currency":"USD","category":"FOOD","description":"groceries"}`)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.RecordedAt)
	assert.Equal(t, 200.0, created.Amount)

	resp, err := http.Get(server.URL + "/costs")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []handler.CostResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestCostValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	rateSource := new(mocks.MockRateSource)
	server, cleanup := setupTestServer(t, rateSource, nil)
	defer cleanup()

	cases := []struct {
		name string
		body string
	}{
		{"negative amount", `{"amount":-5,"currency":"USD","category":"x"}`},
		{"zero amount", `{"amount":0,"currency":"USD","category":"x"}`},
		{"unknown currency", `{"amount":5,"currency":"CAD","category":"x"}`},
		{"bad json", `{"amount":`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+"/costs", "application/json", bytes.NewBufferString(tc.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var errResp handler.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
			assert.Equal(t, http.StatusBadRequest, errResp.Status)
		})
	}
}

func TestMonthlyReportEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	clock := func() time.Time { return time.Date(2025, 9, 12, 10, 0, 0, 0, time.Local) }
	rateSource := new(mocks.MockRateSource)
	server, cleanup := setupTestServer(t, rateSource, clock)
	defer cleanup()

	postCost(t, server, `{"amount":200,"currency":"USD","category":"FOOD"}`)
	postCost(t, server, `{"amount":120,"currency":"GBP","category":"Education"}`)

	rateSource.On("FetchRates", mock.Anything, config.DefaultRatesAddress).
		Return(entity.RateTable{"USD": 1, "GBP": 0.6}, nil).Once()

	resp, err := http.Get(server.URL + "/reports/monthly?year=2025&month=9&currency=USD")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report service.MonthlyReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))

	assert.Equal(t, 2025, report.Year)
	assert.Equal(t, 9, report.Month)
	assert.Len(t, report.Costs, 2)
	assert.Equal(t, service.ReportTotal{Currency: "USD", Total: 400.0}, report.Total)
	rateSource.AssertExpectations(t)
}

func TestReportUsesOverriddenRateSource(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	clock := func() time.Time { return time.Date(2025, 3, 5, 8, 0, 0, 0, time.Local) }
	rateSource := new(mocks.MockRateSource)
	server, cleanup := setupTestServer(t, rateSource, clock)
	defer cleanup()

	// Store an override, then confirm the fetch goes there.
	req, err := http.NewRequest(http.MethodPut, server.URL+"/settings/rate_source_url",
		bytes.NewBufferString(`{"value":"https://rates.override.test/r.json"}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	postCost(t, server, `{"amount":50,"currency":"ILS","category":"misc"}`)

	rateSource.On("FetchRates", mock.Anything, "https://rates.override.test/r.json").
		Return(entity.RateTable{"USD": 1, "ILS": 3.4}, nil).Once()

	resp, err = http.Get(server.URL + "/reports/monthly?year=2025&month=3&currency=USD")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rateSource.AssertExpectations(t)
}

func TestReportRateSourceFailure(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	clock := func() time.Time { return time.Date(2025, 9, 12, 10, 0, 0, 0, time.Local) }
	rateSource := new(mocks.MockRateSource)
	server, cleanup := setupTestServer(t, rateSource, clock)
	defer cleanup()

	postCost(t, server, `{"amount":10,"currency":"USD","category":"misc"}`)

	fetchErr := &domainservice.RateFetchError{
		Address:    config.DefaultRatesAddress,
		StatusCode: http.StatusServiceUnavailable,
		Err:        errors.New("unavailable"),
	}
	rateSource.On("FetchRates", mock.Anything, mock.Anything).Return(nil, fetchErr).Once()

	resp, err := http.Get(server.URL + "/reports/monthly?year=2025&month=9&currency=USD")
	require.NoError(t, err)
	defer resp.Body.Close()

	// A failed build is distinguishable from an empty-but-successful one.
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestYearlyBreakdownEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	rateSource := new(mocks.MockRateSource)
	server, cleanup := setupTestServer(t, rateSource, nil)
	defer cleanup()

	// No records at all: twelve zero entries, no fetch.
	resp, err := http.Get(server.URL + "/reports/yearly?year=2025&currency=USD")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var breakdown []service.MonthTotal
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&breakdown))
	require.Len(t, breakdown, 12)
	for i, mt := range breakdown {
		assert.Equal(t, i+1, mt.Month)
		assert.Equal(t, 0.0, mt.Amount)
		assert.Equal(t, "USD", mt.Currency)
	}
	rateSource.AssertNotCalled(t, "FetchRates", mock.Anything, mock.Anything)
}

func TestSettingsRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	rateSource := new(mocks.MockRateSource)
	server, cleanup := setupTestServer(t, rateSource, nil)
	defer cleanup()

	// Unset key is a 404.
	resp, err := http.Get(server.URL + "/settings/rate_source_url")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// An empty stored value is readable, not a 404.
	req, err := http.NewRequest(http.MethodPut, server.URL+"/settings/rate_source_url",
		bytes.NewBufferString(`{"value":""}`))
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/settings/rate_source_url")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var setting handler.SettingResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&setting))
	assert.Equal(t, "rate_source_url", setting.Key)
	assert.Equal(t, "", setting.Value)
}
