// Package api holds clients for external rate sources.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/omri-harel/cost-ledger/internal/domain/entity"
	domainservice "github.com/omri-harel/cost-ledger/internal/domain/service"
)

// maxErrorBodyBytes bounds how much of a failed response ends up inside an
// error message.
const maxErrorBodyBytes = 512

// RateSourceClient retrieves rate tables over HTTP. It implements the domain
// RateSource contract: exactly one GET per call, no retries, no caching.
type RateSourceClient struct {
	httpClient *http.Client
}

// NewRateSourceClient creates a new rate source client. A nil httpClient gets
// a default with a 10 second timeout.
func NewRateSourceClient(httpClient *http.Client) *RateSourceClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}

	return &RateSourceClient{httpClient: httpClient}
}

// FetchRates retrieves the rate table published at address. The payload must
// be a flat JSON object mapping currency codes to positive numbers; anything
// else is a RateFormatError. Transport failures and non-2xx statuses are
// RateFetchErrors.
func (c *RateSourceClient) FetchRates(ctx context.Context, address string) (entity.RateTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return nil, &domainservice.RateFetchError{Address: address, Err: err}
	}
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domainservice.RateFetchError{Address: address, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domainservice.RateFetchError{Address: address, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &domainservice.RateFetchError{
			Address:    address,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status, body: %s", truncate(body)),
		}
	}

	var table entity.RateTable
	if err := json.Unmarshal(body, &table); err != nil {
		return nil, &domainservice.RateFormatError{Address: address, Err: err}
	}
	if table == nil {
		return nil, &domainservice.RateFormatError{Address: address, Err: fmt.Errorf("payload is not a JSON object")}
	}

	for code, rate := range table {
		if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			return nil, &domainservice.RateFormatError{
				Address: address,
				Err:     fmt.Errorf("rate for %q is not a positive number: %v", code, rate),
			}
		}
	}

	return table, nil
}

func truncate(body []byte) string {
	if len(body) > maxErrorBodyBytes {
		return string(body[:maxErrorBodyBytes]) + "..."
	}
	return string(body)
}
