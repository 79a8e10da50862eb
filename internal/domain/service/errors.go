package service

import (
	"fmt"
)

// RateFetchError reports a transport or HTTP-level failure while retrieving
// a rate table. StatusCode is zero when the request never got a response.
type RateFetchError struct {
	Address    string
	StatusCode int
	Err        error
}

func (e *RateFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("rate fetch from %s failed with status %d: %v", e.Address, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("rate fetch from %s failed: %v", e.Address, e.Err)
}

func (e *RateFetchError) Unwrap() error { return e.Err }

// RateFormatError reports a payload that does not parse as a flat mapping of
// currency code to positive number.
type RateFormatError struct {
	Address string
	Err     error
}

func (e *RateFormatError) Error() string {
	return fmt.Sprintf("rate payload from %s is malformed: %v", e.Address, e.Err)
}

func (e *RateFormatError) Unwrap() error { return e.Err }
