package repository

import (
	"errors"
	"fmt"
)

// ErrSettingNotFound reports a settings key with no stored value. This is
// distinct from a stored empty string, which is a valid value.
var ErrSettingNotFound = errors.New("setting not found")

// StoreWriteError reports that the underlying medium rejected a write.
type StoreWriteError struct {
	Collection string
	Err        error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store write failed (%s): %v", e.Collection, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// StoreReadError reports that the store was unavailable or its contents
// could not be decoded.
type StoreReadError struct {
	Collection string
	Err        error
}

func (e *StoreReadError) Error() string {
	return fmt.Sprintf("store read failed (%s): %v", e.Collection, e.Err)
}

func (e *StoreReadError) Unwrap() error { return e.Err }
