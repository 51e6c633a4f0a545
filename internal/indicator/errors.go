// Package indicator computes technical indicators over a price Series.
//
// Every function is pure: it reads the input series and returns a new
// IndicatorSeries aligned index-for-index with it, so callers can compute
// indicators concurrently on the same series without locking.
package indicator

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is returned when a window or difference needs more bars than available.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidParameter is returned for non-positive windows, spans or multipliers.
	ErrInvalidParameter = errors.New("invalid parameter")
)

func insufficient(name string, need, got int) error {
	return fmt.Errorf("%w: %s needs %d bars, got %d", ErrInsufficientData, name, need, got)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidParameter}, args...)...)
}
