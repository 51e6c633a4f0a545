package collector

import (
	"context"
	"errors"
	"fmt"

	"StockInsight/internal/model"
)

var (
	// ErrNoData is returned when the provider has no bars for a symbol.
	ErrNoData = errors.New("no data available")
	// ErrUnknownPeriod is returned for a lookback period outside Periods.
	ErrUnknownPeriod = errors.New("unknown period")
)

// Periods lists the supported lookback periods, shortest first.
var Periods = []string{"1d", "5d", "1mo", "3mo", "6mo", "1y"}

// DefaultPeriod is used when no period is given.
const DefaultPeriod = "1mo"

// tradingDays approximates how many daily bars each period covers.
var tradingDays = map[string]int{
	"1d":  1,
	"5d":  5,
	"1mo": 22,
	"3mo": 66,
	"6mo": 130,
	"1y":  252,
}

// ValidatePeriod returns ErrUnknownPeriod unless p is one of Periods.
func ValidatePeriod(p string) error {
	if _, ok := tradingDays[p]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPeriod, p)
	}
	return nil
}

// Fetcher defines the interface for fetching daily bars.
type Fetcher interface {
	FetchBars(ctx context.Context, symbol, period string) (*model.Series, error)
	Name() string
}
