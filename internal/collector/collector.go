package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"StockInsight/internal/indicator"
	"StockInsight/internal/insight"
	"StockInsight/internal/model"
)

// ErrEmptySymbol is returned when no ticker symbol is given.
var ErrEmptySymbol = errors.New("symbol is required")

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64
	Bars    []model.Bar
	Company string
	Err     error

	calls atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls reports how many times FetchBars ran.
func (m *MockFetcher) Calls() int64 { return m.calls.Load() }

func (m *MockFetcher) FetchBars(ctx context.Context, symbol, period string) (*model.Series, error) {
	m.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if err := ValidatePeriod(period); err != nil {
		return nil, err
	}
	bars := m.Bars
	if bars == nil {
		bars = generateMockBars(m.Price, tradingDays[period])
	}
	// Convert scales bars in place, so hand out a copy.
	out := make([]model.Bar, len(bars))
	copy(out, bars)
	return &model.Series{Symbol: symbol, Name: m.Company, Currency: "USD", Bars: out, FetchedAt: time.Now()}, nil
}

func generateMockBars(basePrice float64, count int) []model.Bar {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001 + 0.01*math.Sin(float64(i)/2))
		bars[i] = model.Bar{
			Time:   end.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Conversion rescales provider prices into the display currency.
type Conversion struct {
	Multiplier float64
	Currency   string
}

// FetchObserver receives the outcome of every provider call.
type FetchObserver interface {
	ObserveFetch(source string, elapsed time.Duration, bars int, err error)
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher    Fetcher
	Conversion Conversion
	Observer   FetchObserver
	Log        *logrus.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, conv Conversion, log *logrus.Logger) *Collector {
	if conv.Multiplier == 0 {
		conv.Multiplier = 1
	}
	return &Collector{Fetcher: fetcher, Conversion: conv, Log: log}
}

// Series fetches bars for symbol, orders them, drops duplicate timestamps
// and unusable prices, and applies the currency conversion exactly once.
func (c *Collector) Series(ctx context.Context, symbol, period string) (*model.Series, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrEmptySymbol
	}
	if period == "" {
		period = DefaultPeriod
	}
	if err := ValidatePeriod(period); err != nil {
		return nil, err
	}

	started := time.Now()
	s, err := c.Fetcher.FetchBars(ctx, symbol, period)
	if c.Observer != nil {
		n := 0
		if s != nil {
			n = s.Len()
		}
		c.Observer.ObserveFetch(c.Fetcher.Name(), time.Since(started), n, err)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s bars: %w", symbol, err)
	}
	if s == nil || s.Len() == 0 {
		return nil, fmt.Errorf("fetch %s bars: %w", symbol, ErrNoData)
	}

	dropped := normalize(s)
	if dropped > 0 {
		c.Log.WithField("symbol", symbol).Warnf("dropped %d unusable bars", dropped)
	}
	if s.Len() == 0 {
		return nil, fmt.Errorf("fetch %s bars: %w", symbol, ErrNoData)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("series %s: %w", symbol, err)
	}
	if err := s.Convert(c.Conversion.Multiplier, c.Conversion.Currency); err != nil {
		return nil, fmt.Errorf("convert %s: %w", symbol, err)
	}
	if indicator.LowConfidence(s.Len()) {
		c.Log.WithFields(logrus.Fields{"symbol": symbol, "bars": s.Len()}).
			Warn("insufficient historical data, some indicators may not be accurate")
	}
	return s, nil
}

// Collect fetches market data and computes all indicators.
func (c *Collector) Collect(ctx context.Context, symbol, period string) (*model.Insights, error) {
	s, err := c.Series(ctx, symbol, period)
	if err != nil {
		return nil, err
	}
	ins, err := insight.Evaluate(s)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", s.Symbol, err)
	}
	for _, w := range ins.Warnings {
		c.Log.WithField("symbol", s.Symbol).Debugf("indicator skipped: %s", w)
	}
	return ins, nil
}

// normalize sorts bars, keeps the last bar for a repeated timestamp and
// removes bars without a positive close. It returns how many were removed.
func normalize(s *model.Series) int {
	sort.SliceStable(s.Bars, func(i, j int) bool { return s.Bars[i].Time.Before(s.Bars[j].Time) })
	before := len(s.Bars)
	out := s.Bars[:0]
	for _, b := range s.Bars {
		if b.Close <= 0 || math.IsNaN(b.Close) {
			continue
		}
		if len(out) > 0 && out[len(out)-1].Time.Equal(b.Time) {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	s.Bars = out
	return before - len(out)
}
