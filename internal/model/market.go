package model

import (
	"errors"
	"fmt"
	"time"
)

// Bar represents a single daily OHLCV sample.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Series holds the bars fetched for one symbol, oldest first.
type Series struct {
	Symbol    string
	Name      string
	Currency  string
	Bars      []Bar
	FetchedAt time.Time

	converted bool
}

// Len returns the number of bars.
func (s *Series) Len() int { return len(s.Bars) }

// Closes returns the close prices in bar order.
func (s *Series) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Times returns the bar timestamps in bar order.
func (s *Series) Times() []time.Time {
	times := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		times[i] = b.Time
	}
	return times
}

// Validate checks that timestamps are strictly increasing.
func (s *Series) Validate() error {
	for i := 1; i < len(s.Bars); i++ {
		if !s.Bars[i].Time.After(s.Bars[i-1].Time) {
			return fmt.Errorf("bar %d at %s is not after %s", i,
				s.Bars[i].Time.Format(time.RFC3339), s.Bars[i-1].Time.Format(time.RFC3339))
		}
	}
	return nil
}

// Convert scales every price field by multiplier and relabels the currency.
// A series can only be converted once.
func (s *Series) Convert(multiplier float64, currency string) error {
	if s.converted {
		return errors.New("series already converted")
	}
	if multiplier <= 0 {
		return fmt.Errorf("currency multiplier must be positive, got %v", multiplier)
	}
	for i := range s.Bars {
		s.Bars[i].Open *= multiplier
		s.Bars[i].High *= multiplier
		s.Bars[i].Low *= multiplier
		s.Bars[i].Close *= multiplier
	}
	if currency != "" {
		s.Currency = currency
	}
	s.converted = true
	return nil
}

// Converted reports whether Convert has been applied.
func (s *Series) Converted() bool { return s.converted }
