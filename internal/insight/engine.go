// Package insight turns a price Series into a point-in-time Insights snapshot.
package insight

import (
	"errors"
	"fmt"

	"StockInsight/internal/indicator"
	"StockInsight/internal/model"
)

// SMAWindow is the moving-average window used for the Bullish/Bearish call.
const SMAWindow = 20

// LowConfidenceWarning is attached when the series is too short for MACD to settle.
var LowConfidenceWarning = fmt.Sprintf("fewer than %d bars: some indicators may not be accurate", indicator.MACDSlow)

// Evaluate computes every indicator reading from the latest bars of s.
// At least two bars are required for the price change. Indicators whose
// window does not fit the series are reported as unavailable with a
// warning instead of failing the snapshot.
func Evaluate(s *model.Series) (*model.Insights, error) {
	if s == nil || s.Len() < 2 {
		n := 0
		if s != nil {
			n = s.Len()
		}
		return nil, fmt.Errorf("evaluate: %w: need 2 bars, got %d", indicator.ErrInsufficientData, n)
	}

	n := s.Len()
	last := s.Bars[n-1]
	prev := s.Bars[n-2]

	change, err := indicator.PriceChange(prev.Close, last.Close)
	if err != nil {
		return nil, fmt.Errorf("evaluate price change: %w", err)
	}

	ins := &model.Insights{
		Symbol:        s.Symbol,
		Name:          s.Name,
		Currency:      s.Currency,
		AsOf:          last.Time,
		Bars:          n,
		Price:         last.Close,
		PreviousClose: prev.Close,
		ChangePct:     change,
		LowConfidence: indicator.LowConfidence(n),
		Chart: model.ChartData{
			Times:  s.Times(),
			Closes: s.Closes(),
			Volume: volumes(s),
		},
	}
	if ins.Name == "" {
		ins.Name = s.Symbol
	}
	if ins.LowConfidence {
		ins.Warnings = append(ins.Warnings, LowConfidenceWarning)
	}

	if r, series, err := readSMA(s, last.Close); err != nil {
		if err := skip(ins, err); err != nil {
			return nil, err
		}
	} else {
		ins.SMA = r
		ins.Chart.SMA = series
	}

	if r, err := readRSI(s); err != nil {
		if err := skip(ins, err); err != nil {
			return nil, err
		}
	} else {
		ins.RSI = r
	}

	if r, sig, err := readMACD(s); err != nil {
		if err := skip(ins, err); err != nil {
			return nil, err
		}
	} else {
		ins.MACD = r
		ins.MACDSignal = sig
	}

	if r, bands, err := readBollinger(s); err != nil {
		if err := skip(ins, err); err != nil {
			return nil, err
		}
	} else {
		ins.Bollinger = r
		ins.Chart.Bands = bands
	}

	high, low, err := indicator.HighLow(s, 0)
	if err != nil {
		return nil, fmt.Errorf("evaluate range: %w", err)
	}
	pos, err := indicator.RangePosition(last.Close, high, low)
	if err != nil {
		return nil, fmt.Errorf("evaluate range: %w", err)
	}
	ins.PeriodHigh, ins.PeriodLow, ins.RangePosition = high, low, pos

	return ins, nil
}

func volumes(s *model.Series) []float64 {
	out := make([]float64, s.Len())
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}

// skip records an indicator that does not fit the series as a warning.
// Any other failure is returned.
func skip(ins *model.Insights, err error) error {
	if !errors.Is(err, indicator.ErrInsufficientData) {
		return fmt.Errorf("evaluate: %w", err)
	}
	ins.Warnings = append(ins.Warnings, err.Error())
	return nil
}
