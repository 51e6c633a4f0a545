package insight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockInsight/internal/indicator"
	"StockInsight/internal/model"
)

func makeSeries(closes ...float64) *model.Series {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{Time: t0.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: float64(1000 + i)}
	}
	return &model.Series{Symbol: "ACME", Name: "Acme Corp", Currency: "USD", Bars: bars}
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestEvaluate_ConstantSeries(t *testing.T) {
	ins, err := Evaluate(makeSeries(repeat(10, 25)...))
	require.NoError(t, err)

	assert.Equal(t, "ACME", ins.Symbol)
	assert.Equal(t, "Acme Corp", ins.Name)
	assert.Equal(t, 25, ins.Bars)
	assert.Equal(t, 10.0, ins.Price)
	assert.Equal(t, 0.0, ins.ChangePct)

	require.True(t, ins.SMA.Available)
	assert.Equal(t, 10.0, ins.SMA.Value)
	assert.Equal(t, model.SignalBearish, ins.SMA.Signal)

	require.True(t, ins.RSI.Available)
	assert.Equal(t, 100.0, ins.RSI.Value)
	assert.Equal(t, model.SignalOverbought, ins.RSI.Signal)

	require.True(t, ins.MACD.Available)
	assert.InDelta(t, 0.0, ins.MACD.Value, 1e-9)
	assert.InDelta(t, 0.0, ins.MACDSignal, 1e-9)

	require.True(t, ins.Bollinger.Available)
	assert.Equal(t, 10.0, ins.Bollinger.Upper)
	assert.Equal(t, 10.0, ins.Bollinger.Lower)

	assert.True(t, ins.LowConfidence)
	assert.Contains(t, ins.Warnings, LowConfidenceWarning)
}

func TestEvaluate_RisingSeries(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = float64(i + 1)
	}
	ins, err := Evaluate(makeSeries(closes...))
	require.NoError(t, err)

	assert.Equal(t, 100.0, ins.RSI.Value)
	assert.Equal(t, model.SignalBullish, ins.SMA.Signal)
	assert.Equal(t, model.SignalBullish, ins.MACD.Signal)
	assert.False(t, ins.LowConfidence)
	assert.Empty(t, ins.Warnings)
	assert.Equal(t, 30.0, ins.PeriodHigh)
	assert.Equal(t, 1.0, ins.PeriodLow)
	assert.Equal(t, 1.0, ins.RangePosition)
	assert.Len(t, ins.Chart.Closes, 30)
	assert.Len(t, ins.Chart.SMA, 30)
	require.NotNil(t, ins.Chart.Bands)
}

func TestEvaluate_PriceChange(t *testing.T) {
	ins, err := Evaluate(makeSeries(100, 105))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, ins.ChangePct, 1e-9)
	assert.Equal(t, 100.0, ins.PreviousClose)
}

func TestEvaluate_ShortSeriesDegrades(t *testing.T) {
	ins, err := Evaluate(makeSeries(10, 11, 12, 11, 13))
	require.NoError(t, err)

	assert.False(t, ins.SMA.Available)
	assert.False(t, ins.RSI.Available)
	assert.False(t, ins.Bollinger.Available)
	assert.True(t, ins.MACD.Available, "MACD has no warm-up requirement")
	assert.True(t, ins.LowConfidence)
	assert.Len(t, ins.Warnings, 4)
}

func TestEvaluate_TooFewBars(t *testing.T) {
	_, err := Evaluate(makeSeries(10))
	assert.ErrorIs(t, err, indicator.ErrInsufficientData)

	_, err = Evaluate(nil)
	assert.ErrorIs(t, err, indicator.ErrInsufficientData)
}

func TestEvaluate_ZeroPreviousClose(t *testing.T) {
	_, err := Evaluate(makeSeries(0, 5))
	assert.ErrorIs(t, err, indicator.ErrInvalidParameter)
}

func TestEvaluate_FallsBackToSymbolName(t *testing.T) {
	s := makeSeries(1, 2)
	s.Name = ""
	ins, err := Evaluate(s)
	require.NoError(t, err)
	assert.Equal(t, "ACME", ins.Name)
}
