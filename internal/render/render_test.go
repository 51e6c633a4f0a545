package render

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockInsight/internal/model"
)

func sampleInsights() *model.Insights {
	return &model.Insights{
		Symbol:        "ACME",
		Name:          "Acme <Corp>",
		Currency:      "INR",
		AsOf:          time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC),
		Bars:          30,
		Price:         12450.5,
		PreviousClose: 12000,
		ChangePct:     3.754,
		SMA:           model.Reading{Value: 12100, Available: true, Signal: model.SignalBullish},
		RSI:           model.Reading{Value: 72.345, Available: true, Signal: model.SignalOverbought},
		MACD:          model.Reading{Value: -1.5, Available: true, Signal: model.SignalBearish},
		Bollinger:     model.BandReading{Upper: 12400, Middle: 12100, Lower: 11800, Available: true},
		PeriodHigh:    12450.5,
		PeriodLow:     11000,
		RangePosition: 1,
		Chart: model.ChartData{
			Closes: []float64{1, 2, 3, 4, 5, 6, 7, 8},
			Volume: []float64{10, 10, 10, 10, 10, 10, 10, 10},
		},
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$12.35", Money("USD", 12.345))
	assert.Equal(t, "₹1024.50", Money("INR", 1024.5))
	assert.Equal(t, "-$3.00", Money("usd", -3))
	assert.Equal(t, "CHF 1.10", Money("CHF", 1.1))
	assert.Equal(t, "7.00", Money("", 7))
}

func TestTable(t *testing.T) {
	out := Table(sampleInsights())

	assert.Contains(t, out, "| Metric")
	assert.Contains(t, out, "₹12450.50")
	assert.Contains(t, out, "+3.75% from previous close")
	assert.Contains(t, out, "Overbought - Consider Selling")
	assert.Contains(t, out, "Bearish Signal")
	assert.Contains(t, out, "Above upper band")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	width := utf8.RuneCountInString(lines[0])
	for _, l := range lines {
		assert.Equal(t, width, utf8.RuneCountInString(l), l)
	}
}

func TestTable_Unavailable(t *testing.T) {
	ins := sampleInsights()
	ins.MACD = model.Reading{}
	ins.Bollinger = model.BandReading{}

	out := Table(ins)
	assert.Contains(t, out, "Insufficient data")
	assert.NotContains(t, out, "Bearish Signal")
}

func TestPanel(t *testing.T) {
	ins := sampleInsights()
	ins.Warnings = []string{"fewer than 26 bars"}

	out := Panel(ins)
	assert.True(t, strings.HasPrefix(out, "Acme <Corp> (ACME)\n"))
	assert.Contains(t, out, "Current Price: ₹12450.50 (+3.75%)")
	assert.Contains(t, out, "SMA (20): ₹12100.00 (Bullish)")
	assert.Contains(t, out, "RSI (14): 72.35 (Overbought - Consider Selling)")
	assert.Contains(t, out, "MACD: -1.50 (Bearish Signal)")
	assert.Contains(t, out, "Warning: fewer than 26 bars")
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "ACME", Title(&model.Insights{Symbol: "ACME"}))
	assert.Equal(t, "ACME", Title(&model.Insights{Symbol: "ACME", Name: "ACME"}))
	assert.Equal(t, "Acme (ACME)", Title(&model.Insights{Symbol: "ACME", Name: "Acme"}))
}

func TestTelegramReport_EscapesHTML(t *testing.T) {
	out := TelegramReport(sampleInsights())
	assert.Contains(t, out, "<b>Acme &lt;Corp&gt; (ACME)</b>")
	assert.Contains(t, out, "<b>Overbought - Consider Selling</b>")
	assert.NotContains(t, out, "<Corp>")
}

func TestChart(t *testing.T) {
	out := Chart(sampleInsights(), 60)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "▁▂▃▄▅▆▇█")
	assert.Contains(t, lines[1], "▁▁▁▁▁▁▁▁")

	assert.Empty(t, Chart(&model.Insights{}, 60))
}

func TestChart_WithSMA(t *testing.T) {
	ins := sampleInsights()
	ins.Chart.SMA = model.IndicatorSeries{{}, {Value: 1, Valid: true}, {Value: 2, Valid: true}}
	out := Chart(ins, 60)
	assert.Contains(t, out, "SMA    ▁█")
}

func TestSample(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	assert.Equal(t, values, sample(values, 20))
	assert.Equal(t, []float64{0, 3, 6, 9}, sample(values, 4))
	assert.Equal(t, []float64{9}, sample(values, 1))
	assert.Equal(t, []float64{0, 9}, sample(values, 2))
}

func TestChart_NarrowWidth(t *testing.T) {
	ins := sampleInsights()
	ins.Chart.Closes = []float64{1, 2, 3}
	ins.Chart.Volume = []float64{5, 6, 7}

	var out string
	require.NotPanics(t, func() { out = Chart(ins, 1) })
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Price  ▁  ")
	assert.Contains(t, lines[1], "Volume ▁  max 7")
}

func TestConsoleSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, "bogus", false)
	assert.Equal(t, ModeTable, sink.Mode)

	require.NoError(t, sink.Present(context.Background(), sampleInsights()))
	assert.Contains(t, buf.String(), "Analysis for Acme <Corp> (ACME) (2024-03-29)")

	buf.Reset()
	require.NoError(t, sink.PresentError(context.Background(), "ACME", errors.New("boom")))
	assert.Equal(t, "Error analyzing ACME: boom\n", buf.String())
}

func TestConsoleSink_PanelWithChart(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, ModePanel, true)

	require.NoError(t, sink.Present(context.Background(), sampleInsights()))
	assert.Contains(t, buf.String(), "Current Price:")
	assert.Contains(t, buf.String(), "Price  ")
}

func TestSetCurrencySign(t *testing.T) {
	assert.Equal(t, "XTS 1.00", Money("XTS", 1))
	SetCurrencySign("xts", "¤")
	assert.Equal(t, "¤1.00", Money("XTS", 1))
}
