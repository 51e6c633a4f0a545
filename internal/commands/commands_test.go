package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockInsight/internal/collector"
	"StockInsight/internal/config"
	"StockInsight/internal/logger"
	"StockInsight/internal/model"
	"StockInsight/internal/render"
)

func mockCollector() *collector.Collector {
	return collector.NewCollector(&collector.MockFetcher{Price: 100, Company: "Mock Co"},
		collector.Conversion{Multiplier: 1, Currency: "USD"}, logger.Discard())
}

func TestRunInteractive(t *testing.T) {
	in := strings.NewReader("aapl\n\nmsft 2w\ntsla 5d\nquit\nnever\n")
	var out bytes.Buffer

	require.NoError(t, runInteractive(context.Background(), in, &out, mockCollector(), "1mo", "table"))

	got := out.String()
	assert.Contains(t, got, "Fetching market insights for AAPL...")
	assert.Contains(t, got, "Analysis for Mock Co (AAPL)")
	assert.Contains(t, got, `Unknown period "2w"`)
	assert.Contains(t, got, "Analysis for Mock Co (TSLA)")
	assert.NotContains(t, got, "NEVER")
}

func TestRunInteractive_EOFAndErrors(t *testing.T) {
	fetcher := &collector.MockFetcher{Err: collector.ErrNoData}
	col := collector.NewCollector(fetcher, collector.Conversion{}, logger.Discard())
	var out bytes.Buffer

	require.NoError(t, runInteractive(context.Background(), strings.NewReader("zzzz"), &out, col, "1mo", "panel"))
	assert.Contains(t, out.String(), "Error analyzing ZZZZ")
}

func TestWriteInsights(t *testing.T) {
	ins, err := mockCollector().Collect(context.Background(), "AAPL", "3mo")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, writeInsights(&out, ins, "json", false))
	var decoded model.Insights
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "AAPL", decoded.Symbol)
	assert.True(t, decoded.RSI.Available)

	out.Reset()
	require.NoError(t, writeInsights(&out, ins, "panel", true))
	assert.Contains(t, out.String(), "RSI (14):")
	assert.Contains(t, out.String(), "Volume ")

	assert.Error(t, writeInsights(&out, ins, "xml", false))
}

func TestNewFetcher(t *testing.T) {
	cfg := &config.Config{}
	cfg.DataSource.Kind = config.SourceMock
	assert.Equal(t, "mock", newFetcher(cfg).Name())

	cfg.DataSource.Kind = config.SourceREST
	cfg.DataSource.BaseURL = "http://bars.local"
	assert.Equal(t, "rest", newFetcher(cfg).Name())

	cfg.DataSource.Kind = config.SourceYahoo
	cfg.DataSource.RequestsPerSec = 5
	f, ok := newFetcher(cfg).(*collector.YahooFetcher)
	require.True(t, ok)
	assert.InDelta(t, 5.0, float64(f.Limiter.Limit()), 1e-9)
}

func TestNewApp_CurrencyCodeKeepsItsSign(t *testing.T) {
	testChdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "missing.yaml")
	t.Setenv("CURRENCY_CODE", "INR")
	t.Setenv("CURRENCY_MULTIPLIER", "83")

	a, err := newApp()
	require.NoError(t, err)
	assert.Equal(t, "INR", a.cfg.Currency.Code)
	assert.Equal(t, "₹8300.00", render.Money(a.cfg.Currency.Code, 8300))
	assert.Equal(t, "$1.00", render.Money("USD", 1))
}
