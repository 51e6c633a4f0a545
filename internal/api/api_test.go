package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockInsight/internal/collector"
	"StockInsight/internal/indicator"
	"StockInsight/internal/logger"
	"StockInsight/internal/metrics"
	"StockInsight/internal/model"
	"StockInsight/internal/scheduler"
)

type stubAnalyzer struct {
	ins *model.Insights
	err error
}

func (s stubAnalyzer) Collect(_ context.Context, symbol, _ string) (*model.Insights, error) {
	if s.err != nil {
		return nil, s.err
	}
	ins := *s.ins
	ins.Symbol = strings.ToUpper(symbol)
	return &ins, nil
}

func newRouter(analyzer scheduler.Analyzer, refresher *scheduler.Refresher) http.Handler {
	log := logger.Discard()
	return SetupRoutes(NewHandler(analyzer, refresher, log), metrics.NewMetrics(), log)
}

func do(t *testing.T, h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, bytes.NewReader(body)))
	return rec
}

func TestHealthCheck(t *testing.T) {
	rec := do(t, newRouter(stubAnalyzer{}, nil), "GET", "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetInsights(t *testing.T) {
	stub := stubAnalyzer{ins: &model.Insights{
		Name:     "Apple Inc.",
		Currency: "USD",
		Price:    190.5,
		RSI:      model.Reading{Value: 55, Available: true, Signal: model.SignalNeutral},
	}}
	router := newRouter(stub, nil)

	rec := do(t, router, "GET", "/api/v1/insights/aapl?period=3mo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "AAPL", body["symbol"])
	assert.Equal(t, 190.5, body["price"])
	assert.Equal(t, "Neutral", body["rsi_14"].(map[string]any)["signal"])
	assert.NotContains(t, body, "Chart")

	rec = do(t, router, "GET", "/api/v1/insights/aapl?format=table", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "| Metric")
}

func TestGetInsights_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"bad period", collector.ErrUnknownPeriod, http.StatusBadRequest},
		{"no data", errors.Join(errors.New("fetch"), collector.ErrNoData), http.StatusNotFound},
		{"too few bars", indicator.ErrInsufficientData, http.StatusUnprocessableEntity},
		{"provider", errors.New("connection refused"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, newRouter(stubAnalyzer{err: tc.err}, nil), "GET", "/api/v1/insights/X", nil)
			assert.Equal(t, tc.want, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestWatchRoutes(t *testing.T) {
	log := logger.Discard()
	col := collector.NewCollector(&collector.MockFetcher{Price: 100}, collector.Conversion{Multiplier: 1, Currency: "USD"}, log)
	refresher := scheduler.NewRefresher(col, time.Minute, log)
	router := newRouter(col, refresher)

	rec := do(t, router, "POST", "/api/v1/refresh", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, "POST", "/api/v1/watch", []byte(`{"symbol":"msft","period":"6mo"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"symbol":"MSFT"`)

	rec = do(t, router, "POST", "/api/v1/watch", []byte(`{"symbol":"msft","period":"10y"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, "POST", "/api/v1/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, "GET", "/api/v1/watch", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var st scheduler.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	require.NotNil(t, st.Target)
	assert.Equal(t, "6mo", st.Target.Period)
	assert.NotNil(t, st.LastRefresh)

	rec = do(t, router, "DELETE", "/api/v1/watch", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, ok := refresher.Target()
	assert.False(t, ok)
}

func TestWatchRoutes_NoRefresher(t *testing.T) {
	rec := do(t, newRouter(stubAnalyzer{}, nil), "GET", "/api/v1/watch", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsRoute(t *testing.T) {
	rec := do(t, newRouter(stubAnalyzer{}, nil), "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
