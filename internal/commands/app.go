package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"StockInsight/internal/collector"
	"StockInsight/internal/config"
	"StockInsight/internal/logger"
	"StockInsight/internal/metrics"
	"StockInsight/internal/render"
)

// app bundles the components every command needs.
type app struct {
	cfg       *config.Config
	log       *logrus.Logger
	metrics   *metrics.Metrics
	collector *collector.Collector
}

// newApp loads configuration, applies global flag overrides and wires the
// data source.
func newApp() (*app, error) {
	path := configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if dataSource != "" {
		cfg.DataSource.Kind = dataSource
	}
	if currency != "" {
		cfg.Currency.Code = strings.ToUpper(currency)
		cfg.Currency.Symbol = ""
	}
	if multiplier != 0 {
		cfg.Currency.Multiplier = multiplier
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	if cfg.Currency.Symbol != "" {
		render.SetCurrencySign(cfg.Currency.Code, cfg.Currency.Symbol)
	}

	fetcher := newFetcher(cfg)
	log.WithField("source", fetcher.Name()).Debug("data source ready")

	m := metrics.NewMetrics()
	col := collector.NewCollector(fetcher, collector.Conversion{
		Multiplier: cfg.Currency.Multiplier,
		Currency:   cfg.Currency.Code,
	}, log)
	col.Observer = m

	return &app{cfg: cfg, log: log, metrics: m, collector: col}, nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.DataSource.Kind {
	case config.SourceREST:
		return collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case config.SourceMock:
		return &collector.MockFetcher{Price: cfg.DataSource.MockPrice, Company: "Mock Company"}
	default:
		f := collector.NewYahooFetcher(cfg.Proxy)
		if rps := cfg.DataSource.RequestsPerSec; rps > 0 {
			f.Limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
		}
		return f
	}
}

// periodOrDefault returns p, or the configured period when p is empty.
func (a *app) periodOrDefault(p string) string {
	if p != "" {
		return p
	}
	return a.cfg.Stock.Period
}

// intervalOrDefault returns d, or the configured refresh interval when d is zero.
func (a *app) intervalOrDefault(d time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return a.cfg.Stock.RefreshInterval
}
