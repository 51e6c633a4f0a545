package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockInsight/internal/collector"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	testChdir(t, t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, collector.DefaultPeriod, cfg.Stock.Period)
	assert.Equal(t, 60*time.Second, cfg.Stock.RefreshInterval)
	assert.Equal(t, "USD", cfg.Currency.Code)
	assert.Empty(t, cfg.Currency.Symbol)
	assert.Equal(t, 1.0, cfg.Currency.Multiplier)
	assert.Equal(t, SourceYahoo, cfg.DataSource.Kind)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.False(t, cfg.TelegramEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	testChdir(t, t.TempDir())
	path := writeConfig(t, `
stock:
  symbol: "aapl"
  period: "3mo"
  refresh_interval: "2m"
currency:
  code: "INR"
  symbol: "₹"
  multiplier: 83.0
telegram:
  bot_token: "file-token"
  chat_id: "1"
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("STOCK_PERIOD", "6mo")
	t.Setenv("CURRENCY_MULTIPLIER", "84.5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", cfg.Stock.Symbol)
	assert.Equal(t, "6mo", cfg.Stock.Period)
	assert.Equal(t, 2*time.Minute, cfg.Stock.RefreshInterval)
	assert.Equal(t, "INR", cfg.Currency.Code)
	assert.Equal(t, 84.5, cfg.Currency.Multiplier)
	assert.Equal(t, "env-token", cfg.Telegram.BotToken)
	assert.NoError(t, cfg.ValidateTelegram())
}

func TestLoad_CurrencyCodeOnly(t *testing.T) {
	testChdir(t, t.TempDir())
	t.Setenv("CURRENCY_CODE", "inr")

	cfg, err := Load("missing.yaml")
	require.NoError(t, err)
	assert.Equal(t, "INR", cfg.Currency.Code)
	assert.Empty(t, cfg.Currency.Symbol)
}

func TestLoad_EnvCurrencyDropsFileSymbol(t *testing.T) {
	testChdir(t, t.TempDir())
	path := writeConfig(t, `
currency:
  code: "INR"
  symbol: "₹"
  multiplier: 83.0
`)
	t.Setenv("CURRENCY_CODE", "EUR")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Currency.Code)
	assert.Empty(t, cfg.Currency.Symbol)

	t.Setenv("CURRENCY_SYMBOL", "EUR ")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "EUR ", cfg.Currency.Symbol)

	t.Setenv("CURRENCY_CODE", "inr")
	t.Setenv("CURRENCY_SYMBOL", "")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "₹", cfg.Currency.Symbol)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	testChdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STOCK_SYMBOL=msft\nLOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("STOCK_SYMBOL")
		os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := Load("missing.yaml")
	require.NoError(t, err)
	assert.Equal(t, "MSFT", cfg.Stock.Symbol)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_BadEnv(t *testing.T) {
	testChdir(t, t.TempDir())

	t.Setenv("REFRESH_INTERVAL", "soon")
	_, err := Load("missing.yaml")
	assert.ErrorContains(t, err, "REFRESH_INTERVAL")
}

func TestLoad_BadYAML(t *testing.T) {
	testChdir(t, t.TempDir())
	_, err := Load(writeConfig(t, "stock: [unclosed"))
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.applyDefaults()
		return c
	}

	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"period", func(c *Config) { c.Stock.Period = "2w" }},
		{"interval", func(c *Config) { c.Stock.RefreshInterval = 500 * time.Millisecond }},
		{"multiplier", func(c *Config) { c.Currency.Multiplier = -1 }},
		{"source", func(c *Config) { c.DataSource.Kind = "bloomberg" }},
		{"rest without url", func(c *Config) { c.DataSource.Kind = SourceREST }},
		{"rate", func(c *Config) { c.DataSource.RequestsPerSec = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	c := valid()
	c.DataSource.Kind = SourceREST
	c.DataSource.BaseURL = "http://bars.local"
	assert.NoError(t, c.Validate())
	assert.Error(t, c.ValidateTelegram())
}
