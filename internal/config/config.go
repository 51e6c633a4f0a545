// Package config loads settings from a YAML file, a .env file and the
// environment, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"StockInsight/internal/collector"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "configs/config.yaml"

// Data sources.
const (
	SourceYahoo = "yahoo"
	SourceREST  = "rest"
	SourceMock  = "mock"
)

// Config holds all application configuration.
type Config struct {
	Stock struct {
		Symbol          string        `yaml:"symbol"`
		Period          string        `yaml:"period"`
		RefreshInterval time.Duration `yaml:"refresh_interval"`
	} `yaml:"stock"`
	// Currency.Symbol overrides the display sign for Currency.Code. Empty
	// keeps the built-in sign for the code.
	Currency struct {
		Code       string  `yaml:"code"`
		Symbol     string  `yaml:"symbol"`
		Multiplier float64 `yaml:"multiplier"`
	} `yaml:"currency"`
	DataSource struct {
		Kind           string  `yaml:"kind"`
		BaseURL        string  `yaml:"base_url"`
		APIKey         string  `yaml:"api_key"`
		RequestsPerSec float64 `yaml:"requests_per_sec"`
		MockPrice      float64 `yaml:"mock_price"`
	} `yaml:"data_source"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Path returns CONFIG_PATH or the default config location.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads .env, then the YAML file, then applies environment variable
// overrides and defaults. Missing files are not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"STOCK_SYMBOL":       &c.Stock.Symbol,
		"STOCK_PERIOD":       &c.Stock.Period,
		"CURRENCY_CODE":      &c.Currency.Code,
		"CURRENCY_SYMBOL":    &c.Currency.Symbol,
		"DATA_SOURCE":        &c.DataSource.Kind,
		"BARS_BASE_URL":      &c.DataSource.BaseURL,
		"BARS_API_KEY":       &c.DataSource.APIKey,
		"TELEGRAM_BOT_TOKEN": &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &c.Telegram.ChatID,
		"HTTP_ADDR":          &c.HTTP.Addr,
		"LOG_LEVEL":          &c.Log.Level,
		"LOG_FORMAT":         &c.Log.Format,
		"HTTPS_PROXY":        &c.Proxy,
	}
	fileCode := c.Currency.Code
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	// A sign from the file belongs to the file's currency.
	if !strings.EqualFold(c.Currency.Code, fileCode) && os.Getenv("CURRENCY_SYMBOL") == "" {
		c.Currency.Symbol = ""
	}

	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REFRESH_INTERVAL: %w", err)
		}
		c.Stock.RefreshInterval = d
	}
	if v := os.Getenv("CURRENCY_MULTIPLIER"); v != "" {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("CURRENCY_MULTIPLIER: %w", err)
		}
		c.Currency.Multiplier = m
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.Stock.Symbol = strings.ToUpper(strings.TrimSpace(c.Stock.Symbol))
	if c.Stock.Period == "" {
		c.Stock.Period = collector.DefaultPeriod
	}
	if c.Stock.RefreshInterval == 0 {
		c.Stock.RefreshInterval = 60 * time.Second
	}
	c.Currency.Code = strings.ToUpper(strings.TrimSpace(c.Currency.Code))
	if c.Currency.Code == "" {
		c.Currency.Code = "USD"
	}
	if c.Currency.Multiplier == 0 {
		c.Currency.Multiplier = 1.0
	}
	if c.DataSource.Kind == "" {
		c.DataSource.Kind = SourceYahoo
	}
	if c.DataSource.RequestsPerSec == 0 {
		c.DataSource.RequestsPerSec = 2
	}
	if c.DataSource.MockPrice == 0 {
		c.DataSource.MockPrice = 100
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	if err := collector.ValidatePeriod(c.Stock.Period); err != nil {
		return fmt.Errorf("stock.period: %w", err)
	}
	if c.Stock.RefreshInterval < time.Second {
		return fmt.Errorf("stock.refresh_interval must be at least 1s")
	}
	if c.Currency.Multiplier <= 0 {
		return fmt.Errorf("currency.multiplier must be positive")
	}
	switch c.DataSource.Kind {
	case SourceYahoo, SourceMock:
	case SourceREST:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest source")
		}
	default:
		return fmt.Errorf("data_source.kind %q is not one of yahoo, rest, mock", c.DataSource.Kind)
	}
	if c.DataSource.RequestsPerSec < 0 {
		return fmt.Errorf("data_source.requests_per_sec must not be negative")
	}
	return nil
}

// ValidateTelegram checks the settings needed by the chat bot.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}

// TelegramEnabled reports whether a bot token is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != ""
}
