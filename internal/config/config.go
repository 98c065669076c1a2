package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Data providers.
const (
	ProviderYahoo     = "yahoo"
	ProviderREST      = "rest"
	ProviderSynthetic = "synthetic"
)

// WatchGroup is one region of the watchlist.
type WatchGroup struct {
	Region  string   `yaml:"region"`
	Tickers []string `yaml:"tickers"`
}

// Config holds all application configuration.
type Config struct {
	Watchlist    []WatchGroup      `yaml:"watchlist"`
	DisplayNames map[string]string `yaml:"display_names"`
	DataSource   struct {
		Provider          string  `yaml:"provider"`
		BaseURL           string  `yaml:"base_url"`
		APIKey            string  `yaml:"api_key"`
		HistoryPeriod     string  `yaml:"history_period"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		MaxRetries        int     `yaml:"max_retries"`
		AllowSynthetic    bool    `yaml:"allow_synthetic"`
	} `yaml:"data_source"`
	Analysis struct {
		StrictHistory bool `yaml:"strict_history"`
		Workers       int  `yaml:"workers"`
	} `yaml:"analysis"`
	Output struct {
		Path string `yaml:"path"`
	} `yaml:"output"`
	Schedule struct {
		UpdateCron string `yaml:"update_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
		TopN     int    `yaml:"top_n"`
	} `yaml:"telegram"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Log struct {
		Level    string `yaml:"level"`
		Format   string `yaml:"format"`
		File     bool   `yaml:"file"`
		FilePath string `yaml:"file_path"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// DefaultWatchlist is used when the config file names no tickers.
func DefaultWatchlist() []WatchGroup {
	return []WatchGroup{
		{Region: "US", Tickers: []string{"AAPL", "MSFT", "TSLA", "NVDA", "GOOGL", "META", "AMD", "AMZN"}},
		{Region: "UK", Tickers: []string{"TSCO.L", "HSBA.L", "LLOY.L", "VOD.L", "BARC.L", "BP.L"}},
		{Region: "EU", Tickers: []string{"AIR.PA", "SIE.DE", "ASML.AS", "SAF.PA", "BMW.DE", "DB1.DE"}},
	}
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
func Load(path string) (*Config, error) {
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

	_ = godotenv.Load()
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SCOUT_PROVIDER"); v != "" {
		c.DataSource.Provider = v
	}
	if v := os.Getenv("REST_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("REST_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("SCOUT_ALLOW_SYNTHETIC"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.DataSource.AllowSynthetic = b
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SCOUT_OUTPUT_PATH"); v != "" {
		c.Output.Path = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_UPDATE"); v != "" {
		c.Schedule.UpdateCron = v
	}
	if v := os.Getenv("SCOUT_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) applyDefaults() {
	if len(c.Watchlist) == 0 {
		c.Watchlist = DefaultWatchlist()
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderYahoo
	}
	c.DataSource.Provider = strings.ToLower(c.DataSource.Provider)
	if c.DataSource.HistoryPeriod == "" {
		c.DataSource.HistoryPeriod = "6mo"
	}
	if c.DataSource.RequestsPerSecond == 0 {
		c.DataSource.RequestsPerSecond = 2
	}
	if c.DataSource.MaxRetries == 0 {
		c.DataSource.MaxRetries = 3
	}
	if c.Analysis.Workers == 0 {
		c.Analysis.Workers = 4
	}
	if c.Output.Path == "" {
		c.Output.Path = "data/processed/latest_stocks.json"
	}
	if c.Schedule.UpdateCron == "" {
		c.Schedule.UpdateCron = "0 30 22 * * 1-5"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/stock_scout.db"
	}
	if c.Telegram.TopN == 0 {
		c.Telegram.TopN = 5
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.FilePath == "" {
		c.Log.FilePath = "logs/scout.log"
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	seen := make(map[string]bool)
	count := 0
	for _, g := range c.Watchlist {
		if g.Region == "" {
			return fmt.Errorf("watchlist: region is required")
		}
		for _, t := range g.Tickers {
			if t == "" {
				return fmt.Errorf("watchlist %s: empty ticker", g.Region)
			}
			if seen[t] {
				return fmt.Errorf("watchlist: duplicate ticker %s", t)
			}
			seen[t] = true
			count++
		}
	}
	if count == 0 {
		return fmt.Errorf("watchlist: at least one ticker is required")
	}

	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderSynthetic:
	case ProviderREST:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.DataSource.RequestsPerSecond <= 0 {
		return fmt.Errorf("data_source.requests_per_second must be positive")
	}
	if c.DataSource.MaxRetries < 0 {
		return fmt.Errorf("data_source.max_retries must not be negative")
	}
	if c.Analysis.Workers <= 0 {
		return fmt.Errorf("analysis.workers must be positive")
	}
	return nil
}

// TelegramEnabled reports whether both bot credentials are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Target is one ticker to analyze together with its labels.
type Target struct {
	Region      string
	Ticker      string
	DisplayName string
}

// Targets flattens the watchlist in config order.
func (c *Config) Targets() []Target {
	var out []Target
	for _, g := range c.Watchlist {
		for _, t := range g.Tickers {
			out = append(out, Target{Region: g.Region, Ticker: t, DisplayName: c.DisplayNames[t]})
		}
	}
	return out
}

// RegionOf returns the watchlist region of ticker.
func (c *Config) RegionOf(ticker string) (string, bool) {
	for _, g := range c.Watchlist {
		for _, t := range g.Tickers {
			if t == ticker {
				return g.Region, true
			}
		}
	}
	return "", false
}
