package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Len(t, cfg.Watchlist, 3)
	assert.Equal(t, ProviderYahoo, cfg.DataSource.Provider)
	assert.Equal(t, "6mo", cfg.DataSource.HistoryPeriod)
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, "data/processed/latest_stocks.json", cfg.Output.Path)
	assert.Equal(t, "0 30 22 * * 1-5", cfg.Schedule.UpdateCron)
	assert.Equal(t, 5, cfg.Telegram.TopN)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Targets(), 20)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
watchlist:
  - region: US
    tickers: [AAPL, MSFT]
  - region: UK
    tickers: [VOD.L]
display_names:
  AAPL: Apple Inc.
data_source:
  provider: REST
  base_url: http://bars.local
analysis:
  workers: 2
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("SCOUT_OUTPUT_PATH", "/tmp/out.json")
	t.Setenv("SCOUT_ALLOW_SYNTHETIC", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ProviderREST, cfg.DataSource.Provider)
	assert.Equal(t, "http://bars.local", cfg.DataSource.BaseURL)
	assert.True(t, cfg.DataSource.AllowSynthetic)
	assert.Equal(t, 2, cfg.Analysis.Workers)
	assert.Equal(t, "/tmp/out.json", cfg.Output.Path)
	assert.True(t, cfg.TelegramEnabled())

	targets := cfg.Targets()
	require.Len(t, targets, 3)
	assert.Equal(t, Target{Region: "US", Ticker: "AAPL", DisplayName: "Apple Inc."}, targets[0])
	assert.Equal(t, Target{Region: "UK", Ticker: "VOD.L"}, targets[2])

	region, ok := cfg.RegionOf("VOD.L")
	assert.True(t, ok)
	assert.Equal(t, "UK", region)
	_, ok = cfg.RegionOf("IBM")
	assert.False(t, ok)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "watchlist: [unterminated"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"duplicate ticker", func(c *Config) {
			c.Watchlist = []WatchGroup{{Region: "US", Tickers: []string{"AAPL"}}, {Region: "EU", Tickers: []string{"AAPL"}}}
		}, "duplicate ticker"},
		{"empty watchlist", func(c *Config) {
			c.Watchlist = []WatchGroup{{Region: "US"}}
		}, "at least one ticker"},
		{"missing region", func(c *Config) {
			c.Watchlist = []WatchGroup{{Tickers: []string{"AAPL"}}}
		}, "region is required"},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }, "not supported"},
		{"rest without url", func(c *Config) { c.DataSource.Provider = ProviderREST }, "base_url"},
		{"zero workers", func(c *Config) { c.Analysis.Workers = 0 }, "workers"},
		{"zero rate", func(c *Config) { c.DataSource.RequestsPerSecond = 0 }, "requests_per_second"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
