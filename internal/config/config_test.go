package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/tradebot/internal/core"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	t.Setenv("TRADEBOT_TEST_NEWSKEY", "abc123")

	path := writeFile(t, "config.yaml", `
analysis:
  workers: 8
watchlist:
  - symbol: AAPL
    type: stock
  - symbol: BTC
    type: crypto
news:
  newsapi_key: "${TRADEBOT_TEST_NEWSKEY}"
cache:
  type: redis
  ttl: 10m
  redis:
    addr: "redis:6379"
storage:
  type: localfs
  path: "/tmp/tradebot"
server:
  interval: 30m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Analysis.Workers)
	assert.Equal(t, 730, cfg.Analysis.HistoryDays, "unset keys keep defaults")
	require.Len(t, cfg.Watchlist, 2)
	assert.Equal(t, core.AssetCrypto, cfg.Watchlist[1].Type)
	assert.Equal(t, "abc123", cfg.News.NewsAPIKey)
	assert.Equal(t, "redis", cfg.Cache.Type)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, "/tmp/tradebot", cfg.Storage.Path)
	assert.Equal(t, 30*time.Minute, cfg.Server.Interval)
	assert.Equal(t, []string{"llm", "finbert", "keyword"}, cfg.Sentiment.Providers)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfigMissing))
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 0.04, cfg.Analysis.RiskFreeRate)
	assert.Equal(t, 0.01, cfg.Model.LearningRate)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, 60.0, cfg.Notify.MinConfidence)
	assert.Equal(t, 4*time.Hour, cfg.Notify.Cooldown)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr *core.Error
	}{
		{"valid config", func(c *Config) {}, nil},
		{"invalid port - zero", func(c *Config) { c.Server.Port = 0 }, core.ErrConfigInvalid},
		{"invalid port - too high", func(c *Config) { c.Server.Port = 70000 }, core.ErrConfigInvalid},
		{"no workers", func(c *Config) { c.Analysis.Workers = 0 }, core.ErrConfigInvalid},
		{"bad risk free rate", func(c *Config) { c.Analysis.RiskFreeRate = 2 }, core.ErrConfigInvalid},
		{"empty watchlist symbol", func(c *Config) { c.Watchlist = []WatchlistItem{{Symbol: " "}} }, core.ErrConfigInvalid},
		{"unknown cache", func(c *Config) { c.Cache.Type = "memcached" }, core.ErrConfigInvalid},
		{"redis without addr", func(c *Config) { c.Cache.Type = "redis"; c.Cache.Redis.Addr = "" }, core.ErrConfigMissing},
		{"s3 without bucket", func(c *Config) { c.Storage.Type = "s3" }, core.ErrConfigMissing},
		{"unknown sentiment provider", func(c *Config) { c.Sentiment.Providers = []string{"vibes"} }, core.ErrConfigInvalid},
		{"claude without key", func(c *Config) { c.LLM.Provider = "claude" }, core.ErrConfigMissing},
		{"openai without key", func(c *Config) { c.LLM.Provider = "openai" }, core.ErrConfigMissing},
		{"unknown llm", func(c *Config) { c.LLM.Provider = "bard" }, core.ErrConfigInvalid},
		{"notify confidence above 100", func(c *Config) { c.Notify.MinConfidence = 120 }, core.ErrConfigInvalid},
		{"telegram without chat", func(c *Config) { c.Notify.Telegram.BotToken = "t" }, core.ErrConfigMissing},
		{"ollama ok", func(c *Config) {
			c.LLM.Provider = "ollama"
			c.LLM.Ollama.Endpoint = "http://localhost:11434"
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestParseTickers(t *testing.T) {
	items, err := ParseTickers(strings.NewReader("symbol,type\nAAPL,stock\nBTC, Crypto\n,etf\nSPY\n"))
	require.NoError(t, err)
	assert.Equal(t, []WatchlistItem{
		{Symbol: "AAPL", Type: core.AssetStock},
		{Symbol: "BTC", Type: core.AssetCrypto},
		{Symbol: "SPY", Type: core.AssetStock},
	}, items)
}

func TestLoadTickers_Missing(t *testing.T) {
	_, err := LoadTickers(filepath.Join(t.TempDir(), "missing.csv"))
	assert.True(t, errors.Is(err, core.ErrConfigMissing))
}

func TestConfig_Symbols(t *testing.T) {
	path := writeFile(t, "tickers.csv", "symbol,type\nAAPL,etf\nETH,crypto\n")
	cfg := Defaults()
	cfg.Watchlist = []WatchlistItem{{Symbol: "AAPL"}, {Symbol: "MSFT", Type: core.AssetStock}}
	cfg.TickersFile = path

	items, err := cfg.Symbols()
	require.NoError(t, err)
	assert.Equal(t, []WatchlistItem{
		{Symbol: "AAPL", Type: core.AssetStock},
		{Symbol: "MSFT", Type: core.AssetStock},
		{Symbol: "ETH", Type: core.AssetCrypto},
	}, items)
}
