package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/newthinker/tradebot/internal/core"
)

type Config struct {
	Analysis    AnalysisConfig             `mapstructure:"analysis"`
	Watchlist   []WatchlistItem            `mapstructure:"watchlist"`
	TickersFile string                     `mapstructure:"tickers_file"`
	Collectors  map[string]CollectorConfig `mapstructure:"collectors"`
	Strategies  map[string]StrategyConfig  `mapstructure:"strategies"`
	Cache       CacheConfig                `mapstructure:"cache"`
	News        NewsConfig                 `mapstructure:"news"`
	Sentiment   SentimentConfig            `mapstructure:"sentiment"`
	LLM         LLMConfig                  `mapstructure:"llm"`
	Model       ModelConfig                `mapstructure:"model"`
	Storage     StorageConfig              `mapstructure:"storage"`
	Report      ReportConfig               `mapstructure:"report"`
	Metrics     MetricsConfig              `mapstructure:"metrics"`
	Server      ServerConfig               `mapstructure:"server"`
	Notify      NotifyConfig               `mapstructure:"notify"`
	Log         LogConfig                  `mapstructure:"log"`
}

// LogConfig tunes the zap logger. The --debug flag overrides both fields.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// AnalysisConfig controls the per-symbol pipeline.
type AnalysisConfig struct {
	Workers      int     `mapstructure:"workers"`
	HistoryDays  int     `mapstructure:"history_days"`
	RiskFreeRate float64 `mapstructure:"risk_free_rate"`
}

type WatchlistItem struct {
	Symbol string         `mapstructure:"symbol"`
	Type   core.AssetType `mapstructure:"type"`
}

type CollectorConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type StrategyConfig struct {
	Enabled bool           `mapstructure:"enabled"`
	Params  map[string]any `mapstructure:"params"`
}

// CacheConfig selects the provider response cache.
type CacheConfig struct {
	Type    string        `mapstructure:"type"` // "memory", "redis" or "none"
	TTL     time.Duration `mapstructure:"ttl"`
	MaxSize int           `mapstructure:"max_size"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type NewsConfig struct {
	NewsAPIKey   string `mapstructure:"newsapi_key"`
	RSSEnabled   bool   `mapstructure:"rss_enabled"`
	MaxHeadlines int    `mapstructure:"max_headlines"`
}

// SentimentConfig orders the sentiment analyzers. Known names are
// "llm", "finbert" and "keyword".
type SentimentConfig struct {
	Providers         []string `mapstructure:"providers"`
	RequestsPerSecond float64  `mapstructure:"requests_per_second"`
	HFAPIKey          string   `mapstructure:"hf_api_key"`
}

type LLMConfig struct {
	Provider string       `mapstructure:"provider"`
	Claude   ClaudeConfig `mapstructure:"claude"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Ollama   OllamaConfig `mapstructure:"ollama"`
}

type ClaudeConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
}

// ModelConfig controls online predictor training and persistence.
type ModelConfig struct {
	Persist      bool    `mapstructure:"persist"`
	TrainBars    int     `mapstructure:"train_bars"`
	LearningRate float64 `mapstructure:"learning_rate"`
}

type StorageConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type ReportConfig struct {
	CSVPath  string `mapstructure:"csv_path"`
	HTMLPath string `mapstructure:"html_path"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// NotifyConfig controls alerts for actionable signals. Notifiers with an
// empty url or token are not registered.
type NotifyConfig struct {
	MinConfidence float64        `mapstructure:"min_confidence"`
	Cooldown      time.Duration  `mapstructure:"cooldown"`
	Webhook       WebhookConfig  `mapstructure:"webhook"`
	Telegram      TelegramConfig `mapstructure:"telegram"`
}

type WebhookConfig struct {
	URL     string            `mapstructure:"url"`
	Headers map[string]string `mapstructure:"headers"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

type ServerConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Interval time.Duration `mapstructure:"interval"`
	APIKey   string        `mapstructure:"api_key"` // empty disables auth
}

// Addr returns host:port for the listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from file on top of Defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v, Defaults())

	if err := v.ReadInConfig(); err != nil {
		return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("reading config: %w", err))
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unmarshaling config: %w", err))
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("analysis.workers", d.Analysis.Workers)
	v.SetDefault("analysis.history_days", d.Analysis.HistoryDays)
	v.SetDefault("analysis.risk_free_rate", d.Analysis.RiskFreeRate)
	v.SetDefault("cache.type", d.Cache.Type)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.max_size", d.Cache.MaxSize)
	v.SetDefault("cache.redis.addr", d.Cache.Redis.Addr)
	v.SetDefault("cache.redis.prefix", d.Cache.Redis.Prefix)
	v.SetDefault("news.rss_enabled", d.News.RSSEnabled)
	v.SetDefault("news.max_headlines", d.News.MaxHeadlines)
	v.SetDefault("sentiment.providers", d.Sentiment.Providers)
	v.SetDefault("sentiment.requests_per_second", d.Sentiment.RequestsPerSecond)
	v.SetDefault("model.train_bars", d.Model.TrainBars)
	v.SetDefault("model.learning_rate", d.Model.LearningRate)
	v.SetDefault("storage.type", d.Storage.Type)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("report.csv_path", d.Report.CSVPath)
	v.SetDefault("report.html_path", d.Report.HTMLPath)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.interval", d.Server.Interval)
	v.SetDefault("notify.min_confidence", d.Notify.MinConfidence)
	v.SetDefault("notify.cooldown", d.Notify.Cooldown)
	v.SetDefault("log.level", d.Log.Level)
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Workers:      4,
			HistoryDays:  730,
			RiskFreeRate: 0.04,
		},
		Collectors: map[string]CollectorConfig{
			"yahoo":   {Enabled: true},
			"binance": {Enabled: true},
		},
		Cache: CacheConfig{
			Type:    "memory",
			TTL:     5 * time.Minute,
			MaxSize: 1000,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "tradebot",
			},
		},
		News: NewsConfig{
			RSSEnabled:   true,
			MaxHeadlines: 5,
		},
		Sentiment: SentimentConfig{
			Providers:         []string{"llm", "finbert", "keyword"},
			RequestsPerSecond: 10,
		},
		Model: ModelConfig{
			TrainBars:    60,
			LearningRate: 0.01,
		},
		Storage: StorageConfig{
			Type: "localfs",
			Path: "data",
		},
		Report: ReportConfig{
			CSVPath:  "trading_report.csv",
			HTMLPath: "trading_report.html",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Server: ServerConfig{
			Host:     "0.0.0.0",
			Port:     9090,
			Interval: time.Hour,
		},
		Notify: NotifyConfig{
			MinConfidence: 60,
			Cooldown:      4 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Analysis.Workers < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("analysis.workers must be at least 1, got %d", c.Analysis.Workers))
	}
	if c.Analysis.HistoryDays < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("analysis.history_days must be positive, got %d", c.Analysis.HistoryDays))
	}
	if c.Analysis.RiskFreeRate < 0 || c.Analysis.RiskFreeRate > 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("analysis.risk_free_rate must be between 0 and 1, got %f", c.Analysis.RiskFreeRate))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	if c.Notify.MinConfidence < 0 || c.Notify.MinConfidence > 100 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("notify.min_confidence must be between 0 and 100, got %f", c.Notify.MinConfidence))
	}
	if c.Notify.Telegram.BotToken != "" && c.Notify.Telegram.ChatID == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("notify.telegram.chat_id required when bot_token is set"))
	}

	for _, item := range c.Watchlist {
		if strings.TrimSpace(item.Symbol) == "" {
			return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("watchlist entry with empty symbol"))
		}
	}

	switch c.Cache.Type {
	case "", "none", "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("cache.redis.addr required when cache type is redis"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown cache type: %s", c.Cache.Type))
	}

	switch c.Storage.Type {
	case "", "localfs":
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("storage.s3.bucket required when storage type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown storage type: %s", c.Storage.Type))
	}

	for _, name := range c.Sentiment.Providers {
		switch name {
		case "llm", "finbert", "keyword":
		default:
			return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown sentiment provider: %s", name))
		}
	}
	if c.Sentiment.RequestsPerSecond < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("sentiment.requests_per_second cannot be negative"))
	}

	if c.Model.LearningRate < 0 || c.Model.TrainBars < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("model.learning_rate and model.train_bars cannot be negative"))
	}

	// LLM validation - if provider set, check config exists
	switch c.LLM.Provider {
	case "":
	case "claude":
		if c.LLM.Claude.APIKey == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("claude api_key required when provider is claude"))
		}
	case "openai":
		if c.LLM.OpenAI.APIKey == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("openai api_key required when provider is openai"))
		}
	case "ollama":
		if c.LLM.Ollama.Endpoint == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("ollama endpoint required when provider is ollama"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown LLM provider: %s", c.LLM.Provider))
	}

	return nil
}
