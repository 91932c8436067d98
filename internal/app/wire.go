// internal/app/wire.go
package app

import (
	"errors"
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/newthinker/tradebot/internal/cache"
	"github.com/newthinker/tradebot/internal/collector"
	"github.com/newthinker/tradebot/internal/collector/binance"
	"github.com/newthinker/tradebot/internal/collector/yahoo"
	"github.com/newthinker/tradebot/internal/config"
	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/llm/factory"
	"github.com/newthinker/tradebot/internal/metrics"
	"github.com/newthinker/tradebot/internal/news"
	"github.com/newthinker/tradebot/internal/notifier"
	"github.com/newthinker/tradebot/internal/notifier/telegram"
	"github.com/newthinker/tradebot/internal/notifier/webhook"
	"github.com/newthinker/tradebot/internal/predictor"
	"github.com/newthinker/tradebot/internal/router"
	"github.com/newthinker/tradebot/internal/sentiment"
	"github.com/newthinker/tradebot/internal/storage/archive"
	"github.com/newthinker/tradebot/internal/strategy"
	"github.com/newthinker/tradebot/internal/strategy/ma_crossover"
	"github.com/newthinker/tradebot/internal/strategy/meanrev"
	"github.com/newthinker/tradebot/internal/strategy/pe_band"
	"github.com/newthinker/tradebot/internal/strategy/quant"
)

// Build wires an App from configuration: response cache, collectors, news,
// sentiment analyzers, model store and strategies. m may be nil. Call
// Close on the result to release the cache.
func Build(cfg *config.Config, logger *zap.Logger, m *metrics.Registry) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := New(cfg, logger)
	a.SetMetrics(m)

	c, err := buildCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if c != nil {
		a.closers = append(a.closers, c.Close)
	}

	buildCollectors(a, cfg, c, logger)
	a.SetNews(buildNews(cfg, c, logger))

	analyzer, err := buildSentiment(cfg, logger, m)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.SetSentiment(analyzer)

	if cfg.Model.Persist {
		models, err := OpenModelStore(cfg.Storage, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.SetModelStore(models)
	}

	if err := registerStrategies(a, cfg); err != nil {
		a.Close()
		return nil, err
	}

	r, err := buildRouter(cfg.Notify, logger, m)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.SetRouter(r)

	logger.Info("app wired",
		zap.Int("collectors", len(a.collectors.GetAll())),
		zap.Strings("strategies", a.strategies.Names()),
		zap.String("cache", cfg.Cache.Type),
		zap.Bool("news", a.news != nil),
		zap.Bool("notify", r != nil),
	)
	return a, nil
}

// Close releases resources acquired by Build.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func buildCache(cfg config.CacheConfig) (cache.Service, error) {
	switch cfg.Type {
	case "memory":
		return cache.NewMemoryCache(cache.WithMaxSize(cfg.MaxSize)), nil
	case "redis":
		rc, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Redis.Addr),
			cache.WithRedisPassword(cfg.Redis.Password),
			cache.WithRedisDB(cfg.Redis.DB),
			cache.WithRedisPrefix(cfg.Redis.Prefix),
		)
		if err != nil {
			return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("redis cache: %w", err))
		}
		return rc, nil
	default:
		return nil, nil
	}
}

// collectorEnabled treats collectors absent from the config as enabled.
func collectorEnabled(cfg *config.Config, name string) (config.CollectorConfig, bool) {
	cc, ok := cfg.Collectors[name]
	if !ok {
		return config.CollectorConfig{Enabled: true}, true
	}
	return cc, cc.Enabled
}

func buildCollectors(a *App, cfg *config.Config, c cache.Service, logger *zap.Logger) {
	wrap := func(col collector.Collector) collector.Collector {
		if c == nil {
			return col
		}
		return collector.NewCached(col, c, cfg.Cache.TTL, logger)
	}

	if cc, ok := collectorEnabled(cfg, "yahoo"); ok {
		a.RegisterCollector(wrap(yahoo.NewWithConfig(toCollectorConfig(cc), logger)))
	}
	if cc, ok := collectorEnabled(cfg, "binance"); ok {
		a.RegisterCollector(wrap(binance.NewWithConfig(toCollectorConfig(cc), logger)))
	}
}

func toCollectorConfig(cc config.CollectorConfig) collector.Config {
	return collector.Config{
		Enabled: cc.Enabled,
		BaseURL: cc.BaseURL,
		APIKey:  cc.APIKey,
		Timeout: cc.Timeout,
	}
}

func buildNews(cfg *config.Config, c cache.Service, logger *zap.Logger) news.Provider {
	limit := cfg.News.MaxHeadlines
	if limit <= 0 {
		limit = news.MaxHeadlines
	}

	var providers []news.Provider
	if api := news.NewNewsAPI(cfg.News.NewsAPIKey, logger).WithPageSize(limit); api.Enabled() {
		providers = append(providers, api)
	}
	if cfg.News.RSSEnabled {
		providers = append(providers, news.NewYahooRSS(logger).WithMax(limit))
	}
	if len(providers) == 0 {
		return nil
	}

	var p news.Provider = news.NewChain(logger, providers...)
	if c != nil {
		p = news.NewCached(p, c, cfg.Cache.TTL, logger)
	}
	return p
}

// buildSentiment assembles the analyzers named in sentiment.providers in
// order. Analyzers that are not configured are skipped; the keyword
// analyzer is always available as the last resort.
func buildSentiment(cfg *config.Config, logger *zap.Logger, m *metrics.Registry) (sentiment.Analyzer, error) {
	rps := cfg.Sentiment.RequestsPerSecond
	keyword := false

	var analyzers []sentiment.Analyzer
	for _, name := range cfg.Sentiment.Providers {
		switch name {
		case "llm":
			provider, err := factory.New(cfg.LLM)
			if err != nil {
				return nil, err
			}
			if provider != nil {
				analyzers = append(analyzers, sentiment.NewLLMAnalyzer(provider, rps, logger))
			}
		case "finbert":
			if fb := sentiment.NewFinBERT(cfg.Sentiment.HFAPIKey, rps, logger); fb.Enabled() {
				analyzers = append(analyzers, fb)
			}
		case "keyword":
			analyzers = append(analyzers, sentiment.NewKeywordAnalyzer())
			keyword = true
		}
	}
	if !keyword {
		analyzers = append(analyzers, sentiment.NewKeywordAnalyzer())
	}

	chain := sentiment.NewChain(logger, analyzers...)
	if m != nil {
		chain.WithObserver(m.RecordSentiment)
	}
	return chain, nil
}

// buildRouter registers the configured notifiers. It returns nil when none
// is configured.
func buildRouter(cfg config.NotifyConfig, logger *zap.Logger, m *metrics.Registry) (*router.Router, error) {
	reg := notifier.NewRegistry()
	if cfg.Webhook.URL != "" {
		w, err := webhook.New(cfg.Webhook.URL, cfg.Webhook.Headers)
		if err != nil {
			return nil, core.WrapError(core.ErrConfigInvalid, err)
		}
		reg.Register(w)
	}
	if cfg.Telegram.BotToken != "" {
		tg, err := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			return nil, core.WrapError(core.ErrConfigInvalid, err)
		}
		reg.Register(tg)
	}
	if reg.Len() == 0 {
		return nil, nil
	}

	rc := router.DefaultConfig()
	rc.MinConfidence = cfg.MinConfidence
	if cfg.Cooldown > 0 {
		rc.CooldownDuration = cfg.Cooldown
	}
	r := router.New(rc, reg, logger)
	if m != nil {
		r.WithObserver(m.RecordNotification)
	}
	return r, nil
}

// registerStrategies registers quant and meanrev unless disabled, plus the
// opt-in strategies explicitly enabled in the config.
func registerStrategies(a *App, cfg *config.Config) error {
	type candidate struct {
		s     strategy.Strategy
		optIn bool
	}
	candidates := []candidate{
		{quant.New(), false},
		{meanrev.New(), false},
		{ma_crossover.New(20, 50), true},
		{pe_band.New(15, 30), true},
	}

	for _, c := range candidates {
		s := c.s
		sc, ok := cfg.Strategies[s.Name()]
		if ok && !sc.Enabled || !ok && c.optIn {
			continue
		}
		params := map[string]any{}
		if s.Name() == quant.Name {
			params["risk_free_rate"] = a.riskFreeRate()
		}
		maps.Copy(params, sc.Params)
		if err := s.Init(strategy.Config{Enabled: true, Params: params}); err != nil {
			return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("strategy %s: %w", s.Name(), err))
		}
		a.RegisterStrategy(s)
	}
	return nil
}

// OpenModelStore opens the archive backend named in cfg and returns the
// predictor state store on top of it.
func OpenModelStore(cfg config.StorageConfig, logger *zap.Logger) (*predictor.Store, error) {
	st, err := archive.Open(cfg.Type, cfg.Path, archive.S3Config{
		Bucket:    cfg.S3.Bucket,
		Endpoint:  cfg.S3.Endpoint,
		Region:    cfg.S3.Region,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Prefix:    cfg.S3.Prefix,
	})
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	return predictor.NewStore(st, logger), nil
}
