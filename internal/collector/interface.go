// internal/collector/interface.go
package collector

import (
	"context"
	"time"

	"github.com/newthinker/tradebot/internal/core"
)

// Config holds collector configuration
type Config struct {
	Enabled bool
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Extra   map[string]any
}

// Collector defines the interface for market history sources
type Collector interface {
	Name() string
	Supports(asset core.AssetType) bool

	// FetchHistory returns candles ordered ascending in time.
	FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.Candle, error)
}

// FundamentalCollector supplies valuation data
type FundamentalCollector interface {
	Name() string
	FetchFundamentals(ctx context.Context, symbol string) (core.Fundamentals, error)
}

// OnChainCollector supplies flow metrics for crypto assets
type OnChainCollector interface {
	Name() string
	FetchOnChain(ctx context.Context, symbol string) (core.OnChainData, error)
}
