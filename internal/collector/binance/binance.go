// internal/collector/binance/binance.go
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/tradebot/internal/collector"
	"github.com/newthinker/tradebot/internal/core"
)

const (
	baseURL = "https://api.binance.com"

	// OnChainWindow is the number of daily bars behind the flow proxy.
	OnChainWindow = 7
	// LargeBarMultiple marks a bar as large when its quote volume exceeds
	// this multiple of the window average.
	LargeBarMultiple = 2.0

	maxKlines = 1000
)

// Binance implements the crypto collector for Binance spot klines
type Binance struct {
	client  *http.Client
	baseURL string
	logger  *zap.Logger
}

// New creates a new Binance collector
func New(logger ...*zap.Logger) *Binance {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Binance{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		logger:  l,
	}
}

// NewWithBaseURL creates a Binance collector with custom base URL (for testing)
func NewWithBaseURL(u string, logger ...*zap.Logger) *Binance {
	b := New(logger...)
	b.baseURL = strings.TrimRight(u, "/")
	return b
}

// NewWithConfig applies base URL and timeout overrides.
func NewWithConfig(cfg collector.Config, logger ...*zap.Logger) *Binance {
	b := New(logger...)
	if cfg.BaseURL != "" {
		b.baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Timeout > 0 {
		b.client.Timeout = cfg.Timeout
	}
	return b
}

func (b *Binance) Name() string {
	return "binance"
}

func (b *Binance) Supports(asset core.AssetType) bool {
	return asset == core.AssetCrypto
}

// FetchHistory fetches klines between start and end. Candles keep the
// caller's symbol.
func (b *Binance) FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.Candle, error) {
	if err := ValidateCryptoSymbol(symbol); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("symbol", NormalizeSymbol(symbol, "USDT"))
	q.Set("interval", b.toInterval(interval))
	if !start.IsZero() {
		q.Set("startTime", strconv.FormatInt(start.UnixMilli(), 10))
	}
	if !end.IsZero() {
		q.Set("endTime", strconv.FormatInt(end.UnixMilli(), 10))
	}
	q.Set("limit", strconv.Itoa(maxKlines))

	klines, err := b.fetchKlines(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}

	data := make([]core.Candle, 0, len(klines))
	for _, k := range klines {
		data = append(data, core.Candle{
			Symbol:   symbol,
			Interval: interval,
			Open:     k.open,
			High:     k.high,
			Low:      k.low,
			Close:    k.close,
			Volume:   int64(k.volume),
			Time:     k.openTime,
		})
	}
	return data, nil
}

// FetchOnChain derives a flow proxy from the last OnChainWindow daily bars:
// net inflow is the sum of taker buy volume minus taker sell volume, and the
// large transaction count is the number of bars whose quote volume exceeds
// LargeBarMultiple times the window average.
func (b *Binance) FetchOnChain(ctx context.Context, symbol string) (core.OnChainData, error) {
	if err := ValidateCryptoSymbol(symbol); err != nil {
		return core.OnChainData{}, err
	}

	q := url.Values{}
	q.Set("symbol", NormalizeSymbol(symbol, "USDT"))
	q.Set("interval", "1d")
	q.Set("limit", strconv.Itoa(OnChainWindow))

	klines, err := b.fetchKlines(ctx, q)
	if err != nil {
		return core.OnChainData{}, fmt.Errorf("fetching flows: %w", err)
	}

	data := onChainFromKlines(klines)
	b.logger.Debug("on-chain proxy",
		zap.String("symbol", symbol),
		zap.Float64("net_inflow", data.NetInflow),
		zap.Float64("large_tx", data.LargeTxCount))
	return data, nil
}

func onChainFromKlines(klines []kline) core.OnChainData {
	if len(klines) > OnChainWindow {
		klines = klines[len(klines)-OnChainWindow:]
	}
	if len(klines) == 0 {
		return core.OnChainData{}
	}

	var inflow, quoteSum float64
	for _, k := range klines {
		// taker buys minus taker sells, where sells = volume - buys
		inflow += 2*k.takerBuyVolume - k.volume
		quoteSum += k.quoteVolume
	}
	avg := quoteSum / float64(len(klines))

	var large float64
	for _, k := range klines {
		if k.quoteVolume > LargeBarMultiple*avg {
			large++
		}
	}

	return core.OnChainData{NetInflow: inflow, LargeTxCount: large, Valid: true}
}

func (b *Binance) fetchKlines(ctx context.Context, q url.Values) ([]kline, error) {
	u := fmt.Sprintf("%s/api/v3/klines?%s", b.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var raw [][]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	out := make([]kline, 0, len(raw))
	for _, r := range raw {
		if k, ok := parseKline(r); ok {
			out = append(out, k)
		}
	}
	return out, nil
}

// kline is one parsed row of /api/v3/klines.
type kline struct {
	openTime       time.Time
	open           float64
	high           float64
	low            float64
	close          float64
	volume         float64
	quoteVolume    float64
	takerBuyVolume float64
}

// parseKline reads [openTime, open, high, low, close, volume, closeTime,
// quoteVolume, trades, takerBuyBase, takerBuyQuote, ignore].
func parseKline(r []any) (kline, bool) {
	if len(r) < 6 {
		return kline{}, false
	}
	openTime, _ := r[0].(float64)
	k := kline{
		openTime: time.UnixMilli(int64(openTime)).UTC(),
		open:     num(r[1]),
		high:     num(r[2]),
		low:      num(r[3]),
		close:    num(r[4]),
		volume:   num(r[5]),
	}
	if len(r) > 9 {
		k.quoteVolume = num(r[7])
		k.takerBuyVolume = num(r[9])
	}
	return k, true
}

func num(v any) float64 {
	switch x := v.(type) {
	case string:
		f, _ := strconv.ParseFloat(x, 64)
		return f
	case float64:
		return x
	}
	return 0
}

func (b *Binance) toInterval(interval string) string {
	switch interval {
	case "1m", "5m", "15m", "30m":
		return interval
	case "1h", "2h", "4h":
		return interval
	case "1d":
		return "1d"
	case "1w":
		return "1w"
	default:
		return "1d"
	}
}
