// internal/collector/yahoo/yahoo.go
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/tradebot/internal/collector"
	"github.com/newthinker/tradebot/internal/core"
)

const (
	baseURL   = "https://query1.finance.yahoo.com"
	userAgent = "Mozilla/5.0 (compatible; tradebot/1.0)"
)

// validSymbol matches symbols like AAPL, 600519.SH, 0700.HK, BTC-USD, ^GSPC
var validSymbol = regexp.MustCompile(`^\^?[A-Za-z0-9]{1,10}([.-][A-Za-z]{1,4})?$`)

// validateSymbol checks if a symbol has valid format
func validateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 20 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !validSymbol.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}

// Yahoo implements the Yahoo Finance collector
type Yahoo struct {
	client  *http.Client
	baseURL string
	logger  *zap.Logger
}

// New creates a new Yahoo collector
func New(logger ...*zap.Logger) *Yahoo {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Yahoo{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		logger:  l,
	}
}

// NewWithConfig applies base URL and timeout overrides.
func NewWithConfig(cfg collector.Config, logger ...*zap.Logger) *Yahoo {
	y := New(logger...)
	if cfg.BaseURL != "" {
		y.baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Timeout > 0 {
		y.client.Timeout = cfg.Timeout
	}
	return y
}

func (y *Yahoo) Name() string {
	return "yahoo"
}

// Supports reports true for every asset type; crypto uses BASE-USD pairs.
func (y *Yahoo) Supports(asset core.AssetType) bool {
	switch asset {
	case core.AssetStock, core.AssetETF, core.AssetIndex, core.AssetCrypto:
		return true
	}
	return false
}

// toYahooSymbol converts internal symbol format to Yahoo format
func (y *Yahoo) toYahooSymbol(symbol string) string {
	// Shanghai stocks: 600519.SH -> 600519.SS
	if strings.HasSuffix(symbol, ".SH") {
		return strings.TrimSuffix(symbol, ".SH") + ".SS"
	}
	return symbol
}

// FetchHistory fetches historical candles from the v8 chart API. Bars without
// a close are skipped; missing open/high/low fall back to the close.
func (y *Yahoo) FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.Candle, error) {
	if err := validateSymbol(symbol); err != nil {
		return nil, err
	}
	yahooSymbol := y.toYahooSymbol(symbol)

	q := url.Values{}
	q.Set("interval", y.toYahooInterval(interval))
	q.Set("period1", fmt.Sprintf("%d", start.Unix()))
	q.Set("period2", fmt.Sprintf("%d", end.Unix()))
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.baseURL, url.PathEscape(yahooSymbol), q.Encode())

	var result chartResponse
	if err := y.getJSON(ctx, u, &result); err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}

	if result.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo error: %s", result.Chart.Error.Description)
	}
	if len(result.Chart.Result) == 0 || len(result.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no data for symbol: %s", symbol))
	}

	r := result.Chart.Result[0]
	quotes := r.Indicators.Quote[0]

	data := make([]core.Candle, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		closePrice, ok := at(quotes.Close, i)
		if !ok {
			continue // Skip missing data
		}
		open := orDefault(quotes.Open, i, closePrice)
		high := orDefault(quotes.High, i, closePrice)
		low := orDefault(quotes.Low, i, closePrice)
		var volume int64
		if i < len(quotes.Volume) && quotes.Volume[i] != nil {
			volume = *quotes.Volume[i]
		}
		data = append(data, core.Candle{
			Symbol:   symbol,
			Interval: interval,
			Open:     open,
			High:     high,
			Low:      low,
			Close:    closePrice,
			Volume:   volume,
			Time:     time.Unix(ts, 0).UTC(),
		})
	}

	y.logger.Debug("fetched history",
		zap.String("symbol", symbol),
		zap.String("market", string(y.detectMarket(symbol))),
		zap.Int("bars", len(data)),
		zap.Int("skipped", len(r.Timestamp)-len(data)))

	return data, nil
}

// FetchFundamentals reads trailing P/E, market cap and 50-day average from
// the v7 quote API. Valid is set when a result row exists.
func (y *Yahoo) FetchFundamentals(ctx context.Context, symbol string) (core.Fundamentals, error) {
	if err := validateSymbol(symbol); err != nil {
		return core.Fundamentals{}, err
	}
	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", y.baseURL, url.QueryEscape(y.toYahooSymbol(symbol)))

	var result quoteResponse
	if err := y.getJSON(ctx, u, &result); err != nil {
		return core.Fundamentals{}, fmt.Errorf("fetching fundamentals: %w", err)
	}
	if len(result.QuoteResponse.Result) == 0 {
		return core.Fundamentals{}, nil
	}

	q := result.QuoteResponse.Result[0]
	return core.Fundamentals{
		PERatio:     q.TrailingPE,
		MarketCap:   q.MarketCap,
		FiftyDayAvg: q.FiftyDayAverage,
		Valid:       true,
	}, nil
}

func (y *Yahoo) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := y.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (y *Yahoo) toYahooInterval(interval string) string {
	switch interval {
	case "1m", "5m", "15m", "1h", "1d", "1wk":
		return interval
	case "1w":
		return "1wk"
	default:
		return "1d"
	}
}

func (y *Yahoo) detectMarket(symbol string) core.Market {
	switch {
	case strings.HasSuffix(symbol, ".HK"):
		return core.MarketHK
	case strings.HasSuffix(symbol, ".SH"), strings.HasSuffix(symbol, ".SZ"):
		return core.MarketCNA
	case strings.HasSuffix(symbol, "-USD"):
		return core.MarketCrypto
	}
	return core.MarketUS
}

func at(values []*float64, i int) (float64, bool) {
	if i >= len(values) || values[i] == nil {
		return 0, false
	}
	return *values[i], true
}

func orDefault(values []*float64, i int, fallback float64) float64 {
	if v, ok := at(values, i); ok {
		return v
	}
	return fallback
}

// Yahoo API response types
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta       chartMeta  `json:"meta"`
	Timestamp  []int64    `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type chartMeta struct {
	Symbol             string  `json:"symbol"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
}

type indicators struct {
	Quote []quoteIndicator `json:"quote"`
}

type quoteIndicator struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol          string  `json:"symbol"`
			TrailingPE      float64 `json:"trailingPE"`
			MarketCap       float64 `json:"marketCap"`
			FiftyDayAverage float64 `json:"fiftyDayAverage"`
		} `json:"result"`
	} `json:"quoteResponse"`
}
