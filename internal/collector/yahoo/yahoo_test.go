package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/tradebot/internal/collector"
	"github.com/newthinker/tradebot/internal/core"
)

func TestYahoo_ImplementsCollector(t *testing.T) {
	var _ collector.Collector = (*Yahoo)(nil)
	var _ collector.FundamentalCollector = (*Yahoo)(nil)
}

func TestYahoo_Name(t *testing.T) {
	assert.Equal(t, "yahoo", New().Name())
}

func TestYahoo_Supports(t *testing.T) {
	y := New()
	assert.True(t, y.Supports(core.AssetStock))
	assert.True(t, y.Supports(core.AssetCrypto))
	assert.False(t, y.Supports(core.AssetType("bond")))
}

func TestYahoo_ToYahooSymbol(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"AAPL", "AAPL"},
		{"0700.HK", "0700.HK"},
		{"600519.SH", "600519.SS"}, // Shanghai -> SS for Yahoo
		{"000001.SZ", "000001.SZ"},
		{"BTC-USD", "BTC-USD"},
	}

	y := New()
	for _, tc := range tests {
		assert.Equal(t, tc.expected, y.toYahooSymbol(tc.input), tc.input)
	}
}

func TestYahoo_DetectMarket(t *testing.T) {
	tests := []struct {
		symbol   string
		expected core.Market
	}{
		{"AAPL", core.MarketUS},
		{"0700.HK", core.MarketHK},
		{"600519.SH", core.MarketCNA},
		{"000001.SZ", core.MarketCNA},
		{"BTC-USD", core.MarketCrypto},
	}

	y := New()
	for _, tc := range tests {
		assert.Equal(t, tc.expected, y.detectMarket(tc.symbol), tc.symbol)
	}
}

func TestValidateSymbol(t *testing.T) {
	for _, ok := range []string{"AAPL", "BTC-USD", "600519.SH", "^GSPC"} {
		assert.NoError(t, validateSymbol(ok), ok)
	}
	for _, bad := range []string{"", "AAPL;DROP", "A B", strings.Repeat("A", 25)} {
		assert.Error(t, validateSymbol(bad), bad)
	}
}

const chartBody = `{"chart":{"result":[{"meta":{"symbol":"AAPL","regularMarketPrice":103},
"timestamp":[1704067200,1704153600,1704240000,1704326400],
"indicators":{"quote":[{
 "open":[100,null,102,null],
 "high":[101,null,103,104],
 "low":[99,null,101,null],
 "close":[100.5,null,102.5,103],
 "volume":[1000,null,null,3000]}]}}],"error":null}}`

func TestYahoo_FetchHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	y := NewWithConfig(collector.Config{BaseURL: srv.URL})
	candles, err := y.FetchHistory(context.Background(), "AAPL",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), "1d")
	require.NoError(t, err)

	// second bar has no close and is skipped
	require.Len(t, candles, 3)
	assert.Equal(t, 100.5, candles[0].Close)
	assert.Equal(t, int64(1000), candles[0].Volume)
	assert.Equal(t, int64(0), candles[1].Volume)

	last := candles[2]
	assert.Equal(t, 103.0, last.Close)
	assert.Equal(t, 103.0, last.Open, "missing open falls back to close")
	assert.Equal(t, 104.0, last.High)
	assert.Equal(t, 103.0, last.Low)
	assert.Equal(t, "AAPL", last.Symbol)
	assert.True(t, candles[0].Time.Before(candles[1].Time))
}

func TestYahoo_FetchHistory_ShanghaiSymbol(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	y := NewWithConfig(collector.Config{BaseURL: srv.URL})
	_, err := y.FetchHistory(context.Background(), "600519.SH", time.Time{}, time.Now(), "1d")
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/600519.SS", gotPath)
}

func TestYahoo_FetchHistory_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusInternalServerError, ""},
		{"api error", http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`},
		{"empty", http.StatusOK, `{"chart":{"result":[],"error":null}}`},
		{"garbage", http.StatusOK, `not json`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			y := NewWithConfig(collector.Config{BaseURL: srv.URL})
			_, err := y.FetchHistory(context.Background(), "AAPL", time.Time{}, time.Now(), "1d")
			assert.Error(t, err)
		})
	}
}

func TestYahoo_FetchHistory_InvalidSymbol(t *testing.T) {
	_, err := New().FetchHistory(context.Background(), "bad symbol", time.Time{}, time.Now(), "1d")
	assert.Error(t, err)
}

func TestYahoo_FetchFundamentals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v7/finance/quote", r.URL.Path)
		if r.URL.Query().Get("symbols") == "MISSING" {
			_, _ = w.Write([]byte(`{"quoteResponse":{"result":[]}}`))
			return
		}
		_, _ = w.Write([]byte(`{"quoteResponse":{"result":[{"symbol":"AAPL","trailingPE":28.5,"marketCap":2.9e12,"fiftyDayAverage":185.2}]}}`))
	}))
	defer srv.Close()

	y := NewWithConfig(collector.Config{BaseURL: srv.URL})

	f, err := y.FetchFundamentals(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, f.Valid)
	assert.Equal(t, 28.5, f.PERatio)
	assert.Equal(t, 2.9e12, f.MarketCap)
	assert.Equal(t, 185.2, f.FiftyDayAvg)

	f, err = y.FetchFundamentals(context.Background(), "MISSING")
	require.NoError(t, err)
	assert.False(t, f.Valid)
}

func TestYahoo_ToYahooInterval(t *testing.T) {
	y := New()
	assert.Equal(t, "1h", y.toYahooInterval("1h"))
	assert.Equal(t, "1wk", y.toYahooInterval("1w"))
	assert.Equal(t, "1d", y.toYahooInterval("weird"))
}
