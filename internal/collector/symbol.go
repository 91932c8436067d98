package collector

import (
	"strings"

	"github.com/newthinker/tradebot/internal/core"
)

// NormalizeSymbol maps a watchlist symbol to the canonical form used by the
// collectors. Crypto tickers become "<BASE>-USD" (BTC -> BTC-USD).
func NormalizeSymbol(symbol string, asset core.AssetType) string {
	s := strings.TrimSpace(symbol)
	if asset != core.AssetCrypto {
		return s
	}
	s = strings.ToUpper(s)
	if !strings.Contains(s, "-USD") && len(s) <= 5 {
		s += "-USD"
	}
	return s
}
