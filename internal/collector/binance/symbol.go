package binance

import (
	"fmt"
	"regexp"
	"strings"
)

// Common quote currencies in order of priority for detection
var quoteCurrencies = []string{"USDT", "BUSD", "USDC", "BTC", "ETH", "BNB"}

var validCryptoSymbol = regexp.MustCompile(`^[A-Za-z0-9]{2,20}$`)

var separators = strings.NewReplacer("-", "", "/", "", "_", "")

// NormalizeSymbol converts various input formats to a Binance pair.
// "BTC", "btc-usd", "BTC/USDT", "BTCUSD" -> "BTCUSDT". Binance has no fiat USD
// books, so a USD quote maps to USDT.
func NormalizeSymbol(input string, defaultQuote string) string {
	if input == "" {
		return ""
	}

	s := strings.ToUpper(strings.TrimSpace(input))
	if i := strings.IndexAny(s, "-/_"); i > 0 {
		quote := separators.Replace(s[i+1:])
		if quote == "" {
			quote = strings.ToUpper(defaultQuote)
		}
		return s[:i] + toExchangeQuote(quote)
	}

	// Ensure there's a base currency left (symbol must be longer than quote)
	for _, quote := range quoteCurrencies {
		if strings.HasSuffix(s, quote) && len(s) > len(quote) {
			return s
		}
	}
	if strings.HasSuffix(s, "USD") && len(s) > 3 {
		return s + "T"
	}

	return s + toExchangeQuote(strings.ToUpper(defaultQuote))
}

func toExchangeQuote(quote string) string {
	if quote == "USD" {
		return "USDT"
	}
	return quote
}

// ValidateCryptoSymbol checks if a symbol has valid format
func ValidateCryptoSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 30 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !validCryptoSymbol.MatchString(separators.Replace(symbol)) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}
