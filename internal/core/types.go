package core

import "time"

// Market represents a trading market
type Market string

const (
	MarketUS     Market = "US"
	MarketHK     Market = "HK"
	MarketCNA    Market = "CN_A"
	MarketEU     Market = "EU"
	MarketCrypto Market = "CRYPTO"
)

// AssetType represents the type of financial asset
type AssetType string

const (
	AssetStock  AssetType = "stock"
	AssetETF    AssetType = "etf"
	AssetIndex  AssetType = "index"
	AssetCrypto AssetType = "crypto"
)

// Candle represents one OHLCV bar. Sequences are ordered ascending in time.
type Candle struct {
	Symbol   string
	Interval string // "1d", "1h"
	Time     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   int64
}

// Closes projects a candle sequence onto its close prices.
func Closes(candles []Candle) []float64 {
	prices := make([]float64, len(candles))
	for i, c := range candles {
		prices[i] = c.Close
	}
	return prices
}

// Fundamentals holds valuation data for an instrument.
// Valid is false when the provider could not supply it.
type Fundamentals struct {
	PERatio     float64 `json:"pe_ratio"`
	MarketCap   float64 `json:"market_cap"`
	FiftyDayAvg float64 `json:"fifty_day_avg"`
	Valid       bool    `json:"valid"`
}

// OnChainData holds flow metrics for crypto assets.
type OnChainData struct {
	NetInflow    float64 `json:"net_inflow"`
	LargeTxCount float64 `json:"large_tx_count"`
	Valid        bool    `json:"valid"`
}

// Action represents a trading signal action
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

// OptionType is the side of a derivatives overlay.
type OptionType string

const (
	OptionCall OptionType = "call"
	OptionPut  OptionType = "put"
)

// Label returns the display form, "Call" or "Put".
func (t OptionType) Label() string {
	if t == OptionCall {
		return "Call"
	}
	return "Put"
}

// OptionOverlay describes a suggested option position.
type OptionOverlay struct {
	Type       OptionType `json:"type"`
	Strike     float64    `json:"strike"`
	ExpiryDays int        `json:"expiry_days"`
	Price      float64    `json:"price"`      // model price at generation time
	Volatility float64    `json:"volatility"` // annualized volatility used for pricing
}

// OptionalOverlay is present only when the engine suggests a derivatives
// position. The zero value means "no overlay".
type OptionalOverlay struct {
	overlay OptionOverlay
	present bool
}

// SomeOverlay wraps an overlay as present.
func SomeOverlay(o OptionOverlay) OptionalOverlay {
	return OptionalOverlay{overlay: o, present: true}
}

// Get returns the overlay and whether it is present.
func (o OptionalOverlay) Get() (OptionOverlay, bool) {
	return o.overlay, o.present
}

// IsPresent reports whether an overlay was suggested.
func (o OptionalOverlay) IsPresent() bool {
	return o.present
}

// Signal is the outcome of one evaluation. It is not mutated after creation.
type Signal struct {
	ID          string
	Symbol      string
	Action      Action
	Entry       float64
	Exit        float64 // first target, 0 if none
	Targets     []float64
	Confidence  float64 // 0-100
	Reason      string
	Regime      string
	Option      OptionalOverlay
	MLForecast  float64
	Strategy    string
	GeneratedAt time.Time

	// Prospective levels, meaningful only for hold signals.
	ProspectiveBuy  float64
	ProspectiveSell float64
}

// HoldSignal returns a neutral signal with zeroed fields.
func HoldSignal(symbol string) Signal {
	return Signal{Symbol: symbol, Action: ActionHold}
}
