// Package report renders analysis results as CSV and HTML.
package report

import (
	"time"

	"github.com/newthinker/tradebot/internal/backtest"
	"github.com/newthinker/tradebot/internal/core"
)

// Disclaimer is printed after every report.
const Disclaimer = "Disclaimer: Not financial advice. Past performance is not indicative of future results."

// ChartStride is the bar spacing of the HTML close-price chart.
const ChartStride = 5

// Entry is one analysed instrument.
type Entry struct {
	Symbol    string
	Price     float64
	Sentiment float64
	Signal    core.Signal
	Backtest  backtest.Stats
	History   []core.Candle
}

// Report is the input of both renderers.
type Report struct {
	GeneratedAt time.Time
	Entries     []Entry
}

// New builds a report stamped with the current time.
func New(entries []Entry) Report {
	return Report{GeneratedAt: time.Now(), Entries: entries}
}

// chartSeries samples every ChartStride-th close starting at bar 0.
func chartSeries(history []core.Candle) (labels []int, closes []float64) {
	for i := 0; i < len(history); i += ChartStride {
		labels = append(labels, i)
		closes = append(closes, history[i].Close)
	}
	return labels, closes
}
