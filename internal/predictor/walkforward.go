package predictor

import (
	"github.com/newthinker/tradebot/internal/cycle"
	"github.com/newthinker/tradebot/internal/indicator"
	"github.com/newthinker/tradebot/internal/volatility"
)

// MinTrainingHistory is the shortest trailing history used to build one
// training sample.
const MinTrainingHistory = 60

// Features computes the feature vector for the last bar of closes.
func Features(closes []float64, sentiment float64) []float64 {
	macd, signal := indicator.MACD(closes)
	rsi := indicator.AdaptiveRSI(closes, 14)
	vol := volatility.GARCH(volatility.LogReturns(closes))
	return ExtractFeatures(rsi, macd-signal, sentiment, vol, cycle.Detect(closes), len(closes))
}

// TrainWalkForward trains p on the last bars transitions of closes. Each
// sample uses only the history up to bar i and targets the fractional change
// from bar i to bar i+1. Historical sentiment is unknown and fed as 0.
// It returns the number of samples applied.
func TrainWalkForward(p *Predictor, closes []float64, bars int) int {
	if bars <= 0 {
		return 0
	}
	start := max(MinTrainingHistory-1, len(closes)-1-bars)

	trained := 0
	for i := start; i < len(closes)-1; i++ {
		if closes[i] == 0 {
			continue
		}
		target := (closes[i+1] - closes[i]) / closes[i]
		p.Train(Features(closes[:i+1], 0), target)
		trained++
	}
	return trained
}
