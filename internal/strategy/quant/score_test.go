package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/indicator"
	"github.com/newthinker/tradebot/internal/regime"
)

func TestCalculateKelly(t *testing.T) {
	for _, b := range []float64{0.5, 1, 2, 3.5} {
		assert.InDelta(t, -1/b, CalculateKelly(0, b), 1e-12)
	}
	assert.InDelta(t, 0, CalculateKelly(0.5, 1), 1e-12)
	assert.InDelta(t, 0, CalculateKelly(0.25, 3), 1e-12)
	assert.InDelta(t, 0.2, CalculateKelly(0.6, 1), 1e-12)
	assert.Equal(t, 0.0, CalculateKelly(0.9, 0))
	assert.Equal(t, 0.0, CalculateKelly(0.9, -1))
}

func TestBlendSentiment(t *testing.T) {
	tests := []struct {
		name      string
		stat      float64
		sentiment float64
		regime    regime.Regime
		want      float64
	}{
		{"default weight", 0.4, 0.2, regime.Bull, 0.4*0.75 + 0.2*0.25},
		{"extreme sentiment", 0.4, -0.9, regime.Sideways, 0.4*0.6 - 0.9*0.4},
		{"high volatility", 0.4, 0.9, regime.HighVol, 0.4*0.5 + 0.9*0.5},
		{"zero sentiment", -0.6, 0, regime.Bear, -0.45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, BlendSentiment(tt.stat, tt.sentiment, tt.regime), 1e-12)
		})
	}
}

func TestSelectForecast(t *testing.T) {
	tests := []struct {
		name   string
		regime regime.Regime
		linear float64
		poly   float64
		want   float64
	}{
		{"sideways uses poly", regime.Sideways, 101, 99, 99},
		{"bull poly confirms", regime.Bull, 101, 105, 105},
		{"bull poly disagrees", regime.Bull, 101, 98, 101},
		{"bear poly confirms", regime.Bear, 99, 95, 95},
		{"bear poly disagrees", regime.Bear, 99, 102, 99},
		{"high vol uses linear", regime.HighVol, 103, 90, 103},
		{"unknown uses linear", regime.Unknown, 97, 120, 97},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectForecast(tt.regime, tt.linear, tt.poly, 100))
		})
	}
}

func TestStatScore(t *testing.T) {
	base := scoreInputs{
		regime:   regime.Sideways,
		price:    100,
		forecast: 100,
		rsi:      50,
		bands:    indicator.BollingerBands{Upper: 105, Middle: 100, Lower: 95},
	}
	assert.Equal(t, 0.0, statScore(base))

	forecastUp := base
	forecastUp.forecast = 150
	assert.InDelta(t, 0.5, statScore(forecastUp), 1e-12)

	belowBand := base
	belowBand.price, belowBand.forecast = 94, 94
	assert.InDelta(t, 0.3, statScore(belowBand), 1e-12)

	bullDip := belowBand
	bullDip.regime = regime.Bull
	bullDip.rsi = 30
	assert.InDelta(t, 0.7, statScore(bullDip), 1e-12)

	bearRip := base
	bearRip.regime = regime.Bear
	bearRip.price, bearRip.forecast = 106, 106
	bearRip.rsi = 70
	assert.InDelta(t, -0.7, statScore(bearRip), 1e-12)

	cheap := base
	cheap.fundamentals = core.Fundamentals{PERatio: 10, Valid: true}
	cheap.onChain = core.OnChainData{NetInflow: 5, Valid: true}
	cheap.macdHist = 0.3
	cheap.mlPrediction = 0.01
	assert.InDelta(t, 0.2+0.2+0.15+0.15, statScore(cheap), 1e-12)

	invalid := base
	invalid.fundamentals = core.Fundamentals{PERatio: 10}
	invalid.onChain = core.OnChainData{NetInflow: 5}
	assert.Equal(t, 0.0, statScore(invalid))

	expensive := base
	expensive.fundamentals = core.Fundamentals{PERatio: 80, Valid: true}
	assert.InDelta(t, -0.1, statScore(expensive), 1e-12)

	saturated := bullDip
	saturated.forecast = 200
	saturated.macdHist = 1
	saturated.mlPrediction = 1
	saturated.fundamentals = core.Fundamentals{PERatio: 5, Valid: true}
	assert.Equal(t, 1.0, statScore(saturated))
}

func TestStatScore_NoBandsIsNeutral(t *testing.T) {
	for _, r := range []regime.Regime{regime.Unknown, regime.Sideways, regime.Bull, regime.Bear} {
		in := scoreInputs{regime: r, price: 100, forecast: 100, rsi: 50}
		assert.Equal(t, 0.0, statScore(in), "regime %s", r)
	}
}
