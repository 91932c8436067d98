// Package predictor implements a small online linear model that estimates
// the next-bar percentage change from five normalised features.
//
// A Predictor is not safe for concurrent use. Concurrent evaluations each
// work on their own Clone; training applied to a clone stays local unless
// the caller persists it through a Store.
package predictor

import (
	"math"
	"time"
)

// FeatureCount is the length of every feature vector.
const FeatureCount = 5

// DefaultLearningRate is the step size of one gradient update.
const DefaultLearningRate = 0.01

// Predictor is a linear regressor trained one sample at a time.
type Predictor struct {
	weights      [FeatureCount]float64
	bias         float64
	learningRate float64
	samples      int
}

// New creates a zero-weight predictor with the default learning rate.
func New() *Predictor {
	return NewWithRate(DefaultLearningRate)
}

// NewWithRate creates a zero-weight predictor. A non-positive rate falls
// back to DefaultLearningRate.
func NewWithRate(rate float64) *Predictor {
	if rate <= 0 {
		rate = DefaultLearningRate
	}
	return &Predictor{learningRate: rate}
}

// Predict returns dot(weights, features) + bias as an expected fractional
// change (0.01 = +1%). A feature vector of the wrong length predicts 0.
func (p *Predictor) Predict(features []float64) float64 {
	if len(features) != FeatureCount {
		return 0
	}
	sum := p.bias
	for i, f := range features {
		sum += p.weights[i] * f
	}
	return sum
}

// Train applies one gradient-descent step on the squared error between the
// prediction and target. Vectors of the wrong length are ignored.
func (p *Predictor) Train(features []float64, target float64) {
	if len(features) != FeatureCount {
		return
	}
	err := p.Predict(features) - target
	for i, f := range features {
		p.weights[i] -= p.learningRate * err * f
	}
	p.bias -= p.learningRate * err
	p.samples++
}

// Clone returns an independent copy.
func (p *Predictor) Clone() *Predictor {
	c := *p
	return &c
}

// Samples is the number of training updates applied so far.
func (p *Predictor) Samples() int {
	return p.samples
}

// State is the serialisable form of a Predictor.
type State struct {
	Weights      []float64 `json:"weights"`
	Bias         float64   `json:"bias"`
	LearningRate float64   `json:"learning_rate"`
	Samples      int       `json:"samples"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// State snapshots the model parameters.
func (p *Predictor) State() State {
	w := make([]float64, FeatureCount)
	copy(w, p.weights[:])
	return State{
		Weights:      w,
		Bias:         p.bias,
		LearningRate: p.learningRate,
		Samples:      p.samples,
		UpdatedAt:    time.Now().UTC(),
	}
}

// FromState rebuilds a predictor. Missing weights stay zero and extra ones
// are ignored.
func FromState(s State) *Predictor {
	p := NewWithRate(s.LearningRate)
	copy(p.weights[:], s.Weights)
	p.bias = s.Bias
	p.samples = s.Samples
	return p
}

// ExtractFeatures normalises raw indicator readings into a feature vector:
// RSI scaled to [-1,1], tanh of the MACD histogram, sentiment as is, daily
// GARCH volatility times 20 and the cosine of the position inside the
// dominant cycle (0 when no cycle was found).
func ExtractFeatures(rsi, macdHist, sentiment, garchVol float64, cyclePeriod, dayIndex int) []float64 {
	f := make([]float64, FeatureCount)
	f[0] = (rsi - 50) / 50
	f[1] = math.Tanh(macdHist)
	f[2] = sentiment
	f[3] = garchVol * 20
	if cyclePeriod > 0 {
		f[4] = math.Cos(2 * math.Pi * float64(dayIndex) / float64(cyclePeriod))
	}
	return f
}
