// Package sentiment scores news headlines into a value in [-1, 1].
package sentiment

import (
	"context"
	"math"
)

// Label is the coarse polarity of a headline.
type Label string

const (
	LabelPositive Label = "Positive"
	LabelNegative Label = "Negative"
	LabelNeutral  Label = "Neutral"
)

// Result is the sentiment of one text.
type Result struct {
	Score      float64 // -1 (bearish) to 1 (bullish)
	Confidence float64 // 0-100
	Label      Label
	Source     string
}

// Neutral is the result used when nothing could be scored.
func Neutral(source string) Result {
	return Result{Score: 0, Confidence: 50, Label: LabelNeutral, Source: source}
}

// Analyzer scores a single headline.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, text string) (Result, error)
}

// LabelFor maps a score onto a label.
func LabelFor(score float64) Label {
	switch {
	case score > 0:
		return LabelPositive
	case score < 0:
		return LabelNegative
	}
	return LabelNeutral
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
