package sentiment

import (
	"context"
	"strings"
)

var positiveStems = []string{
	"soar", "jump", "record", "surge", "climb", "rally", "beat", "profit", "gain",
	"bull", "growth", "upgrade", "buy", "outperform", "dividend", "revenue up",
	"optimis", "strong", "higher", "positive", "approval", "launch", "partnership",
}

var negativeStems = []string{
	"plunge", "crash", "drop", "fall", "miss", "loss", "bear", "down", "downgrade",
	"sell", "lower", "negative", "warn", "risk", "lawsuit", "ban", "regulation",
	"inflation", "recession", "weak", "cut", "fail", "halt",
}

// KeywordAnalyzer counts positive and negative stems. It never fails and is
// the last analyzer in a chain.
type KeywordAnalyzer struct{}

// NewKeywordAnalyzer creates a keyword analyzer.
func NewKeywordAnalyzer() *KeywordAnalyzer {
	return &KeywordAnalyzer{}
}

func (k *KeywordAnalyzer) Name() string { return "keyword" }

// Analyze scores ±(0.5 + 0.1·min(count, 5)) for the dominant side with
// confidence 60 + 5·count, or neutral at 50 on a tie.
func (k *KeywordAnalyzer) Analyze(_ context.Context, text string) (Result, error) {
	lower := strings.ToLower(text)
	pos := countStems(lower, positiveStems)
	neg := countStems(lower, negativeStems)

	res := Result{Source: k.Name()}
	switch {
	case pos > neg:
		res.Score = 0.5 + 0.1*float64(min(pos, 5))
		res.Label = LabelPositive
		res.Confidence = 60 + 5*float64(pos)
	case neg > pos:
		res.Score = -0.5 - 0.1*float64(min(neg, 5))
		res.Label = LabelNegative
		res.Confidence = 60 + 5*float64(neg)
	default:
		return Neutral(k.Name()), nil
	}

	res.Score = clamp(res.Score, -1, 1)
	res.Confidence = clamp(res.Confidence, 0, 100)
	return res, nil
}

func countStems(text string, stems []string) int {
	n := 0
	for _, s := range stems {
		if strings.Contains(text, s) {
			n++
		}
	}
	return n
}
