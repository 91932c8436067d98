package sentiment

import (
	"context"

	"go.uber.org/zap"
)

// Summary is the aggregate over a set of headlines.
type Summary struct {
	Score   float64
	Results []Result
	Failed  int
}

// Aggregate scores every headline with a and averages the scores of those
// that succeeded. No headlines, or none scored, gives 0.
func Aggregate(ctx context.Context, a Analyzer, headlines []string, logger ...*zap.Logger) Summary {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}

	var s Summary
	var total float64
	for _, h := range headlines {
		res, err := a.Analyze(ctx, h)
		if err != nil {
			l.Debug("headline not scored", zap.String("headline", h), zap.Error(err))
			s.Failed++
			continue
		}
		total += res.Score
		s.Results = append(s.Results, res)
	}
	if len(s.Results) > 0 {
		s.Score = total / float64(len(s.Results))
	}
	return s
}
