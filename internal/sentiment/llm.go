package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/llm"
)

const systemPrompt = `You are a financial news sentiment classifier.
Classify the headline's likely effect on the stock or asset it mentions.
Respond with ONLY valid JSON (no markdown, no preamble):
{"label":"positive|negative|neutral","score":-1.0..1.0,"confidence":0..100}`

// LLMAnalyzer asks a chat model to classify a headline. Requests are paced by
// a shared rate limiter.
type LLMAnalyzer struct {
	provider llm.Provider
	limiter  *rate.Limiter
	logger   *zap.Logger
}

// NewLLMAnalyzer creates an analyzer that allows rps requests per second.
// A non-positive rps disables pacing.
func NewLLMAnalyzer(provider llm.Provider, rps float64, logger ...*zap.Logger) *LLMAnalyzer {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &LLMAnalyzer{
		provider: provider,
		limiter:  newLimiter(rps),
		logger:   l,
	}
}

func (a *LLMAnalyzer) Name() string { return "llm:" + a.provider.Name() }

func (a *LLMAnalyzer) Analyze(ctx context.Context, text string) (Result, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return Result{}, err
	}

	reply, err := llm.Ask(ctx, a.provider, systemPrompt, "Headline: "+text, true)
	if err != nil {
		return Result{}, core.WrapError(core.ErrSentimentFailed, err)
	}

	res, err := parseReply(reply)
	if err != nil {
		a.logger.Debug("unparseable sentiment reply",
			zap.String("provider", a.provider.Name()),
			zap.String("reply", reply))
		return Result{}, core.WrapError(core.ErrSentimentFailed, err)
	}
	res.Source = a.Name()
	return res, nil
}

type llmReply struct {
	Label      string   `json:"label"`
	Score      *float64 `json:"score"`
	Confidence *float64 `json:"confidence"`
}

// parseReply reads the model's JSON. A missing score is derived from the
// label; a missing confidence defaults to 70.
func parseReply(reply string) (Result, error) {
	var r llmReply
	if err := json.Unmarshal([]byte(llm.ExtractJSON(reply)), &r); err != nil {
		return Result{}, fmt.Errorf("decoding reply: %w", err)
	}

	res := Result{Confidence: 70}
	switch strings.ToLower(strings.TrimSpace(r.Label)) {
	case "positive", "bullish":
		res.Label, res.Score = LabelPositive, 1
	case "negative", "bearish":
		res.Label, res.Score = LabelNegative, -1
	case "neutral":
		res.Label, res.Score = LabelNeutral, 0
	case "":
		if r.Score == nil {
			return Result{}, fmt.Errorf("reply has neither label nor score")
		}
	default:
		return Result{}, fmt.Errorf("unknown label %q", r.Label)
	}

	if r.Score != nil {
		res.Score = clamp(*r.Score, -1, 1)
		if res.Label == "" {
			res.Label = LabelFor(res.Score)
		}
	}
	if r.Confidence != nil {
		c := *r.Confidence
		if c > 0 && c <= 1 {
			c *= 100
		}
		res.Confidence = clamp(c, 0, 100)
	}
	return res, nil
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}
