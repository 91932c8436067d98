package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/newthinker/tradebot/internal/core"
)

const finBERTURL = "https://api-inference.huggingface.co/models/ProsusAI/finbert"

// FinBERT calls the Hugging Face inference API for ProsusAI/finbert. The top
// scoring class becomes a ±1/0 score with its probability as confidence.
type FinBERT struct {
	apiKey  string
	url     string
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewFinBERT creates a FinBERT analyzer paced at rps requests per second.
func NewFinBERT(apiKey string, rps float64, logger ...*zap.Logger) *FinBERT {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &FinBERT{
		apiKey:  apiKey,
		url:     finBERTURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: newLimiter(rps),
		logger:  l,
	}
}

// WithURL overrides the inference endpoint.
func (f *FinBERT) WithURL(u string) *FinBERT {
	f.url = u
	return f
}

func (f *FinBERT) Name() string { return "finbert" }

// Enabled reports whether an API key is configured.
func (f *FinBERT) Enabled() bool {
	return f.apiKey != "" && f.apiKey != "DEMO"
}

func (f *FinBERT) Analyze(ctx context.Context, text string) (Result, error) {
	if !f.Enabled() {
		return Result{}, core.WrapError(core.ErrSentimentFailed, fmt.Errorf("finbert: no API key"))
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return Result{}, err
	}

	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return Result{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+f.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{}, core.WrapError(core.ErrSentimentFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, core.WrapError(core.ErrSentimentFailed,
			fmt.Errorf("finbert: unexpected status %d", resp.StatusCode))
	}

	var predictions [][]struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&predictions); err != nil {
		return Result{}, core.WrapError(core.ErrSentimentFailed, fmt.Errorf("decoding response: %w", err))
	}
	if len(predictions) == 0 || len(predictions[0]) == 0 {
		return Result{}, core.WrapError(core.ErrSentimentFailed, fmt.Errorf("finbert: empty prediction"))
	}

	best := predictions[0][0]
	for _, p := range predictions[0][1:] {
		if p.Score > best.Score {
			best = p
		}
	}

	res := Result{Confidence: clamp(best.Score*100, 0, 100), Source: f.Name()}
	switch strings.ToLower(best.Label) {
	case "positive":
		res.Score, res.Label = 1, LabelPositive
	case "negative":
		res.Score, res.Label = -1, LabelNegative
	default:
		res.Score, res.Label = 0, LabelNeutral
	}
	return res, nil
}
