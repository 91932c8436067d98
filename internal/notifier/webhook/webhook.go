// Package webhook implements an HTTP webhook notifier
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/newthinker/tradebot/internal/core"
)

// Webhook posts signals as JSON to a configured URL.
type Webhook struct {
	url     string
	headers map[string]string
	client  *http.Client
}

// New creates a new Webhook notifier
func New(url string, headers map[string]string) (*Webhook, error) {
	if url == "" {
		return nil, fmt.Errorf("webhook: url is required")
	}
	return &Webhook{
		url:     url,
		headers: headers,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) Send(ctx context.Context, signal core.Signal) error {
	return w.post(ctx, signalPayload(signal))
}

func (w *Webhook) SendBatch(ctx context.Context, signals []core.Signal) error {
	if len(signals) == 0 {
		return nil
	}

	payloads := make([]map[string]any, len(signals))
	for i, sig := range signals {
		payloads[i] = signalPayload(sig)
	}

	return w.post(ctx, map[string]any{
		"type":    "batch",
		"count":   len(signals),
		"signals": payloads,
	})
}

func signalPayload(signal core.Signal) map[string]any {
	p := map[string]any{
		"type":         "signal",
		"symbol":       signal.Symbol,
		"action":       signal.Action,
		"confidence":   signal.Confidence,
		"entry":        signal.Entry,
		"targets":      signal.Targets,
		"reason":       signal.Reason,
		"regime":       signal.Regime,
		"strategy":     signal.Strategy,
		"generated_at": signal.GeneratedAt.Format(time.RFC3339),
	}
	if o, ok := signal.Option.Get(); ok {
		p["option"] = o
	}
	return p
}

func (w *Webhook) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: server returned %d", resp.StatusCode)
	}

	return nil
}
