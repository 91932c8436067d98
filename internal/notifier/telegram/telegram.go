package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/strategy/quant"
)

const defaultBaseURL = "https://api.telegram.org"

// Telegram sends signals through the Telegram Bot API.
type Telegram struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

// New creates a new Telegram notifier
func New(botToken, chatID string) (*Telegram, error) {
	if botToken == "" {
		return nil, fmt.Errorf("telegram: bot_token is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("telegram: chat_id is required")
	}
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  defaultBaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// WithBaseURL points the notifier at another Bot API host.
func (t *Telegram) WithBaseURL(url string) *Telegram {
	t.baseURL = strings.TrimRight(url, "/")
	return t
}

func (t *Telegram) Name() string {
	return "telegram"
}

func (t *Telegram) Send(ctx context.Context, signal core.Signal) error {
	return t.sendMessage(ctx, formatSignal(signal))
}

func (t *Telegram) SendBatch(ctx context.Context, signals []core.Signal) error {
	if len(signals) == 0 {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 *%d Trading Signals*\n\n", len(signals))

	for i, signal := range signals {
		sb.WriteString(formatSignal(signal))
		if i < len(signals)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return t.sendMessage(ctx, sb.String())
}

func formatSignal(signal core.Signal) string {
	var sb strings.Builder

	actionEmoji := "📈"
	if signal.Action == core.ActionSell {
		actionEmoji = "📉"
	} else if signal.Action == core.ActionHold {
		actionEmoji = "⏸️"
	}

	fmt.Fprintf(&sb, "%s *%s* - %s\n", actionEmoji, signal.Symbol, signal.Action)
	fmt.Fprintf(&sb, "📊 Confidence: %.1f%%\n", signal.Confidence)

	if signal.Strategy != "" {
		fmt.Fprintf(&sb, "🎯 Strategy: %s\n", signal.Strategy)
	}
	if signal.Regime != "" {
		fmt.Fprintf(&sb, "🧭 Regime: %s\n", signal.Regime)
	}
	if signal.Reason != "" {
		fmt.Fprintf(&sb, "💡 Reason: %s\n", signal.Reason)
	}
	if signal.Entry > 0 {
		fmt.Fprintf(&sb, "💰 Price: $%.2f\n", signal.Entry)
	}
	if len(signal.Targets) > 0 {
		fmt.Fprintf(&sb, "🎯 Targets: %s\n", quant.FormatTargets(signal.Targets))
	}
	if o, ok := signal.Option.Get(); ok {
		fmt.Fprintf(&sb, "🧾 Option: %s %.2f, %dd\n", o.Type.Label(), o.Strike, o.ExpiryDays)
	}

	fmt.Fprintf(&sb, "⏰ Time: %s", signal.GeneratedAt.Format("2006-01-02 15:04:05"))

	return sb.String()
}

func (t *Telegram) sendMessage(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)

	payload := map[string]any{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		return fmt.Errorf("telegram: API error (status %d): %v", resp.StatusCode, result)
	}

	return nil
}
