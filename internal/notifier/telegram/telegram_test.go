package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/notifier"
)

func TestTelegram_ImplementsNotifier(t *testing.T) {
	var _ notifier.Notifier = (*Telegram)(nil)
}

func TestTelegram_New(t *testing.T) {
	tg, err := New("token", "chatid")
	require.NoError(t, err)
	assert.Equal(t, "telegram", tg.Name())

	_, err = New("", "chat")
	assert.ErrorContains(t, err, "bot_token")
	_, err = New("token", "")
	assert.ErrorContains(t, err, "chat_id")
}

func TestTelegram_Send(t *testing.T) {
	var path string
	var payload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&payload)
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer server.Close()

	tg, err := New("test-token", "test-chat")
	require.NoError(t, err)
	tg.WithBaseURL(server.URL + "/")

	sig := core.Signal{Symbol: "AAPL", Action: core.ActionBuy, Confidence: 85}
	require.NoError(t, tg.Send(context.Background(), sig))

	assert.Equal(t, "/bottest-token/sendMessage", path)
	assert.Equal(t, "test-chat", payload["chat_id"])
	assert.Equal(t, "Markdown", payload["parse_mode"])
	assert.Contains(t, payload["text"], "*AAPL* - buy")
}

func TestTelegram_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "description": "Unauthorized"})
	}))
	defer server.Close()

	tg, _ := New("bad", "chat")
	tg.WithBaseURL(server.URL)

	err := tg.Send(context.Background(), core.Signal{Symbol: "AAPL"})
	assert.ErrorContains(t, err, "status 401")
}

func TestTelegram_FormatSignal(t *testing.T) {
	sig := core.Signal{
		Symbol:      "AAPL",
		Action:      core.ActionBuy,
		Confidence:  85,
		Strategy:    "quant",
		Regime:      "Bull",
		Reason:      "Buy: Bull Market Momentum",
		Entry:       150.25,
		Targets:     []float64{155, 160.5},
		Option:      core.SomeOverlay(core.OptionOverlay{Type: core.OptionCall, Strike: 157.76, ExpiryDays: 45}),
		GeneratedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}

	formatted := formatSignal(sig)
	for _, want := range []string{
		"📈 *AAPL* - buy",
		"Confidence: 85.0%",
		"Strategy: quant",
		"Regime: Bull",
		"Bull Market Momentum",
		"$150.25",
		"Targets: 155.00, 160.50",
		"Option: Call 157.76, 45d",
		"2024-01-15 10:30:00",
	} {
		assert.Contains(t, formatted, want)
	}
}

func TestTelegram_FormatSignal_Actions(t *testing.T) {
	assert.True(t, strings.HasPrefix(formatSignal(core.Signal{Symbol: "TSLA", Action: core.ActionSell}), "📉"))
	assert.True(t, strings.HasPrefix(formatSignal(core.Signal{Symbol: "GOOG", Action: core.ActionHold}), "⏸️"))
}

func TestTelegram_SendBatch(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&payload)
	}))
	defer server.Close()

	tg, _ := New("token", "chat")
	tg.WithBaseURL(server.URL)

	require.NoError(t, tg.SendBatch(context.Background(), nil))
	assert.Nil(t, payload, "empty batch sends nothing")

	signals := []core.Signal{
		{Symbol: "AAPL", Action: core.ActionBuy, Confidence: 80},
		{Symbol: "TSLA", Action: core.ActionSell, Confidence: 70},
	}
	require.NoError(t, tg.SendBatch(context.Background(), signals))

	text := payload["text"].(string)
	assert.True(t, strings.HasPrefix(text, "📊 *2 Trading Signals*"))
	assert.Contains(t, text, "*AAPL*")
	assert.Contains(t, text, "*TSLA*")
}
