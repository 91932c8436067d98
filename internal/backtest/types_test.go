package backtest

import (
	"testing"
	"time"

	"github.com/newthinker/tradebot/internal/core"
)

func TestTrade_IsWin(t *testing.T) {
	tests := []struct {
		name  string
		trade Trade
		want  bool
	}{
		{"exit above entry", Trade{EntryPrice: 100, ExitPrice: 105}, true},
		{"exit below entry", Trade{EntryPrice: 100, ExitPrice: 98}, false},
		{"flat", Trade{EntryPrice: 100, ExitPrice: 100}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.trade.IsWin(); got != tt.want {
				t.Errorf("IsWin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrade_IsClosed(t *testing.T) {
	openTrade := Trade{EntryTime: time.Now()}
	closedTrade := Trade{EntryTime: time.Now(), ExitTime: time.Now()}

	if openTrade.IsClosed() {
		t.Error("open trade should not be closed")
	}
	if !closedTrade.IsClosed() {
		t.Error("closed trade should be closed")
	}
}

func TestStats_WinRate(t *testing.T) {
	tests := []struct {
		stats Stats
		want  float64
	}{
		{Stats{}, 0},
		{Stats{TotalTrades: 1}, 0},
		{Stats{TotalTrades: 4, WinningTrades: 1}, 50},
		{Stats{TotalTrades: 5, WinningTrades: 2}, 100},
	}
	for _, tt := range tests {
		if got := tt.stats.WinRate(); got != tt.want {
			t.Errorf("WinRate(%+v) = %f, want %f", tt.stats, got, tt.want)
		}
	}
}

func TestDeciderFunc(t *testing.T) {
	d := DeciderFunc(func(history []core.Candle) core.Action { return core.ActionSell })
	if d.Decide(nil) != core.ActionSell {
		t.Error("DeciderFunc should forward to the wrapped function")
	}
}
