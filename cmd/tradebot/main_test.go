package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/tradebot/internal/core"
)

func TestParseSymbolArg(t *testing.T) {
	tests := []struct {
		in     string
		symbol string
		typ    core.AssetType
	}{
		{"AAPL", "AAPL", core.AssetStock},
		{"BTC:crypto", "BTC", core.AssetCrypto},
		{"SPY:ETF", "SPY", core.AssetETF},
		{"MSFT:", "MSFT", core.AssetStock},
	}
	for _, tt := range tests {
		got := parseSymbolArg(tt.in)
		assert.Equal(t, tt.symbol, got.Symbol, tt.in)
		assert.Equal(t, tt.typ, got.Type, tt.in)
	}
}

func TestOptionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"option", "--spot", "100", "--strike", "105", "--days", "45", "--market-price", "2.5"})
	require.NoError(t, rootCmd.Execute())

	s := out.String()
	assert.True(t, strings.HasPrefix(s, "Call S=100.00 K=105.00 T=45d"))
	assert.Contains(t, s, "Delta: 0.")
	assert.Contains(t, s, "Implied vol:")
}

func TestOptionCommand_InvalidType(t *testing.T) {
	rootCmd.SetArgs([]string{"option", "--spot", "100", "--strike", "105", "--type", "straddle"})
	assert.Error(t, rootCmd.Execute())
}

func TestOptionCommand_RejectsNonPositiveVol(t *testing.T) {
	for _, vol := range []string{"0", "-0.2"} {
		rootCmd.SetArgs([]string{"option", "--spot", "100", "--strike", "105", "--type", "call", "--vol=" + vol})
		err := rootCmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--vol")
	}
}
