package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/newthinker/tradebot/internal/app"
	"github.com/newthinker/tradebot/internal/config"
	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/report"
)

var (
	backtestSymbol string
	backtestFrom   string
	backtestTo     string
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Backtest the mean-reversion proxy on one symbol",
	Long:  "Replay the RSI/Bollinger proxy rule over daily history and show performance statistics",
	Args:  cobra.NoArgs,
	RunE:  runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestSymbol, "symbol", "", "Symbol to backtest, optionally SYMBOL:type (required)")
	backtestCmd.Flags().StringVar(&backtestFrom, "from", "", "Start date YYYY-MM-DD (required)")
	backtestCmd.Flags().StringVar(&backtestTo, "to", "", "End date YYYY-MM-DD (required)")

	backtestCmd.MarkFlagRequired("symbol")
	backtestCmd.MarkFlagRequired("from")
	backtestCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	fromDate, err := time.Parse("2006-01-02", backtestFrom)
	if err != nil {
		return fmt.Errorf("invalid from date format (expected YYYY-MM-DD): %w", err)
	}
	toDate, err := time.Parse("2006-01-02", backtestTo)
	if err != nil {
		return fmt.Errorf("invalid to date format (expected YYYY-MM-DD): %w", err)
	}
	if !toDate.After(fromDate) {
		return fmt.Errorf("end date must be after start date")
	}

	log, cfg, err := setup()
	defer log.Sync()
	if err != nil {
		return err
	}

	a, err := app.Build(cfg, log, nil)
	if err != nil {
		return fmt.Errorf("building app: %w", err)
	}
	defer a.Close()

	item := parseSymbolArg(backtestSymbol)
	res, err := a.Backtest(context.Background(), item.Symbol, item.Type, fromDate, toDate)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	fmt.Println("=== tradebot Backtest ===")
	fmt.Printf("Strategy:      %s\n", res.Strategy)
	fmt.Printf("Symbol:        %s\n", res.Symbol)
	fmt.Printf("Period:        %s to %s\n", fromDate.Format("2006-01-02"), toDate.Format("2006-01-02"))
	fmt.Println()
	fmt.Printf("Total return:  %.2f%%\n", res.Stats.TotalReturn*100)
	fmt.Printf("Sharpe ratio:  %.2f\n", res.Stats.SharpeRatio)
	fmt.Printf("Max drawdown:  %.2f%%\n", res.Stats.MaxDrawdown*100)
	fmt.Printf("Trades:        %d (win rate %.1f%%)\n", res.Stats.TotalTrades, res.Stats.WinRate())
	fmt.Printf("Final balance: %.2f\n", res.Stats.FinalBalance)
	fmt.Println()
	fmt.Println(report.Disclaimer)
	return nil
}

// parseSymbolArg splits "SYMBOL:type"; the type defaults to stock.
func parseSymbolArg(s string) config.WatchlistItem {
	item := config.WatchlistItem{Symbol: s, Type: core.AssetStock}
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		item.Symbol = s[:i]
		if t := strings.ToLower(s[i+1:]); t != "" {
			item.Type = core.AssetType(t)
		}
	}
	return item
}
