package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/tradebot/internal/app"
	"github.com/newthinker/tradebot/internal/config"
	"github.com/newthinker/tradebot/internal/metrics"
	"github.com/newthinker/tradebot/internal/report"
	"github.com/newthinker/tradebot/internal/strategy/quant"
)

var analyzeSymbols []string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the watchlist once and write reports",
	Long: `Run one full pass over the watchlist (and tickers file), print a summary
and write the CSV and HTML reports.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringSliceVar(&analyzeSymbols, "symbols", nil, "analyze these symbols (SYMBOL or SYMBOL:type) instead of the watchlist")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log, cfg, err := setup()
	defer log.Sync()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(cfg, log, metrics.NewRegistry())
	if err != nil {
		return fmt.Errorf("building app: %w", err)
	}
	defer a.Close()

	items, err := symbolsToAnalyze(cfg)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no symbols to analyze: set watchlist, tickers_file or --symbols")
	}

	entries, err := a.Run(ctx, items)
	if err != nil {
		return err
	}

	printSummary(entries)
	a.Notify(ctx, entries)
	if err := writeReports(cfg.Report, entries, log); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(report.Disclaimer)
	return nil
}

func symbolsToAnalyze(cfg *config.Config) ([]config.WatchlistItem, error) {
	if len(analyzeSymbols) == 0 {
		return cfg.Symbols()
	}
	items := make([]config.WatchlistItem, 0, len(analyzeSymbols))
	for _, s := range analyzeSymbols {
		items = append(items, parseSymbolArg(s))
	}
	return items, nil
}

func printSummary(entries []report.Entry) {
	fmt.Printf("%-10s %10s %-6s %6s  %s\n", "SYMBOL", "PRICE", "ACTION", "CONF", "REASON")
	for _, e := range entries {
		fmt.Printf("%-10s %10.2f %-6s %5.1f%%  %s\n",
			e.Symbol, e.Price, e.Signal.Action, e.Signal.Confidence, e.Signal.Reason)
		if len(e.Signal.Targets) > 0 {
			fmt.Printf("%-10s targets: %s\n", "", quant.FormatTargets(e.Signal.Targets))
		}
	}
}

func writeReports(cfg config.ReportConfig, entries []report.Entry, log *zap.Logger) error {
	r := report.New(entries)
	if cfg.CSVPath != "" {
		if err := report.SaveCSV(cfg.CSVPath, r); err != nil {
			return err
		}
		log.Info("csv report written", zap.String("path", cfg.CSVPath))
	}
	if cfg.HTMLPath != "" {
		if err := report.SaveHTML(cfg.HTMLPath, r); err != nil {
			return err
		}
		log.Info("html report written", zap.String("path", cfg.HTMLPath))
	}
	return nil
}
