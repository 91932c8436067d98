package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/tradebot/internal/api"
	"github.com/newthinker/tradebot/internal/app"
	"github.com/newthinker/tradebot/internal/metrics"
	"github.com/newthinker/tradebot/internal/report"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the periodic analysis loop with the HTTP API",
	Long: `Analyze the watchlist every server.interval, rewrite the reports after
each cycle and serve signals, health and Prometheus metrics over HTTP.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log, cfg, err := setup()
	defer log.Sync()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
	}

	a, err := app.Build(cfg, log, reg)
	if err != nil {
		return fmt.Errorf("building app: %w", err)
	}
	defer a.Close()

	a.OnCycle(func(ctx context.Context, entries []report.Entry) {
		if err := writeReports(cfg.Report, entries, log); err != nil {
			log.Error("writing reports", zap.Error(err))
		}
	})

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	server, err := api.NewServer(api.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		APIKey:      cfg.Server.APIKey,
		MetricsPath: metricsPath,
	}, api.Dependencies{
		Signals:     a.Signals(),
		Metrics:     reg,
		Status:      a,
		Analysis:    a,
		BaseContext: ctx,
	}, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
			stop()
		}
	}()

	log.Info("tradebot serving",
		zap.String("addr", cfg.Server.Addr()),
		zap.Duration("interval", cfg.Server.Interval),
	)

	loopErr := a.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if loopErr != nil && ctx.Err() == nil {
		return loopErr
	}
	return nil
}
