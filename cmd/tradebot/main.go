package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/tradebot/internal/config"
	"github.com/newthinker/tradebot/internal/logger"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "tradebot",
	Short: "tradebot - quantitative trading signal engine",
	Long: `tradebot turns price history, fundamentals, on-chain flows and news
sentiment into buy/sell/hold signals with targets, option ideas and a
backtested performance estimate.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config, or returns defaults when it is unset.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	if cfgFile != "" {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// setup builds the logger and loads the config. --debug forces a
// development logger at debug level.
func setup() (*zap.Logger, *config.Config, error) {
	boot := logger.Must(debug)
	cfg, err := loadConfig(boot)
	if err != nil {
		return boot, nil, err
	}

	level := cfg.Log.Level
	if debug {
		level = "debug"
	}
	log, err := logger.New(debug || cfg.Log.Development, logger.WithLevel(level))
	if err != nil {
		return boot, nil, fmt.Errorf("creating logger: %w", err)
	}
	boot.Sync()
	return log, cfg, nil
}
