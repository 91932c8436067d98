package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newthinker/tradebot/internal/app"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect or reset persisted predictor state",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List symbols with stored predictor state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, cfg, err := setup()
		defer log.Sync()
		if err != nil {
			return err
		}
		store, err := app.OpenModelStore(cfg.Storage, log)
		if err != nil {
			return err
		}
		symbols, err := store.Symbols(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, sym := range symbols {
			p, err := store.Load(cmd.Context(), sym)
			if err != nil {
				fmt.Fprintf(out, "%-12s unreadable: %v\n", sym, err)
				continue
			}
			fmt.Fprintf(out, "%-12s samples=%d\n", sym, p.Samples())
		}
		return nil
	},
}

var modelsResetCmd = &cobra.Command{
	Use:   "reset SYMBOL...",
	Short: "Delete stored predictor state so the next run retrains from scratch",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, cfg, err := setup()
		defer log.Sync()
		if err != nil {
			return err
		}
		store, err := app.OpenModelStore(cfg.Storage, log)
		if err != nil {
			return err
		}
		for _, sym := range args {
			if err := store.Delete(cmd.Context(), sym); err != nil {
				return fmt.Errorf("resetting %s: %w", sym, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reset %s\n", sym)
		}
		return nil
	},
}

func init() {
	modelsCmd.AddCommand(modelsListCmd, modelsResetCmd)
	rootCmd.AddCommand(modelsCmd)
}
