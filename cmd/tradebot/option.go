package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/options"
	"github.com/newthinker/tradebot/internal/strategy/quant"
)

var (
	optSpot        float64
	optStrike      float64
	optDays        int
	optRate        float64
	optVol         float64
	optType        string
	optMarketPrice float64
)

var optionCmd = &cobra.Command{
	Use:   "option",
	Short: "Black-Scholes price, Greeks and implied volatility",
	Long: `Price a European option with Black-Scholes and print its Greeks.
With --market-price, also solve for the implied volatility.`,
	Args: cobra.NoArgs,
	RunE: runOption,
}

func init() {
	optionCmd.Flags().Float64Var(&optSpot, "spot", 0, "underlying price (required)")
	optionCmd.Flags().Float64Var(&optStrike, "strike", 0, "strike price (required)")
	optionCmd.Flags().IntVar(&optDays, "days", quant.OptionExpiryDays, "calendar days to expiry")
	optionCmd.Flags().Float64Var(&optRate, "rate", quant.DefaultRiskFreeRate, "annual risk-free rate")
	optionCmd.Flags().Float64Var(&optVol, "vol", 0.30, "annualized volatility")
	optionCmd.Flags().StringVar(&optType, "type", "call", "call or put")
	optionCmd.Flags().Float64Var(&optMarketPrice, "market-price", 0, "observed option price for implied volatility")

	optionCmd.MarkFlagRequired("spot")
	optionCmd.MarkFlagRequired("strike")

	rootCmd.AddCommand(optionCmd)
}

func runOption(cmd *cobra.Command, args []string) error {
	typ := core.OptionType(optType)
	if typ != core.OptionCall && typ != core.OptionPut {
		return fmt.Errorf("--type must be call or put, got %q", optType)
	}
	if optSpot <= 0 || optStrike <= 0 {
		return fmt.Errorf("--spot and --strike must be positive")
	}
	if optDays <= 0 {
		return fmt.Errorf("--days must be positive")
	}
	if optVol <= 0 {
		return fmt.Errorf("--vol must be positive")
	}

	t := float64(optDays) / 365
	price := options.Price(typ, optSpot, optStrike, t, optRate, optVol)
	g := options.CalculateGreeks(optSpot, optStrike, t, optRate, optVol, typ)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s S=%.2f K=%.2f T=%dd r=%.4f sigma=%.4f\n", typ.Label(), optSpot, optStrike, optDays, optRate, optVol)
	fmt.Fprintf(out, "Price: %.4f\n", price)
	fmt.Fprintf(out, "Delta: %.4f\n", g.Delta)
	fmt.Fprintf(out, "Gamma: %.4f\n", g.Gamma)
	fmt.Fprintf(out, "Theta: %.4f (per day)\n", g.Theta)
	fmt.Fprintf(out, "Vega:  %.4f\n", g.Vega)

	if optMarketPrice > 0 {
		iv, ok := options.ImpliedVolatility(optMarketPrice, optSpot, optStrike, t, optRate, typ)
		status := "converged"
		if !ok {
			status = "did not converge"
		}
		fmt.Fprintf(out, "Implied vol: %.4f (%s)\n", iv, status)
	}
	return nil
}
