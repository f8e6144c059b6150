package cli

import (
	"fmt"

	"prediction-sizer-go/internal/sizing"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sizer",
		Short: "Position sizing and expected value calculator for prediction markets",
		Long: `sizer turns a trade thesis (entry, target, stop, win probability) into a
Kelly-criterion position size, an expected value estimate, and a portfolio
exposure check -- the same pipeline the sizerd service runs, without a server.`,
	}

	rootCmd.AddCommand(newEvalCmd())
	rootCmd.AddCommand(newOddsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newEvalCmd() *cobra.Command {
	var (
		entry      float64
		target     float64
		stop       float64
		confidence int
		bankroll   float64
		exposure   float64
		mode       string
		direction  string
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a trade thesis and print a sizing recommendation",
		Long: `Evaluate a trade thesis against a bankroll.
Example: sizer eval --entry=0.40 --target=0.60 --stop=0.30 --confidence=55 --bankroll=10000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			winProbability, err := sizing.ProbabilityFromPercent(confidence)
			if err != nil {
				return err
			}

			dir := sizing.Direction(direction)
			if dir != sizing.DirectionLong && dir != sizing.DirectionShort {
				return fmt.Errorf("unknown direction %q", direction)
			}

			policy := sizing.DefaultPolicy()
			policy.RiskMode = sizing.RiskMode(mode)
			engine, err := sizing.NewEngine(policy)
			if err != nil {
				return err
			}

			eval, err := engine.Evaluate(
				sizing.TradeProposal{
					Direction:      dir,
					EntryPrice:     entry,
					TargetPrice:    target,
					StopLossPrice:  stop,
					WinProbability: winProbability,
				},
				sizing.BankrollState{
					TotalBankroll:    bankroll,
					ExistingExposure: exposure,
				},
			)
			if err != nil {
				return err
			}

			printEvaluation(cmd, eval)
			return nil
		},
	}

	cmd.Flags().Float64Var(&entry, "entry", 0, "Entry price in (0, 1)")
	cmd.Flags().Float64Var(&target, "target", 0, "Target (take profit) price")
	cmd.Flags().Float64Var(&stop, "stop", 0, "Stop loss price")
	cmd.Flags().IntVar(&confidence, "confidence", 0, "Win probability as an integer percent, 1-99")
	cmd.Flags().Float64Var(&bankroll, "bankroll", 10000, "Total bankroll in dollars")
	cmd.Flags().Float64Var(&exposure, "exposure", 0, "Existing open exposure in dollars")
	cmd.Flags().StringVar(&mode, "mode", "quarter", "Kelly mode: quarter, half or full")
	cmd.Flags().StringVar(&direction, "direction", "long", "Trade direction: long or short")
	cmd.MarkFlagRequired("entry")
	cmd.MarkFlagRequired("target")
	cmd.MarkFlagRequired("stop")
	cmd.MarkFlagRequired("confidence")

	return cmd
}

func newOddsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "odds [PRICE]",
		Short: "Convert a market price into decimal odds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var price float64
			if _, err := fmt.Sscanf(args[0], "%f", &price); err != nil {
				return fmt.Errorf("invalid price %q", args[0])
			}

			odds, err := sizing.PriceToDecimalOdds(price)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Price:               %.4f\n", price)
			fmt.Fprintf(out, "Decimal odds:        %.4f\n", odds)
			fmt.Fprintf(out, "Implied probability: %.2f%%\n", sizing.ImpliedProbability(odds)*100)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "sizer v1.0.0")
		},
	}
}

func printEvaluation(cmd *cobra.Command, eval sizing.Evaluation) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Decimal odds:    %.4f\n", eval.DecimalOdds)
	fmt.Fprintf(out, "Edge:            %+.4f\n", eval.Kelly.Edge)
	fmt.Fprintf(out, "Expected value:  %+.2f%% per dollar\n", eval.ExpectedValue.ExpectedValuePercent)
	fmt.Fprintf(out, "Kelly fractions: full %.2f%%  half %.2f%%  quarter %.2f%%\n",
		eval.Kelly.FullKelly*100, eval.Kelly.HalfKelly*100, eval.Kelly.QuarterKelly*100)
	fmt.Fprintf(out, "Risk mode:       %s\n", eval.RiskMode)
	fmt.Fprintf(out, "Position size:   $%.2f (%.2f%% of bankroll)\n",
		eval.Position.PositionSize, eval.Position.PositionPercent)
	fmt.Fprintf(out, "Max gain:        $%.2f\n", eval.Position.MaxGain)
	fmt.Fprintf(out, "Max loss:        $%.2f\n", eval.Position.MaxLoss)
	if eval.Position.RiskRewardDefined {
		fmt.Fprintf(out, "Risk/reward:     %.2f\n", eval.Position.RiskRewardRatio)
	} else {
		fmt.Fprintf(out, "Risk/reward:     n/a (no loss distance)\n")
	}
	fmt.Fprintf(out, "Exposure after:  %.2f%% of bankroll\n", eval.Exposure.ExposurePercent)

	for _, warning := range eval.Warnings {
		fmt.Fprintf(out, "Warning:         %s\n", warning)
	}
}
