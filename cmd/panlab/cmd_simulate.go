package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Arash1381-y/PanicLabSim/internal/config"
	"github.com/Arash1381-y/PanicLabSim/internal/game"
	pnet "github.com/Arash1381-y/PanicLabSim/internal/net"
	"github.com/Arash1381-y/PanicLabSim/internal/render"
	"github.com/Arash1381-y/PanicLabSim/internal/report"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate LAYOUT",
		Short: "Estimate how often each amoeba archetype is found",
		Long: `Run Monte Carlo trials against a ring and print the probability of each
amoeba archetype being the answer, plus the no-match residual.

LAYOUT is a text file with one card per line, or a YAML layouts file (use
--layout to pick an entry).

Examples:
  panlab simulate ring.txt
  panlab simulate layouts.yaml --layout 2 --trials 100000 --seed 7
  panlab simulate ring.txt --imprint rotate --direction both --no-plot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyRunFlags(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := newLogger(cmd, cfg)
			runner := pnet.NewRunner(cfg, logger)
			runner.LayoutsFile = args[0]
			runner.MaxTrials = 0
			runner.MaxWorkers = 0

			layout, _ := cmd.Flags().GetString("layout")
			run, err := runner.Simulate(cmd.Context(), pnet.Request{Layout: layout, Seed: cfg.Simulation.Seed}, nil)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				writeJSON(cmd, map[string]any{"run_id": run.ID, "result": run.View})
			} else {
				summary, err := report.NewSummary(run.Layout, run.Ring, run.Tally, run.Seed, run.Workers, run.Rules)
				if err != nil {
					return err
				}
				if err := report.Write(cmd.OutOrStdout(), summary); err != nil {
					return err
				}
			}

			if cfg.Output.NoPlot {
				return nil
			}
			shares, err := game.Normalize(run.Tally)
			if err != nil {
				return err
			}
			if err := render.PieChart(shares, cfg.Output.Pie); err != nil {
				return err
			}
			if err := render.Board(run.Ring, run.Tally, cfg.Output.Board, cfg.Output.CardScale); err != nil {
				return err
			}
			logger.Info().Str("pie", cfg.Output.Pie).Str("board", cfg.Output.Board).Msg("images written")
			return nil
		},
	}

	cmd.Flags().String("layout", "", "Layout name or number in a YAML layouts file (default: first)")
	cmd.Flags().IntP("trials", "n", game.DefaultTrials, "Number of trials")
	cmd.Flags().Uint64("seed", 0, "Random seed (0 = random)")
	cmd.Flags().IntP("workers", "w", 1, "Parallel shards (0 = one per CPU)")
	cmd.Flags().String("imprint", "next", "Evolution rule: next or rotate")
	cmd.Flags().String("labs", "uniform", "Start lab choice: uniform or first")
	cmd.Flags().String("direction", "cw", "Walking direction: cw, ccw or both")
	cmd.Flags().String("pie", "results.png", "Pie chart output path")
	cmd.Flags().String("board", "board.png", "Board image output path")
	cmd.Flags().Float64("card-scale", 1, "Board tile scale")
	cmd.Flags().Bool("no-plot", false, "Skip writing images")
	return cmd
}

// applyRunFlags copies explicitly set flags over the loaded configuration.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("trials") {
		cfg.Simulation.Trials, _ = flags.GetInt("trials")
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("workers") {
		cfg.Simulation.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("imprint") {
		cfg.Rules.Imprint, _ = flags.GetString("imprint")
	}
	if flags.Changed("labs") {
		cfg.Rules.Labs, _ = flags.GetString("labs")
	}
	if flags.Changed("direction") {
		cfg.Rules.Direction, _ = flags.GetString("direction")
	}
	if flags.Changed("pie") {
		cfg.Output.Pie, _ = flags.GetString("pie")
	}
	if flags.Changed("board") {
		cfg.Output.Board, _ = flags.GetString("board")
	}
	if flags.Changed("card-scale") {
		cfg.Output.CardScale, _ = flags.GetFloat64("card-scale")
	}
	if flags.Changed("no-plot") {
		cfg.Output.NoPlot, _ = flags.GetBool("no-plot")
	}
}

func writeJSON(cmd *cobra.Command, v any) {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "encode JSON: %v\n", err)
	}
}
