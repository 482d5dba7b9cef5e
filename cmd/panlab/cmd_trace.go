package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Arash1381-y/PanicLabSim/internal/game"
	"github.com/Arash1381-y/PanicLabSim/internal/log"
	pnet "github.com/Arash1381-y/PanicLabSim/internal/net"
)

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace LAYOUT",
		Short: "Walk one hunt card by card",
		Long: `Resolve a single hunt and print every card it visits, every imprint
and the outcome. The hunt walks clockwise unless --direction is given;
the configured direction is not used.

Examples:
  panlab trace ring.txt --target "red dot single"
  panlab trace ring.txt --target "blue strip double" --start 4 --direction ccw`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyRunFlags(cmd, &cfg)
			// A traced hunt walks one way; the configured direction may be "both".
			if !cmd.Flags().Changed("direction") {
				cfg.Rules.Direction = "cw"
			}

			runner := pnet.NewRunner(cfg, newLogger(cmd, cfg))
			runner.LayoutsFile = args[0]

			layout, _ := cmd.Flags().GetString("layout")
			target, _ := cmd.Flags().GetString("target")
			req := pnet.Request{Layout: layout, Target: target}
			if cmd.Flags().Changed("start") {
				start, _ := cmd.Flags().GetInt("start")
				req.Start = &start
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				tv, err := runner.Trace(req)
				if err != nil {
					return err
				}
				writeJSON(cmd, tv)
				return nil
			}

			_, r, err := runner.Ring(req)
			if err != nil {
				return err
			}
			rules, err := runner.GameRules(req)
			if err != nil {
				return err
			}
			a, err := game.ParseArchetype(target)
			if err != nil {
				return fmt.Errorf("target: %w", err)
			}
			h, err := pnet.BuildHunt(r, a, req.Start, rules.Directions)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			outcome := game.Trace(r, h, rules.Imprint, log.NewTextLogger(out))
			if outcome.Matched {
				fmt.Fprintf(out, "Result: %s at %d\n", r.At(outcome.Index), outcome.Index)
			} else {
				fmt.Fprintln(out, "Result: no match")
			}
			return nil
		},
	}

	cmd.Flags().String("layout", "", "Layout name or number in a YAML layouts file (default: first)")
	cmd.Flags().StringP("target", "t", "", "Target amoeba, e.g. \"red dot single\"")
	cmd.Flags().Int("start", 0, "Start index (default: first lab of the target color)")
	cmd.Flags().String("imprint", "", "Evolution rule: next or rotate (default: config rules.imprint)")
	cmd.Flags().String("direction", "cw", "Walking direction: cw or ccw")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}
