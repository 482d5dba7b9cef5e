package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	pnet "github.com/Arash1381-y/PanicLabSim/internal/net"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve simulations over TCP",
		Long: `Start a TCP server answering newline-delimited JSON requests
(simulate, trace, layouts) against a YAML layouts file.

Examples:
  panlab serve --layouts layouts.yaml --port 9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port, _ = cmd.Flags().GetString("port")
			}
			if cmd.Flags().Changed("layouts") {
				cfg.Server.Layouts, _ = cmd.Flags().GetString("layouts")
			}

			logger := newLogger(cmd, cfg)
			srv := &pnet.Server{
				Port:   cfg.Server.Port,
				Runner: pnet.NewRunner(cfg, logger),
				Logger: logger,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().String("port", "9000", "TCP port to listen on")
	cmd.Flags().String("layouts", "layouts.yaml", "Path to the layouts YAML file")
	return cmd
}

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query simulate|trace|layouts",
		Short: "Send one request to a panlab server",
		Long: `Send a request to a running "panlab serve" and print the reply.

Examples:
  panlab query layouts
  panlab query simulate --layout starter --trials 50000 --seed 3
  panlab query trace --layout 2 --target "red dot single"`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{pnet.TypeSimulate, pnet.TypeTrace, pnet.TypeLayouts},
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			addr, _ := flags.GetString("addr")
			timeout, _ := flags.GetDuration("timeout")

			msg := pnet.ClientMessage{Type: args[0]}
			msg.Layout, _ = flags.GetString("layout")
			msg.Trials, _ = flags.GetInt("trials")
			msg.Seed, _ = flags.GetUint64("seed")
			msg.Workers, _ = flags.GetInt("workers")
			msg.Imprint, _ = flags.GetString("imprint")
			msg.Labs, _ = flags.GetString("labs")
			msg.Direction, _ = flags.GetString("direction")
			msg.Target, _ = flags.GetString("target")
			if cards, _ := flags.GetString("cards"); cards != "" {
				msg.Cards = strings.Split(cards, ";")
			}
			if flags.Changed("start") {
				start, _ := flags.GetInt("start")
				msg.Start = &start
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			jsonOut, _ := flags.GetBool("json")
			quiet := jsonOut
			reply, err := pnet.Query(ctx, addr, msg, func(p pnet.ProgressView) {
				if !quiet {
					pnet.RenderProgress(cmd.ErrOrStderr(), p)
				}
			})
			if err != nil && reply.Type != pnet.TypeError {
				return err
			}
			if jsonOut {
				writeJSON(cmd, reply)
			} else {
				pnet.RenderMessage(cmd.OutOrStdout(), reply)
			}
			// On an error reply err wraps pnet.ErrServer with the server's message.
			return err
		},
	}

	cmd.Flags().String("addr", "localhost:9000", "Server address")
	cmd.Flags().Duration("timeout", 5*time.Minute, "Request timeout")
	cmd.Flags().String("layout", "", "Layout name or number on the server")
	cmd.Flags().String("cards", "", "Inline layout, cards separated by ';'")
	cmd.Flags().Int("trials", 0, "Number of trials (default: server config)")
	cmd.Flags().Uint64("seed", 0, "Random seed (0 = random)")
	cmd.Flags().Int("workers", 0, "Parallel shards (default: server config)")
	cmd.Flags().String("imprint", "", "Evolution rule: next or rotate")
	cmd.Flags().String("labs", "", "Start lab choice: uniform or first")
	cmd.Flags().String("direction", "", "Walking direction: cw, ccw or both")
	cmd.Flags().String("target", "", "Target amoeba for trace")
	cmd.Flags().Int("start", 0, "Start index for trace")
	return cmd
}
