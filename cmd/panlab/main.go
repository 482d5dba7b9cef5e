package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Arash1381-y/PanicLabSim/internal/config"
	"github.com/Arash1381-y/PanicLabSim/internal/logging"
)

var version = "0.1.0-dev"

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "panlab",
		Short: "Panic Lab hunt estimator",
		Long: `panlab estimates, by Monte Carlo simulation, how often each amoeba on a
Panic Lab card ring is the answer to a hunt.

A ring is described one card per line (lab, vent, evolution, amoeba) or as
named layouts in a YAML file.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newVersionCmd(),
		newSimulateCmd(),
		newTraceCmd(),
		newValidateCmd(),
		newServeCmd(),
		newQueryCmd(),
	)
	return rootCmd
}

// loadConfig reads the --config file and environment, then applies the
// global flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}
	return cfg, nil
}

// newLogger writes operational logs to stderr so stdout stays clean for
// results.
func newLogger(cmd *cobra.Command, cfg config.Config) zerolog.Logger {
	return logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr(), cfg.Logging.Pretty)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				writeJSON(cmd, map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "panlab version %s\n", version)
			}
		},
	}
}
