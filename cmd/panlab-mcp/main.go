package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Arash1381-y/PanicLabSim/internal/config"
	"github.com/Arash1381-y/PanicLabSim/internal/logging"
	panlabmcp "github.com/Arash1381-y/PanicLabSim/internal/mcp"
	pnet "github.com/Arash1381-y/PanicLabSim/internal/net"
)

var version = "0.1.0-dev"

func main() {
	_ = godotenv.Load()

	configFile := flag.String("config", "", "path to a YAML config file")
	layouts := flag.String("layouts", "", "path to layouts YAML file (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *layouts != "" {
		cfg.Server.Layouts = *layouts
	}

	// stdout carries the MCP protocol; logs go to stderr.
	logger := logging.NewLogger(cfg.Logging.Level, os.Stderr, false)
	sess := panlabmcp.NewSession(pnet.NewRunner(cfg, logger))

	s := server.NewMCPServer("panlab", version, server.WithToolCapabilities(false))
	panlabmcp.RegisterTools(s, sess)

	logger.Info().Str("layouts", cfg.Server.Layouts).Msg("mcp server ready")
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
