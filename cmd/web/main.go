package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/Arash1381-y/PanicLabSim/internal/config"
	"github.com/Arash1381-y/PanicLabSim/internal/logging"
	pnet "github.com/Arash1381-y/PanicLabSim/internal/net"
	"github.com/Arash1381-y/PanicLabSim/internal/web"
)

func main() {
	_ = godotenv.Load()

	configFile := flag.String("config", "", "path to a YAML config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	layouts := flag.String("layouts", "", "path to layouts YAML file (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.HTTPAddr = *addr
	}
	if *layouts != "" {
		cfg.Server.Layouts = *layouts
	}

	logger := logging.NewLogger(cfg.Logging.Level, os.Stderr, cfg.Logging.Pretty)
	srv := web.NewServer(pnet.NewRunner(cfg, logger), logger)
	if err := srv.ListenAndServe(cfg.Server.HTTPAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
