// Package config provides configuration loading for the panlab binaries.
// Values come from defaults, then an optional YAML file, then PANLAB_*
// environment variables. Command-line flags are applied by the callers.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/Arash1381-y/PanicLabSim/internal/game"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "PANLAB_"

// Config contains all panlab settings.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation" envPrefix:"SIM_"`
	Rules      RulesConfig      `yaml:"rules" envPrefix:"RULES_"`
	Output     OutputConfig     `yaml:"output" envPrefix:"OUTPUT_"`
	Logging    LoggingConfig    `yaml:"logging" envPrefix:"LOG_"`
	Server     ServerConfig     `yaml:"server" envPrefix:"SERVER_"`
}

// SimulationConfig controls the Monte Carlo run.
type SimulationConfig struct {
	// Trials is the number of hunts to simulate.
	Trials int `yaml:"trials" env:"TRIALS"`

	// Seed fixes the random source. 0 picks a fresh seed per run.
	Seed uint64 `yaml:"seed" env:"SEED"`

	// Workers is the number of parallel shards (0 = one per CPU, 1 = serial).
	Workers int `yaml:"workers" env:"WORKERS"`
}

// RulesConfig selects the traversal policies by name.
type RulesConfig struct {
	Imprint   string `yaml:"imprint" env:"IMPRINT"`
	Labs      string `yaml:"labs" env:"LABS"`
	Direction string `yaml:"direction" env:"DIRECTION"`
}

// OutputConfig controls the rendered images.
type OutputConfig struct {
	Pie       string  `yaml:"pie" env:"PIE"`
	Board     string  `yaml:"board" env:"BOARD"`
	CardScale float64 `yaml:"card_scale" env:"CARD_SCALE"`
	NoPlot    bool    `yaml:"no_plot" env:"NO_PLOT"`
}

// LoggingConfig configures operational logging.
type LoggingConfig struct {
	// Level is "debug", "info" (default), "warn" or "error".
	Level string `yaml:"level" env:"LEVEL"`

	// Pretty switches from JSON lines to console output.
	Pretty bool `yaml:"pretty" env:"PRETTY"`
}

// ServerConfig configures the TCP, web and MCP front ends.
type ServerConfig struct {
	Port     string `yaml:"port" env:"PORT"`
	HTTPAddr string `yaml:"http_addr" env:"HTTP_ADDR"`
	Layouts  string `yaml:"layouts" env:"LAYOUTS"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Simulation: SimulationConfig{
			Trials:  game.DefaultTrials,
			Workers: 1,
		},
		Rules: RulesConfig{
			Imprint:   game.ImprintNextAmoeba.String(),
			Labs:      game.LabUniform.String(),
			Direction: game.DirectionsClockwise.String(),
		},
		Output: OutputConfig{
			Pie:       "results.png",
			Board:     "board.png",
			CardScale: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
		Server: ServerConfig{
			Port:     "9000",
			HTTPAddr: ":8080",
			Layouts:  "layouts.yaml",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is non-empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config YAML: %w", err)
		}
	}

	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv overlays PANLAB_* environment variables onto target.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks value ranges and rule names.
func (c Config) Validate() error {
	var errs []error
	if c.Simulation.Trials <= 0 {
		errs = append(errs, fmt.Errorf("simulation.trials: %w", game.ErrZeroTrials))
	}
	if c.Simulation.Workers < 0 {
		errs = append(errs, fmt.Errorf("simulation.workers must be >= 0, got %d", c.Simulation.Workers))
	}
	if c.Output.CardScale <= 0 {
		errs = append(errs, fmt.Errorf("output.card_scale must be > 0, got %g", c.Output.CardScale))
	}
	if _, err := c.GameRules(); err != nil {
		errs = append(errs, fmt.Errorf("rules: %w", err))
	}
	return errors.Join(errs...)
}

// GameRules converts the rule names into game.Rules.
func (c Config) GameRules() (game.Rules, error) {
	return game.ParseRules(c.Rules.Imprint, c.Rules.Labs, c.Rules.Direction)
}
