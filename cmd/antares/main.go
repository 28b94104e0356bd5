// antares loads and runs scenario levels.
//
// Usage:
//
//	antares check <dir>     - Load and validate a scenario
//	antares run <dir>       - Simulate a level headless or from a script
//	antares play <dir>      - Run a level in the terminal HUD
//	antares results [level] - Show recorded runs
//	antares watch <dir>     - Re-check a scenario whenever its files change
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.antares/config.yaml)
//	--db <path>         - Results database (default: ~/.antares/results.db)
//	--seed <value>      - RNG seed for reproducible runs
//	--log-level <level> - debug, info, warn or error
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chaimleib/antares/engine"
	"github.com/chaimleib/antares/loader"
	"github.com/chaimleib/antares/observe"
	"github.com/chaimleib/antares/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagSeed     int64
	flagLogLevel string

	cfg    = DefaultConfig()
	logger = log.New(io.Discard)
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "antares",
	Short:   "Antares - load and run scenario levels",
	Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	Long: `Antares loads declarative scenario directories (level plus objects in
JSON, YAML or Lua) and runs their levels on the deferred action engine.

Examples:
  antares check scenarios/hades
  antares run scenarios/hades --ticks 3600
  antares run scenarios/hades --script walkthrough.txt
  antares play scenarios/hades
  antares results "Hades Gate"`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to results database")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(watchCmd)
}

// setup loads the config and applies global flag overrides.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	if cfg, err = LoadConfig(flagConfig); err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = flagDBPath
	}
	if flags.Changed("seed") {
		cfg.Seed = flagSeed
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if logger, err = newLogger(cfg.LogLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	return nil
}

func loadScenario(dir string) (*types.Scenario, error) {
	s, err := loader.LoadDir(dir, loader.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", dir, err)
	}
	return s, nil
}

func newEngine(s *types.Scenario, metrics *observe.Metrics) *engine.Engine {
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}
	return engine.New(s,
		engine.WithLogger(logger),
		engine.WithMetrics(metrics),
		engine.WithSeed(cfg.Seed),
	)
}
