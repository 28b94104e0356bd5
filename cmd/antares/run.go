package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chaimleib/antares/cli"
	"github.com/chaimleib/antares/engine"
	"github.com/chaimleib/antares/engine/save"
	"github.com/chaimleib/antares/observe"
	"github.com/chaimleib/antares/storage"
	"github.com/chaimleib/antares/types"
)

var (
	flagTicks    int64
	flagScript   string
	flagTrace    bool
	flagMetrics  bool
	flagNoRecord bool
)

var runCmd = &cobra.Command{
	Use:   "run <dir>",
	Short: "Simulate a level headless or from a script",
	Long: `Run a level without the HUD. Without --script the level runs tick by
tick until a winner is declared or --ticks have passed. With --script the
file's lines are fed to the plain-text runner (tick, status, queue, ...).

The result is recorded in the results database unless --no-record is set.

Examples:
  antares run scenarios/hades
  antares run scenarios/hades --ticks 3600 --seed 7 --metrics
  antares run scenarios/hades --script walkthrough.txt --trace`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().Int64Var(&flagTicks, "ticks", 0, "Ticks to simulate (default from config)")
	runCmd.Flags().StringVar(&flagScript, "script", "", "Feed commands from a script file")
	runCmd.Flags().BoolVar(&flagTrace, "trace", false, "Show trace output in script mode")
	runCmd.Flags().BoolVar(&flagMetrics, "metrics", false, "Print engine metrics when the run ends")
	runCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Do not record the result")
}

func runRun(cmd *cobra.Command, args []string) error {
	dir := args[0]
	out := cmd.OutOrStdout()

	s, err := loadScenario(dir)
	if err != nil {
		return err
	}

	var report *meterReport
	var metrics *observe.Metrics
	if flagMetrics {
		if report, err = newMeterReport(); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		defer report.Shutdown(cmd.Context())
		metrics = report.Metrics
	}
	eng := newEngine(s, metrics)

	if flagScript != "" {
		f, err := os.Open(flagScript)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()

		c := cli.New(eng)
		c.In = f
		c.Out = out
		c.EchoInput = true
		c.Trace = flagTrace
		c.SaveDir = expandHome(cfg.ResultsDir)
		c.Run()
	} else {
		ticks := flagTicks
		if ticks <= 0 {
			ticks = cfg.Ticks
		}
		simulate(eng, types.Ticks(ticks))
		printResult(out, eng.Result())
	}

	if report != nil {
		fmt.Fprintln(out)
		if err := report.Write(cmd.Context(), out); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	if !flagNoRecord {
		recordRun(out, dir, eng.Result())
	}
	return nil
}

// simulate advances eng one tick at a time until it is over or ticks have
// passed.
func simulate(eng *engine.Engine, ticks types.Ticks) {
	eng.Start()
	for i := types.Ticks(0); i < ticks && !eng.Over(); i++ {
		eng.Tick(1)
	}
}

func printResult(w io.Writer, r engine.Result) {
	secs := float64(r.Elapsed) / types.TicksPerSecond
	if r.Winner < 0 || int(r.Winner) >= len(r.Admirals) {
		fmt.Fprintf(w, "%s: no winner after %.1fs\n", r.Title, secs)
	} else {
		fmt.Fprintf(w, "%s: %s wins after %.1fs\n", r.Title, r.Admirals[r.Winner].Name, secs)
	}
	if r.Text != "" {
		fmt.Fprintln(w, r.Text)
	}
	for _, a := range r.Admirals {
		fmt.Fprintf(w, "  %-16s score %-14v kills %-3d losses %-3d cash %s\n",
			a.Name, a.Score, a.Kills, a.Losses, a.Cash)
	}
	if r.Dropped > 0 {
		fmt.Fprintf(w, "  %d deferred batch(es) dropped\n", r.Dropped)
	}
}

// recordRun stores the result. A database that cannot be opened is
// reported and otherwise ignored.
func recordRun(w io.Writer, dir string, r engine.Result) {
	store, err := storage.Open(expandHome(cfg.DBPath))
	if err != nil {
		logger.Warn("could not open results database", "err", err)
		return
	}
	defer store.Close()

	id, err := store.SaveRun(dir, save.FromResult(r))
	if err != nil {
		logger.Warn("could not record run", "err", err)
		return
	}
	fmt.Fprintf(w, "Recorded run #%d.\n", id)
}
