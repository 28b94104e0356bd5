package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chaimleib/antares/engine/save"
	"github.com/chaimleib/antares/storage"
	"github.com/chaimleib/antares/types"
)

var (
	flagLimit int
	flagClear bool
	flagID    int64
)

var resultsCmd = &cobra.Command{
	Use:   "results [level]",
	Short: "Show recorded runs",
	Long: `Without a level, list the most recent runs. With a level title, list
its best runs: highest score first, faster runs first on equal scores.

Examples:
  antares results
  antares results "Hades Gate" --limit 5
  antares results --id 12
  antares results "Hades Gate" --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
	resultsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every run of the level")
	resultsCmd.Flags().Int64Var(&flagID, "id", 0, "Print the full record of one run")
}

func runResults(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	var level string
	if len(args) > 0 {
		level = args[0]
	}
	if flagClear && level == "" {
		return fmt.Errorf("--clear needs a level")
	}

	store, err := storage.Open(expandHome(cfg.DBPath))
	if err != nil {
		return fmt.Errorf("opening results database: %w", err)
	}
	defer store.Close()

	switch {
	case flagID > 0:
		return showRun(out, store, flagID)

	case flagClear:
		if err := store.ClearRuns(level); err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared runs of %s.\n", level)
		return nil

	case level != "":
		runs, err := store.BestRuns(level, flagLimit)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Best runs - %s\n\n", level)
		printRuns(out, runs)

	default:
		runs, err := store.RecentRuns(flagLimit)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Recent runs\n\n")
		printRuns(out, runs)
	}
	return nil
}

func showRun(w io.Writer, store *storage.Store, id int64) error {
	r, err := store.Run(id)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("no run #%d", id)
	}
	data, err := save.Encode(*r.Record)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Run #%d of %s\n", r.ID, r.Scenario)
	fmt.Fprintln(w, string(data))
	return nil
}

func printRuns(w io.Writer, runs []storage.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return
	}

	fmt.Fprintf(w, "  %-4s  %-20s  %-12s  %-8s  %-6s  %s\n", "ID", "Level", "Winner", "Time", "Score", "Date")
	fmt.Fprintf(w, "  %-4s  %-20s  %-12s  %-8s  %-6s  %s\n", "--", "-----", "------", "----", "-----", "----")
	for _, r := range runs {
		winner := r.Winner
		if winner == "" {
			winner = "-"
		}
		secs := float64(r.Ticks) / types.TicksPerSecond
		fmt.Fprintf(w, "  %-4d  %-20s  %-12s  %-8s  %-6d  %s\n",
			r.ID, r.Level, winner, fmt.Sprintf("%.1fs", secs), r.Score, r.CreatedAt.Format("2006-01-02 15:04"))
	}
}
