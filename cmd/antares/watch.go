package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chaimleib/antares/loader"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Re-check a scenario whenever its files change",
	Long: `Check the scenario, then watch the directory and its objects/ folder
and check again after every change to a scenario source file. Stop with
Ctrl+C.

Examples:
  antares watch scenarios/hades`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if err := checkScenario(out, dir); err != nil {
		fmt.Fprintln(out, err)
	}

	w, err := loader.NewWatcher(dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	defer w.Close()
	logger.Info("watching", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-w.Events:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "changed: %s\n", name)
			if err := checkScenario(out, dir); err != nil {
				fmt.Fprintln(out, err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch failed", "err", err)
		}
	}
}
