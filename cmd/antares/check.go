package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chaimleib/antares/types"
)

var checkCmd = &cobra.Command{
	Use:   "check <dir>",
	Short: "Load and validate a scenario",
	Long: `Load every file of a scenario directory, resolve names and check
references. Errors name the file and the path of the bad field; warnings
(such as unused objects) are logged.

Examples:
  antares check scenarios/hades
  antares check scenarios/hades --log-level info`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkScenario(cmd.OutOrStdout(), args[0])
	},
}

func checkScenario(w io.Writer, dir string) error {
	s, err := loadScenario(dir)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, summarize(s))
	return nil
}

func summarize(s *types.Scenario) string {
	lvl := &s.Level
	title := lvl.Title
	if title == "" {
		title = s.Info.Title
	}
	return fmt.Sprintf("%s: ok (%d objects, %d players, %d initials, %d conditions, %d briefings)",
		title, len(s.Bases), len(lvl.Players), len(lvl.Initials), len(lvl.Conditions), len(lvl.Briefings))
}
