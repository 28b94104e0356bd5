package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/chaimleib/antares/cli"
	"github.com/chaimleib/antares/tui"
)

var (
	flagPlain bool
	flagSpeed int
)

var playCmd = &cobra.Command{
	Use:   "play <dir>",
	Short: "Run a level in the terminal HUD",
	Long: `Run a level on a live clock with the mini-computer panel showing
admirals, the build list and messages.

Controls:
  Tab        - Pause/resume
  Ctrl+F/B   - Faster/slower
  PgUp/PgDn  - Scroll the log
  Ctrl+C     - Quit

Falls back to the plain-text runner when --plain is set or stdout is not
a terminal.

Examples:
  antares play scenarios/hades
  antares play scenarios/hades --speed 4`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagPlain, "plain", false, "Use the plain-text runner")
	playCmd.Flags().IntVar(&flagSpeed, "speed", 0, "Starting clock speed, 1 to 16 (default from config)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	dir := args[0]
	s, err := loadScenario(dir)
	if err != nil {
		return err
	}
	eng := newEngine(s, nil)
	saveDir := expandHome(cfg.ResultsDir)

	if flagPlain || !isTerminal() {
		c := cli.New(eng)
		c.SaveDir = saveDir
		c.Run()
	} else {
		speed := cfg.Speed
		if flagSpeed > 0 {
			speed = flagSpeed
		}
		if err := tui.Run(eng, tui.WithSpeed(speed), tui.WithSaveDir(saveDir)); err != nil {
			return err
		}
	}

	if eng.Elapsed > 0 {
		recordRun(cmd.OutOrStdout(), dir, eng.Result())
	}
	return nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
