package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/balloonmath/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the interactive menu",
	Long: `Start Balloon Math with the main menu.

Pick a game mode, then a difficulty. After a game ends press R to play
again or Esc to return to the menu. Tab opens the score history.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Esc/B        - Back
  Q            - Quit

Examples:
  balloonmath menu
  balloonmath menu --fps 30
  balloonmath menu --db ./scores.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	runApp(tui.Options{})
}

// runApp fills in the shared options and runs the TUI.
func runApp(opts tui.Options) {
	logger, closeLog := openLogger()
	defer closeLog()

	scores, closeScores := openScores(logger)
	defer closeScores()

	opts.Config = loadConfig()
	opts.Runtime = runtimeConfig()
	opts.Scores = scores
	opts.Logger = logger
	opts.Bell = bellWriter{}

	if err := tui.Run(opts); err != nil {
		logger.Error("program exited with error", "error", err)
		closeScores()
		fail("%v", err)
	}
}
