package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/balloonmath/internal/config"
	"github.com/vovakirdan/balloonmath/internal/platform/tui"
	"github.com/vovakirdan/balloonmath/internal/registry"
)

var flagDifficulty string

var playCmd = &cobra.Command{
	Use:   "play <time|survival>",
	Short: "Play a game mode",
	Long: `Start playing the given mode right away.

Modes:
  time      - 60 seconds, score as much as you can
  survival  - three lives, play until they run out

Controls:
  0-9 Enter  - Pop the lowest balloon with that number
  Click      - Pop a balloon
  H / T      - Pop the lowest heart / time bonus
  P          - Pause
  R          - Restart
  Esc/B      - Main menu
  Q/Ctrl+C   - Quit

Examples:
  balloonmath play time
  balloonmath play survival --difficulty hard
  balloonmath play time --config ./fast.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "easy", "Difficulty: easy, moderate, hard")
}

func runPlay(_ *cobra.Command, args []string) {
	modeID := strings.ToLower(args[0])
	if !registry.Exists(modeID) {
		fail("unknown mode %q\nRun 'balloonmath list' to see available modes.", args[0])
	}

	d, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		fail("%v", err)
	}

	runApp(tui.Options{StartMode: modeID, StartDifficulty: d})
}

// bellWriter rings the local terminal bell.
type bellWriter struct{}

func (bellWriter) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}
