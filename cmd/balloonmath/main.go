// balloonmath is a terminal arithmetic game: pop the falling balloon that
// carries the answer before it reaches the ground.
//
// Usage:
//
//	balloonmath                 - Start the interactive menu
//	balloonmath menu            - Start the interactive menu
//	balloonmath play <mode>     - Play time or survival mode directly
//	balloonmath scores          - Show the score history and best scores
//	balloonmath list            - List game modes
//	balloonmath serve           - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>     - Set tick rate (default: 60)
//	--seed <value>   - Set RNG seed for reproducible gameplay
//	--db <path>      - Set database path (default: ~/.balloonmath/scores.db)
//	--config <path>  - Load game tuning from a YAML or TOML file
//	--log <path>     - Log file for interactive play
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/balloonmath/internal/config"
	"github.com/vovakirdan/balloonmath/internal/core"
	"github.com/vovakirdan/balloonmath/internal/storage"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagLogPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "balloonmath",
	Short: "Balloon Math - pop the right answer in your terminal",
	Long: `Balloon Math is an arithmetic reflex game. A problem is shown at the
top of the screen and numbered balloons fall through the field: pop the one
carrying the answer by clicking it or typing its number and pressing Enter.

Available commands:
  menu     - Interactive menu (default)
  play     - Play a game mode directly
  scores   - Score history, best scores and stats
  list     - Show the game modes
  serve    - Start SSH server for remote play

Examples:
  balloonmath
  balloonmath play survival --difficulty hard
  balloonmath scores --mode time
  balloonmath serve --ssh :2222`,
	Run: runMenu,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.balloonmath/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a game tuning file (.yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "~/.balloonmath/balloonmath.log", "Log file for interactive play")

	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(serveCmd)
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig loads the game tuning or exits.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	return cfg
}

// runtimeConfig builds the runtime config from the flags and terminal size.
func runtimeConfig() core.RuntimeConfig {
	rt := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rt.ScreenW = w
		rt.ScreenH = h
	}
	rt.TickRate = flagFPS
	rt.Seed = flagSeed
	return rt
}

// openLogger opens the log file used while the alternate screen is active.
// Logging is discarded when the file cannot be opened.
func openLogger() (*log.Logger, func()) {
	path, err := storage.ExpandPath(flagLogPath)
	if err == nil {
		err = os.MkdirAll(filepath.Dir(path), 0o755)
	}
	var f *os.File
	if err == nil {
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel}), func() {}
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "balloonmath",
		Level:           log.DebugLevel,
	})
	return logger, func() { f.Close() }
}

// openScores opens the score store. If the database cannot be opened the
// game still runs with scores kept in memory.
func openScores(logger *log.Logger) (*storage.ScoreStore, func()) {
	var kv storage.KV
	kv, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("scores will not persist", "error", err)
		kv = storage.NewMemoryKV()
	}
	return storage.NewScoreStore(kv, logger.WithPrefix("scores")), func() { kv.Close() }
}
