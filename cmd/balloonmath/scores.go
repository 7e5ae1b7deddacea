package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/balloonmath/internal/config"
	"github.com/vovakirdan/balloonmath/internal/engine"
	"github.com/vovakirdan/balloonmath/internal/storage"
)

var (
	flagScoresDate       string
	flagScoresMode       string
	flagScoresDifficulty string
	flagScoresLimit      int
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the score history",
	Long: `Display finished games, most recent first. A star marks the best
score of each mode and difficulty. Best scores and per-mode stats follow.

Examples:
  balloonmath scores
  balloonmath scores --mode survival --difficulty hard
  balloonmath scores --date 2025-06-01`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresDate, "date", "", "Only games played on this day (YYYY-MM-DD)")
	scoresCmd.Flags().StringVar(&flagScoresMode, "mode", "", "Only this mode: time or survival")
	scoresCmd.Flags().StringVar(&flagScoresDifficulty, "difficulty", "", "Only this difficulty: easy, moderate or hard")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 20, "Maximum number of games to list (0 = all)")
}

func runScores(_ *cobra.Command, _ []string) {
	filter, err := scoresFilter()
	if err != nil {
		fail("%v", err)
	}

	kv, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening scores database: %v", err)
	}
	defer kv.Close()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "scores"})
	store := storage.NewScoreStore(kv, logger)
	ctx := context.Background()

	entries := store.Query(ctx, filter)
	fmt.Println("Score History")
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Println("Play 'balloonmath play time' to set the first high score!")
		return
	}

	fmt.Printf("  %-16s  %-13s  %-10s  %6s\n", "When", "Mode", "Difficulty", "Score")
	fmt.Printf("  %-16s  %-13s  %-10s  %6s\n", "----", "----", "----------", "-----")
	for i, e := range entries {
		if flagScoresLimit > 0 && i >= flagScoresLimit {
			fmt.Printf("  ... %d more\n", len(entries)-flagScoresLimit)
			break
		}
		mark := ""
		if e.IsHighest {
			mark = " ★"
		}
		fmt.Printf("  %-16s  %-13s  %-10s  %6d%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04"), e.Mode, e.Difficulty.Title(), e.Score, mark)
	}

	fmt.Println()
	fmt.Println("Best scores")
	for _, mode := range engine.Modes() {
		fmt.Printf("  %-13s", mode)
		for _, d := range config.Difficulties() {
			fmt.Printf("  %s %d", d.Title(), store.HighScore(ctx, mode, d))
		}
		fmt.Println()
	}

	stats := store.Stats(ctx)
	if len(stats) > 0 {
		fmt.Println()
		fmt.Println("Stats")
		for _, st := range stats {
			fmt.Printf("  %-13s  %-8s  %3d games  avg %5.1f  last %s\n",
				st.Mode, st.Difficulty.Title(), st.Games, st.Average, st.LastPlayed.Local().Format("2006-01-02"))
		}
	}
}

// scoresFilter builds the history filter from the flags.
func scoresFilter() (storage.Filter, error) {
	var f storage.Filter
	if flagScoresDate != "" {
		if _, err := time.Parse(time.DateOnly, flagScoresDate); err != nil {
			return f, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", flagScoresDate)
		}
		f.Date = flagScoresDate
	}
	if flagScoresMode != "" {
		mode, err := engine.ParseMode(flagScoresMode)
		if err != nil {
			return f, err
		}
		f.Mode = &mode
	}
	if flagScoresDifficulty != "" {
		d, err := config.ParseDifficulty(flagScoresDifficulty)
		if err != nil {
			return f, err
		}
		f.Difficulty = d
	}
	return f, nil
}
