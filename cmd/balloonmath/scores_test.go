package main

import (
	"testing"

	"github.com/vovakirdan/balloonmath/internal/config"
	"github.com/vovakirdan/balloonmath/internal/engine"
)

func TestScoresFilter(t *testing.T) {
	flagScoresDate, flagScoresMode, flagScoresDifficulty = "2025-06-01", "survival", "normal"
	defer func() { flagScoresDate, flagScoresMode, flagScoresDifficulty = "", "", "" }()

	f, err := scoresFilter()
	if err != nil {
		t.Fatalf("scoresFilter failed: %v", err)
	}
	if f.Date != "2025-06-01" || f.Mode == nil || *f.Mode != engine.ModeSurvival || f.Difficulty != config.DifficultyModerate {
		t.Errorf("Unexpected filter %+v", f)
	}
}

func TestScoresFilterRejectsBadInput(t *testing.T) {
	defer func() { flagScoresDate, flagScoresMode, flagScoresDifficulty = "", "", "" }()

	tests := []struct {
		name             string
		date, mode, diff string
	}{
		{"bad date", "06/01/2025", "", ""},
		{"bad mode", "", "zen", ""},
		{"bad difficulty", "", "", "insane"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flagScoresDate, flagScoresMode, flagScoresDifficulty = tt.date, tt.mode, tt.diff
			if _, err := scoresFilter(); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestScoresFilterEmpty(t *testing.T) {
	f, err := scoresFilter()
	if err != nil {
		t.Fatal(err)
	}
	if f.Date != "" || f.Mode != nil || f.Difficulty != "" {
		t.Errorf("Expected an empty filter, got %+v", f)
	}
}
