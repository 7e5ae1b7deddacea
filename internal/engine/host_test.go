package engine

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/balloonmath/internal/config"
)

func TestHostGenerations(t *testing.T) {
	h := NewHost(config.Default(), testRuntime(5))

	if _, err := h.Replay(); !errors.Is(err, ErrNothingToReplay) {
		t.Errorf("Expected ErrNothingToReplay, got %v", err)
	}

	s1 := h.Play(ModeSurvival, config.DifficultyHard)
	if s1.Status() != StatusCountdown {
		t.Errorf("Play should start the countdown, got %s", s1.Status())
	}
	if s1.Generation() != 1 || !h.IsCurrent(1) {
		t.Errorf("Expected generation 1 to be current, got %d", s1.Generation())
	}

	s2, err := h.Replay()
	if err != nil {
		t.Fatal(err)
	}
	if s2.Mode() != ModeSurvival || s2.Difficulty() != config.DifficultyHard {
		t.Errorf("Replay changed mode or difficulty: %s %s", s2.Mode(), s2.Difficulty())
	}
	if h.IsCurrent(1) {
		t.Error("Generation 1 should be stale after replay")
	}
	if !h.IsCurrent(2) || h.Current() != s2 {
		t.Error("Replay session should be current")
	}

	h.Leave()
	if h.Current() != nil {
		t.Error("Leave should drop the session")
	}
	if h.IsCurrent(2) || h.IsCurrent(h.Generation()) {
		t.Error("No generation is current after leaving")
	}
}

func TestHostLateResultIsDropped(t *testing.T) {
	h := NewHost(config.Default(), testRuntime(5))
	s := h.Play(ModeTime, config.DifficultyEasy)
	gen := s.Generation()

	// A save started for this session completes after the player moved on.
	h.Play(ModeTime, config.DifficultyEasy)
	if h.IsCurrent(gen) {
		t.Error("Result from a replaced session must not be applied")
	}
}

func TestScoreRecordJSON(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := NewScoreRecord(ModeTime, config.DifficultyModerate, 42, at)

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"mode":"Time Mode"`) {
		t.Errorf("Mode should persist by display name: %s", data)
	}
	if !strings.Contains(string(data), `"timestamp":"2025-01-02T03:04:05Z"`) {
		t.Errorf("Timestamp should be an ISO instant: %s", data)
	}

	var back ScoreRecord
	if err := json.Unmarshal([]byte(`{"mode":"Survival Mode","difficulty":"hard","score":7,"timestamp":"2025-01-02T03:04:05.000Z"}`), &back); err != nil {
		t.Fatal(err)
	}
	if back.Mode != ModeSurvival || back.Difficulty != config.DifficultyHard || back.Score != 7 {
		t.Errorf("Unexpected decoded record %+v", back)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"time": ModeTime, "Time Mode": ModeTime, "SURVIVAL": ModeSurvival} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v; expected %v", in, got, err, want)
		}
	}
	if _, err := ParseMode("zen"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}
