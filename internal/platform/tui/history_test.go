package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/balloonmath/internal/config"
	"github.com/vovakirdan/balloonmath/internal/engine"
	"github.com/vovakirdan/balloonmath/internal/storage"
)

func seededStore(t *testing.T) *storage.ScoreStore {
	t.Helper()
	ctx := context.Background()
	s := storage.NewScoreStore(storage.NewMemoryKV(), nil)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	records := []engine.ScoreRecord{
		engine.NewScoreRecord(engine.ModeTime, config.DifficultyEasy, 10, base),
		engine.NewScoreRecord(engine.ModeTime, config.DifficultyEasy, 20, base.Add(time.Minute)),
		engine.NewScoreRecord(engine.ModeSurvival, config.DifficultyHard, 35, base.Add(48*time.Hour)),
	}
	for _, r := range records {
		if _, err := s.SaveResult(ctx, r); err != nil {
			t.Fatalf("SaveResult failed: %v", err)
		}
	}
	return s
}

func historyKey(t *testing.T, m HistoryModel, msg tea.KeyMsg) HistoryModel {
	t.Helper()
	updated, _ := m.Update(msg)
	hm, ok := updated.(HistoryModel)
	if !ok {
		t.Fatalf("Update returned %T", updated)
	}
	return hm
}

func TestHistoryShowsAllNewestFirst(t *testing.T) {
	m := NewHistoryModel(seededStore(t), 100, 30)

	entries := m.Entries()
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].Score != 35 {
		t.Errorf("Expected newest record first, got %d", entries[0].Score)
	}

	view := m.View()
	if !strings.Contains(view, "SCORE HISTORY") || !strings.Contains(view, highestMark) {
		t.Error("View should show the title and mark the highest scores")
	}
	if !strings.Contains(view, "Stats") {
		t.Error("Wide layout should show the stats sidebar")
	}
}

func TestHistoryFilters(t *testing.T) {
	m := NewHistoryModel(seededStore(t), 100, 30)

	m = historyKey(t, m, runeKey('m')) // Time Mode
	if got := len(m.Entries()); got != 2 {
		t.Errorf("Mode filter: expected 2 entries, got %d", got)
	}
	if f := m.Filter(); f.Mode == nil || *f.Mode != engine.ModeTime {
		t.Errorf("Expected time mode filter, got %+v", f)
	}

	m = historyKey(t, m, runeKey('m')) // Survival Mode
	m = historyKey(t, m, runeKey('m')) // back to all
	if got := len(m.Entries()); got != 3 {
		t.Errorf("Cycling the mode filter should return to all, got %d", got)
	}

	m = historyKey(t, m, runeKey('d')) // Easy
	if got := len(m.Entries()); got != 2 {
		t.Errorf("Difficulty filter: expected 2 entries, got %d", got)
	}
	m = historyKey(t, m, runeKey('d')) // Moderate
	if got := len(m.Entries()); got != 0 {
		t.Errorf("No moderate games were played, got %d", got)
	}
}

func TestHistoryDateCycling(t *testing.T) {
	m := NewHistoryModel(seededStore(t), 100, 30)

	m = historyKey(t, m, keyTab) // newest date
	if f := m.Filter(); f.Date == "" {
		t.Fatal("Tab should select the newest date")
	}
	if got := len(m.Entries()); got != 1 || m.Entries()[0].Score != 35 {
		t.Errorf("Expected the single survival record, got %d entries", got)
	}

	m = historyKey(t, m, keyTab) // older date
	if got := len(m.Entries()); got != 2 {
		t.Errorf("Expected 2 records on the first day, got %d", got)
	}

	m = historyKey(t, m, keyTab) // wraps to all dates
	if m.Filter().Date != "" || len(m.Entries()) != 3 {
		t.Error("Date filter should wrap around to all dates")
	}

	m = historyKey(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := len(m.Entries()); got != 2 {
		t.Errorf("Shift+Tab should step back to the oldest date, got %d entries", got)
	}
}

func TestHistoryBackAndEmpty(t *testing.T) {
	m := NewHistoryModel(nil, 60, 20)
	if !strings.Contains(m.View(), "No scores recorded yet") {
		t.Error("Expected the empty message without a store")
	}

	m = historyKey(t, m, keyEsc)
	if !m.IsGoingBack() {
		t.Error("Esc should go back")
	}
}
