package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/balloonmath/internal/config"
	"github.com/vovakirdan/balloonmath/internal/engine"
)

func menuKey(t *testing.T, m MenuModel, msg tea.KeyMsg) MenuModel {
	t.Helper()
	updated, _ := m.Update(msg)
	mm, ok := updated.(MenuModel)
	if !ok {
		t.Fatalf("Update returned %T", updated)
	}
	return mm
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

func TestMenuSelectModeAndDifficulty(t *testing.T) {
	m := NewMenuModel(80, 24, config.DifficultyEasy)

	m = menuKey(t, m, keyDown) // Survival Mode
	m = menuKey(t, m, keyEnter)
	if m.Selected() != nil {
		t.Fatal("Choosing a mode should open the difficulty picker first")
	}
	if !strings.Contains(m.View(), "choose difficulty") {
		t.Error("Expected the difficulty picker")
	}

	m = menuKey(t, m, keyDown)
	m = menuKey(t, m, keyDown)
	m = menuKey(t, m, keyEnter)

	sel := m.Selected()
	if sel == nil {
		t.Fatal("Expected a selection")
	}
	if sel.Mode.Mode != engine.ModeSurvival || sel.Difficulty != config.DifficultyHard {
		t.Errorf("Expected survival/hard, got %s/%s", sel.Mode.ID, sel.Difficulty)
	}
}

func TestMenuPreselectsLastDifficulty(t *testing.T) {
	m := NewMenuModel(80, 24, config.DifficultyModerate)
	m = menuKey(t, m, keyEnter)
	m = menuKey(t, m, keyEnter)

	if sel := m.Selected(); sel == nil || sel.Difficulty != config.DifficultyModerate {
		t.Errorf("Expected moderate preselected, got %+v", sel)
	}
}

func TestMenuBackFromDifficulty(t *testing.T) {
	m := NewMenuModel(80, 24, config.DifficultyEasy)
	m = menuKey(t, m, keyEnter)
	m = menuKey(t, m, keyEsc)

	if !strings.Contains(m.View(), "Select a game mode") {
		t.Error("Esc should return to the mode list")
	}
}

func TestMenuHistoryAndQuit(t *testing.T) {
	m := NewMenuModel(80, 24, config.DifficultyEasy)
	if h := menuKey(t, m, keyTab); !h.WantsHistory() {
		t.Error("Tab should open the score history")
	}

	// Time, Survival, Score History, Quit
	m = menuKey(t, m, keyDown)
	m = menuKey(t, m, keyDown)
	if h := menuKey(t, m, keyEnter); !h.WantsHistory() {
		t.Error("Score History entry should open the history")
	}

	m = menuKey(t, m, keyDown)
	m = menuKey(t, m, keyEnter)
	if !m.IsQuitting() {
		t.Error("Quit entry should quit")
	}
}

func TestCenterText(t *testing.T) {
	if got := centerText("ab", 6); got != "  ab" {
		t.Errorf("centerText = %q, expected \"  ab\"", got)
	}
	if got := centerText("too long", 4); got != "too long" {
		t.Errorf("Text wider than the screen should be unchanged, got %q", got)
	}
}
