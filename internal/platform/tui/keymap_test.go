package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/balloonmath/internal/core"
	"github.com/vovakirdan/balloonmath/internal/engine"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name     string
		msg      tea.KeyMsg
		expected core.Action
		quit     bool
	}{
		{"q quits", runeKey('q'), core.ActionQuit, true},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"enter confirms", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{"p pauses", runeKey('p'), core.ActionPause, false},
		{"r restarts", runeKey('r'), core.ActionRestart, false},
		{"esc goes back", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{"b goes back", runeKey('b'), core.ActionBack, false},
		{"digits are not actions", runeKey('4'), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, quit := km.MapKey(tt.msg)
			if action != tt.expected || quit != tt.quit {
				t.Errorf("MapKey = (%v, %v), expected (%v, %v)", action, quit, tt.expected, tt.quit)
			}
		})
	}
}

func TestDigit(t *testing.T) {
	km := NewKeyMapper()

	for r := '0'; r <= '9'; r++ {
		d, ok := km.Digit(runeKey(r))
		if !ok || d != int(r-'0') {
			t.Errorf("Digit(%q) = (%d, %v)", r, d, ok)
		}
	}
	if _, ok := km.Digit(runeKey('x')); ok {
		t.Error("Letters are not digits")
	}
	if _, ok := km.Digit(tea.KeyMsg{Type: tea.KeyEnter}); ok {
		t.Error("Enter is not a digit")
	}
}

func TestTokenKey(t *testing.T) {
	km := NewKeyMapper()

	if kind, ok := km.TokenKey(runeKey('h')); !ok || kind != engine.TokenHeart {
		t.Errorf("h should pop hearts, got %v %v", kind, ok)
	}
	if kind, ok := km.TokenKey(runeKey('+')); !ok || kind != engine.TokenTimeBonus {
		t.Errorf("+ should pop time bonuses, got %v %v", kind, ok)
	}
	if _, ok := km.TokenKey(runeKey('7')); ok {
		t.Error("Digits are not token keys")
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg      tea.KeyMsg
		expected MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey('k'), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{runeKey('j'), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionHistory},
		{runeKey('q'), MenuActionQuit},
		{runeKey('x'), MenuActionNone},
	}

	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.expected {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tt.msg.String(), got, tt.expected)
		}
	}
}
