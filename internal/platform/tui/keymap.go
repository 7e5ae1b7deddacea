package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/balloonmath/internal/core"
	"github.com/vovakirdan/balloonmath/internal/engine"
)

// maxTyped is the longest number a player can type; balloons carry 0-99.
const maxTyped = 2

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a game action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case "enter":
		return core.ActionConfirm, false
	case "p":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	case "b", "esc":
		return core.ActionBack, false
	}
	return core.ActionNone, false
}

// Digit returns the digit typed by the key, if any.
func (km *KeyMapper) Digit(msg tea.KeyMsg) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '0' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}

// TokenKey maps the shortcut keys for special balloons: h pops the lowest
// heart, + or t the lowest time bonus.
func (km *KeyMapper) TokenKey(msg tea.KeyMsg) (engine.TokenKind, bool) {
	switch msg.String() {
	case "h":
		return engine.TokenHeart, true
	case "+", "t":
		return engine.TokenTimeBonus, true
	}
	return engine.TokenNumber, false
}

// IsErase reports whether the key deletes the last typed digit.
func (km *KeyMapper) IsErase(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyBackspace
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionHistory
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionHistory
	}
	return MenuActionNone
}
