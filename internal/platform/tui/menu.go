package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vovakirdan/balloonmath/internal/config"
	"github.com/vovakirdan/balloonmath/internal/registry"
)

// Selection is a mode and difficulty picked in the menu.
type Selection struct {
	Mode       registry.ModeInfo
	Difficulty config.Difficulty
}

// Main menu entries after the registered modes
const (
	entryHistory = "Score History"
	entryQuit    = "Quit"
)

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	menuCursor     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuDim        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel is the Bubble Tea model for the main menu and the difficulty
// picker that follows a mode choice.
type MenuModel struct {
	modes      []registry.ModeInfo
	cursor     int
	diffCursor int
	choosing   *registry.ModeInfo // Set while picking a difficulty
	width      int
	height     int
	keyMapper  *KeyMapper
	selected   *Selection
	history    bool
	quitting   bool
}

// NewMenuModel creates a new menu model. last preselects the difficulty
// that was played most recently.
func NewMenuModel(width, height int, last config.Difficulty) MenuModel {
	m := MenuModel{
		modes:     registry.List(),
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
	for i, d := range config.Difficulties() {
		if d == last {
			m.diffCursor = i
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) entries() int {
	return len(m.modes) + 2
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.choosing != nil {
			return m.handleDifficultyKey(m.keyMapper.MapKeyToMenuAction(msg))
		}
		return m.handleModeKey(m.keyMapper.MapKeyToMenuAction(msg))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m MenuModel) handleModeKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < m.entries()-1 {
			m.cursor++
		}
	case MenuActionHistory:
		m.history = true
	case MenuActionSelect:
		switch {
		case m.cursor < len(m.modes):
			mode := m.modes[m.cursor]
			m.choosing = &mode
		case m.cursor == len(m.modes):
			m.history = true
		default:
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m MenuModel) handleDifficultyKey(action MenuAction) (tea.Model, tea.Cmd) {
	difficulties := config.Difficulties()

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.diffCursor > 0 {
			m.diffCursor--
		}
	case MenuActionDown:
		if m.diffCursor < len(difficulties)-1 {
			m.diffCursor++
		}
	case MenuActionSelect:
		m.selected = &Selection{Mode: *m.choosing, Difficulty: difficulties[m.diffCursor]}
	case MenuActionBack:
		m.choosing = nil
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("B A L L O O N   M A T H"), m.width))
	b.WriteString("\n")
	b.WriteString(centerText("(3)  (7)  (1)", m.width))
	b.WriteString("\n\n")

	if m.choosing != nil {
		m.viewDifficulties(&b)
	} else {
		m.viewModes(&b)
	}
	return b.String()
}

func (m MenuModel) viewModes(b *strings.Builder) {
	b.WriteString(centerText("Select a game mode", m.width))
	b.WriteString("\n\n")

	labels := make([]string, 0, m.entries())
	for _, mode := range m.modes {
		labels = append(labels, mode.Title)
	}
	labels = append(labels, entryHistory, entryQuit)

	for i, label := range labels {
		b.WriteString(centerText(cursorLine(i == m.cursor, label), m.width))
		b.WriteString("\n")
	}

	if m.cursor < len(m.modes) {
		b.WriteString("\n")
		b.WriteString(centerText(menuDim.Render(m.modes[m.cursor].Description), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit", m.width))
	b.WriteString("\n")
}

func (m MenuModel) viewDifficulties(b *strings.Builder) {
	b.WriteString(centerText(fmt.Sprintf("%s - choose difficulty", m.choosing.Title), m.width))
	b.WriteString("\n\n")

	for i, d := range config.Difficulties() {
		b.WriteString(centerText(cursorLine(i == m.diffCursor, d.Title()), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Play  |  Esc: Back  |  Q: Quit", m.width))
	b.WriteString("\n")
}

func cursorLine(active bool, label string) string {
	if active {
		return menuCursor.Render("> " + label + "  ")
	}
	return "  " + label + "  "
}

// Selected returns the chosen mode and difficulty, or nil if none yet.
func (m MenuModel) Selected() *Selection {
	return m.selected
}

// WantsHistory returns true if user asked for the score history.
func (m MenuModel) WantsHistory() bool {
	return m.history
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers text within given width. Styled text is measured
// without its escape sequences.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// truncate shortens text to width cells.
func truncate(text string, width int) string {
	return runewidth.Truncate(text, width, ".")
}
