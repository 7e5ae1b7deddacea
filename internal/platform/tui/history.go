package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/balloonmath/internal/config"
	"github.com/vovakirdan/balloonmath/internal/engine"
	"github.com/vovakirdan/balloonmath/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 90 // Minimum width to show the stats sidebar
	sidebarWidth       = 28 // Width of the stats sidebar
	highestMark        = "★"
)

// HistorySource reads the score history.
type HistorySource interface {
	Query(ctx context.Context, f storage.Filter) []storage.Entry
	Dates(ctx context.Context) []string
	Stats(ctx context.Context) []storage.Stats
}

// HistoryKeyMap defines the key bindings for the history viewer.
type HistoryKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextDate   key.Binding
	PrevDate   key.Binding
	Mode       key.Binding
	Difficulty key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextDate, k.Mode, k.Difficulty, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextDate, k.PrevDate},
		{k.Mode, k.Difficulty, k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextDate: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next date"),
		),
		PrevDate: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev date"),
		),
		Mode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mode"),
		),
		Difficulty: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "difficulty"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for the score history screen.
type HistoryModel struct {
	source      HistorySource
	dates       []string // "" first, meaning every date
	dateCursor  int
	modeCursor  int // 0 = any, then engine.Modes()
	diffCursor  int // 0 = any, then config.Difficulties()
	entries     []storage.Entry
	stats       []storage.Stats
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
	shortNames  bool // Narrow table drops the " Mode" suffix
}

// NewHistoryModel creates a new history model. source may be nil.
func NewHistoryModel(source HistorySource, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		source:      source,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.reload()
	return m
}

// createTable creates a new table with columns sized to the screen.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "When", Width: 17},
		{Title: "Mode", Width: 14},
		{Title: "Difficulty", Width: 10},
		{Title: "Score", Width: 6},
		{Title: "", Width: 2},
	}

	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	m.shortNames = tableWidth < 56
	if m.shortNames {
		columns[0].Width = 12
		columns[1].Width = 9
		columns[2].Width = 8
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// Filter returns the filter currently applied.
func (m HistoryModel) Filter() storage.Filter {
	f := storage.Filter{}
	if m.dateCursor > 0 && m.dateCursor < len(m.dates) {
		f.Date = m.dates[m.dateCursor]
	}
	if m.modeCursor > 0 {
		mode := engine.Modes()[m.modeCursor-1]
		f.Mode = &mode
	}
	if m.diffCursor > 0 {
		f.Difficulty = config.Difficulties()[m.diffCursor-1]
	}
	return f
}

// reload refreshes dates, entries and stats from the source.
func (m *HistoryModel) reload() {
	m.dates = []string{""}
	m.entries, m.stats = nil, nil
	if m.source != nil {
		ctx := context.Background()
		m.dates = append(m.dates, m.source.Dates(ctx)...)
		m.dateCursor = min(m.dateCursor, len(m.dates)-1)
		m.entries = m.source.Query(ctx, m.Filter())
		m.stats = m.source.Stats(ctx)
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the current entries.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		mode := e.Mode.String()
		if m.shortNames {
			mode = strings.TrimSuffix(mode, " Mode")
		}
		mark := ""
		if e.IsHighest {
			mark = highestMark
		}
		rows[i] = table.Row{
			e.Timestamp.Local().Format("Jan 02 15:04"),
			mode,
			e.Difficulty.Title(),
			fmt.Sprintf("%d", e.Score),
			mark,
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history viewer.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.NextDate):
			m.dateCursor = (m.dateCursor + 1) % len(m.dates)
			m.reload()
			return m, nil

		case key.Matches(msg, m.keys.PrevDate):
			m.dateCursor = (m.dateCursor + len(m.dates) - 1) % len(m.dates)
			m.reload()
			return m, nil

		case key.Matches(msg, m.keys.Mode):
			m.modeCursor = (m.modeCursor + 1) % (len(engine.Modes()) + 1)
			m.reload()
			return m, nil

		case key.Matches(msg, m.keys.Difficulty):
			m.diffCursor = (m.diffCursor + 1) % (len(config.Difficulties()) + 1)
			m.reload()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history viewer.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))

	b.WriteString(titleStyle.Render(centerText("SCORE HISTORY", m.width)))
	b.WriteString("\n")
	b.WriteString(centerText(m.filterLine(), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// filterLine describes the active filters.
func (m HistoryModel) filterLine() string {
	f := m.Filter()
	date, mode, diff := "All dates", "All modes", "All difficulties"
	if f.Date != "" {
		date = f.Date
	}
	if f.Mode != nil {
		mode = f.Mode.String()
	}
	if f.Difficulty != "" {
		diff = f.Difficulty.Title()
	}

	active := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	return fmt.Sprintf("< %s >  %s  %s", active.Render(date), mode, diff)
}

// renderWideLayout renders the table with the stats sidebar.
func (m HistoryModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		tableStyle.Render(m.renderTableContent()),
		"  ",
		sidebarStyle.Render(m.renderStats()),
	)
}

// renderNarrowLayout renders the table only.
func (m HistoryModel) renderNarrowLayout() string {
	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return centerText(tableStyle.Render(m.renderTableContent()), m.width)
}

// renderStats renders the per mode and difficulty summary.
func (m HistoryModel) renderStats() string {
	var b strings.Builder
	b.WriteString("Stats\n")
	b.WriteString(strings.Repeat("-", sidebarWidth-4))
	b.WriteString("\n")

	if len(m.stats) == 0 {
		b.WriteString("No games yet")
		return b.String()
	}

	label := lipgloss.NewStyle().Bold(true)
	for i, st := range m.stats {
		if i > 0 {
			b.WriteString("\n")
		}
		name := fmt.Sprintf("%s · %s", strings.TrimSuffix(st.Mode.String(), " Mode"), st.Difficulty.Title())
		b.WriteString(label.Render(truncate(name, sidebarWidth-4)))
		b.WriteString("\n")
		fmt.Fprintf(&b, "best %d  avg %.1f\n", st.Best, st.Average)
		fmt.Fprintf(&b, "%d games, last %s\n", st.Games, st.LastPlayed.Local().Format("Jan 02"))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.entries) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No scores recorded yet.\nPop some balloons to set a high score!")
	}
	return m.table.View()
}

// Entries returns the rows currently shown.
func (m HistoryModel) Entries() []storage.Entry {
	return m.entries
}

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}
