package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/balloonmath/internal/config"
	"github.com/vovakirdan/balloonmath/internal/core"
	"github.com/vovakirdan/balloonmath/internal/engine"
	"github.com/vovakirdan/balloonmath/internal/registry"
	"github.com/vovakirdan/balloonmath/internal/storage"
)

// Page identifies the screen the app is showing.
type Page int

const (
	PageMenu Page = iota
	PageGame
	PageHistory
)

// Options configures an app instance. One instance serves one player.
type Options struct {
	Config  config.Config
	Runtime core.RuntimeConfig
	Scores  *storage.ScoreStore // nil disables persistence
	Logger  *log.Logger
	Bell    io.Writer // Receives the terminal bell on wrong taps

	// StartMode skips the menu and starts this mode right away.
	StartMode       string
	StartDifficulty config.Difficulty
}

// AppModel manages the full flow: menu -> difficulty -> game -> menu, plus
// the score history. It is the top-level model for local and SSH sessions.
type AppModel struct {
	opts    Options
	host    *engine.Host
	config  core.RuntimeConfig
	page    Page
	menu    MenuModel
	game    GameModel
	history HistoryModel
	initCmd tea.Cmd

	lastDifficulty config.Difficulty
	quitting       bool
}

// NewAppModel creates the app. An invalid StartMode is reported by the
// caller before the program runs, so here it just falls back to the menu.
func NewAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	m := AppModel{
		opts:           opts,
		host:           engine.NewHost(opts.Config, opts.Runtime),
		config:         opts.Runtime,
		lastDifficulty: config.DifficultyEasy,
	}
	m.menu = NewMenuModel(m.config.ScreenW, m.config.ScreenH, m.lastDifficulty)

	if opts.StartMode != "" {
		if info, err := registry.Lookup(opts.StartMode); err == nil {
			d := opts.StartDifficulty
			if !d.Valid() {
				d = config.DifficultyEasy
			}
			m.initCmd = m.startGame(Selection{Mode: info, Difficulty: d})
		}
	}
	return m
}

// scores returns the persistence for the game screen. A nil store must
// become a nil interface, not an interface holding a nil pointer.
func (m AppModel) scores() ScoreKeeper {
	if m.opts.Scores == nil {
		return nil
	}
	return m.opts.Scores
}

func (m AppModel) historySource() HistorySource {
	if m.opts.Scores == nil {
		return nil
	}
	return m.opts.Scores
}

// startGame switches to the game page. It mutates m through the pointer
// receiver so constructors can use it as well as Update.
func (m *AppModel) startGame(sel Selection) tea.Cmd {
	m.lastDifficulty = sel.Difficulty
	game := NewGameModel(m.host, m.scores(), m.opts.Logger, m.opts.Bell, m.config)
	var cmd tea.Cmd
	m.game, cmd = game.Start(sel.Mode.ID, sel.Difficulty)
	if m.game.BackToMenu() {
		m.showMenu()
		return nil
	}
	m.page = PageGame
	return cmd
}

func (m *AppModel) showMenu() {
	m.menu = NewMenuModel(m.config.ScreenW, m.config.ScreenH, m.lastDifficulty)
	m.page = PageMenu
}

// Init initializes the app.
func (m AppModel) Init() tea.Cmd {
	return m.initCmd
}

// Update handles messages for the app.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	// Background results belong to the game screen even when it is hidden;
	// the host generation decides whether they still apply.
	switch msg.(type) {
	case highScoreMsg, resultSavedMsg:
		if m.game.host == nil {
			return m, nil
		}
		updated, cmd := m.game.Update(msg)
		m.game = updated.(GameModel)
		return m, cmd
	}

	switch m.page {
	case PageGame:
		return m.updateGame(msg)
	case PageHistory:
		return m.updateHistory(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.menu.Update(msg)
	m.menu = updated.(MenuModel)

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsHistory():
		m.history = NewHistoryModel(m.historySource(), m.config.ScreenW, m.config.ScreenH)
		m.page = PageHistory
		return m, m.history.Init()

	case m.menu.Selected() != nil:
		return m, m.startGame(*m.menu.Selected())
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.game.Update(msg)
	m.game = updated.(GameModel)

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		m.showMenu()
		return m, m.menu.Init()
	}
	return m, cmd
}

// updateHistory handles updates when viewing the score history.
func (m AppModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.history.Update(msg)
	m.history = updated.(HistoryModel)

	if m.history.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.history.IsGoingBack() {
		m.showMenu()
		return m, m.menu.Init()
	}
	return m, cmd
}

// View renders the current page.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.page {
	case PageGame:
		return m.game.View()
	case PageHistory:
		return m.history.View()
	default:
		return m.menu.View()
	}
}

// Page returns the page currently shown.
func (m AppModel) Page() Page {
	return m.page
}

// Host returns the session host of this app.
func (m AppModel) Host() *engine.Host {
	return m.host
}

// programOptions are shared by local and SSH programs.
func programOptions() []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Clicks pop balloons
	}
}

// Run starts the Bubble Tea program for a local terminal.
func Run(opts Options) error {
	p := tea.NewProgram(NewAppModel(opts), programOptions()...)
	_, err := p.Run()
	return err
}
