package tui

import (
	"context"
	"io"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/balloonmath/internal/config"
	"github.com/vovakirdan/balloonmath/internal/core"
	"github.com/vovakirdan/balloonmath/internal/engine"
	"github.com/vovakirdan/balloonmath/internal/registry"
)

// Persistence timeouts for the background commands.
const (
	loadTimeout = 2 * time.Second
	saveTimeout = 5 * time.Second
)

// ScoreKeeper is the persistence the game screen needs.
type ScoreKeeper interface {
	engine.ResultSaver
	engine.HighScoreSource
}

// highScoreMsg delivers the stored best score loaded for a session.
type highScoreMsg struct {
	generation uint64
	best       int
}

// resultSavedMsg reports the outcome of saving a finished session.
type resultSavedMsg struct {
	generation uint64
	score      int
	best       int
	err        error
}

// GameModel is the Bubble Tea model for one game screen. It drives the
// host's current session with a fixed tick and turns keys and clicks into
// taps. Persistence runs in commands; their results are applied only while
// the session that started them is still current.
type GameModel struct {
	host      *engine.Host
	scores    ScoreKeeper
	logger    *log.Logger
	bell      io.Writer
	screen    *core.Screen
	layout    Layout
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	input     core.InputFrame

	typed         string
	best          int
	bestBefore    int
	saving        bool
	newBest       bool
	feedback      Feedback
	feedbackTicks int

	quitting   bool
	backToMenu bool
}

// NewGameModel creates a game screen. scores and bell may be nil.
func NewGameModel(host *engine.Host, scores ScoreKeeper, logger *log.Logger, bell io.Writer, cfg core.RuntimeConfig) GameModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return GameModel{
		host:      host,
		scores:    scores,
		logger:    logger,
		bell:      bell,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		layout:    NewLayout(cfg.ScreenW, cfg.ScreenH),
		config:    cfg,
		keyMapper: NewKeyMapper(),
		input:     core.NewInputFrame(),
	}
}

// Start begins a new session for a registered mode and a difficulty. Any
// previous session is discarded without being recorded. An unknown mode or
// difficulty sends the player back to the menu.
func (m GameModel) Start(modeID string, d config.Difficulty) (GameModel, tea.Cmd) {
	s, err := registry.Start(m.host, modeID, d)
	if err != nil {
		m.logger.Warn("cannot start game", "mode", modeID, "difficulty", d, "error", err)
		m.backToMenu = true
		return m, nil
	}
	return m.started(s)
}

// Replay restarts the last played mode and difficulty.
func (m GameModel) Replay() (GameModel, tea.Cmd) {
	s, err := m.host.Replay()
	if err != nil {
		m.logger.Warn("nothing to replay", "error", err)
		return m, nil
	}
	return m.started(s)
}

func (m GameModel) started(s *engine.Session) (GameModel, tea.Cmd) {
	m.typed = ""
	m.best, m.bestBefore = 0, 0
	m.saving, m.newBest = false, false
	m.feedback, m.feedbackTicks = FeedbackNone, 0
	m.backToMenu = false
	m.input.Clear()

	m.logger.Debug("session started", "mode", s.Mode(), "difficulty", s.Difficulty(), "generation", s.Generation())
	return m, tea.Batch(
		tickCmd(m.config.TickRate, s.Generation()),
		m.loadHighScoreCmd(s),
	)
}

// Init implements tea.Model. Sessions are started with Start.
func (m GameModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		m.layout = NewLayout(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick(msg)

	case highScoreMsg:
		if !m.host.IsCurrent(msg.generation) {
			return m, nil
		}
		m.best = max(m.best, msg.best)
		m.bestBefore = max(m.bestBefore, msg.best)
		return m, nil

	case resultSavedMsg:
		if !m.host.IsCurrent(msg.generation) {
			m.logger.Debug("dropping stale save result", "generation", msg.generation)
			return m, nil
		}
		m.saving = false
		if msg.err != nil {
			m.logger.Error("could not save result", "error", msg.err)
		}
		m.best = max(m.best, msg.best)
		m.newBest = msg.score > 0 && msg.score > m.bestBefore
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.host.Current()

	if d, ok := m.keyMapper.Digit(msg); ok {
		if s != nil && s.Status() == engine.StatusRunning && len(m.typed) < maxTyped {
			m.typed += strconv.Itoa(d)
		}
		return m, nil
	}
	if m.keyMapper.IsErase(msg) {
		if len(m.typed) > 0 {
			m.typed = m.typed[:len(m.typed)-1]
		}
		return m, nil
	}
	if kind, ok := m.keyMapper.TokenKey(msg); ok {
		if s != nil {
			m.tapLowest(s, func(t engine.Token) bool {
				return t.Kind == kind || (kind == engine.TokenHeart && t.CarriesHeart)
			})
		}
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionConfirm:
		if s != nil && m.typed != "" {
			n, _ := strconv.Atoi(m.typed)
			m.tapLowest(s, func(t engine.Token) bool {
				return t.Kind == engine.TokenNumber && t.Value == n
			})
		}
		m.typed = ""
	case core.ActionPause:
		m.input.Set(core.ActionPause)
	case core.ActionRestart:
		return m.Replay()
	case core.ActionBack:
		m.host.Leave()
		m.backToMenu = true
	}

	return m, nil
}

// tapLowest queues a tap on the matching balloon closest to the ground.
func (m *GameModel) tapLowest(s *engine.Session, match func(engine.Token) bool) {
	if s.Status() != engine.StatusRunning {
		return
	}
	if t, ok := Lowest(s.Tokens(), s.Clock(), match); ok {
		m.input.Tap(t.ID)
	}
}

// handleMouse turns a left click on a balloon into a tap.
func (m GameModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	s := m.host.Current()
	if s == nil || s.Status() != engine.StatusRunning {
		return m, nil
	}
	if t, ok := m.layout.HitTest(s.Tokens(), s.Clock(), msg.X, msg.Y); ok {
		m.input.Tap(t.ID)
	}
	return m, nil
}

// handleTick runs one simulation step and reacts to its events.
func (m GameModel) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	s := m.host.Current()
	if s == nil || msg.Generation != s.Generation() || !m.host.IsCurrent(msg.Generation) {
		return m, nil
	}

	result := s.Step(m.input)
	m.input.Clear()

	if m.feedbackTicks > 0 {
		m.feedbackTicks--
		if m.feedbackTicks == 0 {
			m.feedback = FeedbackNone
		}
	}

	var cmds []tea.Cmd
	for _, ev := range result.Events {
		switch ev := ev.(type) {
		case engine.CorrectTap:
			m.flash(FeedbackCorrect)
		case engine.WrongTap, engine.MissedTarget:
			m.flash(FeedbackWrong)
			cmds = append(cmds, m.bellCmd())
		case engine.LifeGained, engine.TimeBonusCollected:
			m.flash(FeedbackBonus)
		case engine.StateChanged:
			if ev.To != engine.StatusRunning {
				m.typed = ""
			}
		case engine.Finished:
			m.saving = m.scores != nil
			cmds = append(cmds, m.saveResultCmd(s.Generation(), ev.Record))
		}
	}

	if result.Over {
		m.feedback, m.feedbackTicks = FeedbackNone, 0
		return m, tea.Batch(cmds...)
	}
	cmds = append(cmds, tickCmd(m.config.TickRate, s.Generation()))
	return m, tea.Batch(cmds...)
}

func (m *GameModel) flash(f Feedback) {
	m.feedback = f
	m.feedbackTicks = max(m.config.TickRate/4, 1)
}

// bellCmd rings the terminal bell on the session's output.
func (m GameModel) bellCmd() tea.Cmd {
	w := m.bell
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		//nolint:errcheck // Best-effort feedback
		w.Write([]byte{'\a'})
		return nil
	}
}

func (m GameModel) loadHighScoreCmd(s *engine.Session) tea.Cmd {
	if m.scores == nil {
		return nil
	}
	scores, gen, mode, d := m.scores, s.Generation(), s.Mode(), s.Difficulty()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return highScoreMsg{generation: gen, best: scores.HighScore(ctx, mode, d)}
	}
}

// saveResultCmd persists a finished session. The record is always saved;
// only applying the result to the screen depends on the generation.
func (m GameModel) saveResultCmd(gen uint64, rec engine.ScoreRecord) tea.Cmd {
	if m.scores == nil {
		return nil
	}
	scores := m.scores
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		best, err := scores.SaveResult(ctx, rec)
		return resultSavedMsg{generation: gen, score: rec.Score, best: best, err: err}
	}
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	s := m.host.Current()
	if s == nil {
		return ""
	}

	DrawSession(m.screen, m.layout, s.Snapshot(), fieldView{
		Best:     m.best,
		NewBest:  m.newBest,
		Typed:    m.typed,
		Feedback: m.feedback,
		Saving:   m.saving,
	})
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Typed returns the digits typed so far.
func (m GameModel) Typed() string {
	return m.typed
}

// Best returns the best score shown on screen.
func (m GameModel) Best() int {
	return m.best
}
