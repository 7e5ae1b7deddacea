package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/vovakirdan/balloonmath/internal/core"
	"github.com/vovakirdan/balloonmath/internal/engine"
)

// Play field layout
const (
	hudRows       = 3 // Status line, prompt, separator
	footerRows    = 1
	balloonHeight = 2 // Label plus string
)

// Feedback is the short screen flash shown after a tap.
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackCorrect
	FeedbackWrong
	FeedbackBonus
)

func (f Feedback) color() core.Color {
	switch f {
	case FeedbackCorrect:
		return core.ColorBrightGreen
	case FeedbackWrong:
		return core.ColorBrightRed
	case FeedbackBonus:
		return core.ColorBrightCyan
	default:
		return core.ColorBrightYellow
	}
}

// Layout maps session state onto screen cells.
type Layout struct {
	Width  int
	Height int
	Field  core.Rect // Area balloons fall through
}

// NewLayout computes the layout for a terminal of the given size.
func NewLayout(width, height int) Layout {
	fieldH := max(height-hudRows-footerRows, balloonHeight)
	return Layout{
		Width:  width,
		Height: height,
		Field:  core.NewRect(0, hudRows, max(width, 0), fieldH),
	}
}

// TokenLabel returns the text drawn for a token.
func TokenLabel(t engine.Token) string {
	switch t.Kind {
	case engine.TokenHeart:
		return "(♥)"
	case engine.TokenTimeBonus:
		return fmt.Sprintf("(+%ds)", t.Value)
	default:
		if t.CarriesHeart {
			return fmt.Sprintf("(%d♥)", t.Value)
		}
		return fmt.Sprintf("(%d)", t.Value)
	}
}

// TokenRect returns the cells a token occupies at session clock now.
func (l Layout) TokenRect(t engine.Token, now time.Duration) core.Rect {
	w := runewidth.StringWidth(TokenLabel(t))
	span := max(l.Field.W-w, 0)
	x := l.Field.X + min(int(t.X*float64(span+1)), span)
	travel := max(l.Field.H-balloonHeight, 0)
	y := l.Field.Y + int(math.Round(t.Progress(now)*float64(travel)))
	return core.NewRect(x, y, w, balloonHeight)
}

// HitTest returns the topmost token under the cell (x, y). Later tokens are
// drawn over earlier ones, so the search runs newest first.
func (l Layout) HitTest(tokens []engine.Token, now time.Duration, x, y int) (engine.Token, bool) {
	for i := len(tokens) - 1; i >= 0; i-- {
		if l.TokenRect(tokens[i], now).Contains(x, y) {
			return tokens[i], true
		}
	}
	return engine.Token{}, false
}

// Lowest returns the matching token that has fallen furthest.
func Lowest(tokens []engine.Token, now time.Duration, match func(engine.Token) bool) (engine.Token, bool) {
	var (
		best  engine.Token
		found bool
	)
	for _, t := range tokens {
		if !match(t) {
			continue
		}
		if !found || t.Progress(now) > best.Progress(now) {
			best, found = t, true
		}
	}
	return best, found
}

// fieldView carries the platform state drawn next to a snapshot.
type fieldView struct {
	Best     int
	NewBest  bool
	Typed    string
	Feedback Feedback
	Saving   bool
}

// DrawSession renders a session snapshot into the screen buffer.
func DrawSession(dst *core.Screen, l Layout, snap engine.Snapshot, v fieldView) {
	dst.Clear()
	drawHUD(dst, l, snap, v)
	drawTokens(dst, l, snap)
	drawFooter(dst, l, snap, v)

	switch snap.Status {
	case engine.StatusCountdown:
		drawPanel(dst, l, []string{snap.Countdown}, core.ColorBrightYellow)
	case engine.StatusPaused:
		drawPanel(dst, l, []string{
			"PAUSED",
			"",
			"P: resume  R: restart",
			"Esc: menu  Q: quit",
		}, core.ColorBrightCyan)
	case engine.StatusOver:
		drawPanel(dst, l, gameOverLines(snap, v), core.ColorBrightMagenta)
	}
}

func drawHUD(dst *core.Screen, l Layout, snap engine.Snapshot, v fieldView) {
	left := fmt.Sprintf(" %s · %s", snap.Mode, snap.Difficulty.Title())
	dst.DrawTextColored(0, 0, left, core.ColorGray)

	center := fmt.Sprintf("Score %d   Best %d   Level %d", snap.Score, max(v.Best, 0), snap.Level)
	dst.DrawTextCentered(0, center, core.ColorWhite)

	var right string
	rightColor := core.ColorBrightCyan
	if snap.Mode == engine.ModeTime {
		right = fmt.Sprintf("Time %2ds ", snap.TimeRemaining)
		if snap.TimeRemaining <= 10 {
			rightColor = core.ColorBrightRed
		}
	} else {
		right = strings.Repeat("♥", snap.Lives) + strings.Repeat("♡", max(snap.MaxLives-snap.Lives, 0)) + " "
		rightColor = core.ColorBrightRed
	}
	dst.DrawTextColored(l.Width-runewidth.StringWidth(right), 0, right, rightColor)

	if snap.HasProblem && snap.Status != engine.StatusCountdown {
		dst.DrawTextCentered(1, snap.Problem.Prompt, v.Feedback.color())
	}

	sep := core.ColorGray
	if v.Feedback != FeedbackNone {
		sep = v.Feedback.color()
	}
	dst.DrawHLine(0, 2, l.Width, '─', sep)
}

func drawTokens(dst *core.Screen, l Layout, snap engine.Snapshot) {
	for _, t := range snap.Tokens {
		r := l.TokenRect(t, snap.Clock)
		if !r.Intersects(l.Field) {
			continue
		}
		label := TokenLabel(t)

		color := t.Color
		switch t.Kind {
		case engine.TokenHeart:
			color = core.ColorPink
		case engine.TokenTimeBonus:
			color = core.ColorBrightCyan
		}
		dst.DrawTextColored(r.X, r.Y, label, color)
		dst.SetColored(r.X+r.W/2, r.Y+1, '╵', core.ColorGray)
	}
}

func drawFooter(dst *core.Screen, l Layout, snap engine.Snapshot, v fieldView) {
	y := l.Height - 1
	if y < hudRows {
		return
	}
	if snap.Status == engine.StatusRunning {
		dst.DrawTextColored(1, y, "> "+v.Typed+"_", core.ColorBrightYellow)
	}
	help := "digits+Enter/click: pop  h: heart  t: bonus  P: pause  Esc: menu "
	if snap.Mode == engine.ModeTime {
		help = "digits+Enter/click: pop  t: bonus  P: pause  Esc: menu "
	}
	if x := l.Width - runewidth.StringWidth(help); x > 8 {
		dst.DrawTextColored(x, y, help, core.ColorGray)
	}
}

func gameOverLines(snap engine.Snapshot, v fieldView) []string {
	lines := []string{
		"GAME OVER",
		"",
		fmt.Sprintf("Score: %d", snap.Score),
		fmt.Sprintf("Best:  %d", max(v.Best, snap.Score)),
	}
	switch {
	case v.Saving:
		lines = append(lines, "saving...")
	case v.NewBest:
		lines = append(lines, "★ New high score! ★")
	}
	return append(lines, "", "R: play again  Esc: menu  Q: quit")
}

// drawPanel draws lines centered in a box over the play field.
func drawPanel(dst *core.Screen, l Layout, lines []string, c core.Color) {
	w := 0
	for _, line := range lines {
		w = max(w, runewidth.StringWidth(line))
	}
	box := core.NewRect((l.Width-w-4)/2, l.Field.Y+(l.Field.H-len(lines)-2)/2, w+4, len(lines)+2)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, c)
	for i, line := range lines {
		x := box.X + 2 + (w-runewidth.StringWidth(line))/2
		dst.DrawTextColored(x, box.Y+1+i, line, c)
	}
}
