package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Family is the kind of challenge shown to the player.
type Family int

const (
	FamilyTap Family = iota
	FamilyAdd
	FamilySub
	FamilyMul
	FamilyDiv
)

func (f Family) String() string {
	switch f {
	case FamilyTap:
		return "tap"
	case FamilyAdd:
		return "addition"
	case FamilySub:
		return "subtraction"
	case FamilyMul:
		return "multiplication"
	case FamilyDiv:
		return "division"
	default:
		return "unknown"
	}
}

// Problem is one challenge and its answer.
type Problem struct {
	Family Family
	A, B   int
	Answer int
	Prompt string
}

const tapPrefix = "Tap number "

// mulPairs holds factor pairs whose product stays a single digit.
var mulPairs = [][2]int{
	{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}, {0, 5}, {0, 6}, {0, 7}, {0, 8}, {0, 9},
	{1, 1}, {1, 2}, {1, 3}, {1, 4}, {1, 5}, {1, 6}, {1, 7}, {1, 8}, {1, 9},
	{2, 1}, {2, 2}, {2, 3}, {2, 4},
	{3, 1}, {3, 2}, {3, 3},
	{4, 1}, {4, 2},
	{5, 1}, {6, 1}, {7, 1}, {8, 1}, {9, 1},
}

// ProblemGenerator produces problems for a mode and level.
type ProblemGenerator struct {
	rng        *rand.Rand
	divisionAt int
}

// NewProblemGenerator creates a generator. In Time Mode level 4 switches
// from multiplication to division once time remaining is at or below
// divisionAt seconds.
func NewProblemGenerator(rng *rand.Rand, divisionAt int) *ProblemGenerator {
	return &ProblemGenerator{rng: rng, divisionAt: divisionAt}
}

// Generate returns a new problem. timeRemaining is only consulted in Time Mode.
func (g *ProblemGenerator) Generate(mode Mode, level, timeRemaining int) Problem {
	if mode == ModeTime {
		return g.timeProblem(level, timeRemaining)
	}
	return g.survivalProblem(level)
}

func (g *ProblemGenerator) survivalProblem(level int) Problem {
	var family Family
	switch {
	case level <= 1:
		family = FamilyTap
	case level == 2:
		family = FamilyAdd
		if g.rng.Intn(2) == 1 {
			family = FamilySub
		}
	case level == 3:
		family = FamilyMul
	case level == 4:
		family = FamilyDiv
	default:
		family = Family(g.rng.Intn(5))
	}

	switch family {
	case FamilyTap:
		return tapProblem(g.rng.Intn(10))
	case FamilyAdd:
		a := g.rng.Intn(10)
		b := g.rng.Intn(10 - a)
		return binaryProblem(FamilyAdd, a, b)
	case FamilySub:
		a := g.rng.Intn(10)
		b := g.rng.Intn(a + 1)
		return binaryProblem(FamilySub, a, b)
	case FamilyMul:
		p := mulPairs[g.rng.Intn(len(mulPairs))]
		return binaryProblem(FamilyMul, p[0], p[1])
	default:
		divisor := g.rng.Intn(9) + 1
		quotient := g.rng.Intn(10)
		return binaryProblem(FamilyDiv, divisor*quotient, divisor)
	}
}

func (g *ProblemGenerator) timeProblem(level, timeRemaining int) Problem {
	switch {
	case level <= 1:
		return tapProblem(g.rng.Intn(9) + 1)
	case level == 2:
		return binaryProblem(FamilyAdd, g.rng.Intn(4)+1, g.rng.Intn(4)+1)
	case level == 3:
		a, b := g.rng.Intn(4)+1, g.rng.Intn(4)+1
		if b > a {
			a, b = b, a
		}
		return binaryProblem(FamilySub, a, b)
	default:
		if timeRemaining > g.divisionAt {
			return binaryProblem(FamilyMul, g.rng.Intn(3)+1, g.rng.Intn(3)+1)
		}
		divisor := g.rng.Intn(3) + 1
		quotient := g.rng.Intn(3) + 1
		return binaryProblem(FamilyDiv, divisor*quotient, divisor)
	}
}

func tapProblem(n int) Problem {
	return Problem{
		Family: FamilyTap,
		A:      n,
		Answer: n,
		Prompt: tapPrefix + strconv.Itoa(n),
	}
}

func binaryProblem(f Family, a, b int) Problem {
	p := Problem{Family: f, A: a, B: b}
	var op string
	switch f {
	case FamilyAdd:
		op, p.Answer = "+", a+b
	case FamilySub:
		op, p.Answer = "-", a-b
	case FamilyMul:
		op, p.Answer = "×", a*b
	case FamilyDiv:
		op, p.Answer = "÷", a/b
	}
	p.Prompt = fmt.Sprintf("%d %s %d = ?", a, op, b)
	return p
}

// ErrBadPrompt is returned by ParsePrompt for text it cannot evaluate.
var ErrBadPrompt = errors.New("engine: unrecognized prompt")

// ParsePrompt evaluates a prompt produced by the generator back into its answer.
func ParsePrompt(prompt string) (int, error) {
	if rest, ok := strings.CutPrefix(prompt, tapPrefix); ok {
		n, err := strconv.Atoi(rest)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadPrompt, prompt)
		}
		return n, nil
	}

	fields := strings.Fields(prompt)
	if len(fields) != 5 || fields[3] != "=" || fields[4] != "?" {
		return 0, fmt.Errorf("%w: %q", ErrBadPrompt, prompt)
	}
	a, errA := strconv.Atoi(fields[0])
	b, errB := strconv.Atoi(fields[2])
	if errA != nil || errB != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadPrompt, prompt)
	}

	switch fields[1] {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "×", "x", "*":
		return a * b, nil
	case "÷", "/":
		if b == 0 || a%b != 0 {
			return 0, fmt.Errorf("%w: inexact division %q", ErrBadPrompt, prompt)
		}
		return a / b, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadPrompt, prompt)
	}
}

// SurvivalLevel derives the Survival level from the score. thresholds lists
// the minimum score of levels 2, 3, and so on.
func SurvivalLevel(score int, thresholds []int) int {
	level := 1
	for _, th := range thresholds {
		if score >= th {
			level++
		}
	}
	return level
}

// TimeLevel derives the Time Mode level from the seconds remaining.
// Time above thresholds[0] is level 1, above thresholds[1] level 2, etc.
func TimeLevel(timeRemaining int, thresholds []int) int {
	level := 1
	for _, th := range thresholds {
		if timeRemaining > th {
			return level
		}
		level++
	}
	return level
}
