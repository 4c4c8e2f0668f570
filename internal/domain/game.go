package domain

import (
	"errors"
	"fmt"
)

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// String returns the mark symbol, or "" for an empty cell.
func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// MarshalText encodes the cell as its mark symbol.
func (c Cell) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// Coordinate is a 1-based (row, col) pair. The zero value marks the game start.
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func coordinateOf(i int) Coordinate {
	return Coordinate{Row: i/3 + 1, Col: i%3 + 1}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// HistoryEntry is a recorded board plus the move that produced it.
type HistoryEntry struct {
	Board Board      `json:"board"`
	Move  Coordinate `json:"move"`
}

// Errors returned for caller contract violations.
var (
	ErrOutOfBounds    = errors.New("out of bounds")
	ErrStepOutOfRange = errors.New("step out of range")
)

// Game holds the history of a match and the step currently viewed.
type Game struct {
	history   []HistoryEntry
	step      int
	xIsNext   bool
	ascending bool
}

// New returns a new game with X to move and the move list ascending.
func New() *Game {
	return &Game{
		history:   []HistoryEntry{{}},
		xIsNext:   true,
		ascending: true,
	}
}

// Play places the mark of the player to move at cell i (0..8).
// Playing into an occupied cell or after the current board is won is
// ignored and reports false.
func (g *Game) Play(i int) (bool, error) {
	if i < 0 || i >= len(Board{}) {
		return false, fmt.Errorf("%w: cell %d", ErrOutOfBounds, i)
	}

	current := g.history[g.step].Board
	if WinnerOf(current) != Empty || current[i] != Empty {
		return false, nil
	}

	// Drop the abandoned future before branching.
	g.history = g.history[:g.step+1]

	next := current
	if g.xIsNext {
		next[i] = X
	} else {
		next[i] = O
	}

	g.history = append(g.history, HistoryEntry{Board: next, Move: coordinateOf(i)})
	g.step = len(g.history) - 1
	g.xIsNext = !g.xIsNext

	return true, nil
}

// JumpTo makes the given history step current without altering history.
func (g *Game) JumpTo(step int) error {
	if step < 0 || step >= len(g.history) {
		return fmt.Errorf("%w: step %d of %d", ErrStepOutOfRange, step, len(g.history))
	}

	g.step = step
	g.xIsNext = step%2 == 0

	return nil
}

// ToggleOrder flips the move list display order.
func (g *Game) ToggleOrder() {
	g.ascending = !g.ascending
}

func (g *Game) CurrentBoard() Board { return g.history[g.step].Board }

func (g *Game) Winner() Cell { return WinnerOf(g.CurrentBoard()) }

func (g *Game) Step() int { return g.step }

func (g *Game) XIsNext() bool { return g.xIsNext }

func (g *Game) Ascending() bool { return g.ascending }

func (g *Game) HistoryLen() int { return len(g.history) }

// History returns a copy of the recorded entries.
func (g *Game) History() []HistoryEntry {
	out := make([]HistoryEntry, len(g.history))
	copy(out, g.history)
	return out
}

// Clone returns an independent copy of the game.
func (g *Game) Clone() *Game {
	cp := *g
	cp.history = g.History()
	return &cp
}
