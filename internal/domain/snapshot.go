package domain

import "fmt"

const gameStartLabel = "Go to game start"

// Move describes one entry of the move list as a view should render it.
type Move struct {
	Step    int    `json:"step"`
	Label   string `json:"label"`
	Current bool   `json:"current"`
}

// StatusText reports the winner, or whose turn it is.
func (g *Game) StatusText() string {
	if w := g.Winner(); w != Empty {
		return "Winner: " + w.String()
	}
	if g.xIsNext {
		return "Next player: X"
	}
	return "Next player: O"
}

// MoveList returns one entry per history step. Entries come out in storage
// order; descending order only reverses the step each entry points at.
func (g *Game) MoveList() []Move {
	n := len(g.history)
	moves := make([]Move, 0, n)
	for move := 0; move < n; move++ {
		step := move
		if !g.ascending {
			step = n - 1 - move
		}

		label := gameStartLabel
		if step != 0 {
			label = fmt.Sprintf("Go to index #%d, coordinate:%s", step, g.history[step].Move)
		}

		moves = append(moves, Move{Step: step, Label: label, Current: step == g.step})
	}
	return moves
}

// Snapshot is an immutable view of the game for renderers.
type Snapshot struct {
	Board      Board  `json:"board"`
	Winner     Cell   `json:"winner"`
	WinLine    []int  `json:"win_line,omitempty"`
	Status     string `json:"status"`
	Moves      []Move `json:"moves"`
	Step       int    `json:"step"`
	XIsNext    bool   `json:"x_is_next"`
	Ascending  bool   `json:"ascending"`
	HistoryLen int    `json:"history_len"`
}

// Snapshot evaluates every query against the current state.
func (g *Game) Snapshot() Snapshot {
	board := g.CurrentBoard()
	s := Snapshot{
		Board:      board,
		Winner:     WinnerOf(board),
		Status:     g.StatusText(),
		Moves:      g.MoveList(),
		Step:       g.step,
		XIsNext:    g.xIsNext,
		Ascending:  g.ascending,
		HistoryLen: len(g.history),
	}
	if ln, ok := WinningLine(board); ok {
		s.WinLine = ln[:]
	}
	return s
}

// OnWinLine reports whether cell i is part of the winning line.
func (s Snapshot) OnWinLine(i int) bool {
	for _, c := range s.WinLine {
		if c == i {
			return true
		}
	}
	return false
}
