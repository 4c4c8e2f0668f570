package term

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jaminalder/tictactoe-timetravel/internal/domain"
	"github.com/muesli/termenv"
)

// ANSI palette indexes
const (
	colorX   = "9"
	colorO   = "12"
	colorWin = "11"
	colorDim = "8"
)

// Renderer draws snapshots with the color support of its output.
type Renderer struct {
	out *termenv.Output
}

func NewRenderer(out *termenv.Output) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) cell(snap domain.Snapshot, i int) string {
	c := snap.Board[i]
	if c == domain.Empty {
		return r.out.String(strconv.Itoa(i)).Foreground(r.out.Color(colorDim)).String()
	}

	s := r.out.String(c.String()).Bold()
	switch {
	case snap.OnWinLine(i):
		s = s.Background(r.out.Color(colorWin)).Foreground(r.out.Color("0"))
	case c == domain.X:
		s = s.Foreground(r.out.Color(colorX))
	default:
		s = s.Foreground(r.out.Color(colorO))
	}
	return s.String()
}

// Board renders the 3x3 grid; empty cells show their index.
func (r *Renderer) Board(snap domain.Snapshot) string {
	var b strings.Builder
	for row := 0; row < 3; row++ {
		if row > 0 {
			b.WriteString("---+---+---\n")
		}
		for col := 0; col < 3; col++ {
			if col > 0 {
				b.WriteString("|")
			}
			fmt.Fprintf(&b, " %s ", r.cell(snap, row*3+col))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Moves renders the move list with the current entry marked.
func (r *Renderer) Moves(snap domain.Snapshot) string {
	order := "ascending"
	if !snap.Ascending {
		order = "descending"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Moves (%s):\n", order)
	for _, mv := range snap.Moves {
		marker := " "
		label := r.out.String(mv.Label)
		if mv.Current {
			marker = "*"
			label = label.Bold()
		}
		fmt.Fprintf(&b, " %s %2d  %s\n", marker, mv.Step, label)
	}
	return b.String()
}

// Snapshot renders board, status and move list.
func (r *Renderer) Snapshot(snap domain.Snapshot) string {
	status := r.out.String(snap.Status)
	if snap.Winner != domain.Empty {
		status = status.Bold().Foreground(r.out.Color(colorWin))
	}
	return r.Board(snap) + "\n" + status.String() + "\n\n" + r.Moves(snap)
}
