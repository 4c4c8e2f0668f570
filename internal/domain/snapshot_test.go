package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveListAscending(t *testing.T) {
	g := New()
	playMoves(t, g, 4, 0)

	moves := g.MoveList()

	require.Len(t, moves, 3)
	assert.Equal(t, Move{Step: 0, Label: "Go to game start"}, moves[0])
	assert.Equal(t, Move{Step: 1, Label: "Go to index #1, coordinate:(2,2)"}, moves[1])
	assert.Equal(t, Move{Step: 2, Label: "Go to index #2, coordinate:(1,1)", Current: true}, moves[2])
}

func TestMoveListDescending(t *testing.T) {
	g := New()
	playMoves(t, g, 4, 0)
	require.NoError(t, g.JumpTo(1))

	g.ToggleOrder()
	moves := g.MoveList()

	require.Len(t, moves, 3)
	assert.Equal(t, Move{Step: 2, Label: "Go to index #2, coordinate:(1,1)"}, moves[0])
	assert.Equal(t, Move{Step: 1, Label: "Go to index #1, coordinate:(2,2)", Current: true}, moves[1])
	assert.Equal(t, Move{Step: 0, Label: "Go to game start"}, moves[2])
}

func TestMoveListKeepsHistoryLength(t *testing.T) {
	g := New()
	playMoves(t, g, 0, 1, 2, 3)
	require.NoError(t, g.JumpTo(2))

	assert.Len(t, g.MoveList(), 5)
}

func TestStatusText(t *testing.T) {
	g := New()
	assert.Equal(t, "Next player: X", g.StatusText())

	playMoves(t, g, 3, 0, 4, 1, 8, 2)
	assert.Equal(t, "Winner: O", g.StatusText())

	require.NoError(t, g.JumpTo(5))
	assert.Equal(t, "Next player: O", g.StatusText())
}

func TestSnapshot(t *testing.T) {
	g := New()
	playMoves(t, g, 0, 4, 1, 5, 2)
	g.ToggleOrder()

	s := g.Snapshot()

	assert.Equal(t, X, s.Winner)
	assert.Equal(t, []int{0, 1, 2}, s.WinLine)
	assert.True(t, s.OnWinLine(1))
	assert.False(t, s.OnWinLine(4))
	assert.Equal(t, "Winner: X", s.Status)
	assert.Equal(t, 5, s.Step)
	assert.Equal(t, 6, s.HistoryLen)
	assert.False(t, s.Ascending)
	assert.False(t, s.XIsNext)
	assert.Len(t, s.Moves, 6)
}

func TestSnapshotJSON(t *testing.T) {
	g := New()
	playMoves(t, g, 4)

	raw, err := json.Marshal(g.Snapshot())
	require.NoError(t, err)

	var decoded struct {
		Board  []string `json:"board"`
		Winner string   `json:"winner"`
		Status string   `json:"status"`
		Moves  []Move   `json:"moves"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, []string{"", "", "", "", "X", "", "", "", ""}, decoded.Board)
	assert.Equal(t, "", decoded.Winner)
	assert.Equal(t, "Next player: O", decoded.Status)
	assert.Len(t, decoded.Moves, 2)
	assert.NotContains(t, string(raw), "win_line")
}
