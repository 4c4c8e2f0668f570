package domain

// lines lists every winning triple in scan order.
var lines = [8][3]int{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// WinnerOf returns the mark holding the first complete line, or Empty.
func WinnerOf(b Board) Cell {
	if _, side, ok := winningLine(b); ok {
		return side
	}
	return Empty
}

// WinningLine returns the cells of the first complete line, if any.
func WinningLine(b Board) ([3]int, bool) {
	ln, _, ok := winningLine(b)
	return ln, ok
}

func winningLine(b Board) ([3]int, Cell, bool) {
	for _, ln := range lines {
		a := b[ln[0]]
		if a != Empty && a == b[ln[1]] && a == b[ln[2]] {
			return ln, a, true
		}
	}
	return [3]int{}, Empty, false
}
