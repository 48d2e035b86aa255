package game

import (
	"slices"
	"sync"
)

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"
)

// Opponent returns the other player's mark.
func (m PlayerMark) Opponent() PlayerMark {
	if m == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// Board is a row-major sequence of size*size cells.
type Board []PlayerMark

// NewBoard returns an empty board for the given side length.
func NewBoard(size int) Board {
	return make(Board, size*size)
}

// Clone returns an independent copy of the board.
func (b Board) Clone() Board {
	return slices.Clone(b)
}

// IsFull reports whether no cell is empty.
func (b Board) IsFull() bool {
	return !slices.Contains(b, None)
}

// Line is an ordered set of board indices that wins when uniformly occupied.
type Line []int

var lineCache sync.Map // int -> []Line

// BuildLines returns the winning lines for a board of the given size:
// rows first, then columns, then the main diagonal and the anti-diagonal.
func BuildLines(size int) []Line {
	return cloneLines(linesFor(size))
}

// linesFor returns the shared cached lines; callers must not modify them.
func linesFor(size int) []Line {
	if cached, ok := lineCache.Load(size); ok {
		return cached.([]Line)
	}

	lines := make([]Line, 0, 2*size+2)
	for r := range size {
		row := make(Line, size)
		for c := range size {
			row[c] = r*size + c
		}
		lines = append(lines, row)
	}
	for c := range size {
		col := make(Line, size)
		for r := range size {
			col[r] = r*size + c
		}
		lines = append(lines, col)
	}

	diag := make(Line, size)
	anti := make(Line, size)
	for i := range size {
		diag[i] = i*size + i
		anti[i] = i*size + (size - 1 - i)
	}
	lines = append(lines, diag, anti)

	actual, _ := lineCache.LoadOrStore(size, lines)
	return actual.([]Line)
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = slices.Clone(l)
	}
	return out
}

// LegalMoves returns the indices of empty cells in ascending order.
func LegalMoves(board Board) []int {
	moves := make([]int, 0, len(board))
	for i, cell := range board {
		if cell == None {
			moves = append(moves, i)
		}
	}
	return moves
}
