package game

import "slices"

// OutcomeKind classifies a board.
type OutcomeKind string

const (
	InProgress OutcomeKind = "in_progress"
	Win        OutcomeKind = "win"
	Draw       OutcomeKind = "draw"
)

// Outcome is the result of evaluating a board. Mark and Line are only set for a Win.
type Outcome struct {
	Kind OutcomeKind `json:"kind"`
	Mark PlayerMark  `json:"winner,omitempty"`
	Line Line        `json:"line,omitempty"`
}

func (o Outcome) IsWin() bool  { return o.Kind == Win }
func (o Outcome) IsDraw() bool { return o.Kind == Draw }

// IsOver reports whether the game has ended either way.
func (o Outcome) IsOver() bool { return o.Kind == Win || o.Kind == Draw }

// Evaluate determines the outcome of a board of the given size.
// The first completed line in BuildLines order wins.
func Evaluate(board Board, size int) Outcome {
	for _, line := range linesFor(size) {
		first := board[line[0]]
		if first == None {
			continue
		}
		if allEqual(board, line, first) {
			return Outcome{Kind: Win, Mark: first, Line: slices.Clone(line)}
		}
	}

	if board.IsFull() {
		return Outcome{Kind: Draw}
	}
	return Outcome{Kind: InProgress}
}

func allEqual(board Board, line Line, mark PlayerMark) bool {
	for _, idx := range line[1:] {
		if board[idx] != mark {
			return false
		}
	}
	return true
}
