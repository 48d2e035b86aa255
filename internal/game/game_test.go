package game

import (
	"errors"
	"slices"
	"testing"
)

func TestEvaluate(t *testing.T) {
	const (
		X = PlayerX
		O = PlayerO
		E = None
	)

	tests := []struct {
		name  string
		board Board
		size  int
		want  Outcome
	}{
		{
			name:  "empty board is in progress",
			board: NewBoard(3),
			size:  3,
			want:  Outcome{Kind: InProgress},
		},
		{
			name:  "X wins - first row",
			board: Board{X, X, X, E, E, E, E, E, E},
			size:  3,
			want:  Outcome{Kind: Win, Mark: X, Line: Line{0, 1, 2}},
		},
		{
			name:  "O wins - second column",
			board: Board{X, O, E, X, O, E, E, O, E},
			size:  3,
			want:  Outcome{Kind: Win, Mark: O, Line: Line{1, 4, 7}},
		},
		{
			name:  "X wins - main diagonal",
			board: Board{X, O, E, E, X, O, E, E, X},
			size:  3,
			want:  Outcome{Kind: Win, Mark: X, Line: Line{0, 4, 8}},
		},
		{
			name:  "O wins - anti-diagonal",
			board: Board{E, E, O, E, O, E, O, X, X},
			size:  3,
			want:  Outcome{Kind: Win, Mark: O, Line: Line{2, 4, 6}},
		},
		{
			name:  "full board without a line is a draw",
			board: Board{X, O, X, X, O, O, O, X, X},
			size:  3,
			want:  Outcome{Kind: Draw},
		},
		{
			name:  "full board with a line is a win, not a draw",
			board: Board{X, X, X, O, O, X, O, X, O},
			size:  3,
			want:  Outcome{Kind: Win, Mark: X, Line: Line{0, 1, 2}},
		},
		{
			name:  "row beats column when both complete",
			board: Board{X, X, X, X, O, O, X, O, O},
			size:  3,
			want:  Outcome{Kind: Win, Mark: X, Line: Line{0, 1, 2}},
		},
		{
			name: "O wins - 4x4 first row",
			board: Board{
				O, O, O, O,
				E, E, E, E,
				E, E, E, E,
				E, E, E, E,
			},
			size: 4,
			want: Outcome{Kind: Win, Mark: O, Line: Line{0, 1, 2, 3}},
		},
		{
			name: "three in a row is not enough on 4x4",
			board: Board{
				X, X, X, E,
				O, O, O, E,
				E, E, E, E,
				E, E, E, E,
			},
			size: 4,
			want: Outcome{Kind: InProgress},
		},
		{
			name: "X wins - 5x5 anti-diagonal",
			board: Board{
				E, E, E, E, X,
				E, E, E, X, O,
				E, E, X, O, E,
				E, X, O, E, E,
				X, O, E, E, E,
			},
			size: 5,
			want: Outcome{Kind: Win, Mark: X, Line: Line{4, 8, 12, 16, 20}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.board, tt.size)
			if got.Kind != tt.want.Kind || got.Mark != tt.want.Mark || !slices.Equal(got.Line, tt.want.Line) {
				t.Errorf("Evaluate() got = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEvaluateIsSymmetricUnderRelabeling(t *testing.T) {
	boards := []Board{
		{PlayerX, PlayerX, PlayerX, None, PlayerO, PlayerO, None, None, None},
		{PlayerX, PlayerO, PlayerX, PlayerX, PlayerO, PlayerO, PlayerO, PlayerX, PlayerX},
		{PlayerO, None, None, None, PlayerX, None, None, None, None},
		{PlayerO, PlayerX, PlayerX, None, PlayerO, PlayerX, None, None, PlayerO},
	}

	for i, board := range boards {
		swapped := make(Board, len(board))
		for j, cell := range board {
			if cell != None {
				swapped[j] = cell.Opponent()
			}
		}

		orig := Evaluate(board, 3)
		relabeled := Evaluate(swapped, 3)
		if orig.Kind != relabeled.Kind || !slices.Equal(orig.Line, relabeled.Line) {
			t.Errorf("board %d: kinds/lines differ: %+v vs %+v", i, orig, relabeled)
		}
		if orig.IsWin() && relabeled.Mark != orig.Mark.Opponent() {
			t.Errorf("board %d: winner not swapped: %s vs %s", i, orig.Mark, relabeled.Mark)
		}
	}
}

func TestEvaluateDoesNotMutate(t *testing.T) {
	board := Board{PlayerX, PlayerO, None, None, PlayerX, None, None, None, PlayerO}
	before := board.Clone()

	first := Evaluate(board, 3)
	second := Evaluate(board, 3)

	if !slices.Equal(board, before) {
		t.Errorf("Evaluate() mutated the board: %v -> %v", before, board)
	}
	if first.Kind != second.Kind || first.Mark != second.Mark {
		t.Errorf("Evaluate() not idempotent: %+v vs %+v", first, second)
	}
}

func TestBuildLines(t *testing.T) {
	for size := 1; size <= 7; size++ {
		lines := BuildLines(size)
		if len(lines) != 2*size+2 {
			t.Fatalf("BuildLines(%d) returned %d lines, want %d", size, len(lines), 2*size+2)
		}
		for _, line := range lines {
			if len(line) != size {
				t.Errorf("BuildLines(%d) line %v has length %d", size, line, len(line))
			}
			for _, idx := range line {
				if idx < 0 || idx >= size*size {
					t.Errorf("BuildLines(%d) index %d out of range", size, idx)
				}
			}
		}
	}

	lines := BuildLines(3)
	want := []Line{{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, {0, 3, 6}, {1, 4, 7}, {2, 5, 8}, {0, 4, 8}, {2, 4, 6}}
	for i := range want {
		if !slices.Equal(lines[i], want[i]) {
			t.Errorf("BuildLines(3)[%d] = %v, want %v", i, lines[i], want[i])
		}
	}
}

func TestBuildLinesReturnsCopies(t *testing.T) {
	first := BuildLines(3)
	first[0][0] = 99

	second := BuildLines(3)
	if second[0][0] != 0 {
		t.Errorf("cached lines were mutated through a returned slice: %v", second[0])
	}
}

func TestLegalMoves(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		want  []int
	}{
		{
			name:  "returns only empty indexes",
			board: Board{PlayerX, None, PlayerO, None, None, PlayerX, None, None, PlayerO},
			want:  []int{1, 3, 4, 6, 7},
		},
		{
			name:  "full board has no moves",
			board: Board{PlayerX, PlayerO, PlayerX, PlayerX, PlayerO, PlayerO, PlayerO, PlayerX, PlayerX},
			want:  []int{},
		},
		{
			name:  "empty 4x4 board",
			board: NewBoard(4),
			want:  []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LegalMoves(tt.board)
			if !slices.Equal(got, tt.want) {
				t.Errorf("LegalMoves() got = %v, want %v", got, tt.want)
			}

			occupied := 0
			for _, cell := range tt.board {
				if cell != None {
					occupied++
				}
			}
			if len(got)+occupied != len(tt.board) {
				t.Errorf("legal moves (%d) + occupied (%d) != board length (%d)", len(got), occupied, len(tt.board))
			}
		})
	}
}

func TestGameMove(t *testing.T) {
	t.Run("turn alternates and X starts", func(t *testing.T) {
		g, err := NewGame(3)
		if err != nil {
			t.Fatalf("NewGame() error = %v", err)
		}
		if g.CurrentTurn != PlayerX {
			t.Fatalf("expected X to start, got %s", g.CurrentTurn)
		}
		if err := g.Move(4); err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if g.CurrentTurn != PlayerO {
			t.Errorf("expected O to move next, got %s", g.CurrentTurn)
		}
	})

	t.Run("rejects occupied and out of range cells", func(t *testing.T) {
		g, _ := NewGame(3)
		_ = g.Move(0)
		if err := g.Move(0); !errors.Is(err, ErrCellOccupied) {
			t.Errorf("expected ErrCellOccupied, got %v", err)
		}
		if err := g.Move(9); !errors.Is(err, ErrInvalidCell) {
			t.Errorf("expected ErrInvalidCell, got %v", err)
		}
		if err := g.Move(-1); !errors.Is(err, ErrInvalidCell) {
			t.Errorf("expected ErrInvalidCell, got %v", err)
		}
	})

	t.Run("winning move ends the game and keeps the winner's turn", func(t *testing.T) {
		g, _ := NewGame(3)
		for _, idx := range []int{0, 3, 1, 4, 2} {
			if err := g.Move(idx); err != nil {
				t.Fatalf("Move(%d) error = %v", idx, err)
			}
		}
		if !g.Outcome.IsWin() || g.Outcome.Mark != PlayerX {
			t.Fatalf("expected X to win, got %+v", g.Outcome)
		}
		if g.CurrentTurn != PlayerX {
			t.Errorf("turn should not pass after a win, got %s", g.CurrentTurn)
		}
		if err := g.Move(8); !errors.Is(err, ErrGameOver) {
			t.Errorf("expected ErrGameOver, got %v", err)
		}
	})

	t.Run("unsupported size", func(t *testing.T) {
		for _, size := range []int{0, 2, 6} {
			if _, err := NewGame(size); !errors.Is(err, ErrInvalidSize) {
				t.Errorf("NewGame(%d) expected ErrInvalidSize, got %v", size, err)
			}
		}
	})
}
