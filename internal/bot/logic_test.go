package bot

import (
	"slices"
	"testing"

	"ctchen222/tictactoe/internal/game"
)

const (
	X = game.PlayerX
	O = game.PlayerO
	E = game.None
)

func TestBestMove(t *testing.T) {
	tests := []struct {
		name     string
		board    game.Board
		ai, opp  game.PlayerMark
		wantMove int
	}{
		{
			name:     "takes a winning move",
			board:    game.Board{O, O, E, X, X, E, E, E, E},
			ai:       O,
			opp:      X,
			wantMove: 2,
		},
		{
			name:     "blocks opponent winning move",
			board:    game.Board{X, X, E, E, O, E, E, E, E},
			ai:       O,
			opp:      X,
			wantMove: 2,
		},
		{
			name:     "prefers winning now over blocking",
			board:    game.Board{X, X, E, O, O, E, E, E, E},
			ai:       O,
			opp:      X,
			wantMove: 5,
		},
		{
			name:     "works with the AI playing X",
			board:    game.Board{X, E, E, O, X, E, O, E, E},
			ai:       X,
			opp:      O,
			wantMove: 8,
		},
		{
			name:     "only one spot left",
			board:    game.Board{X, O, X, X, O, O, O, E, X},
			ai:       X,
			opp:      O,
			wantMove: 7,
		},
		{
			name:     "full board has no move",
			board:    game.Board{X, O, X, X, O, O, O, X, X},
			ai:       O,
			opp:      X,
			wantMove: NoMove,
		},
		{
			name:     "empty board ties resolve to the lowest index",
			board:    game.NewBoard(3),
			ai:       X,
			opp:      O,
			wantMove: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.board.Clone()
			got := BestMove(tt.board, tt.ai, tt.opp, 3)
			if got != tt.wantMove {
				t.Errorf("BestMove() got = %d, want %d", got, tt.wantMove)
			}
			if !slices.Equal(before, tt.board) {
				t.Errorf("BestMove() modified the board: %v -> %v", before, tt.board)
			}
		})
	}
}

func TestBestMoveNeverLoses(t *testing.T) {
	// The opponent tries every reply; the searching side must never end up losing.
	var play func(board game.Board, toMove game.PlayerMark)
	play = func(board game.Board, toMove game.PlayerMark) {
		outcome := game.Evaluate(board, 3)
		if outcome.IsWin() && outcome.Mark == X {
			t.Fatalf("AI playing O lost on board %v", board)
		}
		if outcome.IsOver() {
			return
		}
		if toMove == O {
			move := BestMove(board, O, X, 3)
			board[move] = O
			play(board, X)
			board[move] = E
			return
		}
		for _, idx := range game.LegalMoves(board) {
			board[idx] = X
			play(board, O)
			board[idx] = E
		}
	}
	play(game.NewBoard(3), X)
}

func TestBestMoveLargerBoards(t *testing.T) {
	for _, size := range []int{4, 5} {
		board := game.NewBoard(size)
		board[0] = X
		board[size+1] = O
		before := board.Clone()

		for range 50 {
			move := BestMove(board, O, X, size)
			if move < 0 || move >= size*size {
				t.Fatalf("size %d: move %d out of range", size, move)
			}
			if board[move] != E {
				t.Fatalf("size %d: move %d is occupied", size, move)
			}
		}
		if !slices.Equal(before, board) {
			t.Errorf("size %d: board modified", size)
		}
	}

	full := make(game.Board, 16)
	for i := range full {
		full[i] = X
	}
	if got := BestMove(full, O, X, 4); got != NoMove {
		t.Errorf("expected NoMove on a full 4x4 board, got %d", got)
	}
}

func TestFindWinningMove(t *testing.T) {
	tests := []struct {
		name      string
		board     game.Board
		size      int
		mark      game.PlayerMark
		wantIdx   int
		wantFound bool
	}{
		{
			name:      "No winning move - empty board",
			board:     game.NewBoard(3),
			size:      3,
			mark:      X,
			wantIdx:   NoMove,
			wantFound: false,
		},
		{
			name:      "X can win - first row",
			board:     game.Board{X, X, E, O, O, E, E, E, E},
			size:      3,
			mark:      X,
			wantIdx:   2,
			wantFound: true,
		},
		{
			name:      "O can win - second column",
			board:     game.Board{X, O, E, X, O, E, E, E, E},
			size:      3,
			mark:      O,
			wantIdx:   7,
			wantFound: true,
		},
		{
			name:      "O can win - anti-diagonal",
			board:     game.Board{E, E, O, E, O, E, E, E, E},
			size:      3,
			mark:      O,
			wantIdx:   6,
			wantFound: true,
		},
		{
			name: "X can win - 4x4 column",
			board: game.Board{
				X, O, E, E,
				X, O, E, E,
				E, E, E, E,
				X, O, E, E,
			},
			size:      4,
			mark:      X,
			wantIdx:   8,
			wantFound: true,
		},
		{
			name:      "Blocked line is not a win",
			board:     game.Board{X, X, O, E, E, E, E, E, E},
			size:      3,
			mark:      X,
			wantIdx:   NoMove,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, found := findWinningMove(tt.board, tt.size, tt.mark)
			if found != tt.wantFound || idx != tt.wantIdx {
				t.Errorf("findWinningMove() got (%d, %v), want (%d, %v)", idx, found, tt.wantIdx, tt.wantFound)
			}
		})
	}
}

func TestCalculateNextMove(t *testing.T) {
	t.Run("medium blocks on 4x4", func(t *testing.T) {
		board := game.Board{
			X, X, X, E,
			O, O, E, E,
			E, E, E, E,
			E, E, E, E,
		}
		if got := CalculateNextMove(board, 4, O, Medium); got != 3 {
			t.Errorf("expected medium bot to block at 3, got %d", got)
		}
	})

	t.Run("easy picks a legal move", func(t *testing.T) {
		board := game.Board{X, O, X, O, X, O, E, X, O}
		if got := CalculateNextMove(board, 3, O, Easy); got != 6 {
			t.Errorf("expected the only legal move 6, got %d", got)
		}
	})

	t.Run("hard uses the search", func(t *testing.T) {
		board := game.Board{X, X, E, E, O, E, E, E, E}
		if got := CalculateNextMove(board, 3, O, Hard); got != 2 {
			t.Errorf("expected hard bot to block at 2, got %d", got)
		}
	})

	t.Run("unknown difficulty falls back to hard", func(t *testing.T) {
		if got := ParseDifficulty("impossible"); got != Hard {
			t.Errorf("ParseDifficulty() = %s, want %s", got, Hard)
		}
		if got := ParseDifficulty("easy"); got != Easy {
			t.Errorf("ParseDifficulty() = %s, want %s", got, Easy)
		}
	})
}
