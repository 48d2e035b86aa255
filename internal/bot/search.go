package bot

import (
	"math"
	"math/rand/v2"

	"ctchen222/tictactoe/internal/game"
)

// NoMove is returned when the board has no empty cell.
const NoMove = -1

// searchSize is the only board size small enough for exhaustive search.
const searchSize = 3

const winScore = 10

// BestMove returns the best index for aiMark to play. On 3x3 boards it runs a full
// minimax search; ties go to the lowest index. Other sizes get a uniformly random
// legal move. The caller's board is never modified.
func BestMove(board game.Board, aiMark, opponentMark game.PlayerMark, size int) int {
	if size != searchSize {
		return randomMove(board)
	}

	s := &searcher{
		board:    board.Clone(),
		size:     size,
		ai:       aiMark,
		opponent: opponentMark,
	}

	bestScore := math.MinInt
	move := NoMove
	for _, idx := range game.LegalMoves(s.board) {
		s.board[idx] = aiMark
		score := s.minimax(0, false)
		s.board[idx] = game.None
		if score > bestScore {
			bestScore = score
			move = idx
		}
	}
	return move
}

// searcher owns a private copy of the board so placements never leak to the caller.
type searcher struct {
	board    game.Board
	size     int
	ai       game.PlayerMark
	opponent game.PlayerMark
}

func (s *searcher) minimax(depth int, maximizing bool) int {
	outcome := game.Evaluate(s.board, s.size)
	switch {
	case outcome.IsWin() && outcome.Mark == s.ai:
		return winScore - depth
	case outcome.IsWin():
		return depth - winScore
	case outcome.IsDraw():
		return 0
	}

	mark, best := s.opponent, math.MaxInt
	if maximizing {
		mark, best = s.ai, math.MinInt
	}

	for _, idx := range game.LegalMoves(s.board) {
		s.board[idx] = mark
		score := s.minimax(depth+1, !maximizing)
		s.board[idx] = game.None

		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}
	return best
}

func randomMove(board game.Board) int {
	moves := game.LegalMoves(board)
	if len(moves) == 0 {
		return NoMove
	}
	return moves[rand.IntN(len(moves))]
}
