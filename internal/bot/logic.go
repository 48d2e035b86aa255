package bot

import (
	"ctchen222/tictactoe/internal/game"
)

// Difficulty selects how the bot chooses its moves.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty maps a free-form string to a Difficulty, defaulting to Hard.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case Easy, Medium, Hard:
		return Difficulty(s)
	default:
		return Hard
	}
}

// BotMoveCalculator implements MoveCalculator with the package-level strategies.
type BotMoveCalculator struct{}

// CalculateNextMove calls the package-level function to satisfy the interface.
func (c *BotMoveCalculator) CalculateNextMove(board game.Board, size int, mark game.PlayerMark, difficulty Difficulty) int {
	return CalculateNextMove(board, size, mark, difficulty)
}

// CalculateNextMove determines the bot's next move based on the specified difficulty.
func CalculateNextMove(board game.Board, size int, botMark game.PlayerMark, difficulty Difficulty) int {
	switch difficulty {
	case Easy:
		return easyMove(board)
	case Medium:
		return mediumMove(board, size, botMark)
	default:
		return hardMove(board, size, botMark)
	}
}

// easyMove makes a completely random move.
func easyMove(board game.Board) int {
	return randomMove(board)
}

// mediumMove will win if it can, block if it must, otherwise move randomly.
func mediumMove(board game.Board, size int, botMark game.PlayerMark) int {
	if idx, ok := findWinningMove(board, size, botMark); ok {
		return idx
	}
	if idx, ok := findWinningMove(board, size, botMark.Opponent()); ok {
		return idx
	}
	return easyMove(board)
}

// hardMove plays the searched best move.
func hardMove(board game.Board, size int, botMark game.PlayerMark) int {
	return BestMove(board, botMark, botMark.Opponent(), size)
}

// findWinningMove looks for a line holding size-1 of mark and a single empty cell.
func findWinningMove(board game.Board, size int, mark game.PlayerMark) (int, bool) {
	for _, line := range game.BuildLines(size) {
		marks, empties, gap := 0, 0, NoMove
		for _, idx := range line {
			switch board[idx] {
			case mark:
				marks++
			case game.None:
				empties++
				gap = idx
			}
		}
		if marks == size-1 && empties == 1 {
			return gap, true
		}
	}
	return NoMove, false
}
