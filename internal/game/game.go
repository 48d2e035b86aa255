package game

import (
	"errors"
	"fmt"
)

var (
	ErrGameOver     = errors.New("game already finished")
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrCellOccupied = errors.New("cell already occupied")
	ErrInvalidSize  = errors.New("invalid board size")
)

// Supported board sizes.
const (
	MinSize = 3
	MaxSize = 5
)

// ValidSize reports whether size is a playable board size.
func ValidSize(size int) bool {
	return size >= MinSize && size <= MaxSize
}

// Game is a single round on an N×N board. X always moves first.
type Game struct {
	Size        int        `json:"size"`
	Board       Board      `json:"board"`
	CurrentTurn PlayerMark `json:"next"`
	Outcome     Outcome    `json:"outcome"`
}

func NewGame(size int) (*Game, error) {
	if !ValidSize(size) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return &Game{
		Size:        size,
		Board:       NewBoard(size),
		CurrentTurn: PlayerX,
		Outcome:     Outcome{Kind: InProgress},
	}, nil
}

// Move places the current player's mark at index and re-evaluates the board.
// The turn only passes to the opponent while the game is still in progress.
func (g *Game) Move(index int) error {
	if g.Outcome.IsOver() {
		return ErrGameOver
	}
	if index < 0 || index >= len(g.Board) {
		return fmt.Errorf("%w: %d", ErrInvalidCell, index)
	}
	if g.Board[index] != None {
		return ErrCellOccupied
	}

	g.Board[index] = g.CurrentTurn
	g.Outcome = Evaluate(g.Board, g.Size)
	if !g.Outcome.IsOver() {
		g.CurrentTurn = g.CurrentTurn.Opponent()
	}
	return nil
}
