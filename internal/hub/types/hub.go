package types

import (
	"context"

	"ctchen222/tictactoe/internal/player"
)

// RegistrationRequest represents a request to attach a browser to a session.
// Mode, Size and Difficulty only apply when a new session is created.
type RegistrationRequest struct {
	Player     *player.Player
	Mode       string // "pvp" or "ai"
	Size       int
	Difficulty string // "easy", "medium", "hard"
	Ctx        context.Context
}
