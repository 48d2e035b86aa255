package proto

import (
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/session"
	"ctchen222/tictactoe/internal/settings"
)

// Client message types.
const (
	TypeMove        = "move"
	TypeRestart     = "restart"
	TypeConfigure   = "configure"
	TypeResetScores = "reset_scores"
)

// Server message types.
const (
	TypeState     = "state"
	TypeCelebrate = "celebrate"
	TypeError     = "error"
)

// ClientMessage represents a message from the browser to the server.
type ClientMessage struct {
	Type  string `json:"type" validate:"required,oneof=move restart configure reset_scores"`
	Index *int   `json:"index,omitempty" validate:"required_if=Type move"`
	Mode  string `json:"mode,omitempty" validate:"omitempty,gamemode"`
	Size  int    `json:"size,omitempty" validate:"omitempty,boardsize"`
	Theme string `json:"theme,omitempty" validate:"omitempty,max=32"`
}

// ServerMessage represents a message from the server to the browser.
type ServerMessage struct {
	Type      string            `json:"type" validate:"required"`
	Reason    string            `json:"reason,omitempty"`
	SessionID string            `json:"sessionId,omitempty"`
	Board     []game.PlayerMark `json:"board,omitempty"`
	Size      int               `json:"size,omitempty"`
	Next      game.PlayerMark   `json:"next,omitempty"`
	Mode      settings.Mode     `json:"mode,omitempty"`
	Theme     string            `json:"theme,omitempty"`
	HumanMark game.PlayerMark   `json:"humanMark,omitempty"`
	AIMark    game.PlayerMark   `json:"aiMark,omitempty"`
	Winner    game.PlayerMark   `json:"winner,omitempty"`
	Line      game.Line         `json:"line,omitempty"`
	Draw      bool              `json:"draw,omitempty"`
	Scores    *settings.Scores  `json:"scores,omitempty"`
}

// NewStateMessage renders the full session state.
func NewStateMessage(s *session.Session) *ServerMessage {
	scores := s.Scores
	msg := &ServerMessage{
		Type:      TypeState,
		SessionID: s.ID,
		Board:     s.Game.Board,
		Size:      s.Game.Size,
		Mode:      s.Mode,
		Theme:     s.Theme,
		HumanMark: s.HumanMark,
		AIMark:    s.AIMark,
		Draw:      s.Game.Outcome.IsDraw(),
		Scores:    &scores,
	}
	if s.Game.Outcome.IsWin() {
		msg.Winner = s.Game.Outcome.Mark
		msg.Line = s.Game.Outcome.Line
	} else if !s.Game.Outcome.IsOver() {
		msg.Next = s.Game.CurrentTurn
	}
	return msg
}

// NewCelebrateMessage tells the browser to play its win animation.
func NewCelebrateMessage(outcome game.Outcome) *ServerMessage {
	return &ServerMessage{
		Type:   TypeCelebrate,
		Winner: outcome.Mark,
		Line:   outcome.Line,
	}
}

func NewErrorMessage(reason string) *ServerMessage {
	return &ServerMessage{Type: TypeError, Reason: reason}
}
