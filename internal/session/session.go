// Package session owns the state of one browser's game: the current round,
// the chosen mode, board size and theme, and the running scores.
package session

import (
	"errors"
	"fmt"

	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/settings"
)

var ErrInvalidMode = errors.New("invalid game mode")

// Session is the state-owning controller between the transport and the game core.
type Session struct {
	ID         string          `json:"id"`
	Mode       settings.Mode   `json:"mode"`
	Theme      string          `json:"theme"`
	HumanMark  game.PlayerMark `json:"human_mark"`
	AIMark     game.PlayerMark `json:"ai_mark,omitempty"`
	Difficulty bot.Difficulty  `json:"difficulty,omitempty"`
	Game       *game.Game      `json:"game"`
	Scores     settings.Scores `json:"scores"`
}

// New starts a session from a persisted snapshot. In AI mode the human plays X.
func New(id string, snap settings.Snapshot, difficulty bot.Difficulty) (*Session, error) {
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	g, err := game.NewGame(snap.BoardSize)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:         id,
		Mode:       snap.Mode,
		Theme:      snap.Theme,
		HumanMark:  game.PlayerX,
		Difficulty: difficulty,
		Game:       g,
		Scores:     snap.Scores,
	}
	s.assignMarks()
	return s, nil
}

func (s *Session) assignMarks() {
	if s.Mode == settings.ModeAI {
		s.AIMark = s.HumanMark.Opponent()
	} else {
		s.AIMark = game.None
	}
}

// Play applies the current player's mark at index. A finished round updates the scores.
func (s *Session) Play(index int) (game.Outcome, error) {
	if err := s.Game.Move(index); err != nil {
		return s.Game.Outcome, err
	}

	outcome := s.Game.Outcome
	switch {
	case outcome.IsWin() && outcome.Mark == game.PlayerX:
		s.Scores.X++
	case outcome.IsWin():
		s.Scores.O++
	case outcome.IsDraw():
		s.Scores.Draw++
	}
	return outcome, nil
}

// AITurn reports whether the bot should move next.
func (s *Session) AITurn() bool {
	return s.Mode == settings.ModeAI &&
		!s.Game.Outcome.IsOver() &&
		s.Game.CurrentTurn == s.AIMark
}

// Restart clears the board for a new round and keeps the scores.
func (s *Session) Restart() {
	g, err := game.NewGame(s.Game.Size)
	if err != nil {
		// Size was validated when the round was created.
		panic(err)
	}
	s.Game = g
}

// Configure changes mode, size and theme. Changing mode or size restarts the round.
func (s *Session) Configure(mode settings.Mode, size int, theme string) error {
	if mode != settings.ModePVP && mode != settings.ModeAI {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if !game.ValidSize(size) {
		return fmt.Errorf("%w: %d", game.ErrInvalidSize, size)
	}

	if theme != "" {
		s.Theme = theme
	}
	if mode == s.Mode && size == s.Game.Size {
		return nil
	}

	g, err := game.NewGame(size)
	if err != nil {
		return err
	}
	s.Mode = mode
	s.Game = g
	s.assignMarks()
	return nil
}

func (s *Session) ResetScores() {
	s.Scores = settings.Scores{}
}

// Snapshot returns the persisted part of the session.
func (s *Session) Snapshot() settings.Snapshot {
	return settings.Snapshot{
		Mode:      s.Mode,
		BoardSize: s.Game.Size,
		Theme:     s.Theme,
		Scores:    s.Scores,
	}
}
