// Package settings holds the persisted player preferences and scores.
//
// A snapshot is stored as one JSON value under a version-tagged key.
package settings

import (
	"encoding/json"
	"fmt"

	"ctchen222/tictactoe/internal/validator"
)

const Version = "v1"

// Mode is the kind of opponent.
type Mode string

const (
	ModePVP Mode = "pvp"
	ModeAI  Mode = "ai"
)

const DefaultTheme = "default"

// Scores counts finished rounds.
type Scores struct {
	X    int `json:"X" validate:"gte=0"`
	O    int `json:"O" validate:"gte=0"`
	Draw int `json:"draw" validate:"gte=0"`
}

// Snapshot is everything the browser restores on reload.
type Snapshot struct {
	Mode      Mode   `json:"mode" validate:"gamemode"`
	BoardSize int    `json:"boardSize" validate:"boardsize"`
	Theme     string `json:"theme" validate:"required,max=32"`
	Scores    Scores `json:"scores"`
}

// Default returns the snapshot used when nothing usable is stored.
func Default() Snapshot {
	return Snapshot{
		Mode:      ModePVP,
		BoardSize: 3,
		Theme:     DefaultTheme,
	}
}

// Key returns the storage key for a player's snapshot.
func Key(playerID string) string {
	return fmt.Sprintf("tictactoe:%s:settings:%s", Version, playerID)
}

// Validate checks the snapshot against the supported modes and sizes.
func (s Snapshot) Validate() error {
	return validator.GetValidator().Struct(s)
}

func Encode(s Snapshot) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings snapshot: %w", err)
	}
	return json.Marshal(s)
}

// Decode parses a stored snapshot. Absent, malformed or out-of-range data yields
// Default() rather than an error.
func Decode(raw []byte) Snapshot {
	if len(raw) == 0 {
		return Default()
	}

	s := Default()
	if err := json.Unmarshal(raw, &s); err != nil {
		return Default()
	}
	if err := s.Validate(); err != nil {
		return Default()
	}
	return s
}
