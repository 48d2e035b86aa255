package models

import "ctchen222/tictactoe/internal/settings"

// UpdateSettingsRequest changes the persisted preferences. Scores are only
// cleared through the reset endpoint.
type UpdateSettingsRequest struct {
	Mode      settings.Mode `json:"mode" validate:"required,gamemode"`
	BoardSize int           `json:"boardSize" validate:"required,boardsize"`
	Theme     string        `json:"theme" validate:"required,max=32"`
}
