package models

import (
	"ctchen222/tictactoe/internal/game"
)

type EvaluateRequest struct {
	Board []game.PlayerMark `json:"board" validate:"required,dive,omitempty,mark"`
	Size  int               `json:"size" validate:"boardsize"`
}

type BestMoveRequest struct {
	Board        []game.PlayerMark `json:"board" validate:"required,dive,omitempty,mark"`
	AIMark       game.PlayerMark   `json:"aiMark" validate:"mark"`
	OpponentMark game.PlayerMark   `json:"opponentMark" validate:"mark,nefield=AIMark"`
	Size         int               `json:"size" validate:"boardsize"`
}

type BestMoveResponse struct {
	Move int `json:"move"`
}

type LinesResponse struct {
	Size  int         `json:"size"`
	Lines []game.Line `json:"lines"`
}
