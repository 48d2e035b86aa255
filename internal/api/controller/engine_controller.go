package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"ctchen222/tictactoe/internal/api/models"
	"ctchen222/tictactoe/internal/api/response"
	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/validator"

	"github.com/gin-gonic/gin"
)

// EngineController exposes the outcome evaluator and move search as
// stateless JSON endpoints.
type EngineController struct{}

func NewEngineController() *EngineController {
	return &EngineController{}
}

func (ec *EngineController) Evaluate(c *gin.Context) {
	var req models.EvaluateRequest
	if !bindRequest(c, &req) || !checkBoard(c, req.Board, req.Size) {
		return
	}
	response.SuccessResponse(c, game.Evaluate(req.Board, req.Size))
}

func (ec *EngineController) BestMove(c *gin.Context) {
	var req models.BestMoveRequest
	if !bindRequest(c, &req) || !checkBoard(c, req.Board, req.Size) {
		return
	}
	move := bot.BestMove(req.Board, req.AIMark, req.OpponentMark, req.Size)
	response.SuccessResponse(c, models.BestMoveResponse{Move: move})
}

func (ec *EngineController) Lines(c *gin.Context) {
	size, err := strconv.Atoi(c.Param("size"))
	if err != nil || !game.ValidSize(size) {
		response.ErrorResponse(c, http.StatusBadRequest, fmt.Sprintf("size must be between %d and %d", game.MinSize, game.MaxSize))
		return
	}
	response.SuccessResponse(c, models.LinesResponse{Size: size, Lines: game.BuildLines(size)})
}

func bindRequest(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return false
	}
	if err := validator.GetValidator().Struct(req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func checkBoard(c *gin.Context, board []game.PlayerMark, size int) bool {
	if len(board) != size*size {
		response.ErrorResponse(c, http.StatusBadRequest, fmt.Sprintf("board must have %d cells", size*size))
		return false
	}
	return true
}
