package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"ctchen222/tictactoe/internal/api/models"
	"ctchen222/tictactoe/internal/api/response"
	"ctchen222/tictactoe/internal/api/service"

	"github.com/gin-gonic/gin"
)

// PlayerIDKey is the gin context key the auth middleware stores the caller under.
const PlayerIDKey = "playerID"

type SettingsController struct {
	settingsService service.SettingsService
}

func NewSettingsController(settingsService service.SettingsService) *SettingsController {
	return &SettingsController{settingsService: settingsService}
}

func (sc *SettingsController) Get(c *gin.Context) {
	snap, err := sc.settingsService.Get(c.Request.Context(), c.GetString(PlayerIDKey))
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to load settings", "player.id", c.GetString(PlayerIDKey), "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "could not load settings")
		return
	}
	response.SuccessResponse(c, snap)
}

func (sc *SettingsController) Update(c *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := sc.settingsService.Update(c.Request.Context(), c.GetString(PlayerIDKey), &req)
	if errors.Is(err, service.ErrInvalidSettings) {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to save settings", "player.id", c.GetString(PlayerIDKey), "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "could not save settings")
		return
	}
	response.SuccessResponse(c, snap)
}

func (sc *SettingsController) ResetScores(c *gin.Context) {
	snap, err := sc.settingsService.ResetScores(c.Request.Context(), c.GetString(PlayerIDKey))
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to reset scores", "player.id", c.GetString(PlayerIDKey), "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "could not reset scores")
		return
	}
	response.SuccessResponse(c, snap)
}
