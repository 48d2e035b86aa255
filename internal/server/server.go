package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"ctchen222/tictactoe/internal/api/controller"
	"ctchen222/tictactoe/internal/api/service"
	"ctchen222/tictactoe/internal/hub"
	"ctchen222/tictactoe/internal/hub/types"
	"ctchen222/tictactoe/internal/player"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

type Server struct {
	hub         *hub.Hub
	userService service.UserService
	users       *controller.UserController
	settings    *controller.SettingsController
	engine      *controller.EngineController
	upgrader    websocket.Upgrader
	webDir      string
}

// NewServer wires the HTTP surface. Static files are served from webDir.
func NewServer(h *hub.Hub, userService service.UserService, settingsService service.SettingsService, webDir string) *Server {
	return &Server{
		hub:         h,
		userService: userService,
		users:       controller.NewUserController(userService),
		settings:    controller.NewSettingsController(settingsService),
		engine:      controller.NewEngineController(),
		webDir:      webDir,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Engine builds the gin router.
func (s *Server) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), tracing(), requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ws", s.handleWebSocket)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/guest", s.users.GuestLogin)
		auth.POST("/register", s.users.Register)
		auth.POST("/login", s.users.Login)

		settings := api.Group("/settings", authRequired(s.userService))
		settings.GET("", s.settings.Get)
		settings.PUT("", s.settings.Update)
		settings.DELETE("/scores", s.settings.ResetScores)

		engine := api.Group("/engine")
		engine.POST("/evaluate", s.engine.Evaluate)
		engine.POST("/best-move", s.engine.BestMove)
		engine.GET("/lines/:size", s.engine.Lines)
	}

	r.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.webDir))))
	return r
}

// handleWebSocket's only responsibility is to upgrade the connection and
// pass a registration request to the hub. It does not distinguish between
// new and reconnecting players.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
	))
	defer span.End()

	playerID, ok := s.resolvePlayer(c)
	if !ok {
		span.SetStatus(codes.Error, "Invalid token")
		return
	}
	span.SetAttributes(attribute.String("player.id", playerID))

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	size, _ := strconv.Atoi(c.Query("size"))
	req := &types.RegistrationRequest{
		Player:     player.NewPlayer(playerID, conn),
		Mode:       c.Query("mode"),
		Size:       size,
		Difficulty: c.Query("difficulty"),
		// The request context ends when this handler returns.
		Ctx: context.WithoutCancel(ctx),
	}
	span.SetAttributes(attribute.String("game.mode", req.Mode), attribute.Int("board.size", size))

	select {
	case s.hub.Register() <- req:
	case <-s.hub.Done():
		slog.WarnContext(ctx, "Hub stopped, dropping connection", "player.id", playerID)
		span.SetStatus(codes.Error, "Hub stopped")
		_ = conn.Close()
	}
}

// resolvePlayer prefers a signed token, then a playerId query parameter,
// and falls back to a fresh guest ID.
func (s *Server) resolvePlayer(c *gin.Context) (string, bool) {
	if token := c.Query("token"); token != "" {
		playerID, err := s.userService.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return "", false
		}
		return playerID, true
	}
	if playerID := c.Query("playerId"); playerID != "" {
		return playerID, true
	}
	return uuid.NewString(), true
}
