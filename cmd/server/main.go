package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apirepository "ctchen222/tictactoe/internal/api/repository"
	"ctchen222/tictactoe/internal/api/service"
	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/config"
	"ctchen222/tictactoe/internal/db"
	"ctchen222/tictactoe/internal/hub"
	"ctchen222/tictactoe/internal/logger"
	"ctchen222/tictactoe/internal/repository"
	"ctchen222/tictactoe/internal/room"
	"ctchen222/tictactoe/internal/server"
	"ctchen222/tictactoe/internal/telemetry"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	logger.Init(cfg.LogLevel)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	rdb, err := db.NewRedisClient(ctx, cfg.Redis.Addr)
	if err != nil {
		return err
	}
	defer rdb.Close()

	DB, err := db.Connect(cfg.SQLite.Path)
	if err != nil {
		return err
	}
	defer DB.Close()
	if err := db.InitializeDB(DB); err != nil {
		return err
	}

	// Create repositories
	gameRepo := repository.NewGameRepository(rdb, cfg.Redis.SessionTTL)
	playerRepo := repository.NewPlayerRepository(rdb, cfg.Redis.SessionTTL)
	var settingsRepo repository.SettingsRepository
	switch cfg.Settings.Backend {
	case "sqlite":
		settingsRepo = repository.NewSQLiteSettingsRepository(DB)
	default:
		settingsRepo = repository.NewRedisSettingsRepository(rdb)
	}
	userRepo := apirepository.NewUserRepository(DB)

	// Create services
	userService := service.NewUserService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	hubCtx, cancelHub := context.WithCancel(context.Background())
	h := hub.NewHub(gameRepo, playerRepo, settingsRepo, room.Options{
		ThinkTime:  cfg.Bot.ThinkTime,
		Difficulty: bot.ParseDifficulty(cfg.Bot.Difficulty),
	})
	settingsService := service.NewSettingsService(settingsRepo, gameRepo, playerRepo, h)
	hubDone := make(chan struct{})
	go func() {
		h.Run(hubCtx)
		close(hubDone)
	}()

	srv := server.NewServer(h, userService, settingsService, "./web")
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server started", "addr", cfg.HTTPAddr, "settings.backend", cfg.Settings.Backend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			cancelHub()
			<-hubDone
			return err
		}
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown; the hub closes them.
	cancelHub()
	<-hubDone
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("Server exiting")
	return nil
}
