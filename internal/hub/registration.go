package hub

import (
	"context"
	"errors"
	"log/slog"

	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/hub/types"
	"ctchen222/tictactoe/internal/repository"
	"ctchen222/tictactoe/internal/room"
	"ctchen222/tictactoe/internal/session"
	"ctchen222/tictactoe/internal/settings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func (h *Hub) handleRegistration(ctx context.Context, req *types.RegistrationRequest) {
	p := req.Player
	ctx, span := tracer.Start(ctx, "hub.handleRegistration", trace.WithAttributes(
		attribute.String("player.id", p.ID),
	))
	defer span.End()

	s, err := h.resumeSession(ctx, p.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Could not look up previous session", "player.id", p.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Could not look up previous session")
		_ = p.Conn.Close()
		return
	}

	if s == nil {
		s, err = h.createSession(ctx, req)
		if err != nil {
			slog.ErrorContext(ctx, "Could not create session", "player.id", p.ID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Could not create session")
			_ = p.Conn.Close()
			return
		}
	} else {
		slog.InfoContext(ctx, "Player resumed session", "player.id", p.ID, "room.id", s.ID)
	}
	span.SetAttributes(attribute.String("room.id", s.ID))

	if err := h.playerRepo.Attach(ctx, p.ID, s.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to attach player to session", "player.id", p.ID, "room.id", s.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to attach player to session")
		_ = p.Conn.Close()
		return
	}

	// A second tab for the same session takes over from the first.
	if old, ok := h.rooms[s.ID]; ok {
		old.Close()
		<-old.Done
	}

	r := room.NewRoom(s.ID, p, h.gameRepo, h.playerRepo, h.settingsRepo, h.opts)
	h.rooms[s.ID] = r
	go r.Start(h.unregister)
}

// resumeSession returns the player's live session, or nil when there is none.
func (h *Hub) resumeSession(ctx context.Context, playerID string) (*session.Session, error) {
	sessionID, _, err := h.playerRepo.FindSession(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if sessionID == "" {
		return nil, nil
	}

	s, err := h.gameRepo.FindByID(ctx, sessionID)
	if errors.Is(err, repository.ErrGameNotFound) {
		return nil, nil
	}
	return s, err
}

func (h *Hub) createSession(ctx context.Context, req *types.RegistrationRequest) (*session.Session, error) {
	snap, err := h.settingsRepo.Load(ctx, req.Player.ID)
	if err != nil {
		slog.WarnContext(ctx, "Could not load settings, using defaults", "player.id", req.Player.ID, "error", err)
		snap = settings.Default()
	}

	if mode := settings.Mode(req.Mode); mode == settings.ModePVP || mode == settings.ModeAI {
		snap.Mode = mode
	}
	if game.ValidSize(req.Size) {
		snap.BoardSize = req.Size
	}

	difficulty := h.opts.Difficulty
	if req.Difficulty != "" {
		difficulty = bot.ParseDifficulty(req.Difficulty)
	}

	s, err := session.New(uuid.NewString(), snap, difficulty)
	if err != nil {
		return nil, err
	}
	if err := h.gameRepo.Create(ctx, s); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Session created", "player.id", req.Player.ID, "room.id", s.ID, "mode", s.Mode, "board.size", s.Game.Size)
	return s, nil
}
