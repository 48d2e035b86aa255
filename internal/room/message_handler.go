package room

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/session"
	"ctchen222/tictactoe/internal/settings"
	"ctchen222/tictactoe/internal/validator"
	"ctchen222/tictactoe/pkg/proto"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrMissingConfigure = errors.New("configure needs a mode and a size")
)

// HandleMessage handles a message from the player. It acts as a dispatcher.
func (r *Room) HandleMessage(ctx context.Context, rawMessage []byte) {
	ctx, span := tracer.Start(ctx, "room.HandleMessage", trace.WithAttributes(
		attribute.String("player.id", r.Player.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	var message proto.ClientMessage
	if err := json.Unmarshal(rawMessage, &message); err != nil {
		slog.ErrorContext(ctx, "error unmarshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		r.sendError(ctx, "malformed message")
		return
	}

	if err := validator.GetValidator().Struct(message); err != nil {
		slog.WarnContext(ctx, "invalid message from player", "player.id", r.Player.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		r.sendError(ctx, "invalid message")
		return
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	var (
		mutate    func(*session.Session) error
		restarted bool
	)
	switch message.Type {
	case proto.TypeMove:
		index := *message.Index
		span.SetAttributes(attribute.Int("move.index", index))
		mutate = func(s *session.Session) error {
			if s.AITurn() {
				return ErrNotYourTurn
			}
			_, err := s.Play(index)
			return err
		}
	case proto.TypeRestart:
		mutate = func(s *session.Session) error {
			s.Restart()
			restarted = true
			return nil
		}
	case proto.TypeConfigure:
		if message.Mode == "" || message.Size == 0 {
			r.sendError(ctx, ErrMissingConfigure.Error())
			return
		}
		mode := settings.Mode(message.Mode)
		mutate = func(s *session.Session) error {
			changed := mode != s.Mode || message.Size != s.Game.Size
			if err := s.Configure(mode, message.Size, message.Theme); err != nil {
				return err
			}
			restarted = changed
			return nil
		}
	case proto.TypeResetScores:
		mutate = func(s *session.Session) error {
			s.ResetScores()
			return nil
		}
	}

	s, err := r.gameRepo.Update(ctx, r.ID, mutate)
	if err != nil {
		slog.WarnContext(ctx, "rejected message from player", "player.id", r.Player.ID, "type", message.Type, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Rejected message")
		r.sendError(ctx, err.Error())
		return
	}

	if restarted {
		r.newRound()
	}
	r.afterUpdate(ctx, s, message.Type == proto.TypeMove)
}

// applyBotMove plays the index the bot picked for the current round.
func (r *Room) applyBotMove(ctx context.Context, index int) {
	ctx, span := tracer.Start(ctx, "room.applyBotMove", trace.WithAttributes(
		attribute.String("room.id", r.ID),
		attribute.Int("move.index", index),
	))
	defer span.End()

	if index == bot.NoMove {
		return
	}

	s, err := r.gameRepo.Update(ctx, r.ID, func(s *session.Session) error {
		if !s.AITurn() {
			return ErrNotYourTurn
		}
		_, err := s.Play(index)
		return err
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to apply bot move", "room.id", r.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to apply bot move")
		return
	}
	r.afterUpdate(ctx, s, true)
}

// afterUpdate persists the snapshot, pushes the new state and, if the bot is
// next, starts it thinking.
func (r *Room) afterUpdate(ctx context.Context, s *session.Session, played bool) {
	if err := r.settingsRepo.Save(ctx, r.Player.ID, s.Snapshot()); err != nil {
		slog.ErrorContext(ctx, "failed to save settings snapshot", "player.id", r.Player.ID, "error", err)
	}

	r.Send(ctx, proto.NewStateMessage(s))

	outcome := s.Game.Outcome
	if played && outcome.IsOver() {
		gamesFinished.Add(ctx, 1, metric.WithAttributes(
			attribute.String("result", string(outcome.Kind)),
			attribute.String("mode", string(s.Mode)),
			attribute.Int("board.size", s.Game.Size),
		))
		if outcome.IsWin() {
			r.Send(ctx, proto.NewCelebrateMessage(outcome))
		}
	}

	if s.AITurn() {
		r.scheduleBotMove(s)
	}
}

// resume loads the session, sends it, and restarts the bot if it was its turn.
func (r *Room) resume(ctx context.Context) {
	s, err := r.gameRepo.FindByID(ctx, r.ID)
	if err != nil {
		slog.ErrorContext(ctx, "could not load session for room", "room.id", r.ID, "error", err)
		r.sendError(ctx, "session unavailable")
		r.Close()
		return
	}
	r.Send(ctx, proto.NewStateMessage(s))
	if s.AITurn() {
		r.scheduleBotMove(s)
	}
}

// scheduleBotMove starts the bot on the current round unless it is already thinking.
func (r *Room) scheduleBotMove(s *session.Session) {
	if r.thinking {
		return
	}
	r.thinking = true

	if r.bot == nil {
		difficulty := s.Difficulty
		if difficulty == "" {
			difficulty = r.opts.Difficulty
		}
		r.bot = bot.NewBotPlayer(s.AIMark, difficulty, r.opts.ThinkTime)
	}

	b := r.bot
	round := r.round
	board := s.Game.Board.Clone()
	size := s.Game.Size

	go func() {
		index, err := b.NextMove(r.ctx, board, size)
		if err != nil {
			return
		}
		select {
		case r.botMoves <- botMove{round: round, index: index}:
		case <-r.ctx.Done():
		}
	}()
}
