package room

import (
	"context"
	"encoding/json"
	"log/slog"

	"ctchen222/tictactoe/internal/player"
	"ctchen222/tictactoe/pkg/proto"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Send writes a message to the room's player. Only the run loop writes.
func (r *Room) Send(ctx context.Context, message *proto.ServerMessage) {
	_, span := tracer.Start(ctx, "room.Send", trace.WithAttributes(
		attribute.String("room.id", r.ID),
		attribute.String("message.type", message.Type),
	))
	defer span.End()

	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error marshalling message")
		return
	}

	if r.ctx.Err() != nil {
		return
	}
	if err := r.Player.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.ErrorContext(ctx, "error writing message to player", "player.id", r.Player.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error writing message to player")
	}
}

func (r *Room) sendError(ctx context.Context, reason string) {
	r.Send(ctx, proto.NewErrorMessage(reason))
}

// ReadPump pumps messages from the websocket connection to the room's run loop.
func (r *Room) ReadPump() {
	ctx, span := tracer.Start(r.ctx, "room.ReadPump", trace.WithAttributes(
		attribute.String("player.id", r.Player.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	defer func() {
		// A room closed by the hub or by shutdown is not a player disconnect.
		if r.ctx.Err() != nil {
			return
		}
		defer r.Close()

		disconnectCtx, disconnectSpan := tracer.Start(ctx, "room.ReadPump.disconnectHandler", trace.WithAttributes(
			attribute.String("player.id", r.Player.ID),
			attribute.String("room.id", r.ID),
		))
		defer disconnectSpan.End()

		if err := r.playerRepo.UpdateConnectionStatus(disconnectCtx, r.Player.ID, player.StatusDisconnected); err != nil {
			slog.ErrorContext(disconnectCtx, "Failed to set player status to disconnected", "player.id", r.Player.ID, "error", err)
			disconnectSpan.RecordError(err)
			disconnectSpan.SetStatus(codes.Error, "Failed to set player status to disconnected")
		}
		slog.InfoContext(disconnectCtx, "Player disconnected.", "player.id", r.Player.ID, "room.id", r.ID)
	}()

	for {
		_, msg, err := r.Player.Conn.ReadMessage()
		if err != nil {
			slog.WarnContext(ctx, "Player connection error", "player.id", r.Player.ID, "room.id", r.ID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Player connection error")
			return
		}
		select {
		case r.incoming <- msg:
		case <-r.ctx.Done():
			return
		}
	}
}
