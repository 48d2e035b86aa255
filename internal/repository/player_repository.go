package repository

import (
	"context"
	"fmt"
	"time"

	"ctchen222/tictactoe/internal/player"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("repository")

// PlayerRepository defines the interface for player data operations.
type PlayerRepository interface {
	FindSession(ctx context.Context, id string) (sessionID string, status player.PlayerStatus, err error)
	Attach(ctx context.Context, id, sessionID string) error
	UpdateConnectionStatus(ctx context.Context, id string, status player.PlayerStatus) error
}

type redisPlayerRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPlayerRepository creates a new Redis-based PlayerRepository.
func NewPlayerRepository(rdb *redis.Client, ttl time.Duration) PlayerRepository {
	return &redisPlayerRepository{
		rdb: rdb,
		ttl: ttl,
	}
}

func playerKey(id string) string {
	return fmt.Sprintf("player:%s", id)
}

// FindSession returns the session a player was last attached to. An unknown
// player yields an empty session ID and no error.
func (r *redisPlayerRepository) FindSession(ctx context.Context, id string) (string, player.PlayerStatus, error) {
	ctx, span := tracer.Start(ctx, "PlayerRepository.FindSession")
	defer span.End()

	data, err := r.rdb.HGetAll(ctx, playerKey(id)).Result()
	if err != nil {
		return "", "", err
	}
	return data["session_id"], player.PlayerStatus(data["connection_status"]), nil
}

// Attach records the session a player is playing in and marks them connected.
func (r *redisPlayerRepository) Attach(ctx context.Context, id, sessionID string) error {
	ctx, span := tracer.Start(ctx, "PlayerRepository.Attach")
	defer span.End()

	key := playerKey(id)
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, key, "session_id", sessionID)
	pipe.HSet(ctx, key, "connection_status", string(player.StatusConnected))
	pipe.Expire(ctx, key, r.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// UpdateConnectionStatus updates only the connection status of a player.
func (r *redisPlayerRepository) UpdateConnectionStatus(ctx context.Context, id string, status player.PlayerStatus) error {
	ctx, span := tracer.Start(ctx, "PlayerRepository.UpdateConnectionStatus")
	defer span.End()

	return r.rdb.HSet(ctx, playerKey(id), "connection_status", string(status)).Err()
}
