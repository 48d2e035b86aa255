package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ctchen222/tictactoe/internal/session"

	"github.com/go-redis/redis/v8"
)

var ErrGameNotFound = errors.New("game not found")

const fieldState = "state"

// GameRepository stores live sessions so a reconnecting browser can resume its round.
type GameRepository interface {
	Create(ctx context.Context, s *session.Session) error
	FindByID(ctx context.Context, id string) (*session.Session, error)
	Update(ctx context.Context, id string, mutate func(*session.Session) error) (*session.Session, error)
	Delete(ctx context.Context, id string) error
}

type redisGameRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewGameRepository creates a new Redis-based GameRepository. Sessions expire
// after ttl without updates.
func NewGameRepository(rdb *redis.Client, ttl time.Duration) GameRepository {
	return &redisGameRepository{rdb: rdb, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Create stores a new session, overwriting any previous state with the same ID.
func (r *redisGameRepository) Create(ctx context.Context, s *session.Session) error {
	ctx, span := tracer.Start(ctx, "GameRepository.Create")
	defer span.End()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key := sessionKey(s.ID)
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, key, fieldState, data)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create session in redis: %w", err)
	}
	return nil
}

// FindByID retrieves a session from Redis.
func (r *redisGameRepository) FindByID(ctx context.Context, id string) (*session.Session, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.FindByID")
	defer span.End()

	return r.load(ctx, r.rdb, id)
}

type hashGetter interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
}

func (r *redisGameRepository) load(ctx context.Context, c hashGetter, id string) (*session.Session, error) {
	data, err := c.HGet(ctx, sessionKey(id), fieldState).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// Update loads the session, applies mutate and writes it back inside a WATCH
// transaction. Errors from mutate abort the write and are returned unchanged.
func (r *redisGameRepository) Update(ctx context.Context, id string, mutate func(*session.Session) error) (*session.Session, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.Update")
	defer span.End()

	key := sessionKey(id)
	var updated *session.Session

	txf := func(tx *redis.Tx) error {
		s, err := r.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := mutate(s); err != nil {
			return err
		}

		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fieldState, data)
			pipe.Expire(ctx, key, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = s
		return nil
	}

	if err := r.rdb.Watch(ctx, txf, key); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *redisGameRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "GameRepository.Delete")
	defer span.End()

	return r.rdb.Del(ctx, sessionKey(id)).Err()
}
