package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ctchen222/tictactoe/internal/settings"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -destination=mocks/mock_repositories.go -package=mocks ctchen222/tictactoe/internal/repository GameRepository,PlayerRepository,SettingsRepository

// SettingsRepository persists a player's settings snapshot as a single value
// under settings.Key. Load never fails on unreadable data; it returns defaults.
type SettingsRepository interface {
	Load(ctx context.Context, playerID string) (settings.Snapshot, error)
	Save(ctx context.Context, playerID string, snap settings.Snapshot) error
}

type redisSettingsRepository struct {
	rdb *redis.Client
}

// NewRedisSettingsRepository stores snapshots as plain Redis strings.
func NewRedisSettingsRepository(rdb *redis.Client) SettingsRepository {
	return &redisSettingsRepository{rdb: rdb}
}

func (r *redisSettingsRepository) Load(ctx context.Context, playerID string) (settings.Snapshot, error) {
	ctx, span := tracer.Start(ctx, "SettingsRepository.Load")
	defer span.End()

	raw, err := r.rdb.Get(ctx, settings.Key(playerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return settings.Default(), nil
	}
	if err != nil {
		return settings.Default(), fmt.Errorf("failed to get settings from redis: %w", err)
	}
	return settings.Decode(raw), nil
}

func (r *redisSettingsRepository) Save(ctx context.Context, playerID string, snap settings.Snapshot) error {
	ctx, span := tracer.Start(ctx, "SettingsRepository.Save")
	defer span.End()

	data, err := settings.Encode(snap)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, settings.Key(playerID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save settings to redis: %w", err)
	}
	return nil
}

type sqliteSettingsRepository struct {
	db *sqlx.DB
}

// NewSQLiteSettingsRepository stores snapshots in the kv table.
func NewSQLiteSettingsRepository(db *sqlx.DB) SettingsRepository {
	return &sqliteSettingsRepository{db: db}
}

func (r *sqliteSettingsRepository) Load(ctx context.Context, playerID string) (settings.Snapshot, error) {
	ctx, span := tracer.Start(ctx, "SettingsRepository.Load")
	defer span.End()

	var raw string
	err := r.db.GetContext(ctx, &raw, `SELECT value FROM kv WHERE key = ?`, settings.Key(playerID))
	if errors.Is(err, sql.ErrNoRows) {
		return settings.Default(), nil
	}
	if err != nil {
		return settings.Default(), fmt.Errorf("failed to get settings from sqlite: %w", err)
	}
	return settings.Decode([]byte(raw)), nil
}

func (r *sqliteSettingsRepository) Save(ctx context.Context, playerID string, snap settings.Snapshot) error {
	ctx, span := tracer.Start(ctx, "SettingsRepository.Save")
	defer span.End()

	data, err := settings.Encode(snap)
	if err != nil {
		return err
	}

	query := `INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := r.db.ExecContext(ctx, query, settings.Key(playerID), string(data)); err != nil {
		return fmt.Errorf("failed to save settings to sqlite: %w", err)
	}
	return nil
}
