package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/db"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/player"
	"ctchen222/tictactoe/internal/session"
	"ctchen222/tictactoe/internal/settings"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// newRedis starts a throwaway Redis container. Tests are skipped without Docker.
func newRedis(t *testing.T) (context.Context, *redis.Client) {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())
	return ctx, rdb
}

func TestSQLiteSettingsRepository(t *testing.T) {
	ctx := context.Background()
	DB, err := db.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = DB.Close() })
	require.NoError(t, db.InitializeDB(DB))

	repo := NewSQLiteSettingsRepository(DB)

	t.Run("unknown player gets defaults", func(t *testing.T) {
		snap, err := repo.Load(ctx, "nobody")
		require.NoError(t, err)
		assert.Equal(t, settings.Default(), snap)
	})

	t.Run("save then load, and upsert", func(t *testing.T) {
		want := settings.Snapshot{Mode: settings.ModeAI, BoardSize: 4, Theme: "neon", Scores: settings.Scores{X: 1, Draw: 2}}
		require.NoError(t, repo.Save(ctx, "p1", want))

		got, err := repo.Load(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, want, got)

		want.Scores.O = 5
		require.NoError(t, repo.Save(ctx, "p1", want))
		got, err = repo.Load(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, 5, got.Scores.O)
	})

	t.Run("corrupted value falls back to defaults", func(t *testing.T) {
		_, err := DB.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)`, settings.Key("p2"), "{not json")
		require.NoError(t, err)

		got, err := repo.Load(ctx, "p2")
		require.NoError(t, err)
		assert.Equal(t, settings.Default(), got)
	})

	t.Run("invalid snapshot is not saved", func(t *testing.T) {
		err := repo.Save(ctx, "p3", settings.Snapshot{Mode: "online", BoardSize: 3, Theme: "x"})
		assert.Error(t, err)
	})
}

func TestRedisSettingsRepository(t *testing.T) {
	ctx, rdb := newRedis(t)
	repo := NewRedisSettingsRepository(rdb)

	snap, err := repo.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, settings.Default(), snap)

	want := settings.Snapshot{Mode: settings.ModePVP, BoardSize: 5, Theme: "dark", Scores: settings.Scores{O: 3}}
	require.NoError(t, repo.Save(ctx, "p1", want))
	got, err := repo.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, rdb.Set(ctx, settings.Key("p2"), "garbage", 0).Err())
	got, err = repo.Load(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, settings.Default(), got)
}

func TestRedisGameRepository(t *testing.T) {
	ctx, rdb := newRedis(t)
	repo := NewGameRepository(rdb, time.Hour)

	s, err := session.New("room-1", settings.Default(), bot.Hard)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, s))

	t.Run("find returns the stored session", func(t *testing.T) {
		got, err := repo.FindByID(ctx, "room-1")
		require.NoError(t, err)
		assert.Equal(t, s.Game.Board, got.Game.Board)
		assert.Equal(t, settings.ModePVP, got.Mode)
	})

	t.Run("update applies the mutation atomically", func(t *testing.T) {
		got, err := repo.Update(ctx, "room-1", func(s *session.Session) error {
			_, err := s.Play(4)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, game.PlayerX, got.Game.Board[4])

		stored, err := repo.FindByID(ctx, "room-1")
		require.NoError(t, err)
		assert.Equal(t, game.PlayerO, stored.Game.CurrentTurn)
	})

	t.Run("mutation errors abort the write", func(t *testing.T) {
		_, err := repo.Update(ctx, "room-1", func(s *session.Session) error {
			_, err := s.Play(4)
			return err
		})
		assert.ErrorIs(t, err, game.ErrCellOccupied)
	})

	t.Run("missing session", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "missing")
		assert.True(t, errors.Is(err, ErrGameNotFound))

		require.NoError(t, repo.Delete(ctx, "room-1"))
		_, err = repo.FindByID(ctx, "room-1")
		assert.ErrorIs(t, err, ErrGameNotFound)
	})
}

func TestRedisPlayerRepository(t *testing.T) {
	ctx, rdb := newRedis(t)
	repo := NewPlayerRepository(rdb, time.Hour)

	sessionID, _, err := repo.FindSession(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, sessionID)

	require.NoError(t, repo.Attach(ctx, "p1", "room-1"))
	require.NoError(t, repo.UpdateConnectionStatus(ctx, "p1", player.StatusDisconnected))

	sessionID, status, err := repo.FindSession(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "room-1", sessionID)
	assert.Equal(t, player.StatusDisconnected, status)
}
