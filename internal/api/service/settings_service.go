package service

import (
	"context"
	"errors"
	"fmt"

	"ctchen222/tictactoe/internal/api/models"
	"ctchen222/tictactoe/internal/repository"
	"ctchen222/tictactoe/internal/session"
	"ctchen222/tictactoe/internal/settings"
	"ctchen222/tictactoe/internal/validator"
)

var ErrInvalidSettings = errors.New("invalid settings")

// SettingsService reads and changes a player's persisted snapshot.
type SettingsService interface {
	Get(ctx context.Context, playerID string) (settings.Snapshot, error)
	Update(ctx context.Context, playerID string, req *models.UpdateSettingsRequest) (settings.Snapshot, error)
	ResetScores(ctx context.Context, playerID string) (settings.Snapshot, error)
}

// SessionNotifier tells an open room that its session changed underneath it.
type SessionNotifier interface {
	Refresh(sessionID string)
}

type settingsService struct {
	repo       repository.SettingsRepository
	gameRepo   repository.GameRepository
	playerRepo repository.PlayerRepository
	notifier   SessionNotifier
}

// NewSettingsService creates a SettingsService. A player with a live session
// has changes applied to that session first, so the next websocket action
// does not write stale values back.
func NewSettingsService(repo repository.SettingsRepository, gameRepo repository.GameRepository, playerRepo repository.PlayerRepository, notifier SessionNotifier) SettingsService {
	return &settingsService{
		repo:       repo,
		gameRepo:   gameRepo,
		playerRepo: playerRepo,
		notifier:   notifier,
	}
}

func (s *settingsService) Get(ctx context.Context, playerID string) (settings.Snapshot, error) {
	return s.repo.Load(ctx, playerID)
}

// Update keeps the stored scores and replaces the preferences.
func (s *settingsService) Update(ctx context.Context, playerID string, req *models.UpdateSettingsRequest) (settings.Snapshot, error) {
	if err := validator.GetValidator().Struct(req); err != nil {
		return settings.Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	return s.change(ctx, playerID,
		func(sess *session.Session) error {
			return sess.Configure(req.Mode, req.BoardSize, req.Theme)
		},
		func(snap *settings.Snapshot) {
			snap.Mode = req.Mode
			snap.BoardSize = req.BoardSize
			snap.Theme = req.Theme
		},
	)
}

func (s *settingsService) ResetScores(ctx context.Context, playerID string) (settings.Snapshot, error) {
	return s.change(ctx, playerID,
		func(sess *session.Session) error {
			sess.ResetScores()
			return nil
		},
		func(snap *settings.Snapshot) {
			snap.Scores = settings.Scores{}
		},
	)
}

// change applies mutateSession to the player's live session when there is one,
// and saves the resulting snapshot. Without a session, mutateSnapshot edits
// the stored snapshot instead.
func (s *settingsService) change(ctx context.Context, playerID string, mutateSession func(*session.Session) error, mutateSnapshot func(*settings.Snapshot)) (settings.Snapshot, error) {
	sessionID, _, err := s.playerRepo.FindSession(ctx, playerID)
	if err != nil {
		return settings.Snapshot{}, err
	}

	if sessionID != "" {
		sess, err := s.gameRepo.Update(ctx, sessionID, mutateSession)
		switch {
		case err == nil:
			snap := sess.Snapshot()
			if err := s.repo.Save(ctx, playerID, snap); err != nil {
				return settings.Snapshot{}, err
			}
			if s.notifier != nil {
				s.notifier.Refresh(sessionID)
			}
			return snap, nil
		case !errors.Is(err, repository.ErrGameNotFound):
			return settings.Snapshot{}, err
		}
	}

	snap, err := s.repo.Load(ctx, playerID)
	if err != nil {
		return settings.Snapshot{}, err
	}
	mutateSnapshot(&snap)

	if err := s.repo.Save(ctx, playerID, snap); err != nil {
		return settings.Snapshot{}, err
	}
	return snap, nil
}
