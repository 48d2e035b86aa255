package hub

import (
	"context"
	"log/slog"

	"ctchen222/tictactoe/internal/hub/types"
	"ctchen222/tictactoe/internal/repository"
	"ctchen222/tictactoe/internal/room"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("hub")

// Hub owns the rooms of this process, one per live session.
type Hub struct {
	gameRepo     repository.GameRepository
	playerRepo   repository.PlayerRepository
	settingsRepo repository.SettingsRepository
	opts         room.Options

	rooms      map[string]*room.Room
	register   chan *types.RegistrationRequest
	unregister chan *room.Room
	refresh    chan string
	done       chan struct{}
}

// NewHub creates a new hub.
func NewHub(gameRepo repository.GameRepository, playerRepo repository.PlayerRepository, settingsRepo repository.SettingsRepository, opts room.Options) *Hub {
	return &Hub{
		gameRepo:     gameRepo,
		playerRepo:   playerRepo,
		settingsRepo: settingsRepo,
		opts:         opts,
		rooms:        make(map[string]*room.Room),
		register:     make(chan *types.RegistrationRequest),
		unregister:   make(chan *room.Room),
		refresh:      make(chan string),
		done:         make(chan struct{}),
	}
}

// Run serves registrations until ctx is cancelled, then closes every room.
func (h *Hub) Run(ctx context.Context) {
	slog.InfoContext(ctx, "Hub started")
	defer close(h.done)

	for {
		select {
		case req := <-h.register:
			reqCtx := req.Ctx
			if reqCtx == nil {
				reqCtx = ctx
			}
			h.handleRegistration(reqCtx, req)

		case r := <-h.unregister:
			h.removeRoom(r)

		case sessionID := <-h.refresh:
			if r, ok := h.rooms[sessionID]; ok {
				r.Refresh()
			}

		case <-ctx.Done():
			h.shutdown()
			return
		}
	}
}

// Register returns the register channel.
func (h *Hub) Register() chan<- *types.RegistrationRequest {
	return h.register
}

// Done is closed once Run has returned and no more registrations are served.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Refresh pushes the stored state of sessionID to its room, if this process
// has one open.
func (h *Hub) Refresh(sessionID string) {
	select {
	case h.refresh <- sessionID:
	case <-h.done:
	}
}

func (h *Hub) removeRoom(r *room.Room) {
	// A replaced room reports in after its successor took the slot.
	if current, ok := h.rooms[r.ID]; ok && current == r {
		delete(h.rooms, r.ID)
		slog.Info("Room closed", "room.id", r.ID, "player.id", r.Player.ID)
	}
}

func (h *Hub) shutdown() {
	slog.Info("Hub shutting down", "rooms.count", len(h.rooms))
	for _, r := range h.rooms {
		r.Close()
	}
	for len(h.rooms) > 0 {
		h.removeRoom(<-h.unregister)
	}
}
