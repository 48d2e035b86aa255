package room

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/player"
	"ctchen222/tictactoe/internal/repository"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	heartbeatInterval = 10 * time.Second
)

var (
	tracer = otel.Tracer("room")
	meter  = otel.Meter("room")

	gamesFinished metric.Int64Counter
)

func init() {
	var err error
	gamesFinished, err = meter.Int64Counter("games.finished",
		metric.WithDescription("Rounds that ended in a win or a draw"),
	)
	if err != nil {
		otel.Handle(err)
	}
}

// Options configures the AI opponent of a room.
type Options struct {
	ThinkTime  time.Duration
	Difficulty bot.Difficulty
}

// botMove is a bot reply tagged with the round it was computed for, so replies
// that arrive after a restart are dropped.
type botMove struct {
	round int
	index int
}

// Room drives one session over one browser connection.
type Room struct {
	ID           string
	Player       *player.Player
	gameRepo     repository.GameRepository
	playerRepo   repository.PlayerRepository
	settingsRepo repository.SettingsRepository
	opts         Options

	bot      *bot.Player
	incoming chan []byte
	botMoves chan botMove
	refresh  chan struct{}
	round    int
	thinking bool

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	Done      chan struct{}
}

// NewRoom creates a room for an existing session.
func NewRoom(id string, p *player.Player, gameRepo repository.GameRepository, playerRepo repository.PlayerRepository, settingsRepo repository.SettingsRepository, opts Options) *Room {
	ctx, cancel := context.WithCancel(context.Background())
	return &Room{
		ID:           id,
		Player:       p,
		gameRepo:     gameRepo,
		playerRepo:   playerRepo,
		settingsRepo: settingsRepo,
		opts:         opts,
		incoming:     make(chan []byte, 10),
		botMoves:     make(chan botMove, 1),
		refresh:      make(chan struct{}, 1),
		ctx:          ctx,
		cancel:       cancel,
		Done:         make(chan struct{}),
	}
}

// Start sends the current state, then runs the room until the connection drops
// or Close is called. The room is handed to unregister when it stops.
func (r *Room) Start(unregister chan<- *Room) {
	go r.ReadPump()
	r.resume(r.ctx)
	r.run()
	close(r.Done)
	unregister <- r
}

// Close stops the room. It is safe to call more than once.
func (r *Room) Close() {
	r.closeOnce.Do(func() {
		r.cancel()
		if r.Player.Conn != nil {
			_ = r.Player.Conn.Close()
		}
	})
}

// Refresh asks the room to reload its session and push it to the player, for
// changes made outside the websocket. It never blocks.
func (r *Room) Refresh() {
	select {
	case r.refresh <- struct{}{}:
	default:
	}
}

// newRound drops any bot reply computed for the previous round.
func (r *Room) newRound() {
	r.round++
	r.thinking = false
}

// run is the main loop for the room; all session mutations happen here.
func (r *Room) run() {
	pingTicker := time.NewTicker(heartbeatInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			slog.Info("Room run loop stopping.", "room.id", r.ID)
			return

		case msg := <-r.incoming:
			r.HandleMessage(r.ctx, msg)

		case move := <-r.botMoves:
			if move.round != r.round {
				slog.Debug("Dropping stale bot move", "room.id", r.ID, "round", move.round)
				continue
			}
			r.thinking = false
			r.applyBotMove(r.ctx, move.index)

		case <-r.refresh:
			r.newRound()
			r.resume(r.ctx)

		case <-pingTicker.C:
			if err := r.Player.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Warn("Failed to send ping to player, assuming disconnect", "player.id", r.Player.ID, "error", err)
				r.Close()
			}
		}
	}
}
