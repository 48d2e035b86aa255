package bot

import (
	"context"
	"log/slog"
	"time"

	"ctchen222/tictactoe/internal/game"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("bot")
	meter  = otel.Meter("bot")

	moveDuration metric.Float64Histogram
)

func init() {
	var err error
	moveDuration, err = meter.Float64Histogram("bot.move.duration",
		metric.WithDescription("Time spent choosing a bot move, excluding thinking delay"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		otel.Handle(err)
	}
}

// MoveCalculator picks a move for mark on board.
type MoveCalculator interface {
	CalculateNextMove(board game.Board, size int, mark game.PlayerMark, difficulty Difficulty) int
}

// Player is the AI opponent of a session. It pauses for ThinkTime before every
// move so the browser sees the reply arrive at a human pace.
type Player struct {
	ID         string
	Mark       game.PlayerMark
	Difficulty Difficulty
	ThinkTime  time.Duration
	calculator MoveCalculator
}

// NewBotPlayer creates a bot playing mark at the given difficulty.
func NewBotPlayer(mark game.PlayerMark, difficulty Difficulty, thinkTime time.Duration) *Player {
	return &Player{
		ID:         "bot-" + uuid.New().String()[:8],
		Mark:       mark,
		Difficulty: difficulty,
		ThinkTime:  thinkTime,
		calculator: &BotMoveCalculator{},
	}
}

// NextMove waits out the thinking delay and returns the chosen index, or NoMove
// when the board is full. It returns ctx.Err() if ctx ends during the delay.
func (p *Player) NextMove(ctx context.Context, board game.Board, size int) (int, error) {
	ctx, span := tracer.Start(ctx, "bot.NextMove", trace.WithAttributes(
		attribute.String("bot.id", p.ID),
		attribute.String("bot.difficulty", string(p.Difficulty)),
		attribute.Int("board.size", size),
	))
	defer span.End()

	if p.ThinkTime > 0 {
		timer := time.NewTimer(p.ThinkTime)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return NoMove, ctx.Err()
		case <-timer.C:
		}
	}

	start := time.Now()
	move := p.calculator.CalculateNextMove(board.Clone(), size, p.Mark, p.Difficulty)
	elapsed := time.Since(start)

	moveDuration.Record(ctx, float64(elapsed.Microseconds())/1000, metric.WithAttributes(
		attribute.Int("board.size", size),
		attribute.String("difficulty", string(p.Difficulty)),
	))
	span.SetAttributes(attribute.Int("move.index", move))
	slog.DebugContext(ctx, "Bot chose move", "bot.id", p.ID, "mark", p.Mark, "move", move, "elapsed", elapsed)

	return move, nil
}
