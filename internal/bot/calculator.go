package bot

import (
	"context"
	"ctchen222/terminal-tic-tac-toe/internal/game"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("bot")
	meter  = otel.Meter("bot")
)

//go:generate mockgen -destination=mocks/mock_cache.go -package=mocks . SearchCache

// SearchCache stores root search results keyed by position.
type SearchCache interface {
	Get(ctx context.Context, key string) (Result, bool, error)
	Set(ctx context.Context, key string, res Result) error
}

// Calculator picks moves for computer players. It wraps the pure search with
// tracing, metrics and an optional cache.
type Calculator struct {
	cache    SearchCache
	opts     Options
	nodes    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewCalculator creates a Calculator. cache may be nil.
func NewCalculator(cache SearchCache, opts Options) (*Calculator, error) {
	nodes, err := meter.Int64Counter("bot.search.nodes",
		metric.WithDescription("Positions visited by the minimax search"))
	if err != nil {
		return nil, fmt.Errorf("failed to create nodes counter: %w", err)
	}
	duration, err := meter.Float64Histogram("bot.search.duration",
		metric.WithDescription("Wall time of one minimax search"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &Calculator{
		cache:    cache,
		opts:     opts,
		nodes:    nodes,
		duration: duration,
	}, nil
}

// CalculateNextMove determines the next move for p based on the difficulty.
func (c *Calculator) CalculateNextMove(ctx context.Context, board game.Board, p game.Player, difficulty Difficulty) (game.Move, error) {
	ctx, span := tracer.Start(ctx, "bot.CalculateNextMove", trace.WithAttributes(
		attribute.String("board.key", board.Key()),
		attribute.Int("player.index", int(p)),
		attribute.String("bot.difficulty", string(difficulty)),
	))
	defer span.End()

	if err := validateInput(board, p); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid move request")
		return game.Move{}, err
	}

	var (
		move game.Move
		err  error
	)
	switch difficulty {
	case Easy:
		move, err = easyMove(board)
	case Medium:
		move, err = mediumMove(board, p)
	default:
		var res Result
		res, err = c.Evaluate(ctx, board, p, true, 0)
		if err == nil && !res.HasMove {
			err = ErrNoAvailableMoves
		}
		move = res.Move
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to calculate move")
		return game.Move{}, err
	}

	span.SetAttributes(attribute.Int("move.row", move.Row), attribute.Int("move.col", move.Col))
	return move, nil
}

// Evaluate runs the minimax search, consulting the cache first.
func (c *Calculator) Evaluate(ctx context.Context, board game.Board, p game.Player, maximizing bool, depth int) (Result, error) {
	ctx, span := tracer.Start(ctx, "bot.Evaluate", trace.WithAttributes(
		attribute.Bool("search.maximizing", maximizing),
		attribute.Int("search.depth", depth),
		attribute.Bool("search.prune", c.opts.Prune),
	))
	defer span.End()

	key := cacheKey(board, p, maximizing, depth)
	if c.cache != nil {
		res, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "search cache lookup failed", "cache.key", key, "error", err)
			span.RecordError(err)
		} else if ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return res, nil
		}
	}

	start := time.Now()
	res, stats, err := SearchWithOptions(ctx, board, p, maximizing, depth, c.opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Search failed")
		return Result{}, err
	}
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	attrs := metric.WithAttributes(attribute.Int("board.size", board.Size()), attribute.Bool("search.prune", c.opts.Prune))
	c.nodes.Add(ctx, int64(stats.Nodes), attrs)
	c.duration.Record(ctx, elapsed, attrs)
	span.SetAttributes(attribute.Int("search.nodes", stats.Nodes), attribute.Int("search.value", res.Value))
	slog.DebugContext(ctx, "search finished", "board.key", board.Key(), "search.nodes", stats.Nodes, "search.value", res.Value, "search.ms", elapsed)

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, res); err != nil {
			slog.WarnContext(ctx, "search cache store failed", "cache.key", key, "error", err)
			span.RecordError(err)
		}
	}
	return res, nil
}

func cacheKey(board game.Board, p game.Player, maximizing bool, depth int) string {
	return fmt.Sprintf("%s:p%d:m%t:d%d", board.Key(), p, maximizing, depth)
}
