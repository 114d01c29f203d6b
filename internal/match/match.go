package match

import (
	"context"
	"ctchen222/terminal-tic-tac-toe/internal/api/models"
	"ctchen222/terminal-tic-tac-toe/internal/events"
	"ctchen222/terminal-tic-tac-toe/internal/game"
	"ctchen222/terminal-tic-tac-toe/internal/player"
	"ctchen222/terminal-tic-tac-toe/internal/repository"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("match")

var ErrMoverCount = errors.New("a match needs exactly one mover per seat")

// Mover chooses the next move for seat p. The board is a copy.
type Mover interface {
	NextMove(ctx context.Context, board game.Board, p game.Player) (game.Move, error)
}

// Observer is told about turn changes so a front end can redraw.
type Observer interface {
	TurnStarted(ctx context.Context, g *game.Game)
	MovePlayed(ctx context.Context, g *game.Game, p game.Player, mv game.Move)
}

// Result is the end state of a match.
type Result struct {
	Board  game.Board
	Winner game.Player
	// WinnerName is empty for a draw.
	WinnerName string
	Moves      int
}

func (r Result) Draw() bool {
	return r.Winner == game.NoPlayer
}

// Message is the line shown when the match ends.
func (r Result) Message() string {
	if r.Draw() {
		return "Draw"
	}
	return r.WinnerName + " wins"
}

// Match drives one game between two seats.
type Match struct {
	ID     string
	Mode   player.Mode
	Roster *player.Roster
	Game   *game.Game

	movers    []Mover
	observer  Observer
	history   repository.HistoryRepository
	publisher events.Publisher
	now       func() time.Time
}

type Option func(*Match)

// WithObserver reports turn changes to o.
func WithObserver(o Observer) Option {
	return func(m *Match) { m.observer = o }
}

// WithHistory saves the finished match to repo.
func WithHistory(repo repository.HistoryRepository) Option {
	return func(m *Match) { m.history = repo }
}

// WithPublisher announces the finished match through pub.
func WithPublisher(pub events.Publisher) Option {
	return func(m *Match) { m.publisher = pub }
}

// New sets up a match on an empty size x size board. movers[i] plays seat i.
func New(mode player.Mode, roster *player.Roster, size int, first game.Player, movers []Mover, opts ...Option) (*Match, error) {
	if err := roster.Validate(); err != nil {
		return nil, err
	}
	if len(movers) != game.Players {
		return nil, fmt.Errorf("%w: got %d", ErrMoverCount, len(movers))
	}
	if first != 0 && first != 1 {
		return nil, fmt.Errorf("invalid first player %d", first)
	}

	m := &Match{
		ID:     uuid.New().String(),
		Mode:   mode,
		Roster: roster,
		Game:   game.NewGame(size, first),
		movers: movers,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Run plays turns until the game ends or a mover fails. A finished match is
// recorded to history and published; failures there are only logged.
func (m *Match) Run(ctx context.Context) (Result, error) {
	ctx, span := tracer.Start(ctx, "match.Run", trace.WithAttributes(
		attribute.String("match.id", m.ID),
		attribute.String("match.mode", m.Mode.String()),
		attribute.Int("board.size", m.Game.Board.Size()),
	))
	defer span.End()

	slog.InfoContext(ctx, "match started", "match.id", m.ID, "match.mode", m.Mode.String(), "player.first", int(m.Game.CurrentTurn))

	for !m.Game.IsOver() {
		p := m.Game.CurrentTurn
		if m.observer != nil {
			m.observer.TurnStarted(ctx, m.Game)
		}

		mv, err := m.movers[p].NextMove(ctx, m.Game.Board.Clone(), p)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Mover failed")
			return Result{}, fmt.Errorf("player %d failed to move: %w", p, err)
		}
		if err := m.Game.Move(mv.Row, mv.Col); err != nil {
			slog.WarnContext(ctx, "mover returned an illegal move", "match.id", m.ID, "player.index", int(p), "move.row", mv.Row, "move.col", mv.Col, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Illegal move")
			return Result{}, err
		}
		slog.DebugContext(ctx, "move played", "match.id", m.ID, "player.index", int(p), "move.row", mv.Row, "move.col", mv.Col)

		if m.observer != nil {
			m.observer.MovePlayed(ctx, m.Game, p, mv)
		}
	}

	res := m.result()
	span.SetAttributes(attribute.Int("match.moves", res.Moves), attribute.Bool("match.draw", res.Draw()))
	slog.InfoContext(ctx, "match finished", "match.id", m.ID, "match.result", res.Message(), "match.moves", res.Moves)

	m.record(ctx, res)
	return res, nil
}

func (m *Match) result() Result {
	res := Result{
		Board:  m.Game.Board.Clone(),
		Winner: m.Game.Winner,
		Moves:  m.Game.Moves,
	}
	if !res.Draw() {
		if p, err := m.Roster.Get(res.Winner); err == nil {
			res.WinnerName = p.Name
		}
	}
	return res
}

func (m *Match) record(ctx context.Context, res Result) {
	names := make([]string, len(m.Roster.Players))
	for i, p := range m.Roster.Players {
		names[i] = p.Name
	}

	if m.history != nil {
		rec := &models.MatchRecord{
			ID:         m.ID,
			BoardSize:  res.Board.Size(),
			Mode:       m.Mode.String(),
			Players:    names,
			Moves:      res.Moves,
			FinishedAt: m.now().UTC(),
		}
		if !res.Draw() {
			w := int(res.Winner)
			rec.Winner = &w
		}
		if err := m.history.Save(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "failed to save match history", "match.id", m.ID, "error", err)
		}
	}

	if m.publisher != nil {
		event, err := events.NewEvent(events.TypeMatchFinished, events.MatchFinishedPayload{
			MatchID: m.ID,
			Mode:    m.Mode.String(),
			Players: names,
			Winner:  res.WinnerName,
			Moves:   res.Moves,
		})
		if err == nil {
			err = m.publisher.Publish(ctx, event)
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to publish match_finished event", "match.id", m.ID, "error", err)
		}
	}
}
