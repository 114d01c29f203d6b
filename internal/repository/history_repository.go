package repository

import (
	"context"
	"ctchen222/terminal-tic-tac-toe/internal/api/models"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("repository")

//go:generate mockgen -destination=mocks/mock_history.go -package=mocks . HistoryRepository

// HistoryRepository defines the interface for match history operations.
type HistoryRepository interface {
	Save(ctx context.Context, rec *models.MatchRecord) error
	ListRecent(ctx context.Context, limit int) ([]models.MatchRecord, error)
}

type matchRow struct {
	ID         string        `db:"id"`
	BoardSize  int           `db:"board_size"`
	Mode       string        `db:"mode"`
	Players    string        `db:"players"`
	Winner     sql.NullInt64 `db:"winner"`
	Moves      int           `db:"moves"`
	FinishedAt int64         `db:"finished_at"`
}

type sqliteHistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new SQLite-based HistoryRepository.
func NewHistoryRepository(db *sqlx.DB) HistoryRepository {
	return &sqliteHistoryRepository{db: db}
}

// Save inserts a finished match.
func (r *sqliteHistoryRepository) Save(ctx context.Context, rec *models.MatchRecord) error {
	ctx, span := tracer.Start(ctx, "HistoryRepository.Save", trace.WithAttributes(
		attribute.String("match.id", rec.ID),
	))
	defer span.End()

	row, err := toRow(rec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to encode match")
		return err
	}

	query := `INSERT INTO matches (id, board_size, mode, players, winner, moves, finished_at)
		VALUES (:id, :board_size, :mode, :players, :winner, :moves, :finished_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save match")
		return fmt.Errorf("failed to save match %s: %w", rec.ID, err)
	}
	return nil
}

// ListRecent returns up to limit matches, newest first.
func (r *sqliteHistoryRepository) ListRecent(ctx context.Context, limit int) ([]models.MatchRecord, error) {
	ctx, span := tracer.Start(ctx, "HistoryRepository.ListRecent", trace.WithAttributes(
		attribute.Int("history.limit", limit),
	))
	defer span.End()

	var rows []matchRow
	query := `SELECT id, board_size, mode, players, winner, moves, finished_at
		FROM matches ORDER BY finished_at DESC, rowid DESC LIMIT ?`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list matches")
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	records := make([]models.MatchRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := fromRow(row)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func toRow(rec *models.MatchRecord) (matchRow, error) {
	players, err := json.Marshal(rec.Players)
	if err != nil {
		return matchRow{}, fmt.Errorf("failed to marshal players: %w", err)
	}
	row := matchRow{
		ID:         rec.ID,
		BoardSize:  rec.BoardSize,
		Mode:       rec.Mode,
		Players:    string(players),
		Moves:      rec.Moves,
		FinishedAt: rec.FinishedAt.UnixMilli(),
	}
	if rec.Winner != nil {
		row.Winner = sql.NullInt64{Int64: int64(*rec.Winner), Valid: true}
	}
	return row, nil
}

func fromRow(row matchRow) (models.MatchRecord, error) {
	rec := models.MatchRecord{
		ID:         row.ID,
		BoardSize:  row.BoardSize,
		Mode:       row.Mode,
		Moves:      row.Moves,
		FinishedAt: time.UnixMilli(row.FinishedAt).UTC(),
	}
	if err := json.Unmarshal([]byte(row.Players), &rec.Players); err != nil {
		return models.MatchRecord{}, fmt.Errorf("failed to unmarshal players of match %s: %w", row.ID, err)
	}
	if row.Winner.Valid {
		w := int(row.Winner.Int64)
		rec.Winner = &w
	}
	return rec, nil
}
