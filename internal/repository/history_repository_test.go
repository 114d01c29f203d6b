package repository

import (
	"context"
	"ctchen222/terminal-tic-tac-toe/internal/api/models"
	"ctchen222/terminal-tic-tac-toe/internal/db"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistory(t *testing.T) HistoryRepository {
	t.Helper()
	conn, err := db.Connect(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewHistoryRepository(conn)
}

func TestHistoryRepository(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	winner := 1

	t.Run("Given saved matches, When listing, Then the newest come first", func(t *testing.T) {
		repo := newHistory(t)
		for i, id := range []string{"a", "b", "c"} {
			require.NoError(t, repo.Save(ctx, &models.MatchRecord{
				ID:         id,
				BoardSize:  3,
				Mode:       "Human vs computer",
				Players:    []string{"Player", "Computer"},
				Winner:     &winner,
				Moves:      5 + i,
				FinishedAt: base.Add(time.Duration(i) * time.Minute),
			}))
		}

		got, err := repo.ListRecent(ctx, 2)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "c", got[0].ID)
		assert.Equal(t, "b", got[1].ID)
		assert.Equal(t, []string{"Player", "Computer"}, got[0].Players)
		require.NotNil(t, got[0].Winner)
		assert.Equal(t, 1, *got[0].Winner)
		assert.Equal(t, 7, got[0].Moves)
		assert.True(t, base.Add(2*time.Minute).Equal(got[0].FinishedAt))
	})

	t.Run("Given a draw, When reading it back, Then the winner stays empty", func(t *testing.T) {
		repo := newHistory(t)
		require.NoError(t, repo.Save(ctx, &models.MatchRecord{
			ID:         "draw",
			BoardSize:  3,
			Mode:       "Computer vs computer",
			Players:    []string{"Computer 1", "Computer 2"},
			Moves:      9,
			FinishedAt: base,
		}))

		got, err := repo.ListRecent(ctx, 10)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Nil(t, got[0].Winner)
	})

	t.Run("Given a duplicate id, When saving, Then an error is returned", func(t *testing.T) {
		repo := newHistory(t)
		rec := &models.MatchRecord{ID: "dup", BoardSize: 3, Players: []string{"A", "B"}, FinishedAt: base}
		require.NoError(t, repo.Save(ctx, rec))

		assert.Error(t, repo.Save(ctx, rec))
	})

	t.Run("Given an empty table, When listing, Then no records are returned", func(t *testing.T) {
		repo := newHistory(t)

		got, err := repo.ListRecent(ctx, 5)

		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
