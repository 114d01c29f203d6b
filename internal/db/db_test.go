package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	ctx := context.Background()

	db, err := Connect(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	var count int
	err = db.GetContext(ctx, &count, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'matches'`)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Re-running the schema is harmless.
	assert.NoError(t, InitializeDB(ctx, db))
}

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		name     string
		addr     string
		wantAddr string
		wantDB   int
		wantErr  bool
	}{
		{name: "Empty falls back to localhost", addr: "", wantAddr: "localhost:6379"},
		{name: "Host and port", addr: "cache:6380", wantAddr: "cache:6380"},
		{name: "URL with database", addr: "redis://cache:6379/2", wantAddr: "cache:6379", wantDB: 2},
		{name: "Malformed URL", addr: "redis://cache:6379/notadb", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := redisOptions(tt.addr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddr, opts.Addr)
			assert.Equal(t, tt.wantDB, opts.DB)
		})
	}
}
