package server

import (
	"bytes"
	"ctchen222/terminal-tic-tac-toe/internal/api/controller"
	"ctchen222/terminal-tic-tac-toe/internal/api/models"
	"ctchen222/terminal-tic-tac-toe/internal/bot"
	"ctchen222/terminal-tic-tac-toe/internal/repository/mocks"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Extras  json.RawMessage `json:"extras"`
}

func newTestServer(t *testing.T, history *mocks.MockHistoryRepository) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	calc, err := bot.NewCalculator(nil, bot.Options{Prune: true})
	require.NoError(t, err)
	if history == nil {
		return NewServer(controller.NewEngineController(calc, nil))
	}
	return NewServer(controller.NewEngineController(calc, history))
}

func do(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestStatus(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name       string
		body       string
		wantCode   int
		wantExtras string
	}{
		{
			name:       "Win on the anti-diagonal",
			body:       `{"board": [[null, null, 1], [null, 1, 0], [1, 0, 0]]}`,
			wantCode:   http.StatusOK,
			wantExtras: `{"status": "win", "winner": 1, "legal_moves": []}`,
		},
		{
			name:       "Full board without a line",
			body:       `{"board": [[0, 1, 0], [1, 0, 1], [1, 0, 1]]}`,
			wantCode:   http.StatusOK,
			wantExtras: `{"status": "draw", "winner": null, "legal_moves": []}`,
		},
		{
			name:     "Game in progress",
			body:     `{"board": [[0, 1, 0], [1, 0, 1], [1, 0, null]]}`,
			wantCode: http.StatusOK,
			wantExtras: `{"status": "in_progress", "winner": null, "legal_moves": [{"row": 2, "col": 2}]}`,
		},
		{
			name:     "Ragged board",
			body:     `{"board": [[0, 1], [1]]}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "Unknown player in a cell",
			body:     `{"board": [[7]]}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "Missing board",
			body:     `{}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, srv, http.MethodPost, "/v1/status", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantCode, env.Code)
			if tt.wantExtras != "" {
				assert.True(t, env.Success)
				assert.JSONEq(t, tt.wantExtras, string(env.Extras))
			} else {
				assert.False(t, env.Success)
			}
		})
	}
}

func TestMove(t *testing.T) {
	srv := newTestServer(t, nil)

	t.Run("Takes the immediate win", func(t *testing.T) {
		rec, env := do(t, srv, http.MethodPost, "/v1/move",
			`{"board": [[0, 0, null], [1, 1, null], [null, null, null]], "player": 0}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"value": 99, "move": {"row": 0, "col": 2}}`, string(env.Extras))
	})

	t.Run("Honours depth", func(t *testing.T) {
		rec, env := do(t, srv, http.MethodPost, "/v1/move",
			`{"board": [[0, 0, null], [1, 1, null], [null, null, null]], "player": 0, "maximizing": true, "depth": 4}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"value": 95, "move": {"row": 0, "col": 2}}`, string(env.Extras))
	})

	t.Run("Easy difficulty returns a legal move without a value", func(t *testing.T) {
		rec, env := do(t, srv, http.MethodPost, "/v1/move",
			`{"board": [[0, 1, 0], [1, 0, 1], [1, 0, null]], "player": 1, "difficulty": "easy"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"move": {"row": 2, "col": 2}}`, string(env.Extras))
	})

	t.Run("A decided board is a conflict", func(t *testing.T) {
		rec, _ := do(t, srv, http.MethodPost, "/v1/move",
			`{"board": [[0, 0, 0], [1, 1, null], [null, null, null]], "player": 1}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	for _, difficulty := range []string{"easy", "medium", "hard"} {
		t.Run("An unknown player is rejected at "+difficulty, func(t *testing.T) {
			rec, env := do(t, srv, http.MethodPost, "/v1/move",
				`{"board": [[null, null, null], [null, null, null], [null, null, null]], "player": 7, "difficulty": "`+difficulty+`"}`)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
		})
	}

	t.Run("A missing player is rejected", func(t *testing.T) {
		rec, _ := do(t, srv, http.MethodPost, "/v1/move",
			`{"board": [[null, null, null], [null, null, null], [null, null, null]]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("A 4x4 board is rejected", func(t *testing.T) {
		row := `[null, null, null, null]`
		board := `[` + row + `,` + row + `,` + row + `,` + row + `]`
		for _, difficulty := range []string{"easy", "hard"} {
			rec, _ := do(t, srv, http.MethodPost, "/v1/move", `{"board": `+board+`, "player": 0, "difficulty": "`+difficulty+`"}`)

			assert.Equal(t, http.StatusBadRequest, rec.Code, difficulty)
		}
	})
}

func TestHistory(t *testing.T) {
	t.Run("Disabled history is not found", func(t *testing.T) {
		srv := newTestServer(t, nil)

		rec, _ := do(t, srv, http.MethodGet, "/v1/history", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Lists recent matches with the requested limit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		history := mocks.NewMockHistoryRepository(ctrl)
		winner := 0
		history.EXPECT().ListRecent(gomock.Any(), 5).Return([]models.MatchRecord{
			{ID: "m1", BoardSize: 3, Mode: "Human vs human", Players: []string{"Player 1", "Player 2"}, Winner: &winner, Moves: 7},
		}, nil)
		srv := newTestServer(t, history)

		rec, env := do(t, srv, http.MethodGet, "/v1/history?limit=5", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var extras struct {
			List []models.MatchRecord `json:"list"`
		}
		require.NoError(t, json.Unmarshal(env.Extras, &extras))
		require.Len(t, extras.List, 1)
		assert.Equal(t, "m1", extras.List[0].ID)
	})

	t.Run("Defaults the limit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		history := mocks.NewMockHistoryRepository(ctrl)
		history.EXPECT().ListRecent(gomock.Any(), 20).Return(nil, nil)
		srv := newTestServer(t, history)

		rec, env := do(t, srv, http.MethodGet, "/v1/history", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"list": []}`, string(env.Extras))
	})

	t.Run("Out of range limits are rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		srv := newTestServer(t, mocks.NewMockHistoryRepository(ctrl))

		rec, _ := do(t, srv, http.MethodGet, "/v1/history?limit=1000", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Storage failures are reported", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		history := mocks.NewMockHistoryRepository(ctrl)
		history.EXPECT().ListRecent(gomock.Any(), gomock.Any()).Return(nil, errors.New("disk error"))
		srv := newTestServer(t, history)

		rec, _ := do(t, srv, http.MethodGet, "/v1/history", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
