package models

import "ctchen222/terminal-tic-tac-toe/internal/game"

// StatusRequest asks for the status of a position.
type StatusRequest struct {
	Board game.Board `json:"board" binding:"required"`
}

// StatusResponse is the outcome of a position plus the moves still open.
type StatusResponse struct {
	Status     string       `json:"status"`
	Winner     *game.Player `json:"winner"`
	LegalMoves []game.Move  `json:"legal_moves"`
}

// MoveRequest asks the engine for the best move. Maximizing defaults to true
// and Difficulty to hard.
type MoveRequest struct {
	Board      game.Board   `json:"board" binding:"required"`
	Player     *game.Player `json:"player" binding:"required"`
	Maximizing *bool        `json:"maximizing"`
	Depth      int          `json:"depth" binding:"min=0"`
	Difficulty string       `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

// MoveResponse carries the chosen move. Value is only set by hard searches.
type MoveResponse struct {
	Value *int       `json:"value,omitempty"`
	Move  *game.Move `json:"move"`
}

// HistoryQuery bounds a history listing.
type HistoryQuery struct {
	Limit int `form:"limit,default=20" binding:"min=1,max=100"`
}
