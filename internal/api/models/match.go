package models

import "time"

// MatchRecord is a finished match as kept in the history table.
type MatchRecord struct {
	ID        string   `json:"id"`
	BoardSize int      `json:"board_size"`
	Mode      string   `json:"mode"`
	Players   []string `json:"players"`
	// Winner is the winning seat index, nil for a draw.
	Winner     *int      `json:"winner"`
	Moves      int       `json:"moves"`
	FinishedAt time.Time `json:"finished_at"`
}
