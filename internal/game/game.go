package game

import "fmt"

// Game tracks a board and whose turn it is.
type Game struct {
	Board       Board
	CurrentTurn Player
	Winner      Player
	Moves       int
	over        bool
}

// NewGame returns an empty size x size game with first to move.
func NewGame(size int, first Player) *Game {
	return &Game{
		Board:       EmptyBoard(size),
		CurrentTurn: first,
		Winner:      NoPlayer,
	}
}

// Move plays the current turn at (row, col) and passes the turn on.
func (g *Game) Move(row, col int) error {
	if g.over {
		return ErrGameOver
	}
	if err := g.Board.Place(Move{Row: row, Col: col}, g.CurrentTurn); err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}
	g.Moves++

	status := StatusOf(g.Board)
	if status.Terminal() {
		g.Winner = status.Winner
		g.over = true
		return nil
	}

	g.CurrentTurn = Opponent(g.CurrentTurn)
	return nil
}

// IsOver reports whether the game reached a win or a draw.
func (g *Game) IsOver() bool {
	return g.over
}

// IsDraw checks if the game is a draw.
func (g *Game) IsDraw() bool {
	return g.over && g.Winner == NoPlayer
}

// Status returns the terminal status of the current board.
func (g *Game) Status() Status {
	return StatusOf(g.Board)
}
