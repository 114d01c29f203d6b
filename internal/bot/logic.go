package bot

import (
	"ctchen222/terminal-tic-tac-toe/internal/game"
	"errors"
	"fmt"
	"math/rand/v2"
)

// Difficulty selects how hard the computer plays.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

var (
	ErrNoAvailableMoves  = errors.New("no available moves")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// ParseDifficulty accepts easy, medium or hard; empty means hard.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case Easy, Medium, Hard:
		return d, nil
	case "":
		return Hard, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
}

// easyMove makes a completely random move.
func easyMove(board game.Board) (game.Move, error) {
	availableMoves := board.LegalMoves()
	if len(availableMoves) == 0 {
		return game.Move{}, ErrNoAvailableMoves
	}
	return availableMoves[rand.IntN(len(availableMoves))], nil
}

// mediumMove will win if it can, block if it must, otherwise move randomly.
func mediumMove(board game.Board, p game.Player) (game.Move, error) {
	// 1. Win: Check if the bot can win in the next move
	if move, canWin := findWinningMove(board, p); canWin {
		return move, nil
	}

	// 2. Block: Check if the opponent is about to win and block them
	if move, canBlock := findWinningMove(board, game.Opponent(p)); canBlock {
		return move, nil
	}

	// 3. Random: Otherwise, make a random move
	return easyMove(board)
}

// findWinningMove returns the first empty cell, in row-major order, that
// completes a line for p.
func findWinningMove(board game.Board, p game.Player) (game.Move, bool) {
	for _, move := range board.LegalMoves() {
		if winner, ok := game.Winner(board.With(move, p)); ok && winner == p {
			return move, true
		}
	}
	return game.Move{}, false
}
