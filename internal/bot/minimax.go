package bot

import (
	"context"
	"ctchen222/terminal-tic-tac-toe/internal/game"
	"errors"
	"fmt"
	"math"
)

// Terminal scores. A win found at depth d scores winScore-d so faster wins
// and slower losses are preferred.
const (
	winScore  = 100
	drawScore = 0
)

// cancelCheckInterval is how many nodes are visited between context checks.
const cancelCheckInterval = 1024

var ErrInvalidPlayer = errors.New("player must be one of the two participants")

// Result is a backed-up evaluation. Value is seen from the perspective
// player; HasMove is false on terminal boards.
type Result struct {
	Value   int       `json:"value"`
	Move    game.Move `json:"move"`
	HasMove bool      `json:"has_move"`
}

// Options tunes a search without changing its answer.
type Options struct {
	// Prune enables alpha-beta pruning. The root move and value are the same
	// as the exhaustive search, ties included.
	Prune bool
}

// Stats reports the work done by one search.
type Stats struct {
	Nodes int
}

// Search returns the optimal move for player on board, assuming both sides
// play perfectly. maximizing is true when player is to move; depth is the
// number of plies already played from the root of the decision.
func Search(board game.Board, player game.Player, maximizing bool, depth int) (Result, error) {
	res, _, err := SearchWithOptions(context.Background(), board, player, maximizing, depth, Options{})
	return res, err
}

// SearchWithOptions is Search with tuning options and node statistics. The
// search stops with ctx.Err() once ctx is done.
func SearchWithOptions(ctx context.Context, board game.Board, player game.Player, maximizing bool, depth int, opts Options) (Result, Stats, error) {
	if err := validateInput(board, player); err != nil {
		return Result{}, Stats{}, err
	}

	s := &searcher{ctx: ctx, player: player}
	var res Result
	if opts.Prune {
		res = s.alphaBeta(board, maximizing, depth, math.MinInt, math.MaxInt)
	} else {
		res = s.minimax(board, maximizing, depth)
	}
	if s.err != nil {
		return Result{}, Stats{Nodes: s.nodes}, s.err
	}
	return res, Stats{Nodes: s.nodes}, nil
}

func validateInput(board game.Board, player game.Player) error {
	if player != 0 && player != 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidPlayer, player)
	}
	return board.Validate(game.Players)
}

type searcher struct {
	ctx    context.Context
	player game.Player
	nodes  int
	err    error
}

// visit counts a node and reports whether the search should go on.
func (s *searcher) visit() bool {
	if s.err != nil {
		return false
	}
	if s.nodes%cancelCheckInterval == 0 {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return false
		}
	}
	s.nodes++
	return true
}

// evaluate scores a terminal board. ok is false while the game goes on.
func (s *searcher) evaluate(board game.Board, depth int) (value int, ok bool) {
	if winner, won := game.Winner(board); won {
		if winner == s.player {
			return winScore - depth, true
		}
		return -winScore + depth, true
	}
	if board.IsFull() {
		return drawScore, true
	}
	return 0, false
}

// mover is the side to move at a node.
func (s *searcher) mover(maximizing bool) game.Player {
	if maximizing {
		return s.player
	}
	return game.Opponent(s.player)
}

func (s *searcher) minimax(board game.Board, maximizing bool, depth int) Result {
	if !s.visit() {
		return Result{}
	}
	if value, ok := s.evaluate(board, depth); ok {
		return Result{Value: value}
	}

	mover := s.mover(maximizing)
	var best Result
	for _, move := range board.LegalMoves() {
		child := board.With(move, mover)
		value := s.minimax(child, !maximizing, depth+1).Value
		if s.err != nil {
			return Result{}
		}

		if !best.HasMove || (maximizing && value > best.Value) || (!maximizing && value < best.Value) {
			best = Result{Value: value, Move: move, HasMove: true}
		}
	}
	return best
}

// alphaBeta is minimax with a (alpha, beta) window. Children are only cut off
// once they can no longer strictly improve on the current best, so the first
// best move in generation order survives.
func (s *searcher) alphaBeta(board game.Board, maximizing bool, depth int, alpha, beta int) Result {
	if !s.visit() {
		return Result{}
	}
	if value, ok := s.evaluate(board, depth); ok {
		return Result{Value: value}
	}

	mover := s.mover(maximizing)
	var best Result
	for _, move := range board.LegalMoves() {
		child := board.With(move, mover)
		value := s.alphaBeta(child, !maximizing, depth+1, alpha, beta).Value
		if s.err != nil {
			return Result{}
		}

		if !best.HasMove || (maximizing && value > best.Value) || (!maximizing && value < best.Value) {
			best = Result{Value: value, Move: move, HasMove: true}
		}
		if maximizing {
			alpha = max(alpha, best.Value)
		} else {
			beta = min(beta, best.Value)
		}
		if alpha >= beta {
			break
		}
	}
	return best
}
