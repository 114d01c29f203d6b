package bot

import (
	"context"
	"ctchen222/terminal-tic-tac-toe/internal/game"
	"log/slog"
	"time"
)

// Bot is a computer-controlled seat. It satisfies match.Mover.
type Bot struct {
	calculator *Calculator
	difficulty Difficulty
	delay      time.Duration // Visual pause before the move is revealed
}

// NewBot creates a computer player.
func NewBot(calculator *Calculator, difficulty Difficulty, delay time.Duration) *Bot {
	return &Bot{
		calculator: calculator,
		difficulty: difficulty,
		delay:      delay,
	}
}

// NextMove computes the move, then waits out the delay so a human can follow
// the game.
func (b *Bot) NextMove(ctx context.Context, board game.Board, p game.Player) (game.Move, error) {
	slog.DebugContext(ctx, "Bot is thinking...", "player.index", int(p), "bot.difficulty", string(b.difficulty))

	move, err := b.calculator.CalculateNextMove(ctx, board, p, b.difficulty)
	if err != nil {
		return game.Move{}, err
	}

	if b.delay > 0 {
		timer := time.NewTimer(b.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return game.Move{}, ctx.Err()
		case <-timer.C:
		}
	}
	return move, nil
}
