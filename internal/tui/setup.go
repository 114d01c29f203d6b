package tui

import (
	"context"
	"ctchen222/terminal-tic-tac-toe/internal/game"
	"ctchen222/terminal-tic-tac-toe/internal/player"
	"errors"
	"fmt"
)

const (
	firstPlayerHeader = "Which player will start the game?"
	randomOption      = "Random"
)

// Setup is what the menus decided before the first move.
type Setup struct {
	Mode   player.Mode
	Roster *player.Roster
	First  game.Player
}

// RunSetup walks through the main menu, the symbol prompts and the choice
// of who starts.
func (t *Terminal) RunSetup(ctx context.Context) (*Setup, error) {
	labels := make([]string, len(player.Modes))
	for i, m := range player.Modes {
		labels[i] = m.String()
	}
	choice, err := t.Select(ctx, menuHeader, labels)
	if err != nil {
		return nil, err
	}
	mode := player.Modes[choice]
	roster := player.NewRoster(mode)

	for i, seat := range roster.Players {
		question := fmt.Sprintf("%s symbol?", seat.Name)
		_, err := t.Ask(ctx, question, func(answer string) string {
			if err := roster.SetSymbol(i, answer); err != nil {
				return symbolMessage(err)
			}
			return ""
		})
		if err != nil {
			return nil, err
		}
	}

	options := append(roster.Labels(), randomOption)
	first, err := t.Select(ctx, firstPlayerHeader, options)
	if err != nil {
		return nil, err
	}
	if first == len(roster.Players) {
		return &Setup{Mode: mode, Roster: roster, First: game.RandomlyChooseFirstPlayer()}, nil
	}
	return &Setup{Mode: mode, Roster: roster, First: game.Player(first)}, nil
}

func symbolMessage(err error) string {
	switch {
	case errors.Is(err, player.ErrSymbolInUse):
		return "That symbol is already in use"
	case errors.Is(err, player.ErrSymbolBlank):
		return "The symbol must be visible"
	case errors.Is(err, player.ErrSymbolWide):
		return "The symbol must fit in one column"
	default:
		return "The symbol must have a single character"
	}
}
