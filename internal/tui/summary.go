package tui

import (
	"ctchen222/terminal-tic-tac-toe/internal/game"
	"ctchen222/terminal-tic-tac-toe/internal/player"
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"
)

// PrintSummary writes the final board and result to w once the screen has
// been released, so they stay in the scrollback.
func PrintSummary(w io.Writer, au aurora.Aurora, board game.Board, roster *player.Roster, message string) {
	size := board.Size()
	fmt.Fprintln(w, separator(size))
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			fmt.Fprint(w, "| ")
			symbol := roster.Symbol(board[row][col])
			switch board[row][col] {
			case 0:
				fmt.Fprint(w, au.Green(symbol))
			case 1:
				fmt.Fprint(w, au.Blue(symbol))
			default:
				fmt.Fprint(w, symbol)
			}
			fmt.Fprint(w, " ")
		}
		fmt.Fprintln(w, "|")
		fmt.Fprintln(w, separator(size))
	}
	fmt.Fprintln(w, au.Bold(message))
}
