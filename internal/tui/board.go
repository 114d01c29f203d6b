package tui

import (
	"context"
	"ctchen222/terminal-tic-tac-toe/internal/game"
	"ctchen222/terminal-tic-tac-toe/internal/player"
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

const notFreeMessage = "That space is not free!"

// boardView is everything drawn for one board frame.
type boardView struct {
	board  game.Board
	roster *player.Roster
	// cursor is highlighted when non-nil.
	cursor *game.Move
	lines  []string
}

func separator(size int) string {
	return strings.Repeat("-", 4*size+1)
}

func turnLine(roster *player.Roster, p game.Player) string {
	seat, err := roster.Get(p)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s turn", seat.Label())
}

// drawBoard draws the grid, then the extra lines below it.
func (t *Terminal) drawBoard(v boardView) {
	p := t.newPage()
	size := v.board.Size()
	p.line(separator(size), defaultStyle)
	for row := 0; row < size; row++ {
		parts := make([]span, 0, 2*size+1)
		for col := 0; col < size; col++ {
			parts = append(parts, span{text: "|", style: defaultStyle})
			symbol := v.roster.Symbol(v.board[row][col])
			style := defaultStyle
			if v.cursor != nil && v.cursor.Row == row && v.cursor.Col == col {
				style = selectedStyle
				if v.board[row][col] == game.NoPlayer {
					symbol = "_"
				}
			}
			parts = append(parts, span{text: " " + symbol + " ", style: style})
		}
		parts = append(parts, span{text: "|", style: defaultStyle})
		p.spans(parts...)
		p.line(separator(size), defaultStyle)
	}
	for _, l := range v.lines {
		p.line(l, defaultStyle)
	}
	p.show()
}

// HumanMover lets a person pick a cell with the arrow keys and Enter.
type HumanMover struct {
	term   *Terminal
	roster *player.Roster
}

func NewHumanMover(term *Terminal, roster *player.Roster) *HumanMover {
	return &HumanMover{term: term, roster: roster}
}

// NextMove starts the cursor at the top-left cell; it wraps around the
// edges. Enter on an occupied cell shows a message and keeps waiting.
func (h *HumanMover) NextMove(ctx context.Context, board game.Board, p game.Player) (game.Move, error) {
	h.term.drainKeys()
	size := board.Size()
	cursor := game.Move{}
	problem := ""
	for {
		lines := []string{turnLine(h.roster, p)}
		if problem != "" {
			lines = append(lines, problem)
		}
		h.term.drawBoard(boardView{board: board, roster: h.roster, cursor: &cursor, lines: lines})

		ev, err := h.term.readKey(ctx)
		if err != nil {
			return game.Move{}, err
		}
		problem = ""
		switch ev.Key() {
		case tcell.KeyUp:
			cursor.Row = wrap(cursor.Row-1, size)
		case tcell.KeyDown:
			cursor.Row = wrap(cursor.Row+1, size)
		case tcell.KeyLeft:
			cursor.Col = wrap(cursor.Col-1, size)
		case tcell.KeyRight:
			cursor.Col = wrap(cursor.Col+1, size)
		case tcell.KeyEnter:
			if board.IsEmpty(cursor) {
				return cursor, nil
			}
			problem = notFreeMessage
		}
	}
}

// Display implements match.Observer. It shows computer turns; human turns
// draw themselves.
type Display struct {
	term   *Terminal
	roster *player.Roster
}

func NewDisplay(term *Terminal, roster *player.Roster) *Display {
	return &Display{term: term, roster: roster}
}

func (d *Display) TurnStarted(_ context.Context, g *game.Game) {
	seat, err := d.roster.Get(g.CurrentTurn)
	if err != nil || seat.Kind != player.Computer {
		return
	}
	d.term.drawBoard(boardView{board: g.Board, roster: d.roster, lines: []string{turnLine(d.roster, g.CurrentTurn)}})
}

func (d *Display) MovePlayed(_ context.Context, g *game.Game, _ game.Player, _ game.Move) {
	d.term.drawBoard(boardView{board: g.Board, roster: d.roster})
}

// ShowResult draws the final board with the result and waits for a key.
func (d *Display) ShowResult(ctx context.Context, board game.Board, message string) error {
	d.term.drainKeys()
	d.term.drawBoard(boardView{board: board, roster: d.roster, lines: []string{message, "", "Press any key to exit"}})
	_, err := d.term.readKey(ctx)
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}
