package tui

import (
	"context"

	"github.com/gdamore/tcell/v2"
)

const menuHeader = "Welcome to TIC TAC TOE! You can use the arrow keys and [ENTER] to choose the desired option. Good luck and have fun!"

// Select shows header above a list of options and returns the index picked
// with the arrow keys and Enter. The selection wraps around at both ends.
func (t *Terminal) Select(ctx context.Context, header string, options []string) (int, error) {
	t.drainKeys()
	selected := 0
	for {
		t.drawSelection(header, options, selected)

		ev, err := t.readKey(ctx)
		if err != nil {
			return 0, err
		}
		switch ev.Key() {
		case tcell.KeyEnter:
			return selected, nil
		case tcell.KeyUp:
			selected = wrap(selected-1, len(options))
		case tcell.KeyDown:
			selected = wrap(selected+1, len(options))
		}
	}
}

func (t *Terminal) drawSelection(header string, options []string, selected int) {
	p := t.newPage()
	p.line(header, defaultStyle)
	p.rule()
	for i, option := range options {
		style := defaultStyle
		if i == selected {
			style = selectedStyle
		}
		p.line(option, style)
	}
	p.show()
}

// wrap maps i into [0, n).
func wrap(i, n int) int {
	return ((i % n) + n) % n
}
