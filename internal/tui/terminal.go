package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// ErrQuit is returned by any prompt once the user pressed Ctrl+C or Esc.
var ErrQuit = errors.New("quit requested")

var (
	defaultStyle  = tcell.StyleDefault
	selectedStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

// keyBuffer is how many unread key presses are kept; later ones are dropped.
const keyBuffer = 16

// Terminal owns the screen and the keyboard. A single goroutine reads
// events; quit keys are handled there so they work during computer turns.
type Terminal struct {
	screen tcell.Screen
	keys   chan *tcell.EventKey
	quit   chan struct{}

	quitOnce  sync.Once
	closeOnce sync.Once
}

// Open initialises the real terminal.
func Open() (*Terminal, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	return Attach(s)
}

// Attach takes over an uninitialised screen.
func Attach(s tcell.Screen) (*Terminal, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise screen: %w", err)
	}
	s.SetStyle(defaultStyle)
	s.HideCursor()

	t := &Terminal{
		screen: s,
		keys:   make(chan *tcell.EventKey, keyBuffer),
		quit:   make(chan struct{}),
	}
	go t.pump()
	return t, nil
}

// Close restores the terminal. Output printed afterwards goes to the normal
// stdout.
func (t *Terminal) Close() {
	t.closeOnce.Do(t.screen.Fini)
}

// Quit is closed once the user asked to leave.
func (t *Terminal) Quit() <-chan struct{} {
	return t.quit
}

// WithQuit returns a context cancelled when the user asks to leave.
func (t *Terminal) WithQuit(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-t.quit:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func (t *Terminal) requestQuit() {
	t.quitOnce.Do(func() { close(t.quit) })
}

func (t *Terminal) pump() {
	for {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			// Screen finalised.
			return
		case *tcell.EventResize:
			t.screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape {
				t.requestQuit()
				continue
			}
			select {
			case t.keys <- ev:
			default:
				// Buffer full; drop the key.
			}
		}
	}
}

// drainKeys discards keys pressed before a prompt was shown.
func (t *Terminal) drainKeys() {
	for {
		select {
		case <-t.keys:
		default:
			return
		}
	}
}

// readKey waits for the next key press.
func (t *Terminal) readKey(ctx context.Context) (*tcell.EventKey, error) {
	select {
	case ev := <-t.keys:
		return ev, nil
	case <-t.quit:
		return nil, ErrQuit
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// page accumulates lines for one full redraw.
type page struct {
	t *Terminal
	y int
}

func (t *Terminal) newPage() *page {
	t.screen.Clear()
	return &page{t: t}
}

// line writes text on the next row, wrapping at the screen width.
func (p *page) line(text string, style tcell.Style) {
	width, _ := p.t.screen.Size()
	if width <= 0 {
		width = 80
	}
	if text == "" {
		p.y++
		return
	}
	x := 0
	for _, r := range text {
		if x >= width {
			x = 0
			p.y++
		}
		p.t.screen.SetContent(x, p.y, r, nil, style)
		x++
	}
	p.y++
}

// spans writes several differently styled pieces on one row.
func (p *page) spans(parts ...span) {
	x := 0
	for _, part := range parts {
		for _, r := range part.text {
			p.t.screen.SetContent(x, p.y, r, nil, part.style)
			x++
		}
	}
	p.y++
}

// rule draws a separator across the screen.
func (p *page) rule() {
	width, _ := p.t.screen.Size()
	if width <= 0 {
		width = 80
	}
	p.line(strings.Repeat("-", width), defaultStyle)
}

func (p *page) show() {
	p.t.screen.Show()
}

type span struct {
	text  string
	style tcell.Style
}
