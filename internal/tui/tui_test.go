package tui

import (
	"bytes"
	"context"
	"ctchen222/terminal-tic-tac-toe/internal/game"
	"ctchen222/terminal-tic-tac-toe/internal/player"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/logrusorgru/aurora"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const e = game.NoPlayer

func newTestTerminal(t *testing.T) (tcell.SimulationScreen, *Terminal) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term, err := Attach(sim)
	require.NoError(t, err)
	sim.SetSize(120, 30)
	t.Cleanup(term.Close)
	return sim, term
}

// screenLines returns the visible text, one string per row.
func screenLines(sim tcell.SimulationScreen) []string {
	cells, width, height := sim.GetContents()
	lines := make([]string, height)
	for y := 0; y < height; y++ {
		var b strings.Builder
		for x := 0; x < width; x++ {
			runes := cells[y*width+x].Runes
			if len(runes) == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteRune(runes[0])
		}
		lines[y] = strings.TrimRight(b.String(), " ")
	}
	return lines
}

func waitForText(t *testing.T, sim tcell.SimulationScreen, text string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return strings.Contains(strings.Join(screenLines(sim), "\n"), text)
	}, 2*time.Second, 10*time.Millisecond, "screen never showed %q", text)
}

func press(sim tcell.SimulationScreen, keys ...tcell.Key) {
	for _, k := range keys {
		sim.InjectKey(k, 0, tcell.ModNone)
	}
}

func typeText(sim tcell.SimulationScreen, text string) {
	for _, r := range text {
		sim.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
}

type selectResult struct {
	index int
	err   error
}

func TestSelect(t *testing.T) {
	t.Run("Up from the first option wraps to the last", func(t *testing.T) {
		sim, term := newTestTerminal(t)
		done := make(chan selectResult, 1)
		go func() {
			i, err := term.Select(context.Background(), "Pick one", []string{"a", "b", "c"})
			done <- selectResult{i, err}
		}()

		waitForText(t, sim, "Pick one")
		press(sim, tcell.KeyUp, tcell.KeyEnter)

		res := <-done
		require.NoError(t, res.err)
		assert.Equal(t, 2, res.index)
	})

	t.Run("Down past the last option wraps to the first", func(t *testing.T) {
		sim, term := newTestTerminal(t)
		done := make(chan selectResult, 1)
		go func() {
			i, err := term.Select(context.Background(), "Pick one", []string{"a", "b"})
			done <- selectResult{i, err}
		}()

		waitForText(t, sim, "Pick one")
		press(sim, tcell.KeyDown, tcell.KeyDown, tcell.KeyEnter)

		res := <-done
		require.NoError(t, res.err)
		assert.Equal(t, 0, res.index)
	})

	t.Run("Ctrl+C quits", func(t *testing.T) {
		sim, term := newTestTerminal(t)
		ctx, cancel := term.WithQuit(context.Background())
		defer cancel()
		done := make(chan selectResult, 1)
		go func() {
			i, err := term.Select(context.Background(), "Pick one", []string{"a"})
			done <- selectResult{i, err}
		}()

		waitForText(t, sim, "Pick one")
		press(sim, tcell.KeyCtrlC)

		res := <-done
		assert.ErrorIs(t, res.err, ErrQuit)
		select {
		case <-ctx.Done():
		case <-time.After(2 * time.Second):
			t.Fatal("quit did not cancel the derived context")
		}
	})
}

func TestRunSetup(t *testing.T) {
	sim, term := newTestTerminal(t)
	type setupResult struct {
		setup *Setup
		err   error
	}
	done := make(chan setupResult, 1)
	go func() {
		s, err := term.RunSetup(context.Background())
		done <- setupResult{s, err}
	}()

	waitForText(t, sim, "Welcome to TIC TAC TOE!")
	press(sim, tcell.KeyDown, tcell.KeyEnter)

	waitForText(t, sim, "Player symbol?")
	typeText(sim, "XO")
	press(sim, tcell.KeyEnter)
	waitForText(t, sim, "The symbol must have a single character")
	typeText(sim, "X")
	press(sim, tcell.KeyEnter)

	waitForText(t, sim, "Computer symbol?")
	typeText(sim, "X")
	press(sim, tcell.KeyEnter)
	waitForText(t, sim, "That symbol is already in use")
	typeText(sim, "O")
	press(sim, tcell.KeyEnter)

	waitForText(t, sim, firstPlayerHeader)
	waitForText(t, sim, "Computer (O)")
	press(sim, tcell.KeyDown, tcell.KeyEnter)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, player.HumanVsComputer, res.setup.Mode)
	assert.Equal(t, "X", res.setup.Roster.Players[0].Symbol)
	assert.Equal(t, "O", res.setup.Roster.Players[1].Symbol)
	assert.Equal(t, game.Player(1), res.setup.First)
}

func TestRunSetup_RandomFirstPlayer(t *testing.T) {
	sim, term := newTestTerminal(t)
	done := make(chan *Setup, 1)
	go func() {
		s, err := term.RunSetup(context.Background())
		assert.NoError(t, err)
		done <- s
	}()

	waitForText(t, sim, "Welcome to TIC TAC TOE!")
	press(sim, tcell.KeyEnter)
	waitForText(t, sim, "Player 1 symbol?")
	typeText(sim, "A")
	press(sim, tcell.KeyEnter)
	waitForText(t, sim, "Player 2 symbol?")
	typeText(sim, "B")
	press(sim, tcell.KeyEnter)
	waitForText(t, sim, randomOption)
	press(sim, tcell.KeyUp, tcell.KeyEnter)

	setup := <-done
	require.NotNil(t, setup)
	assert.Equal(t, player.HumanVsHuman, setup.Mode)
	assert.Contains(t, []game.Player{0, 1}, setup.First)
}

func newTestRoster(t *testing.T, mode player.Mode) *player.Roster {
	t.Helper()
	r := player.NewRoster(mode)
	require.NoError(t, r.SetSymbol(0, "X"))
	require.NoError(t, r.SetSymbol(1, "O"))
	return r
}

type moveResult struct {
	move game.Move
	err  error
}

func TestHumanMover(t *testing.T) {
	t.Run("Enter on an occupied cell is refused", func(t *testing.T) {
		sim, term := newTestTerminal(t)
		mover := NewHumanMover(term, newTestRoster(t, player.HumanVsHuman))
		board := game.Board{
			{0, e, e},
			{e, e, e},
			{e, e, e},
		}
		done := make(chan moveResult, 1)
		go func() {
			mv, err := mover.NextMove(context.Background(), board, 1)
			done <- moveResult{mv, err}
		}()

		waitForText(t, sim, "Player 2 (O) turn")
		press(sim, tcell.KeyEnter)
		waitForText(t, sim, notFreeMessage)

		press(sim, tcell.KeyRight)
		require.Eventually(t, func() bool {
			lines := screenLines(sim)
			return len(lines) > 1 && lines[1] == "| X | _ |   |"
		}, 2*time.Second, 10*time.Millisecond)

		cells, width, _ := sim.GetContents()
		assert.Equal(t, selectedStyle, cells[1*width+6].Style)
		assert.Equal(t, defaultStyle, cells[1*width+2].Style)

		press(sim, tcell.KeyEnter)
		res := <-done
		require.NoError(t, res.err)
		assert.Equal(t, game.Move{Row: 0, Col: 1}, res.move)
	})

	t.Run("The cursor wraps around the edges", func(t *testing.T) {
		sim, term := newTestTerminal(t)
		mover := NewHumanMover(term, newTestRoster(t, player.HumanVsHuman))
		done := make(chan moveResult, 1)
		go func() {
			mv, err := mover.NextMove(context.Background(), game.EmptyBoard(3), 0)
			done <- moveResult{mv, err}
		}()

		waitForText(t, sim, "Player 1 (X) turn")
		press(sim, tcell.KeyUp, tcell.KeyLeft, tcell.KeyEnter)

		res := <-done
		require.NoError(t, res.err)
		assert.Equal(t, game.Move{Row: 2, Col: 2}, res.move)
	})

	t.Run("Esc quits", func(t *testing.T) {
		sim, term := newTestTerminal(t)
		mover := NewHumanMover(term, newTestRoster(t, player.HumanVsHuman))
		done := make(chan moveResult, 1)
		go func() {
			mv, err := mover.NextMove(context.Background(), game.EmptyBoard(3), 0)
			done <- moveResult{mv, err}
		}()

		waitForText(t, sim, "turn")
		press(sim, tcell.KeyEscape)

		assert.ErrorIs(t, (<-done).err, ErrQuit)
	})
}

func TestKeyPump(t *testing.T) {
	t.Run("Quit is seen while nobody reads keys", func(t *testing.T) {
		sim, term := newTestTerminal(t)

		go func() {
			keys := make([]tcell.Key, 0, 2*keyBuffer+1)
			for i := 0; i < 2*keyBuffer; i++ {
				keys = append(keys, tcell.KeyRight)
			}
			for _, k := range append(keys, tcell.KeyCtrlC) {
				// The screen's own event queue is small; retry until it has room.
				for sim.PostEvent(tcell.NewEventKey(k, 0, tcell.ModNone)) != nil {
					time.Sleep(time.Millisecond)
				}
			}
		}()

		select {
		case <-term.Quit():
		case <-time.After(2 * time.Second):
			t.Fatal("Ctrl+C was not seen behind a full key buffer")
		}
	})

	t.Run("Keys pressed before a turn are discarded", func(t *testing.T) {
		sim, term := newTestTerminal(t)
		mover := NewHumanMover(term, newTestRoster(t, player.HumanVsHuman))

		press(sim, tcell.KeyEnter)
		require.Eventually(t, func() bool { return len(term.keys) == 1 },
			2*time.Second, 10*time.Millisecond)

		done := make(chan moveResult, 1)
		go func() {
			mv, err := mover.NextMove(context.Background(), game.EmptyBoard(3), 0)
			done <- moveResult{mv, err}
		}()

		waitForText(t, sim, "Player 1 (X) turn")
		select {
		case res := <-done:
			t.Fatalf("stale key played %v", res.move)
		case <-time.After(50 * time.Millisecond):
		}

		press(sim, tcell.KeyRight, tcell.KeyEnter)
		res := <-done
		require.NoError(t, res.err)
		assert.Equal(t, game.Move{Row: 0, Col: 1}, res.move)
	})
}

func TestDisplay(t *testing.T) {
	sim, term := newTestTerminal(t)
	roster := newTestRoster(t, player.HumanVsComputer)
	display := NewDisplay(term, roster)
	g := game.NewGame(3, 1)

	display.TurnStarted(context.Background(), g)

	waitForText(t, sim, "Computer (O) turn")
	assert.Equal(t, []string{
		"-------------",
		"|   |   |   |",
		"-------------",
		"|   |   |   |",
		"-------------",
		"|   |   |   |",
		"-------------",
		"Computer (O) turn",
	}, screenLines(sim)[:8])
}

func TestPrintSummary(t *testing.T) {
	roster := newTestRoster(t, player.HumanVsComputer)
	board := game.Board{
		{0, 1, 0},
		{1, 1, 0},
		{0, 0, 1},
	}
	var buf bytes.Buffer

	PrintSummary(&buf, aurora.NewAurora(false), board, roster, "Draw")

	assert.Equal(t, strings.Join([]string{
		"-------------",
		"| X | O | X |",
		"-------------",
		"| O | O | X |",
		"-------------",
		"| X | X | O |",
		"-------------",
		"Draw",
		"",
	}, "\n"), buf.String())
}

func TestWrap(t *testing.T) {
	assert.Equal(t, 2, wrap(-1, 3))
	assert.Equal(t, 0, wrap(3, 3))
	assert.Equal(t, 1, wrap(1, 3))
}
