package tui

import (
	"context"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Ask reads one line of text. check returns the message to show when the
// answer is rejected, or "" to accept it; the question is asked again until
// an answer is accepted.
func (t *Terminal) Ask(ctx context.Context, question string, check func(string) string) (string, error) {
	var (
		input   []rune
		problem string
	)
	t.drainKeys()
	for {
		t.drawPrompt(question, string(input), problem)

		ev, err := t.readKey(ctx)
		if err != nil {
			return "", err
		}
		switch ev.Key() {
		case tcell.KeyEnter:
			answer := string(input)
			if problem = check(answer); problem == "" {
				return answer, nil
			}
			input = input[:0]
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			if len(input) > 0 {
				input = input[:len(input)-1]
			}
		case tcell.KeyRune:
			if r := ev.Rune(); unicode.IsPrint(r) {
				input = append(input, r)
			}
		}
	}
}

func (t *Terminal) drawPrompt(question, input, problem string) {
	p := t.newPage()
	if problem != "" {
		p.line(problem, defaultStyle)
	}
	p.line(question, defaultStyle)
	p.line("> "+input, defaultStyle)
	p.show()
}
