package player

import (
	"ctchen222/terminal-tic-tac-toe/internal/game"
	"ctchen222/terminal-tic-tac-toe/internal/validator"
	"errors"
	"fmt"
)

// Kind says who controls a seat.
type Kind int

const (
	Human Kind = iota
	Computer
)

func (k Kind) String() string {
	if k == Computer {
		return "computer"
	}
	return "human"
}

// Player is display metadata for a seat. The engine only ever sees the seat
// index.
type Player struct {
	Name   string `json:"name" validate:"required"`
	Symbol string `json:"symbol" validate:"required,symbol"`
	Kind   Kind   `json:"kind"`
}

// Label renders "Name (S)".
func (p Player) Label() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Symbol)
}

var (
	ErrSymbolLength = errors.New("symbol must have a single character")
	ErrSymbolBlank  = errors.New("symbol must be visible")
	ErrSymbolWide   = errors.New("symbol must fit in one column")
	ErrSymbolInUse  = errors.New("symbol is already in use")
	ErrInvalidSeat  = errors.New("invalid seat")
)

// Mode is a main menu entry.
type Mode int

const (
	HumanVsHuman Mode = iota
	HumanVsComputer
	ComputerVsComputer
)

// Modes lists the menu entries in display order.
var Modes = []Mode{HumanVsHuman, HumanVsComputer, ComputerVsComputer}

func (m Mode) String() string {
	switch m {
	case HumanVsComputer:
		return "Human vs computer"
	case ComputerVsComputer:
		return "Computer vs computer"
	default:
		return "Human vs human"
	}
}

// Roster is the ordered list of seats; a seat's index is its game.Player id.
type Roster struct {
	Players []Player `validate:"len=2,unique=Symbol,dive"`
}

// NewRoster seats two players for mode. Symbols are chosen afterwards.
func NewRoster(mode Mode) *Roster {
	var players []Player
	switch mode {
	case HumanVsComputer:
		players = []Player{
			{Name: "Player", Kind: Human},
			{Name: "Computer", Kind: Computer},
		}
	case ComputerVsComputer:
		players = []Player{
			{Name: "Computer 1", Kind: Computer},
			{Name: "Computer 2", Kind: Computer},
		}
	default:
		players = []Player{
			{Name: "Player 1", Kind: Human},
			{Name: "Player 2", Kind: Human},
		}
	}
	return &Roster{Players: players}
}

// Get returns the seat for id.
func (r *Roster) Get(id game.Player) (Player, error) {
	if id < 0 || int(id) >= len(r.Players) {
		return Player{}, fmt.Errorf("%w: %d", ErrInvalidSeat, id)
	}
	return r.Players[id], nil
}

// Symbol returns the symbol drawn for a cell, or " " when empty.
func (r *Roster) Symbol(id game.Player) string {
	p, err := r.Get(id)
	if err != nil || p.Symbol == "" {
		return " "
	}
	return p.Symbol
}

// CheckSymbol validates a candidate symbol for seat i against the seats
// already holding one.
func (r *Roster) CheckSymbol(i int, symbol string) error {
	if err := validator.GetValidator().Var(symbol, "required,len=1"); err != nil {
		return ErrSymbolLength
	}
	if err := validator.GetValidator().Var(symbol, "narrow"); err != nil {
		return ErrSymbolWide
	}
	if err := validator.GetValidator().Var(symbol, "symbol"); err != nil {
		return ErrSymbolBlank
	}
	for j, p := range r.Players {
		if j != i && p.Symbol == symbol {
			return ErrSymbolInUse
		}
	}
	return nil
}

// SetSymbol assigns a validated symbol to seat i.
func (r *Roster) SetSymbol(i int, symbol string) error {
	if i < 0 || i >= len(r.Players) {
		return fmt.Errorf("%w: %d", ErrInvalidSeat, i)
	}
	if err := r.CheckSymbol(i, symbol); err != nil {
		return err
	}
	r.Players[i].Symbol = symbol
	return nil
}

// Labels returns "Name (S)" for every seat, for the "who starts" menu.
func (r *Roster) Labels() []string {
	labels := make([]string, len(r.Players))
	for i, p := range r.Players {
		labels[i] = p.Label()
	}
	return labels
}

// Validate checks the roster is complete: two named seats with unique
// single-character symbols.
func (r *Roster) Validate() error {
	if err := validator.GetValidator().Struct(r); err != nil {
		return fmt.Errorf("invalid roster: %w", err)
	}
	return nil
}
