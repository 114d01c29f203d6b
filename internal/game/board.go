package game

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Player is an index into the roster of a match. NoPlayer marks an empty cell.
type Player int

const NoPlayer Player = -1

// DefaultSize is the classic 3x3 board.
const DefaultSize = 3

var (
	ErrOutOfBounds  = errors.New("out of bounds")
	ErrOccupied     = errors.New("cell already occupied")
	ErrGameOver     = errors.New("game already finished")
	ErrInvalidBoard = errors.New("invalid board")
)

// MarshalJSON encodes an empty cell as null.
func (p Player) MarshalJSON() ([]byte, error) {
	if p == NoPlayer {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(p))), nil
}

// UnmarshalJSON decodes null as NoPlayer.
func (p *Player) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*p = NoPlayer
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("player must be an integer or null: %w", err)
	}
	*p = Player(n)
	return nil
}

// Move identifies a cell by row and column.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board is a square grid of cells indexed [row][col].
type Board [][]Player

// EmptyBoard returns a size x size board with every cell empty.
func EmptyBoard(size int) Board {
	board := make(Board, size)
	for r := range board {
		board[r] = make([]Player, size)
		for c := range board[r] {
			board[r][c] = NoPlayer
		}
	}
	return board
}

// Size returns the length of a side.
func (b Board) Size() int {
	return len(b)
}

// Clone returns a deep copy; the copy shares no rows with b.
func (b Board) Clone() Board {
	clone := make(Board, len(b))
	for r, row := range b {
		clone[r] = append([]Player(nil), row...)
	}
	return clone
}

// InBounds reports whether the move addresses a cell of the board.
func (b Board) InBounds(m Move) bool {
	return m.Row >= 0 && m.Row < len(b) && m.Col >= 0 && m.Col < len(b)
}

// IsEmpty reports whether the cell addressed by m is in bounds and empty.
func (b Board) IsEmpty(m Move) bool {
	return b.InBounds(m) && b[m.Row][m.Col] == NoPlayer
}

// Place records p on the cell addressed by m.
func (b Board) Place(m Move, p Player) error {
	if !b.InBounds(m) {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, m.Row, m.Col)
	}
	if b[m.Row][m.Col] != NoPlayer {
		return fmt.Errorf("%w: (%d, %d)", ErrOccupied, m.Row, m.Col)
	}
	b[m.Row][m.Col] = p
	return nil
}

// With returns a copy of b with p placed on m. The move must be legal.
func (b Board) With(m Move, p Player) Board {
	child := b.Clone()
	child[m.Row][m.Col] = p
	return child
}

// Validate checks that the board is square and every cell is empty or one of
// the first players roster indexes.
func (b Board) Validate(players int) error {
	size := len(b)
	if size == 0 {
		return fmt.Errorf("%w: board has no rows", ErrInvalidBoard)
	}
	for r, row := range b {
		if len(row) != size {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidBoard, r, len(row), size)
		}
		for c, cell := range row {
			if cell != NoPlayer && (cell < 0 || int(cell) >= players) {
				return fmt.Errorf("%w: cell (%d, %d) holds unknown player %d", ErrInvalidBoard, r, c, cell)
			}
		}
	}
	return nil
}

// LegalMoves returns every empty cell in row-major order. Search breaks ties
// by this order.
func (b Board) LegalMoves() []Move {
	moves := make([]Move, 0, len(b)*len(b))
	for r, row := range b {
		for c, cell := range row {
			if cell == NoPlayer {
				moves = append(moves, Move{Row: r, Col: c})
			}
		}
	}
	return moves
}

// IsFull reports whether no empty cell remains.
func (b Board) IsFull() bool {
	for _, row := range b {
		for _, cell := range row {
			if cell == NoPlayer {
				return false
			}
		}
	}
	return true
}

// Key encodes the board as one character per cell, '.' for empty, rows
// separated by '/'. Used for cache keys and log attributes.
func (b Board) Key() string {
	var sb strings.Builder
	for r, row := range b {
		if r > 0 {
			sb.WriteByte('/')
		}
		for _, cell := range row {
			if cell == NoPlayer {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(strconv.Itoa(int(cell)))
		}
	}
	return sb.String()
}
