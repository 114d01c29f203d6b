package game

// Winner scans rows, then columns, then the main diagonal, then the
// anti-diagonal, and returns the owner of the first complete line found.
// A reachable board has at most one owner; on larger or hand-built boards the
// scan order decides.
func Winner(b Board) (Player, bool) {
	size := len(b)

	// Check rows
	for r := 0; r < size; r++ {
		if p, ok := lineOwner(b, r, 0, 0, 1); ok {
			return p, true
		}
	}

	// Check columns
	for c := 0; c < size; c++ {
		if p, ok := lineOwner(b, 0, c, 1, 0); ok {
			return p, true
		}
	}

	// Check diagonals
	if p, ok := lineOwner(b, 0, 0, 1, 1); ok {
		return p, true
	}
	if p, ok := lineOwner(b, 0, size-1, 1, -1); ok {
		return p, true
	}

	return NoPlayer, false
}

// lineOwner walks size cells from (row, col) in direction (dr, dc).
func lineOwner(b Board, row, col, dr, dc int) (Player, bool) {
	first := b[row][col]
	if first == NoPlayer {
		return NoPlayer, false
	}
	for i := 1; i < len(b); i++ {
		if b[row+i*dr][col+i*dc] != first {
			return NoPlayer, false
		}
	}
	return first, true
}

// IsDraw reports a board with no winner and no empty cell.
func IsDraw(b Board) bool {
	if _, ok := Winner(b); ok {
		return false
	}
	return b.IsFull()
}

// Outcome is the terminal status of a board.
type Outcome int

const (
	InProgress Outcome = iota
	Win
	Draw
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

// Status describes a board: in progress, won by Winner, or drawn.
type Status struct {
	Outcome Outcome
	Winner  Player
}

// Terminal reports whether the game on this board is over.
func (s Status) Terminal() bool {
	return s.Outcome != InProgress
}

// StatusOf combines Winner and IsDraw into one query.
func StatusOf(b Board) Status {
	if p, ok := Winner(b); ok {
		return Status{Outcome: Win, Winner: p}
	}
	if b.IsFull() {
		return Status{Outcome: Draw, Winner: NoPlayer}
	}
	return Status{Outcome: InProgress, Winner: NoPlayer}
}
