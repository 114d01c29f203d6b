package game

import "math/rand/v2"

// Players is the number of seats in a match. The rules engine and the search
// both assume exactly two.
const Players = 2

// Opponent returns the other of the two participants.
func Opponent(p Player) Player {
	if p == 0 {
		return 1
	}
	return 0
}

// RandomlyChooseFirstPlayer picks a seat at random.
func RandomlyChooseFirstPlayer() Player {
	return Player(rand.IntN(Players))
}
