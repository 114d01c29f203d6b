package response

import (
	"ctchen222/terminal-tic-tac-toe/internal/bot"
	"ctchen222/terminal-tic-tac-toe/internal/game"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusCode maps a domain error to the HTTP status reported for it.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidBoard),
		errors.Is(err, game.ErrOutOfBounds),
		errors.Is(err, game.ErrOccupied),
		errors.Is(err, bot.ErrInvalidPlayer),
		errors.Is(err, bot.ErrUnknownDifficulty):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrGameOver),
		errors.Is(err, bot.ErrNoAvailableMoves):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes err with the status StatusCode picks for it.
func FromError(c *gin.Context, err error) {
	ErrorResponse(c, StatusCode(err), err.Error())
}
