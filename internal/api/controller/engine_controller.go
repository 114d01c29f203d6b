package controller

import (
	"ctchen222/terminal-tic-tac-toe/internal/api/models"
	"ctchen222/terminal-tic-tac-toe/internal/api/response"
	"ctchen222/terminal-tic-tac-toe/internal/bot"
	"ctchen222/terminal-tic-tac-toe/internal/game"
	"ctchen222/terminal-tic-tac-toe/internal/repository"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBoardSize bounds the boards the engine accepts; a 4x4 search does not
// finish in practical time.
const MaxBoardSize = 3

// EngineController exposes the rules engine and the search over HTTP.
type EngineController struct {
	calculator *bot.Calculator
	history    repository.HistoryRepository
}

// NewEngineController creates a new EngineController. history may be nil.
func NewEngineController(calculator *bot.Calculator, history repository.HistoryRepository) *EngineController {
	return &EngineController{
		calculator: calculator,
		history:    history,
	}
}

func validateBoard(board game.Board) error {
	if err := board.Validate(game.Players); err != nil {
		return err
	}
	if board.Size() > MaxBoardSize {
		return fmt.Errorf("%w: size %d exceeds %d", game.ErrInvalidBoard, board.Size(), MaxBoardSize)
	}
	return nil
}

// Status reports whether a position is won, drawn or still in progress.
func (ec *EngineController) Status(c *gin.Context) {
	var req models.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateBoard(req.Board); err != nil {
		response.FromError(c, err)
		return
	}

	status := game.StatusOf(req.Board)
	res := models.StatusResponse{
		Status:     status.Outcome.String(),
		LegalMoves: []game.Move{},
	}
	if status.Outcome == game.Win {
		w := status.Winner
		res.Winner = &w
	} else if !status.Terminal() {
		res.LegalMoves = req.Board.LegalMoves()
	}
	response.SuccessResponse(c, res)
}

// Move picks the next move for a player.
func (ec *EngineController) Move(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateBoard(req.Board); err != nil {
		response.FromError(c, err)
		return
	}
	if game.StatusOf(req.Board).Terminal() {
		response.FromError(c, fmt.Errorf("%w: board is already decided", game.ErrGameOver))
		return
	}
	difficulty, err := bot.ParseDifficulty(req.Difficulty)
	if err != nil {
		response.FromError(c, err)
		return
	}

	ctx := c.Request.Context()
	p := *req.Player

	if difficulty != bot.Hard {
		move, err := ec.calculator.CalculateNextMove(ctx, req.Board, p, difficulty)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.SuccessResponse(c, models.MoveResponse{Move: &move})
		return
	}

	maximizing := true
	if req.Maximizing != nil {
		maximizing = *req.Maximizing
	}
	res, err := ec.calculator.Evaluate(ctx, req.Board, p, maximizing, req.Depth)
	if err != nil {
		slog.WarnContext(ctx, "move request rejected", "error", err)
		response.FromError(c, err)
		return
	}
	out := models.MoveResponse{Value: &res.Value}
	if res.HasMove {
		out.Move = &res.Move
	}
	response.SuccessResponse(c, out)
}

// History lists recently finished matches.
func (ec *EngineController) History(c *gin.Context) {
	if ec.history == nil {
		response.ErrorResponse(c, http.StatusNotFound, "match history is disabled")
		return
	}
	var query models.HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	records, err := ec.history.ListRecent(c.Request.Context(), query.Limit)
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.SuccessResponseList(c, records)
}
