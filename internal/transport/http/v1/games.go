package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/sustainet/internal/domain"
	"github.com/xiaot623/sustainet/internal/service"
)

// PlayerTurnRequest is the body of a player turn.
type PlayerTurnRequest struct {
	Article *domain.Article  `json:"article"`
	Tools   []domain.ToolRef `json:"tools"`
}

// StartGame creates a game and plays the first AI turn.
// POST /v1/games
func (h *Handler) StartGame(c echo.Context) error {
	resp, err := h.service.StartGame(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// GetGame returns the status of a game.
// GET /v1/games/:session_id
func (h *Handler) GetGame(c echo.Context) error {
	resp, err := h.service.GameStatus(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// AITurn plays the AI's turn of a round.
// POST /v1/games/:session_id/rounds/:round/ai-turn
func (h *Handler) AITurn(c echo.Context) error {
	round, err := strconv.Atoi(c.Param("round"))
	if err != nil || round < 1 {
		return badRequest(c, "round must be a positive integer")
	}

	resp, err := h.service.AITurn(c.Request().Context(), c.Param("session_id"), round)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// PlayerTurn plays the player's turn of a round.
// POST /v1/games/:session_id/rounds/:round/player-turn
func (h *Handler) PlayerTurn(c echo.Context) error {
	round, err := strconv.Atoi(c.Param("round"))
	if err != nil || round < 1 {
		return badRequest(c, "round must be a positive integer")
	}
	var req PlayerTurnRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.service.PlayerTurn(c.Request().Context(), service.PlayerTurnRequest{
		SessionID:   c.Param("session_id"),
		RoundNumber: round,
		Article:     req.Article,
		Tools:       req.Tools,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// StartNextRound opens the next round and plays its AI turn.
// POST /v1/games/:session_id/rounds/next
func (h *Handler) StartNextRound(c echo.Context) error {
	resp, err := h.service.StartNextRound(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
