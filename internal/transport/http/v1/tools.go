package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/sustainet/internal/domain"
)

// ListTools lists an actor's tools, optionally only those unlocked by a round.
// GET /v1/tools?actor=player&round=2
func (h *Handler) ListTools(c echo.Context) error {
	actor, err := actorParam(c, domain.ActorPlayer)
	if err != nil {
		return writeError(c, err)
	}
	round := 0
	if r := c.QueryParam("round"); r != "" {
		round, err = strconv.Atoi(r)
		if err != nil || round < 1 {
			return badRequest(c, "round must be a positive integer")
		}
	}

	tools, err := h.service.ListTools(c.Request().Context(), actor, round)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"actor": actor,
		"round": round,
		"tools": tools,
	})
}

// ToolUnlocks reports how an actor's tools unlock over the game.
// GET /v1/tools/unlocks?actor=player
func (h *Handler) ToolUnlocks(c echo.Context) error {
	actor, err := actorParam(c, domain.ActorPlayer)
	if err != nil {
		return writeError(c, err)
	}
	info, err := h.service.ToolUnlockInfo(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, info)
}

// ClearToolCache drops the cached tool lists of one actor or of all.
// DELETE /v1/tools/cache?actor=ai
func (h *Handler) ClearToolCache(c echo.Context) error {
	actor, err := actorParam(c, "")
	if err != nil {
		return writeError(c, err)
	}
	h.service.ClearToolCache(actor)
	return c.NoContent(http.StatusNoContent)
}

func actorParam(c echo.Context, fallback domain.Actor) (domain.Actor, error) {
	raw := c.QueryParam("actor")
	if raw == "" {
		return fallback, nil
	}
	return domain.ParseActor(raw)
}
