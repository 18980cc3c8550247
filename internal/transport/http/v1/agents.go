package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/sustainet/internal/domain"
)

// SaveAgent creates or replaces an agent configuration by name.
// POST /v1/agents
func (h *Handler) SaveAgent(c echo.Context) error {
	var req domain.Agent
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.service.SaveAgent(c.Request().Context(), &req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, req)
}

// GetAgent returns an agent configuration.
// GET /v1/agents/:name
func (h *Handler) GetAgent(c echo.Context) error {
	agent, err := h.service.GetAgent(c.Request().Context(), c.Param("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, agent)
}
