package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/sustainet/internal/domain"
	"github.com/xiaot623/sustainet/internal/service"
)

// PolishNews runs the writing assistant over a player's draft.
// POST /v1/news/polish
func (h *Handler) PolishNews(c echo.Context) error {
	var req service.PolishRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.service.PolishNews(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateNewsRequest is the body of a new seed article.
type CreateNewsRequest struct {
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	Veracity domain.Veracity `json:"veracity"`
	Category string          `json:"category"`
	Source   string          `json:"source"`
	IsActive *bool           `json:"is_active"`
}

// CreateNews adds a seed article.
// POST /v1/news
func (h *Handler) CreateNews(c echo.Context) error {
	var req CreateNewsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	news := &domain.News{
		Title:    req.Title,
		Content:  req.Content,
		Veracity: req.Veracity,
		Category: req.Category,
		Source:   req.Source,
		IsActive: req.IsActive == nil || *req.IsActive,
	}
	if err := h.service.CreateNews(c.Request().Context(), news); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, news)
}

// RandomNews returns one active seed article.
// GET /v1/news/random
func (h *Handler) RandomNews(c echo.Context) error {
	news, err := h.service.RandomNews(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, news)
}
