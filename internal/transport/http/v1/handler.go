// Package v1 provides the HTTP handlers of the game API.
package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/sustainet/internal/domain"
	"github.com/xiaot623/sustainet/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the game routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Game lifecycle
	e.POST("/v1/games", h.StartGame)
	e.GET("/v1/games/:session_id", h.GetGame)
	e.POST("/v1/games/:session_id/rounds/next", h.StartNextRound)
	e.POST("/v1/games/:session_id/rounds/:round/ai-turn", h.AITurn)
	e.POST("/v1/games/:session_id/rounds/:round/player-turn", h.PlayerTurn)

	// Tool catalog
	e.GET("/v1/tools", h.ListTools)
	e.GET("/v1/tools/unlocks", h.ToolUnlocks)
	e.DELETE("/v1/tools/cache", h.ClearToolCache)

	// News and agents
	e.POST("/v1/news", h.CreateNews)
	e.GET("/v1/news/random", h.RandomNews)
	e.POST("/v1/news/polish", h.PolishNews)
	e.POST("/v1/agents", h.SaveAgent)
	e.GET("/v1/agents/:name", h.GetAgent)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// statusFor maps an error kind to an HTTP status.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindResourceNotFound:
		return http.StatusNotFound
	case domain.KindBusinessLogic:
		return http.StatusConflict
	case domain.KindExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	var appErr *domain.Error
	if !errors.As(err, &appErr) {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(statusFor(appErr.Kind), ErrorResponse{
		Error:   appErr.Error(),
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: "VALIDATION_ERROR"})
}
