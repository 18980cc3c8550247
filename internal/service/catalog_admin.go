package service

import (
	"context"
	"strings"

	"github.com/xiaot623/sustainet/internal/domain"
)

// CreateNews adds a seed article for the AI writer.
func (s *Service) CreateNews(ctx context.Context, news *domain.News) error {
	if strings.TrimSpace(news.Title) == "" || strings.TrimSpace(news.Content) == "" {
		return domain.NewValidationError("INVALID_NEWS", "title and content are required", nil)
	}
	switch news.Veracity {
	case domain.VeracityTrue, domain.VeracityFalse, domain.VeracityPartial:
	default:
		return domain.NewValidationError("INVALID_VERACITY", "veracity must be true, false or partial",
			map[string]any{"veracity": string(news.Veracity)})
	}
	if err := s.store.CreateNews(ctx, news); err != nil {
		return dbError("create news", err)
	}
	return nil
}

// RandomNews returns one active seed article.
func (s *Service) RandomNews(ctx context.Context) (*domain.News, error) {
	n, err := s.store.GetRandomActiveNews(ctx)
	if err != nil {
		return nil, dbError("get random news", err)
	}
	return n, nil
}

// SaveAgent creates or replaces an agent configuration.
func (s *Service) SaveAgent(ctx context.Context, a *domain.Agent) error {
	if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.Instruction) == "" {
		return domain.NewValidationError("INVALID_AGENT", "name and instruction are required", nil)
	}
	if a.Provider == "" {
		a.Provider = "litellm"
	}
	if err := s.store.UpsertAgent(ctx, a); err != nil {
		return dbError("save agent", err)
	}
	return nil
}

// GetAgent returns an agent configuration by name.
func (s *Service) GetAgent(ctx context.Context, name string) (*domain.Agent, error) {
	a, err := s.store.GetAgentByName(ctx, name)
	if err != nil {
		return nil, dbError("get agent", err)
	}
	if a == nil {
		return nil, domain.NewNotFoundError("agent", name)
	}
	return a, nil
}
