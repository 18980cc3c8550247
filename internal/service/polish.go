package service

import (
	"context"
	"strings"

	"github.com/xiaot623/sustainet/internal/agent"
	"github.com/xiaot623/sustainet/internal/domain"
)

// PolishRequest asks the editor agent to improve a player's draft.
type PolishRequest struct {
	SessionID    string   `json:"session_id,omitempty"`
	Content      string   `json:"content"`
	Requirements string   `json:"requirements,omitempty"`
	Sources      []string `json:"sources,omitempty"`
	Platform     string   `json:"platform,omitempty"`
}

// PolishResponse is the edited draft.
type PolishResponse struct {
	OriginalContent string   `json:"original_content"`
	PolishedContent string   `json:"polished_content"`
	Suggestions     []string `json:"suggestions"`
	Reasoning       string   `json:"reasoning,omitempty"`
}

// PolishNews runs the news polish agent over a draft. When a session and
// platform are given the platform's audience is passed along.
func (s *Service) PolishNews(ctx context.Context, req PolishRequest) (*PolishResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, domain.NewValidationError("EMPTY_CONTENT", "content is required", nil)
	}

	vars := map[string]any{
		"content":      req.Content,
		"requirements": req.Requirements,
		"sources":      req.Sources,
		"platform":     req.Platform,
		"audience":     "",
	}
	if req.SessionID != "" && req.Platform != "" {
		setup, _, err := s.loadSession(ctx, req.SessionID)
		if err != nil {
			return nil, err
		}
		for _, p := range setup.Platforms {
			if p.Name == req.Platform {
				vars["audience"] = p.Audience
			}
		}
	}

	var out PolishResponse
	err := s.runner.Run(ctx, agent.Request{
		AgentName: agent.NewsPolishAgent,
		SessionID: req.SessionID,
		Variables: vars,
		InputText: req.Content,
	}, &out)
	if err != nil {
		return nil, err
	}
	out.OriginalContent = req.Content
	if out.PolishedContent == "" {
		out.PolishedContent = req.Content
	}
	if out.Suggestions == nil {
		out.Suggestions = []string{}
	}
	return &out, nil
}
