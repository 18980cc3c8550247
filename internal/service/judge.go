package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xiaot623/sustainet/internal/agent"
	"github.com/xiaot623/sustainet/internal/domain"
)

// judge asks the game master for a raw, multiplier-free evaluation of the
// turn's article.
func (s *Service) judge(ctx context.Context, g *domain.Game, turn *TurnResult) (domain.Evaluation, error) {
	target, ok := g.Platform(turn.TargetPlatform)
	if !ok {
		return domain.Evaluation{}, domain.NewNotFoundError("platform", turn.TargetPlatform)
	}

	article := turn.Article
	vars := map[string]any{
		"title":                  article.Title,
		"content":                article.Body(),
		"image_url":              article.ImageURL,
		"source":                 article.Source,
		"veracity":               string(article.Veracity),
		"target_platform":        target.Name,
		"target_audience":        target.Audience,
		"target_player_trust":    target.PlayerTrust.Value(),
		"target_ai_trust":        target.AITrust.Value(),
		"target_spread_rate":     target.SpreadRate.Value(),
		"author":                 string(turn.Actor),
		"trust_multiplier":       1.0,
		"spread_multiplier":      1.0,
		"round_number":           g.CurrentRound,
		"platform_state_summary": platformSummary(g),
		"platforms":              platformStatuses(g),
	}

	var eval domain.Evaluation
	err := s.runner.Run(ctx, agent.Request{
		AgentName: agent.GameMasterAgent,
		SessionID: string(g.SessionID),
		Variables: vars,
		InputText: "Evaluate this article and report the new platform state.",
	}, &eval)
	if err != nil {
		return domain.Evaluation{}, domain.NewBusinessError("judge evaluation failed", err)
	}
	if err := eval.Validate(); err != nil {
		return domain.Evaluation{}, domain.NewBusinessError("judge evaluation failed", err)
	}
	return eval, nil
}

func platformSummary(g *domain.Game) string {
	lines := make([]string, 0, len(g.Platforms))
	for _, p := range g.Platforms {
		lines = append(lines, fmt.Sprintf("%s (audience: %s) | player trust: %d | AI trust: %d | spread: %d%%",
			p.Name, p.Audience, p.PlayerTrust.Value(), p.AITrust.Value(), p.SpreadRate.Value()))
	}
	return strings.Join(lines, "\n")
}

func platformStatuses(g *domain.Game) []domain.PlatformStatus {
	out := make([]domain.PlatformStatus, 0, len(g.Platforms))
	for _, p := range g.Platforms {
		out = append(out, domain.PlatformStatus{
			PlatformName: p.Name,
			PlayerTrust:  p.PlayerTrust.Value(),
			AITrust:      p.AITrust.Value(),
			SpreadRate:   p.SpreadRate.Value(),
		})
	}
	return out
}
