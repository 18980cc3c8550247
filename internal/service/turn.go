package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xiaot623/sustainet/internal/agent"
	"github.com/xiaot623/sustainet/internal/domain"
)

// TurnResult is the outcome of the turn executor, before judging.
type TurnResult struct {
	Actor          domain.Actor      `json:"actor"`
	SessionID      string            `json:"session_id"`
	RoundNumber    int               `json:"round_number"`
	Article        domain.Article    `json:"article"`
	TargetPlatform string            `json:"target_platform"`
	ToolsUsed      []domain.ToolRef  `json:"tools_used"`
	AgentResponse  *FakeNewsResponse `json:"agent_response,omitempty"`
}

// FakeNewsResponse is the reply contract of the AI writer.
type FakeNewsResponse struct {
	Title    string           `json:"title"`
	Content  string           `json:"content"`
	ImageURL string           `json:"image_url,omitempty"`
	Source   string           `json:"source"`
	Veracity domain.Veracity  `json:"veracity"`
	ToolUsed []domain.ToolRef `json:"tool_used,omitempty"`
}

// PlayerTurnInput is what a player submits for a turn.
type PlayerTurnInput struct {
	Article *domain.Article
	Tools   []domain.ToolRef
}

// executeTurn produces the article and declared tools for actor.
func (s *Service) executeTurn(ctx context.Context, g *domain.Game, actor domain.Actor, input *PlayerTurnInput) (*TurnResult, error) {
	switch actor {
	case domain.ActorAI:
		return s.executeAITurn(ctx, g)
	case domain.ActorPlayer:
		return s.executePlayerTurn(g, input)
	default:
		return nil, domain.NewValidationError("INVALID_ACTOR", "invalid actor: "+string(actor),
			map[string]any{"actor": string(actor)})
	}
}

func (s *Service) executeAITurn(ctx context.Context, g *domain.Game) (*TurnResult, error) {
	if len(g.Platforms) == 0 {
		return nil, domain.NewBusinessError("game has no platforms", nil)
	}
	platform := g.Platforms[s.rng.IntN(len(g.Platforms))]

	var news [2]*domain.News
	eg, egCtx := errgroup.WithContext(ctx)
	for i := range news {
		eg.Go(func() error {
			n, err := s.store.GetRandomActiveNews(egCtx)
			if err != nil {
				return dbError("get random news", err)
			}
			news[i] = n
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	tools, err := s.catalog.AvailableToolsForRound(ctx, g.CurrentRound, domain.ActorAI)
	if err != nil {
		return nil, dbError("list ai tools", err)
	}

	vars := map[string]any{
		"news_1":          news[0].Content,
		"news_1_veracity": string(news[0].Veracity),
		"news_2":          news[1].Content,
		"news_2_veracity": string(news[1].Veracity),
		"target_platform": platform.Name,
		"target_audience": platform.Audience,
		"available_tools": toolViews(tools),
	}

	var resp FakeNewsResponse
	err = s.runner.Run(ctx, agent.Request{
		AgentName: agent.FakeNewsAgent,
		SessionID: string(g.SessionID),
		Variables: vars,
		InputText: "Write today's article for " + platform.Name + ".",
	}, &resp)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(resp.Content) == "" {
		return nil, domain.NewExternalServiceError(agent.FakeNewsAgent,
			domain.NewValidationError("EMPTY_ARTICLE", "writer returned no content", nil))
	}

	veracity := resp.Veracity
	switch veracity {
	case domain.VeracityTrue, domain.VeracityFalse, domain.VeracityPartial:
	default:
		s.logger.Warn("writer returned unknown veracity, using seed veracity",
			zap.String("session_id", string(g.SessionID)), zap.String("veracity", string(veracity)))
		veracity = news[0].Veracity
	}
	source := resp.Source
	if source == "" {
		source = news[0].Source
	}

	return &TurnResult{
		Actor:       domain.ActorAI,
		SessionID:   string(g.SessionID),
		RoundNumber: g.CurrentRound,
		Article: domain.Article{
			Title:          resp.Title,
			Content:        resp.Content,
			ImageURL:       resp.ImageURL,
			Source:         source,
			Author:         string(domain.ActorAI),
			PublishedDate:  s.now().Format(time.RFC3339),
			TargetPlatform: platform.Name,
			Veracity:       veracity,
		},
		TargetPlatform: platform.Name,
		ToolsUsed:      resp.ToolUsed,
		AgentResponse:  &resp,
	}, nil
}

func (s *Service) executePlayerTurn(g *domain.Game, input *PlayerTurnInput) (*TurnResult, error) {
	if input == nil || input.Article == nil || strings.TrimSpace(input.Article.Body()) == "" {
		return nil, domain.NewBusinessError("player turn requires an article with content", nil)
	}
	article := *input.Article

	if article.TargetPlatform == "" {
		if len(g.Platforms) == 0 {
			return nil, domain.NewBusinessError("game has no platforms", nil)
		}
		article.TargetPlatform = g.Platforms[0].Name
		s.logger.Warn("player article has no target platform, using first platform",
			zap.String("session_id", string(g.SessionID)), zap.String("platform", article.TargetPlatform))
	} else if _, ok := g.Platform(article.TargetPlatform); !ok {
		return nil, domain.NewValidationError("UNKNOWN_PLATFORM", "unknown target platform: "+article.TargetPlatform,
			map[string]any{"target_platform": article.TargetPlatform})
	}
	if article.Author == "" {
		article.Author = string(domain.ActorPlayer)
	}
	if article.PublishedDate == "" {
		article.PublishedDate = s.now().Format(time.RFC3339)
	}

	return &TurnResult{
		Actor:          domain.ActorPlayer,
		SessionID:      string(g.SessionID),
		RoundNumber:    g.CurrentRound,
		Article:        article,
		TargetPlatform: article.TargetPlatform,
		ToolsUsed:      append([]domain.ToolRef(nil), input.Tools...),
	}, nil
}
