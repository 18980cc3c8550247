package service

import (
	"github.com/xiaot623/sustainet/internal/domain"
	"github.com/xiaot623/sustainet/internal/game"
)

// ArticleView is an article as shown to the player. Veracity is never
// exposed, and AI articles do not reveal their target platform.
type ArticleView struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	PolishedContent string `json:"polished_content,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`
	Source          string `json:"source,omitempty"`
	Author          string `json:"author,omitempty"`
	PublishedDate   string `json:"published_date,omitempty"`
	TargetPlatform  string `json:"target_platform,omitempty"`
}

// ToolView is a catalog tool as listed to clients and agents.
type ToolView struct {
	ToolName           string               `json:"tool_name"`
	Description        string               `json:"description"`
	TrustMultiplier    float64              `json:"trust_multiplier"`
	SpreadMultiplier   float64              `json:"spread_multiplier"`
	ApplicableTo       domain.Applicability `json:"applicable_to"`
	AvailableFromRound int                  `json:"available_from_round"`
}

// TurnResponse is the client-facing result of one turn.
type TurnResponse struct {
	SessionID         string                           `json:"session_id"`
	RoundNumber       int                              `json:"round_number"`
	Actor             domain.Actor                     `json:"actor"`
	ActionID          int64                            `json:"action_id"`
	Article           ArticleView                      `json:"article"`
	TrustChange       int                              `json:"trust_change"`
	SpreadChange      int                              `json:"spread_change"`
	ReachCount        int                              `json:"reach_count"`
	Effectiveness     domain.Effectiveness             `json:"effectiveness"`
	SimulatedComments []string                         `json:"simulated_comments"`
	ToolUsed          []domain.AppliedToolEffectDetail `json:"tool_used"`
	PlatformSetup     []domain.PlatformSetup           `json:"platform_setup"`
	PlatformStatus    []domain.PlatformStatus          `json:"platform_status"`
	ToolList          []ToolView                       `json:"tool_list"`
	GameEndInfo       *game.EndSummary                 `json:"game_end_info,omitempty"`
}

func articleView(a domain.Article, actor domain.Actor) ArticleView {
	v := ArticleView{
		Title:           a.Title,
		Content:         a.Content,
		PolishedContent: a.PolishedContent,
		ImageURL:        a.ImageURL,
		Source:          a.Source,
		Author:          a.Author,
		PublishedDate:   a.PublishedDate,
	}
	if actor != domain.ActorAI {
		v.TargetPlatform = a.TargetPlatform
	}
	return v
}

func toolViews(tools []domain.DomainTool) []ToolView {
	out := make([]ToolView, 0, len(tools))
	for _, t := range tools {
		out = append(out, ToolView{
			ToolName:           t.Name,
			Description:        t.Description,
			TrustMultiplier:    t.Effects.TrustMultiplier,
			SpreadMultiplier:   t.Effects.SpreadMultiplier,
			ApplicableTo:       t.ApplicableTo,
			AvailableFromRound: t.AvailableFromRound,
		})
	}
	return out
}

func statusOf(states []domain.PlatformState) []domain.PlatformStatus {
	out := make([]domain.PlatformStatus, 0, len(states))
	for _, s := range states {
		out = append(out, domain.PlatformStatus{
			PlatformName: s.PlatformName,
			PlayerTrust:  s.PlayerTrust,
			AITrust:      s.AITrust,
			SpreadRate:   s.SpreadRate,
		})
	}
	return out
}

// turnResponse converts an outcome for the client. playerTools is the
// player's tool list for the round.
func (s *Service) turnResponse(setup *domain.GameSetup, outcome *ActionOutcome, playerTools []domain.DomainTool) *TurnResponse {
	resp := &TurnResponse{
		SessionID:         outcome.Turn.SessionID,
		RoundNumber:       outcome.Turn.RoundNumber,
		Actor:             outcome.Turn.Actor,
		ActionID:          outcome.ActionID,
		Article:           articleView(outcome.Turn.Article, outcome.Turn.Actor),
		TrustChange:       outcome.Final.TrustChange,
		SpreadChange:      outcome.Final.SpreadChange,
		ReachCount:        outcome.Final.ReachCount,
		Effectiveness:     outcome.Final.Effectiveness,
		SimulatedComments: outcome.Final.SimulatedComments,
		ToolUsed:          outcome.AppliedTools,
		PlatformSetup:     setup.Platforms,
		PlatformStatus:    statusOf(outcome.States),
		ToolList:          toolViews(playerTools),
	}
	if resp.SimulatedComments == nil {
		resp.SimulatedComments = []string{}
	}
	if resp.ToolUsed == nil {
		resp.ToolUsed = []domain.AppliedToolEffectDetail{}
	}
	if outcome.End != nil {
		summary := s.rules.Summary(*outcome.End)
		resp.GameEndInfo = &summary
	}
	return resp
}
