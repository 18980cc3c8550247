package service

import (
	"context"

	"github.com/xiaot623/sustainet/internal/catalog"
	"github.com/xiaot623/sustainet/internal/domain"
)

// ListTools returns the actor's tools. A positive round keeps only those
// unlocked by that round.
func (s *Service) ListTools(ctx context.Context, actor domain.Actor, round int) ([]ToolView, error) {
	var (
		tools []domain.DomainTool
		err   error
	)
	if round > 0 {
		tools, err = s.catalog.AvailableToolsForRound(ctx, round, actor)
	} else {
		tools, err = s.catalog.ListToolsForActor(ctx, actor)
	}
	if err != nil {
		return nil, dbError("list tools", err)
	}
	return toolViews(tools), nil
}

// ToolUnlockInfo reports how the actor's tools unlock over the game.
func (s *Service) ToolUnlockInfo(ctx context.Context, actor domain.Actor) (*catalog.UnlockInfo, error) {
	info, err := s.catalog.ToolUnlockInfo(ctx, actor)
	if err != nil {
		return nil, dbError("tool unlock info", err)
	}
	return info, nil
}

// ClearToolCache drops cached tool lists; an empty actor clears all.
func (s *Service) ClearToolCache(actor domain.Actor) {
	s.catalog.ClearCache(actor)
}
