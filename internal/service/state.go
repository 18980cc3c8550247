package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xiaot623/sustainet/internal/domain"
	"github.com/xiaot623/sustainet/internal/repository"
)

// ActionOutcome is a judged, composed and persisted turn.
type ActionOutcome struct {
	Turn         *TurnResult
	ActionID     int64
	Raw          domain.Evaluation
	Final        domain.Evaluation
	AppliedTools []domain.AppliedToolEffectDetail
	States       []domain.PlatformState
	// End is set when the turn closed the round or ended the game.
	End *domain.GameEndResult
}

// applyTurn judges a turn, composes its tools and persists the result in one
// transaction. g must be rebuilt from the round being played.
func (s *Service) applyTurn(ctx context.Context, g *domain.Game, turn *TurnResult) (*ActionOutcome, error) {
	log := s.logger.With(zap.String("session_id", turn.SessionID), zap.Int("round", turn.RoundNumber),
		zap.String("actor", string(turn.Actor)))

	raw, err := s.judge(ctx, g, turn)
	if err != nil {
		return nil, err
	}

	tools, err := s.resolveTools(ctx, turn, log)
	if err != nil {
		return nil, err
	}
	final, applied := s.composer.Compose(raw, turn.Actor, tools)

	outcome := &ActionOutcome{Turn: turn, Raw: raw, Final: final, AppliedTools: applied}
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		record := &domain.ActionRecord{
			SessionID:   turn.SessionID,
			RoundNumber: turn.RoundNumber,
			Actor:       turn.Actor,
			Platform:    turn.TargetPlatform,
			Content:     turn.Article.Body(),
		}
		if err := tx.CreateActionRecord(ctx, record); err != nil {
			return dbError("create action record", err)
		}
		outcome.ActionID = record.ID

		if err := tx.UpdateActionEffectiveness(ctx, record.ID, final); err != nil {
			return dbError("update action effectiveness", err)
		}

		for _, ps := range final.PlatformStatus {
			if _, ok := g.Platform(ps.PlatformName); !ok {
				return domain.NewNotFoundError("platform", ps.PlatformName)
			}
			state := domain.PlatformState{
				SessionID:    turn.SessionID,
				RoundNumber:  turn.RoundNumber,
				PlatformName: ps.PlatformName,
				PlayerTrust:  clampReported(log, ps.PlatformName, "player_trust", ps.PlayerTrust),
				AITrust:      clampReported(log, ps.PlatformName, "ai_trust", ps.AITrust),
				SpreadRate:   clampReported(log, ps.PlatformName, "spread_rate", ps.SpreadRate),
			}
			if err := tx.UpdatePlatformState(ctx, state); err != nil {
				return dbError("update platform state", err)
			}
		}

		for _, detail := range applied {
			if !detail.IsEffective {
				continue
			}
			usage := &domain.ToolUsage{
				ActionID:     record.ID,
				ToolName:     detail.ToolName,
				TrustEffect:  detail.AppliedTrustEffectValue,
				SpreadEffect: detail.AppliedSpreadEffectValue,
				IsEffective:  true,
			}
			if err := tx.CreateToolUsage(ctx, usage); err != nil {
				return dbError("create tool usage", err)
			}
		}

		states, err := tx.GetPlatformStates(ctx, turn.SessionID, turn.RoundNumber)
		if err != nil {
			return dbError("get platform states", err)
		}
		outcome.States = states

		var end domain.GameEndResult
		if turn.Actor == domain.ActorPlayer {
			if err := tx.MarkRoundCompleted(ctx, turn.SessionID, turn.RoundNumber); err != nil {
				return dbError("mark round completed", err)
			}
			end = s.rules.Evaluate(turn.RoundNumber, states)
			outcome.End = &end
		} else {
			// The round limit waits for the player to close the round.
			end = s.rules.Dominance(turn.RoundNumber, states)
			if end.IsEnded {
				outcome.End = &end
			}
		}
		if end.IsEnded {
			if err := tx.UpdateGameStatus(ctx, turn.SessionID, domain.GameStatusEnded); err != nil {
				return dbError("update game status", err)
			}
			log.Info("game ended", zap.String("reason", string(end.Reason)), zap.String("winner", string(end.Winner)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("turn applied",
		zap.String("platform", turn.TargetPlatform),
		zap.Int("trust_change", final.TrustChange),
		zap.Int("spread_change", final.SpreadChange),
		zap.Int("tools", len(applied)))
	return outcome, nil
}

// resolveTools looks up the declared tools in order. Unknown, duplicate and
// policy-blocked tools are skipped with a warning.
func (s *Service) resolveTools(ctx context.Context, turn *TurnResult, log *zap.Logger) ([]domain.DomainTool, error) {
	if len(turn.ToolsUsed) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool, len(turn.ToolsUsed))
	tools := make([]domain.DomainTool, 0, len(turn.ToolsUsed))
	for _, ref := range turn.ToolsUsed {
		name := strings.TrimSpace(ref.ToolName)
		if name == "" {
			continue
		}
		tool, err := s.catalog.GetToolByName(ctx, name)
		if err != nil {
			if domain.KindOf(err) == domain.KindResourceNotFound {
				log.Warn("skipping unknown tool", zap.String("tool", name))
				continue
			}
			return nil, dbError("get tool", err)
		}
		key := strings.ToLower(tool.Name)
		if seen[key] {
			log.Warn("skipping duplicate tool", zap.String("tool", tool.Name))
			continue
		}
		seen[key] = true

		allowed, reason, err := s.policyEngine.AllowTool(ctx, turn.Actor, *tool, turn.RoundNumber)
		if err != nil {
			return nil, err
		}
		if !allowed {
			log.Warn("tool blocked by policy", zap.String("tool", tool.Name), zap.String("reason", reason))
			continue
		}
		tools = append(tools, *tool)
	}
	return tools, nil
}

func clampReported(log *zap.Logger, platform, field string, v int) int {
	c := domain.Clamp(v)
	if c != v {
		log.Warn("judge reported out-of-range value, clamping",
			zap.String("platform", platform), zap.String("field", field), zap.Int("value", v))
	}
	return c
}
