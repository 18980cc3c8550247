// Package game holds the pure rules of the trust war: tool composition,
// end-of-game evaluation and game setup.
package game

import (
	"math"

	"go.uber.org/zap"

	"github.com/xiaot623/sustainet/internal/domain"
)

// Composer applies tool multipliers to a judge evaluation.
type Composer struct {
	logger *zap.Logger
}

// NewComposer creates a composer. A nil logger discards warnings.
func NewComposer(logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{logger: logger}
}

// Compose multiplies the raw trust and spread deltas by each eligible tool in
// order. Each tool's contribution is floor(post-pre) on each axis and the
// final deltas are floor(accumulator). Platform status and reach pass through.
// Tools the actor may not use are dropped with a warning.
func (c *Composer) Compose(raw domain.Evaluation, actor domain.Actor, tools []domain.DomainTool) (domain.Evaluation, []domain.AppliedToolEffectDetail) {
	out := raw
	if len(tools) == 0 {
		return out, nil
	}

	trust := float64(raw.TrustChange)
	spread := float64(raw.SpreadChange)
	details := make([]domain.AppliedToolEffectDetail, 0, len(tools))

	for _, tool := range tools {
		if !tool.CanBeUsedBy(actor) {
			c.logger.Warn("dropping tool not applicable to actor",
				zap.String("tool", tool.Name),
				zap.String("actor", string(actor)),
				zap.String("applicable_to", string(tool.ApplicableTo)))
			continue
		}

		preTrust, preSpread := trust, spread
		trust *= tool.Effects.TrustMultiplier
		spread *= tool.Effects.SpreadMultiplier

		details = append(details, domain.AppliedToolEffectDetail{
			ToolName:                 tool.Name,
			AppliedTrustEffectValue:  int(math.Floor(trust - preTrust)),
			AppliedSpreadEffectValue: int(math.Floor(spread - preSpread)),
			IsEffective:              true,
		})
	}

	out.TrustChange = int(math.Floor(trust))
	out.SpreadChange = int(math.Floor(spread))
	return out, details
}
