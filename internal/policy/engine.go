// Package policy decides whether a tool may be used in a turn.
package policy

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/open-policy-agent/opa/rego"

	"github.com/xiaot623/sustainet/internal/domain"
)

// Decisions returned by the tool policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.tool_policy.result"),
		rego.Module("tool_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// NewDefaultEngine creates an engine running DefaultPolicy.
func NewDefaultEngine(ctx context.Context) (*Engine, error) {
	return NewEngine(ctx, DefaultPolicy)
}

// Evaluate runs the policy against input.
// Returns: decision (allow, block), reason (empty when allowed), error
func (e *Engine) Evaluate(ctx context.Context, input interface{}) (string, string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, "default", nil
	}

	switch val := results[0].Expressions[0].Value.(type) {
	case string:
		return val, "", nil
	case map[string]interface{}:
		decision, _ := val["decision"].(string)
		if decision == "" {
			decision = DecisionAllow
		}
		var reasons []string
		if rs, ok := val["reasons"].([]interface{}); ok {
			for _, r := range rs {
				if s, ok := r.(string); ok {
					reasons = append(reasons, s)
				}
			}
		}
		sort.Strings(reasons)
		return decision, strings.Join(reasons, "; "), nil
	}

	return DecisionAllow, "unexpected return type", nil
}

// AllowTool reports whether actor may use tool in round, with the reason
// when blocked.
func (e *Engine) AllowTool(ctx context.Context, actor domain.Actor, tool domain.DomainTool, round int) (bool, string, error) {
	input := map[string]interface{}{
		"actor": string(actor),
		"round": round,
		"tool": map[string]interface{}{
			"name":                 tool.Name,
			"applicable_to":        string(tool.ApplicableTo),
			"available_from_round": tool.AvailableFromRound,
			"trust_multiplier":     tool.Effects.TrustMultiplier,
			"spread_multiplier":    tool.Effects.SpreadMultiplier,
		},
	}
	decision, reason, err := e.Evaluate(ctx, input)
	if err != nil {
		return false, "", err
	}
	return decision != DecisionBlock, reason, nil
}

// DefaultPolicy is the default policy content.
const DefaultPolicy = `
package tool_policy

default decision = "allow"

decision = "block" {
	count(violations) > 0
}

# Tools are bound to the actor side they were designed for.
violations[msg] {
	input.tool.applicable_to != "both"
	input.tool.applicable_to != input.actor
	msg := sprintf("tool %s is not applicable to %s", [input.tool.name, input.actor])
}

# Tools unlock from a given round onward.
violations[msg] {
	input.tool.available_from_round > input.round
	msg := sprintf("tool %s unlocks in round %d", [input.tool.name, input.tool.available_from_round])
}

result = {"decision": decision, "reasons": violations}
`
