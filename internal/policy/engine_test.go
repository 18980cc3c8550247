package policy

import (
	"context"
	"testing"

	"github.com/xiaot623/sustainet/internal/domain"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewDefaultEngine(context.Background())
	if err != nil {
		t.Fatalf("NewDefaultEngine: %v", err)
	}
	return engine
}

func TestAllowTool(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	factCheck := domain.DomainTool{Name: "Fact Check", ApplicableTo: domain.ApplicableToPlayer, AvailableFromRound: 1}
	engagement := domain.DomainTool{Name: "Community Engagement", ApplicableTo: domain.ApplicableToPlayer, AvailableFromRound: 3}
	echo := domain.DomainTool{Name: "Echo Chamber", ApplicableTo: domain.ApplicableToBoth, AvailableFromRound: 3}

	tests := []struct {
		name    string
		actor   domain.Actor
		tool    domain.DomainTool
		round   int
		allowed bool
	}{
		{"player tool for player", domain.ActorPlayer, factCheck, 1, true},
		{"player tool for ai", domain.ActorAI, factCheck, 1, false},
		{"locked tool", domain.ActorPlayer, engagement, 2, false},
		{"unlocked tool", domain.ActorPlayer, engagement, 3, true},
		{"shared tool for ai", domain.ActorAI, echo, 4, true},
		{"shared tool locked", domain.ActorAI, echo, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, reason, err := engine.AllowTool(ctx, tt.actor, tt.tool, tt.round)
			if err != nil {
				t.Fatalf("AllowTool: %v", err)
			}
			if allowed != tt.allowed {
				t.Fatalf("allowed = %v, want %v (reason %q)", allowed, tt.allowed, reason)
			}
			if !allowed && reason == "" {
				t.Fatalf("blocked without a reason")
			}
		})
	}
}

func TestEvaluateBothViolations(t *testing.T) {
	engine := newTestEngine(t)
	tool := domain.DomainTool{Name: "Data Visualization", ApplicableTo: domain.ApplicableToPlayer, AvailableFromRound: 2}

	allowed, reason, err := engine.AllowTool(context.Background(), domain.ActorAI, tool, 1)
	if err != nil {
		t.Fatalf("AllowTool: %v", err)
	}
	if allowed {
		t.Fatalf("expected block")
	}
	want := "tool Data Visualization is not applicable to ai; tool Data Visualization unlocks in round 2"
	if reason != want {
		t.Fatalf("reason = %q, want %q", reason, want)
	}
}

func TestNewEngineRejectsInvalidPolicy(t *testing.T) {
	if _, err := NewEngine(context.Background(), "package tool_policy\n result = {"); err == nil {
		t.Fatalf("expected error for invalid policy")
	}
}
