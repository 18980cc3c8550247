package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/sustainet/internal/domain"
)

var defaultRules = Rules{MaxRounds: 10, WinTrustThreshold: 100, WinPlatformCount: 3}

func states(values ...[2]int) []domain.PlatformState {
	names := []string{"Facebook", "Instagram", "Thread", "Mastodon"}
	out := make([]domain.PlatformState, len(values))
	for i, v := range values {
		out[i] = domain.PlatformState{PlatformName: names[i], PlayerTrust: v[0], AITrust: v[1], SpreadRate: 50}
	}
	return out
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		round  int
		states []domain.PlatformState
		ended  bool
		reason domain.EndReason
		winner domain.Winner
	}{
		{"max rounds draw", 10, states([2]int{50, 50}, [2]int{50, 50}, [2]int{50, 50}), true, domain.EndReasonMaxRoundsReached, domain.WinnerDraw},
		{"max rounds player", 10, states([2]int{60, 50}, [2]int{50, 50}, [2]int{50, 50}), true, domain.EndReasonMaxRoundsReached, domain.WinnerPlayer},
		{"max rounds ai", 11, states([2]int{10, 50}, [2]int{50, 50}, [2]int{50, 50}), true, domain.EndReasonMaxRoundsReached, domain.WinnerAI},
		{"player dominance", 5, states([2]int{100, 0}, [2]int{100, 0}, [2]int{100, 0}), true, domain.EndReasonPlayerDominance, domain.WinnerPlayer},
		{"ai dominance", 5, states([2]int{0, 100}, [2]int{0, 100}, [2]int{0, 100}), true, domain.EndReasonAIDominance, domain.WinnerAI},
		{"simultaneous dominance goes to player", 5, states([2]int{100, 100}, [2]int{100, 100}, [2]int{100, 100}), true, domain.EndReasonPlayerDominance, domain.WinnerPlayer},
		{"two of three is not enough", 5, states([2]int{100, 0}, [2]int{100, 0}, [2]int{99, 0}), false, domain.EndReasonNone, domain.WinnerNone},
		{"max rounds pre-empts dominance", 10, states([2]int{100, 100}, [2]int{100, 100}, [2]int{100, 100}), true, domain.EndReasonMaxRoundsReached, domain.WinnerDraw},
		{"zero platforms continue", 3, nil, false, domain.EndReasonNone, domain.WinnerNone},
		{"zero platforms end on rounds", 10, nil, true, domain.EndReasonMaxRoundsReached, domain.WinnerDraw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := defaultRules.Evaluate(tt.round, tt.states)
			assert.Equal(t, tt.ended, got.IsEnded)
			assert.Equal(t, tt.reason, got.Reason)
			assert.Equal(t, tt.winner, got.Winner)
			assert.NotNil(t, got.Details)
		})
	}
}

func TestEvaluateZeroPlatformsNeverDominate(t *testing.T) {
	rules := Rules{MaxRounds: 10, WinTrustThreshold: 100, WinPlatformCount: 0}
	got := rules.Evaluate(1, nil)
	assert.False(t, got.IsEnded)
}

func TestEvaluateContinueDetails(t *testing.T) {
	got := defaultRules.Evaluate(4, states([2]int{100, 0}, [2]int{50, 100}, [2]int{50, 50}))
	require.False(t, got.IsEnded)
	assert.Equal(t, 4, got.Details["round_number"])
	assert.Equal(t, 1, got.Details["player_winning_platforms"])
	assert.Equal(t, 1, got.Details["ai_winning_platforms"])
}

func TestSummary(t *testing.T) {
	result := defaultRules.Evaluate(10, states([2]int{70, 50}, [2]int{50, 40}, [2]int{50, 50}))
	summary := defaultRules.Summary(result)

	assert.True(t, summary.IsEnded)
	assert.Equal(t, domain.WinnerPlayer, summary.Winner)
	assert.Equal(t, "Player wins!", summary.WinnerMessage)
	assert.Contains(t, summary.ReasonMessage, "10 rounds")
	require.NotNil(t, summary.Statistics)
	assert.Equal(t, 170, summary.Statistics.FinalPlayerTotalTrust)
	assert.Equal(t, 140, summary.Statistics.FinalAITotalTrust)
	assert.Len(t, summary.Statistics.PlatformBreakdown, 3)

	inProgress := defaultRules.Summary(defaultRules.Evaluate(2, states([2]int{50, 50})))
	assert.False(t, inProgress.IsEnded)
	assert.Nil(t, inProgress.Statistics)
}

func TestDominanceIgnoresRoundLimit(t *testing.T) {
	got := defaultRules.Dominance(10, states([2]int{50, 50}, [2]int{50, 50}, [2]int{50, 50}))
	assert.False(t, got.IsEnded)

	got = defaultRules.Dominance(10, states([2]int{0, 100}, [2]int{0, 100}, [2]int{0, 100}))
	assert.Equal(t, domain.EndReasonAIDominance, got.Reason)
	assert.Equal(t, domain.WinnerAI, got.Winner)
}

func TestSummaryCarriesWinningPlatforms(t *testing.T) {
	result := defaultRules.Evaluate(4, states([2]int{100, 0}, [2]int{100, 0}, [2]int{100, 0}))
	summary := defaultRules.Summary(result)

	require.NotNil(t, summary.Statistics)
	assert.Equal(t, []string{"Facebook", "Instagram", "Thread"}, summary.Statistics.WinningPlatforms)
	assert.Equal(t, 100, summary.Statistics.WinningThreshold)
	assert.Equal(t, 4, summary.Statistics.TotalRounds)
}

func TestNewGameShufflesAudiencesWithoutRepeats(t *testing.T) {
	cfg := SetupConfig{
		PlatformNames:      []string{"Facebook", "Instagram", "Thread"},
		AudienceTypes:      []string{"youth", "middle-aged", "seniors"},
		InitialPlayerTrust: 50,
		InitialAITrust:     50,
		InitialSpreadRate:  50,
	}
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 10; i++ {
		g, err := NewGame(domain.NewSessionID(), cfg, rng)
		require.NoError(t, err)
		require.Len(t, g.Platforms, 3)
		assert.Equal(t, 1, g.CurrentRound)

		seen := map[string]bool{}
		for j, p := range g.Platforms {
			assert.Equal(t, cfg.PlatformNames[j], p.Name)
			assert.False(t, seen[p.Audience], "audience %q used twice", p.Audience)
			seen[p.Audience] = true
			assert.Equal(t, 50, p.PlayerTrust.Value())
		}
	}
	assert.Equal(t, []string{"youth", "middle-aged", "seniors"}, cfg.AudienceTypes)
}

func TestNewGameRejectsTooFewAudiences(t *testing.T) {
	_, err := NewGame(domain.NewSessionID(), SetupConfig{
		PlatformNames: []string{"Facebook", "Instagram"},
		AudienceTypes: []string{"youth"},
	}, rand.New(rand.NewPCG(1, 2)))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRebuildUsesSetupOrder(t *testing.T) {
	setup := &domain.GameSetup{
		SessionID: "game_abc",
		Platforms: []domain.PlatformSetup{{Name: "Facebook", Audience: "youth"}, {Name: "Thread", Audience: "seniors"}},
		Status:    domain.GameStatusActive,
	}
	g, err := Rebuild(setup, 2, []domain.PlatformState{
		{PlatformName: "Thread", PlayerTrust: 40, AITrust: 60, SpreadRate: 30},
		{PlatformName: "Facebook", PlayerTrust: 55, AITrust: 45, SpreadRate: 70},
	})
	require.NoError(t, err)
	assert.Equal(t, "Facebook", g.Platforms[0].Name)
	assert.Equal(t, "seniors", g.Platforms[1].Audience)
	assert.Equal(t, 60, g.Platforms[1].AITrust.Value())

	_, err = Rebuild(setup, 2, []domain.PlatformState{{PlatformName: "Facebook", PlayerTrust: 1}})
	assert.ErrorIs(t, err, domain.ErrResourceNotFound)
}
