package game

import (
	"fmt"

	"github.com/xiaot623/sustainet/internal/domain"
)

// Rules are the win conditions of a game.
type Rules struct {
	MaxRounds         int
	WinTrustThreshold int
	WinPlatformCount  int
}

// Evaluate decides whether the game ends after the given round.
//
// The round limit is checked first and decides the winner by summed trust.
// Otherwise player dominance is checked before AI dominance, so a round in
// which both sides dominate goes to the player. Zero platforms never
// dominate.
func (r Rules) Evaluate(round int, states []domain.PlatformState) domain.GameEndResult {
	if round >= r.MaxRounds {
		return r.finalWinner(round, states)
	}
	return r.Dominance(round, states)
}

// Dominance checks only the dominance conditions, player first. It runs
// after turns that do not close a round.
func (r Rules) Dominance(round int, states []domain.PlatformState) domain.GameEndResult {
	playerWins := r.winningPlatforms(states, domain.ActorPlayer)
	aiWins := r.winningPlatforms(states, domain.ActorAI)

	if len(states) > 0 && len(playerWins) >= r.WinPlatformCount {
		return domain.GameEndResult{
			IsEnded: true,
			Reason:  domain.EndReasonPlayerDominance,
			Winner:  domain.WinnerPlayer,
			Details: map[string]any{
				"winning_platforms": playerWins,
				"threshold":         r.WinTrustThreshold,
				"round_number":      round,
				"platform_details":  states,
			},
		}
	}

	if len(states) > 0 && len(aiWins) >= r.WinPlatformCount {
		return domain.GameEndResult{
			IsEnded: true,
			Reason:  domain.EndReasonAIDominance,
			Winner:  domain.WinnerAI,
			Details: map[string]any{
				"winning_platforms": aiWins,
				"threshold":         r.WinTrustThreshold,
				"round_number":      round,
				"platform_details":  states,
			},
		}
	}

	return domain.GameEndResult{
		IsEnded: false,
		Reason:  domain.EndReasonNone,
		Winner:  domain.WinnerNone,
		Details: map[string]any{
			"round_number":             round,
			"player_winning_platforms": len(playerWins),
			"ai_winning_platforms":     len(aiWins),
		},
	}
}

func (r Rules) finalWinner(round int, states []domain.PlatformState) domain.GameEndResult {
	var playerTotal, aiTotal int
	for _, s := range states {
		playerTotal += s.PlayerTrust
		aiTotal += s.AITrust
	}

	winner := domain.WinnerDraw
	switch {
	case playerTotal > aiTotal:
		winner = domain.WinnerPlayer
	case aiTotal > playerTotal:
		winner = domain.WinnerAI
	}

	return domain.GameEndResult{
		IsEnded: true,
		Reason:  domain.EndReasonMaxRoundsReached,
		Winner:  winner,
		Details: map[string]any{
			"round_number":       round,
			"max_rounds":         r.MaxRounds,
			"player_total_trust": playerTotal,
			"ai_total_trust":     aiTotal,
			"platform_details":   states,
		},
	}
}

func (r Rules) winningPlatforms(states []domain.PlatformState, actor domain.Actor) []string {
	wins := []string{}
	for _, s := range states {
		trust := s.PlayerTrust
		if actor == domain.ActorAI {
			trust = s.AITrust
		}
		if trust >= r.WinTrustThreshold {
			wins = append(wins, s.PlatformName)
		}
	}
	return wins
}

// PlatformBreakdown is one platform's final numbers in a game summary.
type PlatformBreakdown struct {
	Platform    string `json:"platform"`
	PlayerTrust int    `json:"player_trust"`
	AITrust     int    `json:"ai_trust"`
	SpreadRate  int    `json:"spread_rate"`
}

// Statistics summarizes a finished game.
type Statistics struct {
	TotalRounds           int                 `json:"total_rounds"`
	MaxPossibleRounds     int                 `json:"max_possible_rounds"`
	FinalPlayerTotalTrust int                 `json:"final_player_total_trust"`
	FinalAITotalTrust     int                 `json:"final_ai_total_trust"`
	PlatformBreakdown     []PlatformBreakdown `json:"platform_breakdown,omitempty"`
	WinningPlatforms      []string            `json:"winning_platforms,omitempty"`
	WinningThreshold      int                 `json:"winning_threshold,omitempty"`
}

// EndSummary is the human-readable form of a GameEndResult.
type EndSummary struct {
	IsEnded       bool             `json:"is_ended"`
	Summary       string           `json:"summary,omitempty"`
	Winner        domain.Winner    `json:"winner,omitempty"`
	WinnerMessage string           `json:"winner_message,omitempty"`
	Reason        domain.EndReason `json:"reason,omitempty"`
	ReasonMessage string           `json:"reason_message,omitempty"`
	Statistics    *Statistics      `json:"game_statistics,omitempty"`
}

// Summary formats an evaluation result for display.
func (r Rules) Summary(result domain.GameEndResult) EndSummary {
	if !result.IsEnded {
		return EndSummary{IsEnded: false, Summary: "game in progress"}
	}

	reasonMessage := "game over"
	switch result.Reason {
	case domain.EndReasonMaxRoundsReached:
		reasonMessage = fmt.Sprintf("maximum number of rounds reached (%d rounds)", r.MaxRounds)
	case domain.EndReasonPlayerDominance:
		reasonMessage = fmt.Sprintf("player reached %d trust on %d platforms", r.WinTrustThreshold, r.WinPlatformCount)
	case domain.EndReasonAIDominance:
		reasonMessage = fmt.Sprintf("AI reached %d trust on %d platforms", r.WinTrustThreshold, r.WinPlatformCount)
	}

	winnerMessage := "game over"
	switch result.Winner {
	case domain.WinnerPlayer:
		winnerMessage = "Player wins!"
	case domain.WinnerAI:
		winnerMessage = "AI wins!"
	case domain.WinnerDraw:
		winnerMessage = "Draw!"
	}

	return EndSummary{
		IsEnded:       true,
		Winner:        result.Winner,
		WinnerMessage: winnerMessage,
		Reason:        result.Reason,
		ReasonMessage: reasonMessage,
		Statistics:    r.statistics(result.Details),
	}
}

func (r Rules) statistics(details map[string]any) *Statistics {
	stats := &Statistics{MaxPossibleRounds: r.MaxRounds}
	if round, ok := details["round_number"].(int); ok {
		stats.TotalRounds = round
	}
	if wins, ok := details["winning_platforms"].([]string); ok {
		stats.WinningPlatforms = wins
	}
	if threshold, ok := details["threshold"].(int); ok {
		stats.WinningThreshold = threshold
	}
	states, ok := details["platform_details"].([]domain.PlatformState)
	if !ok {
		return stats
	}
	for _, s := range states {
		stats.FinalPlayerTotalTrust += s.PlayerTrust
		stats.FinalAITotalTrust += s.AITrust
		stats.PlatformBreakdown = append(stats.PlatformBreakdown, PlatformBreakdown{
			Platform:    s.PlatformName,
			PlayerTrust: s.PlayerTrust,
			AITrust:     s.AITrust,
			SpreadRate:  s.SpreadRate,
		})
	}
	return stats
}
