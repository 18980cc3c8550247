// Package domain defines the core domain models for the game backend.
package domain

import "strings"

// Actor identifies the party taking a turn.
type Actor string

const (
	ActorAI     Actor = "ai"
	ActorPlayer Actor = "player"
)

// ParseActor validates an actor tag.
func ParseActor(s string) (Actor, error) {
	switch Actor(strings.ToLower(strings.TrimSpace(s))) {
	case ActorAI:
		return ActorAI, nil
	case ActorPlayer:
		return ActorPlayer, nil
	}
	return "", NewValidationError("INVALID_ACTOR", "unknown actor: "+s, map[string]any{"actor": s})
}

// Applicability represents which actors may use a tool.
type Applicability string

const (
	ApplicableToPlayer Applicability = "player"
	ApplicableToAI     Applicability = "ai"
	ApplicableToBoth   Applicability = "both"
)

// Allows reports whether the actor may use a tool with this applicability.
func (a Applicability) Allows(actor Actor) bool {
	return a == ApplicableToBoth || string(a) == string(actor)
}

// Valid reports whether a is one of the known values.
func (a Applicability) Valid() bool {
	switch a {
	case ApplicableToPlayer, ApplicableToAI, ApplicableToBoth:
		return true
	}
	return false
}

// Effectiveness is the judge's categorical rating of an action.
type Effectiveness string

const (
	EffectivenessLow    Effectiveness = "low"
	EffectivenessMedium Effectiveness = "medium"
	EffectivenessHigh   Effectiveness = "high"
)

// Valid reports whether e is one of the known tiers.
func (e Effectiveness) Valid() bool {
	switch e {
	case EffectivenessLow, EffectivenessMedium, EffectivenessHigh:
		return true
	}
	return false
}

// Veracity classifies an article as true, false or partially true.
type Veracity string

const (
	VeracityTrue    Veracity = "true"
	VeracityFalse   Veracity = "false"
	VeracityPartial Veracity = "partial"
)

// GameStatus represents the lifecycle status of a game.
type GameStatus string

const (
	GameStatusActive GameStatus = "active"
	GameStatusEnded  GameStatus = "ended"
)

// EndReason explains why a game ended.
type EndReason string

const (
	EndReasonNone             EndReason = "none"
	EndReasonMaxRoundsReached EndReason = "max_rounds_reached"
	EndReasonPlayerDominance  EndReason = "player_dominance"
	EndReasonAIDominance      EndReason = "ai_dominance"
)

// Winner names the winning side of a finished game.
type Winner string

const (
	WinnerNone   Winner = "none"
	WinnerPlayer Winner = "player"
	WinnerAI     Winner = "ai"
	WinnerDraw   Winner = "draw"
)
