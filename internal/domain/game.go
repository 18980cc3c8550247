package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	sessionPrefix = "game_"

	MinScore = 0
	MaxScore = 100
)

// SessionID identifies a game.
type SessionID string

// NewSessionID generates a fresh game identifier.
func NewSessionID() SessionID {
	return SessionID(sessionPrefix + strings.ReplaceAll(uuid.New().String(), "-", ""))
}

// ParseSessionID validates a session identifier.
func ParseSessionID(s string) (SessionID, error) {
	if s == "" || !strings.HasPrefix(s, sessionPrefix) || len(s) == len(sessionPrefix) {
		return "", NewValidationError("INVALID_SESSION_ID", "invalid session ID format", map[string]any{"session_id": s})
	}
	return SessionID(s), nil
}

func (s SessionID) String() string { return string(s) }

// TrustScore is an audience trust value in [0,100].
type TrustScore struct {
	value int
}

// NewTrustScore validates v. Values outside [0,100] are rejected, not clamped.
func NewTrustScore(v int) (TrustScore, error) {
	if v < MinScore || v > MaxScore {
		return TrustScore{}, NewValidationError("INVALID_TRUST_SCORE",
			fmt.Sprintf("trust score must be between 0 and 100, got %d", v), map[string]any{"value": v})
	}
	return TrustScore{value: v}, nil
}

// Value returns the integer score.
func (t TrustScore) Value() int { return t.value }

// ApplyChange returns a new score moved by delta and clamped into [0,100].
func (t TrustScore) ApplyChange(delta int) TrustScore {
	return TrustScore{value: clamp(t.value + delta)}
}

// SpreadRate is a platform's virality in [0,100].
type SpreadRate struct {
	value int
}

// NewSpreadRate validates v. Values outside [0,100] are rejected, not clamped.
func NewSpreadRate(v int) (SpreadRate, error) {
	if v < MinScore || v > MaxScore {
		return SpreadRate{}, NewValidationError("INVALID_SPREAD_RATE",
			fmt.Sprintf("spread rate must be between 0 and 100, got %d", v), map[string]any{"value": v})
	}
	return SpreadRate{value: v}, nil
}

// Value returns the integer rate.
func (s SpreadRate) Value() int { return s.value }

// ApplyChange returns a new rate moved by delta and clamped into [0,100].
func (s SpreadRate) ApplyChange(delta int) SpreadRate {
	return SpreadRate{value: clamp(s.value + delta)}
}

// Clamp bounds v into [0,100].
func Clamp(v int) int { return clamp(v) }

func clamp(v int) int {
	return max(MinScore, min(MaxScore, v))
}

// Platform is one simulated social platform inside a game.
type Platform struct {
	Name        string
	Audience    string
	PlayerTrust TrustScore
	AITrust     TrustScore
	SpreadRate  SpreadRate
}

// NewPlatform builds a platform from raw persisted values.
func NewPlatform(name, audience string, playerTrust, aiTrust, spreadRate int) (Platform, error) {
	pt, err := NewTrustScore(playerTrust)
	if err != nil {
		return Platform{}, err
	}
	at, err := NewTrustScore(aiTrust)
	if err != nil {
		return Platform{}, err
	}
	sr, err := NewSpreadRate(spreadRate)
	if err != nil {
		return Platform{}, err
	}
	return Platform{Name: name, Audience: audience, PlayerTrust: pt, AITrust: at, SpreadRate: sr}, nil
}

// ApplyTrustChange moves the trust of the given actor. Unknown actors are rejected.
func (p *Platform) ApplyTrustChange(actor Actor, delta int) error {
	switch actor {
	case ActorPlayer:
		p.PlayerTrust = p.PlayerTrust.ApplyChange(delta)
	case ActorAI:
		p.AITrust = p.AITrust.ApplyChange(delta)
	default:
		return NewValidationError("INVALID_ACTOR", "unknown actor: "+string(actor), map[string]any{"actor": string(actor)})
	}
	return nil
}

// ApplySpreadChange moves the platform's spread rate.
func (p *Platform) ApplySpreadChange(delta int) {
	p.SpreadRate = p.SpreadRate.ApplyChange(delta)
}

// State converts the platform to its persisted row shape.
func (p Platform) State(sessionID SessionID, round int) PlatformState {
	return PlatformState{
		SessionID:    sessionID.String(),
		RoundNumber:  round,
		PlatformName: p.Name,
		PlayerTrust:  p.PlayerTrust.Value(),
		AITrust:      p.AITrust.Value(),
		SpreadRate:   p.SpreadRate.Value(),
	}
}

// Game is the aggregate root. Platforms are held by value and only mutated
// through the game's own methods.
type Game struct {
	SessionID    SessionID
	CurrentRound int
	Platforms    []Platform
	Status       GameStatus
}

// NewGame validates and assembles a game aggregate.
func NewGame(sessionID SessionID, round int, platforms []Platform) (*Game, error) {
	if round < 1 {
		return nil, NewValidationError("INVALID_ROUND", fmt.Sprintf("round must be >= 1, got %d", round), nil)
	}
	seen := make(map[string]struct{}, len(platforms))
	for _, p := range platforms {
		if _, dup := seen[p.Name]; dup {
			return nil, NewValidationError("DUPLICATE_PLATFORM", "duplicate platform name: "+p.Name, nil)
		}
		seen[p.Name] = struct{}{}
	}
	ps := make([]Platform, len(platforms))
	copy(ps, platforms)
	return &Game{SessionID: sessionID, CurrentRound: round, Platforms: ps, Status: GameStatusActive}, nil
}

// Platform returns a copy of the named platform.
func (g *Game) Platform(name string) (Platform, bool) {
	for _, p := range g.Platforms {
		if p.Name == name {
			return p, true
		}
	}
	return Platform{}, false
}

// IncrementRound advances the round counter.
func (g *Game) IncrementRound() int {
	g.CurrentRound++
	return g.CurrentRound
}

// States returns the persisted row shape of every platform.
func (g *Game) States() []PlatformState {
	states := make([]PlatformState, len(g.Platforms))
	for i, p := range g.Platforms {
		states[i] = p.State(g.SessionID, g.CurrentRound)
	}
	return states
}

// Ended reports whether the game reached a terminal status.
func (g *Game) Ended() bool { return g.Status == GameStatusEnded }
