package domain

import "time"

// ActionRecord is one persisted action per session, round and actor.
type ActionRecord struct {
	ID                int64         `json:"id"`
	SessionID         string        `json:"session_id"`
	RoundNumber       int           `json:"round_number"`
	Actor             Actor         `json:"actor"`
	Platform          string        `json:"platform"`
	Content           string        `json:"content"`
	ReachCount        int           `json:"reach_count"`
	TrustChange       int           `json:"trust_change"`
	SpreadChange      int           `json:"spread_change"`
	Effectiveness     Effectiveness `json:"effectiveness,omitempty"`
	SimulatedComments []string      `json:"simulated_comments"`
	CreatedAt         time.Time     `json:"created_at"`
}

// PlatformSetup is the fixed name/audience pairing of a game.
type PlatformSetup struct {
	Name     string `json:"name"`
	Audience string `json:"audience"`
}

// GameSetup is the persisted configuration of a game.
type GameSetup struct {
	SessionID          string          `json:"session_id"`
	Platforms          []PlatformSetup `json:"platforms"`
	PlayerInitialTrust int             `json:"player_initial_trust"`
	AIInitialTrust     int             `json:"ai_initial_trust"`
	Status             GameStatus      `json:"status"`
	CreatedAt          time.Time       `json:"created_at"`
}

// GameRound is one persisted round of a game.
type GameRound struct {
	SessionID   string    `json:"session_id"`
	RoundNumber int       `json:"round_number"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// PlatformState is the persisted per-round state of one platform.
type PlatformState struct {
	SessionID    string `json:"session_id"`
	RoundNumber  int    `json:"round_number"`
	PlatformName string `json:"platform_name"`
	PlayerTrust  int    `json:"player_trust"`
	AITrust      int    `json:"ai_trust"`
	SpreadRate   int    `json:"spread_rate"`
}

// Agent is the stored configuration of a named LLM agent.
type Agent struct {
	AgentID     string   `json:"agent_id" yaml:"-"`
	Name        string   `json:"name" yaml:"name"`
	Provider    string   `json:"provider" yaml:"provider"`
	Model       string   `json:"model" yaml:"model"`
	Description string   `json:"description" yaml:"description"`
	Instruction string   `json:"instruction" yaml:"instruction"`
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature"`
}
