// Package config provides configuration for the game server.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/xiaot623/sustainet/internal/game"
)

// Config holds the server configuration.
type Config struct {
	// Server settings
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Database
	DatabaseURL string `env:"DATABASE_URL" envDefault:"file:sustainet.db?cache=shared&mode=rwc"`
	SeedFile    string `env:"SEED_FILE"`

	// LLM gateway
	LiteLLMURL    string        `env:"LITELLM_URL" envDefault:"http://localhost:4000"`
	LiteLLMAPIKey string        `env:"LITELLM_API_KEY"`
	LLMModel      string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMTimeoutMs  int           `env:"LLM_TIMEOUT_MS" envDefault:"120000"`
	ToolCacheTTL  time.Duration `env:"TOOL_CACHE_TTL" envDefault:"5m"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Game GameConfig
}

// GameConfig holds the rules of a game.
type GameConfig struct {
	MaxRounds          int      `env:"GAME_MAX_ROUNDS" envDefault:"10"`
	WinTrustThreshold  int      `env:"GAME_WIN_TRUST_THRESHOLD" envDefault:"100"`
	WinPlatformCount   int      `env:"GAME_WIN_PLATFORM_COUNT" envDefault:"3"`
	InitialPlayerTrust int      `env:"GAME_INITIAL_PLAYER_TRUST" envDefault:"50"`
	InitialAITrust     int      `env:"GAME_INITIAL_AI_TRUST" envDefault:"50"`
	InitialSpreadRate  int      `env:"GAME_INITIAL_SPREAD_RATE" envDefault:"50"`
	PlatformNames      []string `env:"GAME_PLATFORM_NAMES" envDefault:"Facebook,Instagram,Thread" envSeparator:","`
	AudienceTypes      []string `env:"GAME_AUDIENCE_TYPES" envDefault:"youth,middle-aged,seniors" envSeparator:","`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LLMTimeout returns the LLM request timeout.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutMs) * time.Millisecond
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	g := c.Game
	if g.MaxRounds < 1 {
		return fmt.Errorf("GAME_MAX_ROUNDS must be >= 1, got %d", g.MaxRounds)
	}
	if len(g.PlatformNames) == 0 {
		return fmt.Errorf("GAME_PLATFORM_NAMES must not be empty")
	}
	if len(g.AudienceTypes) < len(g.PlatformNames) {
		return fmt.Errorf("GAME_AUDIENCE_TYPES has %d entries, need at least %d (one per platform)",
			len(g.AudienceTypes), len(g.PlatformNames))
	}
	for _, v := range []int{g.InitialPlayerTrust, g.InitialAITrust, g.InitialSpreadRate} {
		if v < 0 || v > 100 {
			return fmt.Errorf("initial trust and spread values must be in [0,100], got %d", v)
		}
	}
	return nil
}

// Rules returns the win conditions.
func (g GameConfig) Rules() game.Rules {
	return game.Rules{
		MaxRounds:         g.MaxRounds,
		WinTrustThreshold: g.WinTrustThreshold,
		WinPlatformCount:  g.WinPlatformCount,
	}
}

// Setup returns the parameters of a fresh game.
func (g GameConfig) Setup() game.SetupConfig {
	return game.SetupConfig{
		PlatformNames:      g.PlatformNames,
		AudienceTypes:      g.AudienceTypes,
		InitialPlayerTrust: g.InitialPlayerTrust,
		InitialAITrust:     g.InitialAITrust,
		InitialSpreadRate:  g.InitialSpreadRate,
	}
}
