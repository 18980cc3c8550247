package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 5*time.Minute, cfg.ToolCacheTTL)
	assert.Equal(t, 120*time.Second, cfg.LLMTimeout())
	assert.Equal(t, 10, cfg.Game.MaxRounds)
	assert.Equal(t, 100, cfg.Game.WinTrustThreshold)
	assert.Equal(t, 3, cfg.Game.WinPlatformCount)
	assert.Equal(t, []string{"Facebook", "Instagram", "Thread"}, cfg.Game.PlatformNames)
	assert.Equal(t, []string{"youth", "middle-aged", "seniors"}, cfg.Game.AudienceTypes)
	assert.Equal(t, 50, cfg.Game.InitialPlayerTrust)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GAME_MAX_ROUNDS", "4")
	t.Setenv("GAME_PLATFORM_NAMES", "Facebook,Thread")
	t.Setenv("TOOL_CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Game.MaxRounds)
	assert.Equal(t, []string{"Facebook", "Thread"}, cfg.Game.PlatformNames)
	assert.Equal(t, 30*time.Second, cfg.ToolCacheTTL)
	assert.Equal(t, 4, cfg.Game.Rules().MaxRounds)
}

func TestLoadRejectsTooFewAudiences(t *testing.T) {
	t.Setenv("GAME_AUDIENCE_TYPES", "youth,seniors")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadInteger(t *testing.T) {
	t.Setenv("GAME_MAX_ROUNDS", "many")
	_, err := Load()
	assert.Error(t, err)
}
