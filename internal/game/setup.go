package game

import (
	"fmt"

	"github.com/xiaot623/sustainet/internal/domain"
)

// SetupConfig are the parameters of a fresh game.
type SetupConfig struct {
	PlatformNames      []string
	AudienceTypes      []string
	InitialPlayerTrust int
	InitialAITrust     int
	InitialSpreadRate  int
}

// Shuffler permutes n elements; *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// NewGame builds round one of a new game. Audiences are shuffled and paired
// with platforms in order, so no audience is used twice.
func NewGame(sessionID domain.SessionID, cfg SetupConfig, rng Shuffler) (*domain.Game, error) {
	if len(cfg.PlatformNames) == 0 {
		return nil, domain.NewValidationError("INVALID_GAME_CONFIG", "at least one platform is required", nil)
	}
	if len(cfg.AudienceTypes) < len(cfg.PlatformNames) {
		return nil, domain.NewValidationError("INVALID_GAME_CONFIG",
			fmt.Sprintf("need %d audience types, have %d", len(cfg.PlatformNames), len(cfg.AudienceTypes)), nil)
	}

	audiences := append([]string(nil), cfg.AudienceTypes...)
	rng.Shuffle(len(audiences), func(i, j int) {
		audiences[i], audiences[j] = audiences[j], audiences[i]
	})

	platforms := make([]domain.Platform, 0, len(cfg.PlatformNames))
	for i, name := range cfg.PlatformNames {
		p, err := domain.NewPlatform(name, audiences[i], cfg.InitialPlayerTrust, cfg.InitialAITrust, cfg.InitialSpreadRate)
		if err != nil {
			return nil, err
		}
		platforms = append(platforms, p)
	}
	return domain.NewGame(sessionID, 1, platforms)
}

// Setup returns the persisted setup row of a game.
func Setup(g *domain.Game, cfg SetupConfig) domain.GameSetup {
	platforms := make([]domain.PlatformSetup, len(g.Platforms))
	for i, p := range g.Platforms {
		platforms[i] = domain.PlatformSetup{Name: p.Name, Audience: p.Audience}
	}
	return domain.GameSetup{
		SessionID:          g.SessionID.String(),
		Platforms:          platforms,
		PlayerInitialTrust: cfg.InitialPlayerTrust,
		AIInitialTrust:     cfg.InitialAITrust,
		Status:             domain.GameStatusActive,
	}
}

// Rebuild reconstructs a game aggregate from its setup and one round's
// platform rows, in setup order. Fresh platform values are created on every
// call.
func Rebuild(setup *domain.GameSetup, round int, states []domain.PlatformState) (*domain.Game, error) {
	byName := make(map[string]domain.PlatformState, len(states))
	for _, s := range states {
		byName[s.PlatformName] = s
	}

	platforms := make([]domain.Platform, 0, len(setup.Platforms))
	for _, ps := range setup.Platforms {
		s, ok := byName[ps.Name]
		if !ok {
			return nil, domain.NewNotFoundError("platform state", fmt.Sprintf("%s/%d/%s", setup.SessionID, round, ps.Name))
		}
		p, err := domain.NewPlatform(ps.Name, ps.Audience, s.PlayerTrust, s.AITrust, s.SpreadRate)
		if err != nil {
			return nil, fmt.Errorf("rebuild platform %s: %w", ps.Name, err)
		}
		platforms = append(platforms, p)
	}

	g, err := domain.NewGame(domain.SessionID(setup.SessionID), round, platforms)
	if err != nil {
		return nil, err
	}
	if setup.Status != "" {
		g.Status = setup.Status
	}
	return g, nil
}
