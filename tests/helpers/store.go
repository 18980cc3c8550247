package helpers

import (
	"context"
	"testing"

	"github.com/xiaot623/sustainet/internal/domain"
	"github.com/xiaot623/sustainet/internal/repository"
)

func NewTestSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

// SeedGame stores a round-one game with the given platforms at 50/50/50.
func SeedGame(t *testing.T, s store.Store, sessionID string, platforms ...domain.PlatformSetup) {
	t.Helper()
	ctx := context.Background()

	if err := s.CreateGameSetup(ctx, &domain.GameSetup{
		SessionID:          sessionID,
		Platforms:          platforms,
		PlayerInitialTrust: 50,
		AIInitialTrust:     50,
	}); err != nil {
		t.Fatalf("CreateGameSetup failed: %v", err)
	}
	if err := s.CreateGameRound(ctx, &domain.GameRound{SessionID: sessionID, RoundNumber: 1}); err != nil {
		t.Fatalf("CreateGameRound failed: %v", err)
	}
	states := make([]domain.PlatformState, len(platforms))
	for i, p := range platforms {
		states[i] = domain.PlatformState{SessionID: sessionID, RoundNumber: 1, PlatformName: p.Name, PlayerTrust: 50, AITrust: 50, SpreadRate: 50}
	}
	if err := s.CreatePlatformStates(ctx, states); err != nil {
		t.Fatalf("CreatePlatformStates failed: %v", err)
	}
}
