package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNewTrustScoreRejectsOutOfRange(t *testing.T) {
	for _, v := range []int{-1, 101, 1000} {
		if _, err := NewTrustScore(v); !errors.Is(err, ErrValidation) {
			t.Fatalf("NewTrustScore(%d): expected validation error, got %v", v, err)
		}
		if _, err := NewSpreadRate(v); !errors.Is(err, ErrValidation) {
			t.Fatalf("NewSpreadRate(%d): expected validation error, got %v", v, err)
		}
	}
}

func TestTrustScoreApplyChangeClamps(t *testing.T) {
	for v := 0; v <= 100; v += 10 {
		for _, c := range []int{-250, -101, -50, -1, 0, 1, 37, 100, 250} {
			ts, err := NewTrustScore(v)
			if err != nil {
				t.Fatalf("NewTrustScore(%d): %v", v, err)
			}
			got := ts.ApplyChange(c).Value()
			want := max(0, min(100, v+c))
			if got != want {
				t.Fatalf("TrustScore(%d).ApplyChange(%d) = %d, want %d", v, c, got, want)
			}
			if ts.Value() != v {
				t.Fatalf("ApplyChange mutated the receiver: %d != %d", ts.Value(), v)
			}
		}
	}
}

func TestPlatformRejectsUnknownActor(t *testing.T) {
	p, err := NewPlatform("Facebook", "youth", 50, 50, 50)
	if err != nil {
		t.Fatalf("NewPlatform: %v", err)
	}
	if err := p.ApplyTrustChange(Actor("narrator"), 10); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if p.PlayerTrust.Value() != 50 || p.AITrust.Value() != 50 {
		t.Fatalf("platform changed after rejected update: %+v", p)
	}

	if err := p.ApplyTrustChange(ActorAI, 20); err != nil {
		t.Fatalf("ApplyTrustChange: %v", err)
	}
	if p.AITrust.Value() != 70 || p.PlayerTrust.Value() != 50 {
		t.Fatalf("unexpected trust after ai change: %+v", p)
	}
}

func TestGameOwnsPlatformsByValue(t *testing.T) {
	p, _ := NewPlatform("Facebook", "youth", 50, 50, 50)
	platforms := []Platform{p}
	g1, err := NewGame(NewSessionID(), 1, platforms)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	g2, _ := NewGame(g1.SessionID, 1, platforms)

	if err := g1.Platforms[0].ApplyTrustChange(ActorPlayer, 30); err != nil {
		t.Fatalf("ApplyTrustChange: %v", err)
	}
	g1.Platforms[0].ApplySpreadChange(-10)
	got, _ := g1.Platform("Facebook")
	if got.PlayerTrust.Value() != 80 || got.SpreadRate.Value() != 40 {
		t.Fatalf("unexpected platform state: %+v", got)
	}
	other, _ := g2.Platform("Facebook")
	if other.PlayerTrust.Value() != 50 {
		t.Fatalf("second game observed mutation: %+v", other)
	}
	if platforms[0].PlayerTrust.Value() != 50 {
		t.Fatalf("source slice observed mutation: %+v", platforms[0])
	}
}

func TestIncrementRoundMovesStates(t *testing.T) {
	p, _ := NewPlatform("Facebook", "youth", 70, 40, 55)
	g, err := NewGame(NewSessionID(), 3, []Platform{p})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if next := g.IncrementRound(); next != 4 {
		t.Fatalf("IncrementRound = %d, want 4", next)
	}
	states := g.States()
	if len(states) != 1 || states[0].RoundNumber != 4 || states[0].PlayerTrust != 70 || states[0].SessionID != g.SessionID.String() {
		t.Fatalf("unexpected states: %+v", states)
	}
	if g.Ended() {
		t.Fatal("new game reported as ended")
	}
	g.Status = GameStatusEnded
	if !g.Ended() {
		t.Fatal("ended game not reported as ended")
	}
}

func TestNewGameRejectsDuplicatePlatforms(t *testing.T) {
	p, _ := NewPlatform("Facebook", "youth", 50, 50, 50)
	if _, err := NewGame(NewSessionID(), 1, []Platform{p, p}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := NewGame(NewSessionID(), 0, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for round 0, got %v", err)
	}
}

func TestSessionID(t *testing.T) {
	id := NewSessionID()
	if !strings.HasPrefix(id.String(), "game_") || len(id) != len("game_")+32 {
		t.Fatalf("unexpected session id %q", id)
	}
	if _, err := ParseSessionID(id.String()); err != nil {
		t.Fatalf("ParseSessionID(%q): %v", id, err)
	}
	for _, bad := range []string{"", "game_", "session_1"} {
		if _, err := ParseSessionID(bad); !errors.Is(err, ErrValidation) {
			t.Fatalf("ParseSessionID(%q): expected validation error, got %v", bad, err)
		}
	}
}

func TestParseActor(t *testing.T) {
	if a, err := ParseActor(" Player "); err != nil || a != ActorPlayer {
		t.Fatalf("ParseActor: got %q, %v", a, err)
	}
	if _, err := ParseActor("narrator"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestErrorKindMatching(t *testing.T) {
	err := NewNotFoundError("tool", "x")
	if errors.Is(err, ErrValidation) {
		t.Fatalf("not found error matched validation sentinel")
	}
	if KindOf(err) != KindResourceNotFound {
		t.Fatalf("KindOf = %q", KindOf(err))
	}
	wrapped := NewBusinessError("judge failed", NewExternalServiceError("llm", errors.New("timeout")))
	if !errors.Is(wrapped, ErrBusinessLogic) || !errors.Is(wrapped, ErrExternalService) {
		t.Fatalf("wrapped error lost its chain: %v", wrapped)
	}
}
