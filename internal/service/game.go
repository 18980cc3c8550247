package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiaot623/sustainet/internal/domain"
	"github.com/xiaot623/sustainet/internal/game"
	"github.com/xiaot623/sustainet/internal/repository"
)

// StartGameResponse is returned when a new game is created.
type StartGameResponse struct {
	SessionID      string                  `json:"session_id"`
	RoundNumber    int                     `json:"round_number"`
	PlatformSetup  []domain.PlatformSetup  `json:"platform_setup"`
	PlatformStatus []domain.PlatformStatus `json:"platform_status"`
	AITurn         *TurnResponse           `json:"ai_turn"`
}

// PlayerTurnRequest is a player's submission for a round.
type PlayerTurnRequest struct {
	SessionID   string
	RoundNumber int
	Article     *domain.Article
	Tools       []domain.ToolRef
}

// GameStatusResponse describes the latest round of a game.
type GameStatusResponse struct {
	SessionID      string                  `json:"session_id"`
	Status         domain.GameStatus       `json:"status"`
	CurrentRound   int                     `json:"current_round"`
	RoundCompleted bool                    `json:"round_completed"`
	PlatformSetup  []domain.PlatformSetup  `json:"platform_setup"`
	PlatformStatus []domain.PlatformStatus `json:"platform_status"`
	Actions        []domain.ActionRecord   `json:"actions"`
	ToolList       []ToolView              `json:"tool_list"`
	GameEnd        domain.GameEndResult    `json:"game_end"`
	Summary        game.EndSummary         `json:"summary"`
}

// StartGame creates a game with shuffled audiences and plays the AI turn of
// round one.
func (s *Service) StartGame(ctx context.Context) (*StartGameResponse, error) {
	sessionID := domain.NewSessionID()
	g, err := game.NewGame(sessionID, s.setup, s.rng)
	if err != nil {
		return nil, err
	}
	setup := game.Setup(g, s.setup)
	setup.CreatedAt = s.now()

	unlock := s.locks.Lock(setup.SessionID)
	defer unlock()

	err = s.store.WithTx(ctx, func(tx store.Store) error {
		if err := tx.CreateGameSetup(ctx, &setup); err != nil {
			return dbError("create game setup", err)
		}
		if err := tx.CreateGameRound(ctx, &domain.GameRound{SessionID: setup.SessionID, RoundNumber: 1}); err != nil {
			return dbError("create game round", err)
		}
		if err := tx.CreatePlatformStates(ctx, g.States()); err != nil {
			return dbError("create platform states", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("game started", zap.String("session_id", setup.SessionID), zap.Int("platforms", len(g.Platforms)))

	aiTurn, err := s.playLocked(ctx, setup.SessionID, 1, domain.ActorAI, nil)
	if err != nil {
		return nil, err
	}
	return &StartGameResponse{
		SessionID:      setup.SessionID,
		RoundNumber:    1,
		PlatformSetup:  setup.Platforms,
		PlatformStatus: aiTurn.PlatformStatus,
		AITurn:         aiTurn,
	}, nil
}

// AITurn plays the AI's turn for the session's current round.
func (s *Service) AITurn(ctx context.Context, sessionID string, round int) (*TurnResponse, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()
	return s.playLocked(ctx, sessionID, round, domain.ActorAI, nil)
}

// PlayerTurn plays the player's turn and closes the round.
func (s *Service) PlayerTurn(ctx context.Context, req PlayerTurnRequest) (*TurnResponse, error) {
	unlock := s.locks.Lock(req.SessionID)
	defer unlock()
	return s.playLocked(ctx, req.SessionID, req.RoundNumber, domain.ActorPlayer,
		&PlayerTurnInput{Article: req.Article, Tools: req.Tools})
}

// StartNextRound copies the latest round's platform states into a new round
// and plays its AI turn.
func (s *Service) StartNextRound(ctx context.Context, sessionID string) (*TurnResponse, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	setup, latest, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	states, err := s.store.GetPlatformStates(ctx, sessionID, latest.RoundNumber)
	if err != nil {
		return nil, dbError("get platform states", err)
	}

	if setup.Status == domain.GameStatusEnded {
		return nil, s.endedError(s.endResult(setup, latest, states))
	}
	if !latest.IsCompleted {
		return nil, domain.NewBusinessError(fmt.Sprintf("round %d is not completed", latest.RoundNumber), nil)
	}

	g, err := game.Rebuild(setup, latest.RoundNumber, states)
	if err != nil {
		return nil, err
	}
	next := g.IncrementRound()
	if next > s.rules.MaxRounds {
		if err := s.store.UpdateGameStatus(ctx, sessionID, domain.GameStatusEnded); err != nil {
			return nil, dbError("update game status", err)
		}
		return nil, s.endedError(s.rules.Evaluate(latest.RoundNumber, states))
	}

	err = s.store.WithTx(ctx, func(tx store.Store) error {
		if err := tx.CreateGameRound(ctx, &domain.GameRound{SessionID: sessionID, RoundNumber: next}); err != nil {
			return dbError("create game round", err)
		}
		if err := tx.CreatePlatformStates(ctx, g.States()); err != nil {
			return dbError("create platform states", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("round started", zap.String("session_id", sessionID), zap.Int("round", next))

	return s.playLocked(ctx, sessionID, next, domain.ActorAI, nil)
}

// GameStatus reports the latest round. An end result is reported only for
// games stored as ended.
func (s *Service) GameStatus(ctx context.Context, sessionID string) (*GameStatusResponse, error) {
	setup, latest, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	states, err := s.store.GetPlatformStates(ctx, sessionID, latest.RoundNumber)
	if err != nil {
		return nil, dbError("get platform states", err)
	}
	actions, err := s.store.ListActionRecords(ctx, sessionID, latest.RoundNumber)
	if err != nil {
		return nil, dbError("list action records", err)
	}
	tools, err := s.catalog.AvailableToolsForRound(ctx, latest.RoundNumber, domain.ActorPlayer)
	if err != nil {
		return nil, dbError("list player tools", err)
	}

	end := s.endResult(setup, latest, states)
	if actions == nil {
		actions = []domain.ActionRecord{}
	}

	return &GameStatusResponse{
		SessionID:      sessionID,
		Status:         setup.Status,
		CurrentRound:   latest.RoundNumber,
		RoundCompleted: latest.IsCompleted,
		PlatformSetup:  setup.Platforms,
		PlatformStatus: statusOf(states),
		Actions:        actions,
		ToolList:       toolViews(tools),
		GameEnd:        end,
		Summary:        s.rules.Summary(end),
	}, nil
}

// playLocked runs one turn. The caller holds the session lock.
func (s *Service) playLocked(ctx context.Context, sessionID string, round int, actor domain.Actor, input *PlayerTurnInput) (*TurnResponse, error) {
	outcome, setup, err := s.play(ctx, sessionID, round, actor, input)
	if err != nil {
		return nil, err
	}
	tools, err := s.catalog.AvailableToolsForRound(ctx, round, domain.ActorPlayer)
	if err != nil {
		return nil, dbError("list player tools", err)
	}
	return s.turnResponse(setup, outcome, tools), nil
}

func (s *Service) play(ctx context.Context, sessionID string, round int, actor domain.Actor, input *PlayerTurnInput) (*ActionOutcome, *domain.GameSetup, error) {
	setup, latest, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if round != latest.RoundNumber {
		return nil, nil, domain.NewBusinessError(
			fmt.Sprintf("round %d is not the current round (%d)", round, latest.RoundNumber), nil)
	}
	if latest.IsCompleted {
		return nil, nil, domain.NewBusinessError(fmt.Sprintf("round %d is already completed", round), nil)
	}

	actions, err := s.store.ListActionRecords(ctx, sessionID, round)
	if err != nil {
		return nil, nil, dbError("list action records", err)
	}
	for _, a := range actions {
		if a.Actor == actor {
			return nil, nil, domain.NewBusinessError(fmt.Sprintf("%s has already played round %d", actor, round), nil)
		}
	}

	states, err := s.store.GetPlatformStates(ctx, sessionID, round)
	if err != nil {
		return nil, nil, dbError("get platform states", err)
	}
	g, err := game.Rebuild(setup, round, states)
	if err != nil {
		return nil, nil, err
	}
	if g.Ended() {
		return nil, nil, domain.NewBusinessError("game has already ended", nil)
	}

	turn, err := s.executeTurn(ctx, g, actor, input)
	if err != nil {
		return nil, nil, err
	}
	outcome, err := s.applyTurn(ctx, g, turn)
	if err != nil {
		return nil, nil, err
	}
	return outcome, setup, nil
}

func (s *Service) loadSession(ctx context.Context, sessionID string) (*domain.GameSetup, *domain.GameRound, error) {
	if _, err := domain.ParseSessionID(sessionID); err != nil {
		return nil, nil, err
	}
	setup, err := s.store.GetGameSetup(ctx, sessionID)
	if err != nil {
		return nil, nil, dbError("get game setup", err)
	}
	if setup == nil {
		return nil, nil, domain.NewNotFoundError("game", sessionID)
	}
	latest, err := s.store.GetLatestRound(ctx, sessionID)
	if err != nil {
		return nil, nil, dbError("get latest round", err)
	}
	if latest == nil {
		return nil, nil, domain.NewNotFoundError("game round", sessionID)
	}
	return setup, latest, nil
}

// endResult re-derives how a game ended from its latest round. Games that
// are not stored as ended are in progress.
func (s *Service) endResult(setup *domain.GameSetup, latest *domain.GameRound, states []domain.PlatformState) domain.GameEndResult {
	if setup.Status != domain.GameStatusEnded {
		return domain.GameEndResult{
			Reason:  domain.EndReasonNone,
			Winner:  domain.WinnerNone,
			Details: map[string]any{"round_number": latest.RoundNumber},
		}
	}
	if latest.IsCompleted {
		return s.rules.Evaluate(latest.RoundNumber, states)
	}
	return s.rules.Dominance(latest.RoundNumber, states)
}

// endedError reports a finished game with its summary attached.
func (s *Service) endedError(end domain.GameEndResult) error {
	summary := s.rules.Summary(end)
	err := domain.NewBusinessError("game has ended", nil)
	err.Details = map[string]any{"game_end_info": summary}
	return err
}
