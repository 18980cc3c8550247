package store

import (
	"context"

	"github.com/xiaot623/sustainet/internal/domain"
)

// Store defines the interface for game persistence.
type Store interface {
	// Game setup operations
	CreateGameSetup(ctx context.Context, setup *domain.GameSetup) error
	GetGameSetup(ctx context.Context, sessionID string) (*domain.GameSetup, error)
	UpdateGameStatus(ctx context.Context, sessionID string, status domain.GameStatus) error

	// Game round operations
	CreateGameRound(ctx context.Context, round *domain.GameRound) error
	GetGameRound(ctx context.Context, sessionID string, roundNumber int) (*domain.GameRound, error)
	GetLatestRound(ctx context.Context, sessionID string) (*domain.GameRound, error)
	MarkRoundCompleted(ctx context.Context, sessionID string, roundNumber int) error

	// Platform state operations
	CreatePlatformStates(ctx context.Context, states []domain.PlatformState) error
	GetPlatformStates(ctx context.Context, sessionID string, roundNumber int) ([]domain.PlatformState, error)
	UpdatePlatformState(ctx context.Context, state domain.PlatformState) error

	// Action record operations
	CreateActionRecord(ctx context.Context, record *domain.ActionRecord) error
	UpdateActionEffectiveness(ctx context.Context, actionID int64, result domain.Evaluation) error
	GetActionRecord(ctx context.Context, actionID int64) (*domain.ActionRecord, error)
	ListActionRecords(ctx context.Context, sessionID string, roundNumber int) ([]domain.ActionRecord, error)

	// Tool usage ledger
	CreateToolUsage(ctx context.Context, usage *domain.ToolUsage) error
	ListToolUsages(ctx context.Context, actionID int64) ([]domain.ToolUsage, error)

	// Tool catalog operations
	UpsertTool(ctx context.Context, tool *domain.DomainTool) error
	ListTools(ctx context.Context) ([]domain.DomainTool, error)
	ListToolsForActor(ctx context.Context, actor domain.Actor) ([]domain.DomainTool, error)
	GetToolByName(ctx context.Context, name string) (*domain.DomainTool, error)

	// News operations
	CreateNews(ctx context.Context, news *domain.News) error
	GetRandomActiveNews(ctx context.Context) (*domain.News, error)

	// Agent operations
	UpsertAgent(ctx context.Context, agent *domain.Agent) error
	GetAgentByName(ctx context.Context, name string) (*domain.Agent, error)

	// WithTx runs fn against a store bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(Store) error) error

	// Lifecycle
	Close() error
}
