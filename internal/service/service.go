// Package service runs the game: turn execution, judging, tool composition
// and persistence of each turn.
package service

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xiaot623/sustainet/internal/agent"
	"github.com/xiaot623/sustainet/internal/catalog"
	"github.com/xiaot623/sustainet/internal/config"
	"github.com/xiaot623/sustainet/internal/domain"
	"github.com/xiaot623/sustainet/internal/game"
	"github.com/xiaot623/sustainet/internal/policy"
	"github.com/xiaot623/sustainet/internal/repository"
)

// AgentRunner invokes a named agent and decodes its reply into out.
type AgentRunner interface {
	Run(ctx context.Context, req agent.Request, out any) error
}

// Service plays games against a persistent store.
type Service struct {
	store        store.Store
	runner       AgentRunner
	catalog      *catalog.Catalog
	policyEngine *policy.Engine
	composer     *game.Composer
	rules        game.Rules
	setup        game.SetupConfig
	logger       *zap.Logger

	rng   *lockedRand
	locks *sessionLocks
	now   func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRand seeds the random source used for platform and audience picks.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) {
		s.rng = &lockedRand{r: r}
	}
}

// WithClock overrides the clock used to stamp articles.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(store store.Store, runner AgentRunner, catalog *catalog.Catalog, policyEngine *policy.Engine, cfg config.GameConfig, opts ...Option) *Service {
	s := &Service{
		store:        store,
		runner:       runner,
		catalog:      catalog,
		policyEngine: policyEngine,
		rules:        cfg.Rules(),
		setup:        cfg.Setup(),
		logger:       zap.NewNop(),
		rng:          &lockedRand{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))},
		locks:        newSessionLocks(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.composer = game.NewComposer(s.logger)
	return s
}

// Rules returns the end-of-game rules in force.
func (s *Service) Rules() game.Rules {
	return s.rules
}

// lockedRand guards a *rand.Rand, which is not safe for concurrent use.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

// dbError wraps a persistence failure unless it already carries a kind.
func dbError(op string, err error) error {
	if domain.KindOf(err) != "" {
		return err
	}
	return domain.NewDatabaseError(op, err)
}
