// Package catalog serves the tool catalog with a per-actor TTL cache.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xiaot623/sustainet/internal/domain"
)

// DefaultTTL is the cache lifetime when none is configured.
const DefaultTTL = 300 * time.Second

// Loader reads tool definitions from storage.
type Loader interface {
	ListToolsForActor(ctx context.Context, actor domain.Actor) ([]domain.DomainTool, error)
	GetToolByName(ctx context.Context, name string) (*domain.DomainTool, error)
}

type entry struct {
	tools    []domain.DomainTool
	loadedAt time.Time
}

// Catalog is a read-through cache over a Loader. Concurrent misses for the
// same actor may each reload; the last writer wins.
type Catalog struct {
	loader Loader
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu    sync.RWMutex
	cache map[domain.Actor]entry
}

// New creates a catalog. A non-positive ttl selects DefaultTTL.
func New(loader Loader, ttl time.Duration, logger *zap.Logger) *Catalog {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		loader: loader,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
		cache:  make(map[domain.Actor]entry),
	}
}

// ListToolsForActor returns every tool the actor may use, in any round.
func (c *Catalog) ListToolsForActor(ctx context.Context, actor domain.Actor) ([]domain.DomainTool, error) {
	c.mu.RLock()
	e, ok := c.cache[actor]
	c.mu.RUnlock()
	if ok && c.now().Sub(e.loadedAt) < c.ttl {
		return e.tools, nil
	}

	tools, err := c.loader.ListToolsForActor(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("load tools for %s: %w", actor, err)
	}
	c.mu.Lock()
	c.cache[actor] = entry{tools: tools, loadedAt: c.now()}
	c.mu.Unlock()

	c.logger.Debug("tool cache reloaded", zap.String("actor", string(actor)), zap.Int("tools", len(tools)))
	return tools, nil
}

// GetToolByName looks a tool up case-insensitively.
func (c *Catalog) GetToolByName(ctx context.Context, name string) (*domain.DomainTool, error) {
	tool, err := c.loader.GetToolByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if tool == nil {
		return nil, domain.NewNotFoundError("tool", name)
	}
	return tool, nil
}

// FilterForRound keeps the tools unlocked by the given round.
func FilterForRound(tools []domain.DomainTool, round int) []domain.DomainTool {
	out := make([]domain.DomainTool, 0, len(tools))
	for _, t := range tools {
		if t.AvailableIn(round) {
			out = append(out, t)
		}
	}
	return out
}

// AvailableToolsForRound returns the tools the actor may use in the round.
func (c *Catalog) AvailableToolsForRound(ctx context.Context, round int, actor domain.Actor) ([]domain.DomainTool, error) {
	tools, err := c.ListToolsForActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	return FilterForRound(tools, round), nil
}

// ClearCache drops one actor's entry, or every entry when actor is empty.
func (c *Catalog) ClearCache(actor domain.Actor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if actor == "" {
		c.cache = make(map[domain.Actor]entry)
		c.logger.Info("tool cache cleared")
		return
	}
	delete(c.cache, actor)
	c.logger.Info("tool cache cleared", zap.String("actor", string(actor)))
}

// UnlockedTool is a catalog entry as shown in unlock info.
type UnlockedTool struct {
	ToolName           string `json:"tool_name"`
	Description        string `json:"description"`
	AvailableFromRound int    `json:"available_from_round"`
}

// CacheInfo describes the cache entry of one actor.
type CacheInfo struct {
	Cached          bool    `json:"cached"`
	CacheAgeSeconds float64 `json:"cache_age_seconds"`
}

// UnlockInfo groups an actor's tools by the round that unlocks them.
type UnlockInfo struct {
	Actor           domain.Actor              `json:"actor"`
	TotalTools      int                       `json:"total_tools"`
	ToolsByRound    map[string][]UnlockedTool `json:"tools_by_round"`
	RoundStatistics map[int]int               `json:"round_statistics"`
	UnlockRounds    []int                     `json:"unlock_rounds"`
	CacheInfo       CacheInfo                 `json:"cache_info"`
}

// ToolUnlockInfo reports how an actor's tools unlock over the game.
func (c *Catalog) ToolUnlockInfo(ctx context.Context, actor domain.Actor) (*UnlockInfo, error) {
	tools, err := c.ListToolsForActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	info := &UnlockInfo{
		Actor:           actor,
		TotalTools:      len(tools),
		ToolsByRound:    make(map[string][]UnlockedTool),
		RoundStatistics: make(map[int]int),
	}
	for _, t := range tools {
		key := fmt.Sprintf("round_%d_plus", t.AvailableFromRound)
		info.ToolsByRound[key] = append(info.ToolsByRound[key], UnlockedTool{
			ToolName:           t.Name,
			Description:        t.Description,
			AvailableFromRound: t.AvailableFromRound,
		})
		if info.RoundStatistics[t.AvailableFromRound] == 0 {
			info.UnlockRounds = append(info.UnlockRounds, t.AvailableFromRound)
		}
		info.RoundStatistics[t.AvailableFromRound]++
	}
	sort.Ints(info.UnlockRounds)

	c.mu.RLock()
	if e, ok := c.cache[actor]; ok {
		info.CacheInfo = CacheInfo{Cached: true, CacheAgeSeconds: c.now().Sub(e.loadedAt).Seconds()}
	}
	c.mu.RUnlock()
	return info, nil
}
