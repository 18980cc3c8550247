package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/xiaot623/sustainet/internal/domain"
)

// UpsertTool creates or replaces a catalog tool.
func (s *SQLiteStore) UpsertTool(ctx context.Context, tool *domain.DomainTool) error {
	if err := tool.Validate(); err != nil {
		return err
	}
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO tools (tool_name, description, trust_effect, spread_effect, applicable_to, available_from_round) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(tool_name) DO UPDATE SET description = excluded.description, trust_effect = excluded.trust_effect,
			spread_effect = excluded.spread_effect, applicable_to = excluded.applicable_to, available_from_round = excluded.available_from_round`,
		tool.Name, tool.Description, tool.Effects.TrustMultiplier, tool.Effects.SpreadMultiplier, tool.ApplicableTo, tool.AvailableFromRound)
	return err
}

const toolColumns = `tool_name, description, trust_effect, spread_effect, applicable_to, available_from_round`

func (s *SQLiteStore) queryTools(ctx context.Context, query string, args ...any) ([]domain.DomainTool, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tools []domain.DomainTool
	for rows.Next() {
		var t domain.DomainTool
		if err := rows.Scan(&t.Name, &t.Description, &t.Effects.TrustMultiplier, &t.Effects.SpreadMultiplier, &t.ApplicableTo, &t.AvailableFromRound); err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return tools, rows.Err()
}

// ListTools lists every catalog tool ordered by unlock round and name.
func (s *SQLiteStore) ListTools(ctx context.Context) ([]domain.DomainTool, error) {
	return s.queryTools(ctx, `SELECT `+toolColumns+` FROM tools ORDER BY available_from_round ASC, tool_name ASC`)
}

// ListToolsForActor lists the tools applicable to actor or to both sides.
func (s *SQLiteStore) ListToolsForActor(ctx context.Context, actor domain.Actor) ([]domain.DomainTool, error) {
	return s.queryTools(ctx,
		`SELECT `+toolColumns+` FROM tools WHERE applicable_to = ? OR applicable_to = ? ORDER BY available_from_round ASC, tool_name ASC`,
		string(actor), string(domain.ApplicableToBoth))
}

// GetToolByName retrieves a tool by case-insensitive name.
func (s *SQLiteStore) GetToolByName(ctx context.Context, name string) (*domain.DomainTool, error) {
	tools, err := s.queryTools(ctx,
		`SELECT `+toolColumns+` FROM tools WHERE lower(tool_name) = ? LIMIT 1`,
		strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return nil, err
	}
	if len(tools) == 0 {
		return nil, nil
	}
	return &tools[0], nil
}

// CreateNews inserts an article. A title that already exists is a
// business conflict.
func (s *SQLiteStore) CreateNews(ctx context.Context, news *domain.News) error {
	inserted, err := s.insertNews(ctx, news)
	if err != nil {
		return err
	}
	if !inserted {
		return domain.NewBusinessError(fmt.Sprintf("news %q already exists", news.Title), nil)
	}
	return nil
}

// insertNews inserts news unless its title exists and reports whether a row
// was written.
func (s *SQLiteStore) insertNews(ctx context.Context, news *domain.News) (bool, error) {
	res, err := s.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO news (title, content, veracity, category, source, is_active) VALUES (?, ?, ?, ?, ?, ?)`,
		news.Title, news.Content, news.Veracity, news.Category, news.Source, news.IsActive)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, err
	}
	news.NewsID = id
	return true, nil
}

// GetRandomActiveNews returns one active article chosen at random.
func (s *SQLiteStore) GetRandomActiveNews(ctx context.Context) (*domain.News, error) {
	var n domain.News
	var category, source sql.NullString
	err := s.q.QueryRowContext(ctx,
		`SELECT news_id, title, content, veracity, category, source, is_active FROM news WHERE is_active = 1 ORDER BY RANDOM() LIMIT 1`).
		Scan(&n.NewsID, &n.Title, &n.Content, &n.Veracity, &category, &source, &n.IsActive)
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("news", "active")
	}
	if err != nil {
		return nil, err
	}
	n.Category = category.String
	n.Source = source.String
	return &n, nil
}

// UpsertAgent creates or replaces an agent configuration by name.
func (s *SQLiteStore) UpsertAgent(ctx context.Context, agent *domain.Agent) error {
	if agent.AgentID == "" {
		agent.AgentID = uuid.New().String()
	}
	var temperature sql.NullFloat64
	if agent.Temperature != nil {
		temperature = sql.NullFloat64{Float64: *agent.Temperature, Valid: true}
	}
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO agents (agent_id, name, provider, model, description, instruction, temperature) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET provider = excluded.provider, model = excluded.model,
			description = excluded.description, instruction = excluded.instruction, temperature = excluded.temperature`,
		agent.AgentID, agent.Name, agent.Provider, agent.Model, agent.Description, agent.Instruction, temperature)
	return err
}

// insertAgent adds an agent configuration unless the name is taken.
func (s *SQLiteStore) insertAgent(ctx context.Context, agent *domain.Agent) error {
	if agent.AgentID == "" {
		agent.AgentID = uuid.New().String()
	}
	var temperature sql.NullFloat64
	if agent.Temperature != nil {
		temperature = sql.NullFloat64{Float64: *agent.Temperature, Valid: true}
	}
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO agents (agent_id, name, provider, model, description, instruction, temperature) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO NOTHING`,
		agent.AgentID, agent.Name, agent.Provider, agent.Model, agent.Description, agent.Instruction, temperature)
	return err
}

// GetAgentByName retrieves an agent configuration.
func (s *SQLiteStore) GetAgentByName(ctx context.Context, name string) (*domain.Agent, error) {
	var a domain.Agent
	var description sql.NullString
	var temperature sql.NullFloat64
	err := s.q.QueryRowContext(ctx,
		`SELECT agent_id, name, provider, model, description, instruction, temperature FROM agents WHERE name = ?`,
		name).Scan(&a.AgentID, &a.Name, &a.Provider, &a.Model, &description, &a.Instruction, &temperature)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.Description = description.String
	if temperature.Valid {
		a.Temperature = &temperature.Float64
	}
	return &a, nil
}
