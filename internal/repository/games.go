package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xiaot623/sustainet/internal/domain"
)

// CreateGameSetup creates the setup row of a new game.
func (s *SQLiteStore) CreateGameSetup(ctx context.Context, setup *domain.GameSetup) error {
	platforms, err := json.Marshal(setup.Platforms)
	if err != nil {
		return fmt.Errorf("failed to marshal platforms: %w", err)
	}
	if setup.CreatedAt.IsZero() {
		setup.CreatedAt = time.Now()
	}
	if setup.Status == "" {
		setup.Status = domain.GameStatusActive
	}
	_, err = s.q.ExecContext(ctx,
		`INSERT INTO game_setups (session_id, platforms, player_initial_trust, ai_initial_trust, status, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		setup.SessionID, string(platforms), setup.PlayerInitialTrust, setup.AIInitialTrust, setup.Status, setup.CreatedAt)
	return err
}

// GetGameSetup retrieves a game setup by session ID.
func (s *SQLiteStore) GetGameSetup(ctx context.Context, sessionID string) (*domain.GameSetup, error) {
	var setup domain.GameSetup
	var platforms string
	err := s.q.QueryRowContext(ctx,
		`SELECT session_id, platforms, player_initial_trust, ai_initial_trust, status, created_at FROM game_setups WHERE session_id = ?`,
		sessionID).Scan(&setup.SessionID, &platforms, &setup.PlayerInitialTrust, &setup.AIInitialTrust, &setup.Status, &setup.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(platforms), &setup.Platforms); err != nil {
		return nil, fmt.Errorf("failed to decode platforms: %w", err)
	}
	return &setup, nil
}

// UpdateGameStatus updates the lifecycle status of a game.
func (s *SQLiteStore) UpdateGameStatus(ctx context.Context, sessionID string, status domain.GameStatus) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE game_setups SET status = ? WHERE session_id = ?`,
		status, sessionID)
	return err
}

// CreateGameRound creates a new round.
func (s *SQLiteStore) CreateGameRound(ctx context.Context, round *domain.GameRound) error {
	if round.CreatedAt.IsZero() {
		round.CreatedAt = time.Now()
	}
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO game_rounds (session_id, round_number, is_completed, created_at) VALUES (?, ?, ?, ?)`,
		round.SessionID, round.RoundNumber, round.IsCompleted, round.CreatedAt)
	return err
}

const roundColumns = `session_id, round_number, is_completed, created_at`

func scanRound(row *sql.Row) (*domain.GameRound, error) {
	var round domain.GameRound
	err := row.Scan(&round.SessionID, &round.RoundNumber, &round.IsCompleted, &round.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// GetGameRound retrieves one round of a game.
func (s *SQLiteStore) GetGameRound(ctx context.Context, sessionID string, roundNumber int) (*domain.GameRound, error) {
	return scanRound(s.q.QueryRowContext(ctx,
		`SELECT `+roundColumns+` FROM game_rounds WHERE session_id = ? AND round_number = ?`,
		sessionID, roundNumber))
}

// GetLatestRound retrieves the highest-numbered round of a game.
func (s *SQLiteStore) GetLatestRound(ctx context.Context, sessionID string) (*domain.GameRound, error) {
	return scanRound(s.q.QueryRowContext(ctx,
		`SELECT `+roundColumns+` FROM game_rounds WHERE session_id = ? ORDER BY round_number DESC LIMIT 1`,
		sessionID))
}

// MarkRoundCompleted flags a round as finished.
func (s *SQLiteStore) MarkRoundCompleted(ctx context.Context, sessionID string, roundNumber int) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE game_rounds SET is_completed = 1 WHERE session_id = ? AND round_number = ?`,
		sessionID, roundNumber)
	return err
}

// CreatePlatformStates inserts the platform rows of one round.
func (s *SQLiteStore) CreatePlatformStates(ctx context.Context, states []domain.PlatformState) error {
	for _, st := range states {
		_, err := s.q.ExecContext(ctx,
			`INSERT INTO platform_states (session_id, round_number, platform_name, player_trust, ai_trust, spread_rate, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			st.SessionID, st.RoundNumber, st.PlatformName, st.PlayerTrust, st.AITrust, st.SpreadRate, time.Now())
		if err != nil {
			return fmt.Errorf("failed to create platform state %s: %w", st.PlatformName, err)
		}
	}
	return nil
}

// GetPlatformStates retrieves the platform rows of one round in insertion order.
func (s *SQLiteStore) GetPlatformStates(ctx context.Context, sessionID string, roundNumber int) ([]domain.PlatformState, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT session_id, round_number, platform_name, player_trust, ai_trust, spread_rate FROM platform_states WHERE session_id = ? AND round_number = ? ORDER BY id ASC`,
		sessionID, roundNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var states []domain.PlatformState
	for rows.Next() {
		var st domain.PlatformState
		if err := rows.Scan(&st.SessionID, &st.RoundNumber, &st.PlatformName, &st.PlayerTrust, &st.AITrust, &st.SpreadRate); err != nil {
			return nil, err
		}
		states = append(states, st)
	}
	return states, rows.Err()
}

// UpdatePlatformState overwrites one platform row with absolute values.
func (s *SQLiteStore) UpdatePlatformState(ctx context.Context, st domain.PlatformState) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE platform_states SET player_trust = ?, ai_trust = ?, spread_rate = ?, updated_at = ? WHERE session_id = ? AND round_number = ? AND platform_name = ?`,
		st.PlayerTrust, st.AITrust, st.SpreadRate, time.Now(), st.SessionID, st.RoundNumber, st.PlatformName)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewNotFoundError("platform state",
			fmt.Sprintf("%s/%d/%s", st.SessionID, st.RoundNumber, st.PlatformName))
	}
	return nil
}

// CreateActionRecord creates an action record and sets its ID.
func (s *SQLiteStore) CreateActionRecord(ctx context.Context, record *domain.ActionRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	comments, _ := json.Marshal(record.SimulatedComments)
	var effectiveness sql.NullString
	if record.Effectiveness != "" {
		effectiveness = sql.NullString{String: string(record.Effectiveness), Valid: true}
	}
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO action_records (session_id, round_number, actor, platform, content, reach_count, trust_change, spread_change, effectiveness, simulated_comments, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.SessionID, record.RoundNumber, record.Actor, record.Platform, record.Content,
		record.ReachCount, record.TrustChange, record.SpreadChange, effectiveness, string(comments), record.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	record.ID = id
	return nil
}

// UpdateActionEffectiveness amends an action record with its final evaluation.
func (s *SQLiteStore) UpdateActionEffectiveness(ctx context.Context, actionID int64, result domain.Evaluation) error {
	comments, _ := json.Marshal(result.SimulatedComments)
	res, err := s.q.ExecContext(ctx,
		`UPDATE action_records SET reach_count = ?, trust_change = ?, spread_change = ?, effectiveness = ?, simulated_comments = ? WHERE id = ?`,
		result.ReachCount, result.TrustChange, result.SpreadChange, result.Effectiveness, string(comments), actionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewNotFoundError("action record", fmt.Sprint(actionID))
	}
	return nil
}

const actionColumns = `id, session_id, round_number, actor, platform, content, reach_count, trust_change, spread_change, effectiveness, simulated_comments, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanAction(row scanner) (*domain.ActionRecord, error) {
	var rec domain.ActionRecord
	var effectiveness, comments sql.NullString
	if err := row.Scan(&rec.ID, &rec.SessionID, &rec.RoundNumber, &rec.Actor, &rec.Platform, &rec.Content,
		&rec.ReachCount, &rec.TrustChange, &rec.SpreadChange, &effectiveness, &comments, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if effectiveness.Valid {
		rec.Effectiveness = domain.Effectiveness(effectiveness.String)
	}
	if comments.Valid && comments.String != "" {
		if err := json.Unmarshal([]byte(comments.String), &rec.SimulatedComments); err != nil {
			return nil, fmt.Errorf("failed to decode simulated comments: %w", err)
		}
	}
	return &rec, nil
}

// GetActionRecord retrieves an action record by ID.
func (s *SQLiteStore) GetActionRecord(ctx context.Context, actionID int64) (*domain.ActionRecord, error) {
	rec, err := scanAction(s.q.QueryRowContext(ctx,
		`SELECT `+actionColumns+` FROM action_records WHERE id = ?`, actionID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

// ListActionRecords lists the actions of one round in creation order.
func (s *SQLiteStore) ListActionRecords(ctx context.Context, sessionID string, roundNumber int) ([]domain.ActionRecord, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+actionColumns+` FROM action_records WHERE session_id = ? AND round_number = ? ORDER BY id ASC`,
		sessionID, roundNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ActionRecord
	for rows.Next() {
		rec, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// CreateToolUsage appends a tool ledger row and sets its ID.
func (s *SQLiteStore) CreateToolUsage(ctx context.Context, usage *domain.ToolUsage) error {
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO tool_usages (action_id, tool_name, trust_effect, spread_effect, is_effective, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		usage.ActionID, usage.ToolName, usage.TrustEffect, usage.SpreadEffect, usage.IsEffective, time.Now())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	usage.ID = id
	return nil
}

// ListToolUsages lists the ledger rows of an action.
func (s *SQLiteStore) ListToolUsages(ctx context.Context, actionID int64) ([]domain.ToolUsage, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, action_id, tool_name, trust_effect, spread_effect, is_effective FROM tool_usages WHERE action_id = ? ORDER BY id ASC`,
		actionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usages []domain.ToolUsage
	for rows.Next() {
		var u domain.ToolUsage
		if err := rows.Scan(&u.ID, &u.ActionID, &u.ToolName, &u.TrustEffect, &u.SpreadEffect, &u.IsEffective); err != nil {
			return nil, err
		}
		usages = append(usages, u)
	}
	return usages, rows.Err()
}
