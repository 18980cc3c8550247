package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	q      querier
	inTx   bool
	logger *zap.Logger
}

var _ Store = (*SQLiteStore)(nil)

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithLogger sets the store logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *SQLiteStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSQLiteStore opens dsn, migrates the schema and seeds the default
// catalog.
func NewSQLiteStore(dsn string, opts ...Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db, q: db, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	seed, err := DefaultSeed()
	if err == nil {
		err = store.Seed(context.Background(), seed)
	}
	if err != nil {
		// Don't fail startup for this
		store.logger.Warn("failed to seed default catalog", zap.Error(err))
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS game_setups (
			session_id TEXT PRIMARY KEY,
			platforms TEXT NOT NULL,
			player_initial_trust INTEGER NOT NULL DEFAULT 50,
			ai_initial_trust INTEGER NOT NULL DEFAULT 50,
			status TEXT NOT NULL DEFAULT 'active',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS game_rounds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			round_number INTEGER NOT NULL,
			is_completed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (session_id, round_number),
			FOREIGN KEY (session_id) REFERENCES game_setups(session_id)
		)`,
		`CREATE TABLE IF NOT EXISTS platform_states (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			round_number INTEGER NOT NULL,
			platform_name TEXT NOT NULL,
			player_trust INTEGER NOT NULL,
			ai_trust INTEGER NOT NULL,
			spread_rate INTEGER NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (session_id, round_number, platform_name),
			FOREIGN KEY (session_id) REFERENCES game_setups(session_id)
		)`,
		`CREATE TABLE IF NOT EXISTS action_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			round_number INTEGER NOT NULL,
			actor TEXT NOT NULL,
			platform TEXT NOT NULL,
			content TEXT NOT NULL,
			reach_count INTEGER NOT NULL DEFAULT 0,
			trust_change INTEGER NOT NULL DEFAULT 0,
			spread_change INTEGER NOT NULL DEFAULT 0,
			effectiveness TEXT,
			simulated_comments TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES game_setups(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_action_records_round ON action_records(session_id, round_number)`,
		`CREATE TABLE IF NOT EXISTS tool_usages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			action_id INTEGER NOT NULL,
			tool_name TEXT NOT NULL,
			trust_effect INTEGER NOT NULL DEFAULT 0,
			spread_effect INTEGER NOT NULL DEFAULT 0,
			is_effective INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (action_id) REFERENCES action_records(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tool_usages_action ON tool_usages(action_id)`,
		`CREATE TABLE IF NOT EXISTS tools (
			tool_name TEXT PRIMARY KEY,
			description TEXT NOT NULL DEFAULT '',
			trust_effect REAL NOT NULL DEFAULT 1.0,
			spread_effect REAL NOT NULL DEFAULT 1.0,
			applicable_to TEXT NOT NULL DEFAULT 'player'
		)`,
		`CREATE TABLE IF NOT EXISTS news (
			news_id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			veracity TEXT NOT NULL,
			category TEXT,
			source TEXT,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (title)
		)`,
		`CREATE TABLE IF NOT EXISTS agents (
			agent_id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			provider TEXT NOT NULL DEFAULT 'litellm',
			model TEXT NOT NULL DEFAULT '',
			description TEXT,
			instruction TEXT NOT NULL,
			temperature REAL
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	// Round gating was added after the first catalog release.
	if err := s.ensureColumn("tools", "available_from_round", "ALTER TABLE tools ADD COLUMN available_from_round INTEGER NOT NULL DEFAULT 1"); err != nil {
		return err
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_tools_actor_round ON tools(applicable_to, available_from_round)`); err != nil {
		return err
	}

	return nil
}

func (s *SQLiteStore) ensureColumn(tableName, columnName, ddl string) error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull int
		var dfltValue sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return err
		}
		if name == columnName {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = s.db.Exec(ddl)
	return err
}

// WithTx runs fn inside a transaction. Nested calls reuse the outer
// transaction.
func (s *SQLiteStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	txStore := &SQLiteStore{db: s.db, q: tx, inTx: true, logger: s.logger}

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.Error("rollback failed", zap.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
