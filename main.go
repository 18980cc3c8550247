package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiaot623/sustainet/internal/adapter/llm"
	"github.com/xiaot623/sustainet/internal/agent"
	"github.com/xiaot623/sustainet/internal/catalog"
	"github.com/xiaot623/sustainet/internal/config"
	"github.com/xiaot623/sustainet/internal/domain"
	"github.com/xiaot623/sustainet/internal/logging"
	"github.com/xiaot623/sustainet/internal/policy"
	"github.com/xiaot623/sustainet/internal/repository"
	"github.com/xiaot623/sustainet/internal/service"
	server "github.com/xiaot623/sustainet/internal/transport/http"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "sustainet",
	Short:         "Trust-war game server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.LogLevel)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tool catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		actorFlag, _ := cmd.Flags().GetString("actor")
		round, _ := cmd.Flags().GetInt("round")
		actor, err := domain.ParseActor(actorFlag)
		if err != nil {
			return err
		}

		svc, db, err := buildService(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		tools, err := svc.ListTools(cmd.Context(), actor, round)
		if err != nil {
			return err
		}
		return printJSON(cmd, tools)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <session_id>",
	Short: "Show the state of a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, db, err := buildService(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		status, err := svc.GameStatus(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, status)
	},
}

func init() {
	toolsCmd.Flags().String("actor", "player", "actor whose tools to list (player or ai)")
	toolsCmd.Flags().Int("round", 0, "only list tools unlocked by this round")
	rootCmd.AddCommand(serveCmd, toolsCmd, statusCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// buildService wires storage, the tool catalog, the policy engine and the
// agent runner into a game service.
func buildService(ctx context.Context) (*service.Service, *store.SQLiteStore, error) {
	db, err := store.NewSQLiteStore(cfg.DatabaseURL, store.WithLogger(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("initialize store: %w", err)
	}

	if cfg.SeedFile != "" {
		seed, err := store.LoadSeedFile(cfg.SeedFile)
		if err == nil {
			err = db.Seed(ctx, seed)
		}
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("load seed file %s: %w", cfg.SeedFile, err)
		}
	}

	policyEngine, err := policy.NewDefaultEngine(ctx)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("initialize policy engine: %w", err)
	}

	llmClient := llm.NewLLMClient(cfg.LiteLLMURL, cfg.LiteLLMAPIKey, cfg.LLMTimeout(), logger)
	runner := agent.NewRunner(db, llmClient, cfg.LLMModel, logger)
	tools := catalog.New(db, cfg.ToolCacheTTL, logger)

	svc := service.New(db, runner, tools, policyEngine, cfg.Game, service.WithLogger(logger))
	return svc, db, nil
}

func serve(ctx context.Context) error {
	logger.Info("starting sustainet",
		zap.Int("http_port", cfg.HTTPPort),
		zap.String("database", cfg.DatabaseURL),
		zap.String("litellm_url", cfg.LiteLLMURL),
		zap.Int("max_rounds", cfg.Game.MaxRounds))

	svc, db, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	e := server.NewServer(svc, logger)

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Info("API started", zap.Int("port", cfg.HTTPPort))

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("stopped")
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
