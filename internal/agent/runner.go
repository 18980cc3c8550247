// Package agent runs named LLM agents whose instructions are stored as
// templates.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xiaot623/sustainet/internal/adapter/llm"
	"github.com/xiaot623/sustainet/internal/domain"
)

// Agent names known to the game.
const (
	FakeNewsAgent   = "fake_news_agent"
	GameMasterAgent = "game_master_agent"
	NewsPolishAgent = "news_polish_agent"
)

// AgentStore resolves agent configurations by name.
type AgentStore interface {
	GetAgentByName(ctx context.Context, name string) (*domain.Agent, error)
}

// Request is one agent invocation.
type Request struct {
	AgentName string
	SessionID string
	Variables map[string]any
	InputText string
}

// Runner invokes agents through an LLM client.
type Runner struct {
	agents       AgentStore
	client       llm.LLMClient
	defaultModel string
	logger       *zap.Logger
}

// NewRunner creates a runner. defaultModel is used when an agent has none.
func NewRunner(agents AgentStore, client llm.LLMClient, defaultModel string, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{agents: agents, client: client, defaultModel: defaultModel, logger: logger}
}

// Run renders the agent's instruction with req.Variables, calls the model and
// decodes the reply into out. A *string out receives the raw text; any other
// out is filled from a JSON object reply.
func (r *Runner) Run(ctx context.Context, req Request, out any) error {
	cfg, err := r.agents.GetAgentByName(ctx, req.AgentName)
	if err != nil {
		return domain.NewDatabaseError("get agent", err)
	}
	if cfg == nil {
		return domain.NewNotFoundError("agent", req.AgentName)
	}

	model := cfg.Model
	if model == "" {
		model = r.defaultModel
	}
	input := req.InputText
	if input == "" {
		input = "Respond now."
	}

	chatReq := &llm.ChatCompletionRequest{
		Model: model,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: Render(cfg.Instruction, req.Variables)},
			{Role: "user", Content: input},
		},
		Temperature: cfg.Temperature,
		Metadata: map[string]interface{}{
			llm.MetadataAgentName: req.AgentName,
			llm.MetadataVariables: req.Variables,
			"session_id":          req.SessionID,
		},
	}
	text, isText := out.(*string)
	if !isText {
		chatReq.ResponseFormat = map[string]interface{}{"type": "json_object"}
	}

	start := time.Now()
	resp, err := r.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		r.logger.Warn("agent call failed",
			zap.String("agent", req.AgentName),
			zap.String("session_id", req.SessionID),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		return domain.NewExternalServiceError("llm", fmt.Errorf("agent %s: %w", req.AgentName, err))
	}
	content, err := resp.Content()
	if err != nil {
		return domain.NewExternalServiceError("llm", fmt.Errorf("agent %s: %w", req.AgentName, err))
	}

	fields := []zap.Field{
		zap.String("agent", req.AgentName),
		zap.String("session_id", req.SessionID),
		zap.String("model", model),
		zap.Duration("latency", time.Since(start)),
	}
	if resp.Usage != nil {
		fields = append(fields, zap.Int("total_tokens", resp.Usage.TotalTokens))
	}
	r.logger.Debug("agent call done", fields...)

	if isText {
		*text = content
		return nil
	}
	if err := json.Unmarshal([]byte(extractJSON(content)), out); err != nil {
		return domain.NewExternalServiceError("llm", fmt.Errorf("decode %s response: %w", req.AgentName, err))
	}
	return nil
}

// extractJSON strips a markdown code fence around a JSON reply.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
