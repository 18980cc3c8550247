package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata keys the agent runner attaches to every request.
const (
	MetadataAgentName = "agent_name"
	MetadataVariables = "variables"
)

// MockClient is a mock implementation of LLMClient for local play and tests.
// It answers the game's agents with deterministic, well-formed JSON.
type MockClient struct{}

// NewMockClient creates a new mock LLM client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements LLMClient interface.
var _ LLMClient = (*MockClient)(nil)

// CreateChatCompletion returns a mock response.
func (m *MockClient) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	responseContent, err := m.generateMockResponse(req)
	if err != nil {
		return nil, err
	}

	return &ChatCompletionResponse{
		ID:      fmt.Sprintf("mock-chatcmpl-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []Choice{
			{
				Index: 0,
				Message: &ChatMessage{
					Role:    "assistant",
					Content: responseContent,
				},
				FinishReason: "stop",
			},
		},
		Usage: &Usage{
			PromptTokens:     m.estimateTokens(req),
			CompletionTokens: len(responseContent) / 4,
			TotalTokens:      m.estimateTokens(req) + len(responseContent)/4,
		},
	}, nil
}

type mockVariables struct {
	News1          string `json:"news_1"`
	News1Veracity  string `json:"news_1_veracity"`
	TargetPlatform string `json:"target_platform"`
	AvailableTools []struct {
		ToolName string `json:"tool_name"`
	} `json:"available_tools"`

	Author    string `json:"author"`
	Veracity  string `json:"veracity"`
	Platforms []struct {
		PlatformName string `json:"platform_name"`
		PlayerTrust  int    `json:"player_trust"`
		AITrust      int    `json:"ai_trust"`
		SpreadRate   int    `json:"spread_rate"`
	} `json:"platforms"`

	Content string `json:"content"`
}

// generateMockResponse generates a mock response based on the requesting agent.
func (m *MockClient) generateMockResponse(req *ChatCompletionRequest) (string, error) {
	agent, _ := req.Metadata[MetadataAgentName].(string)

	var vars mockVariables
	if raw, ok := req.Metadata[MetadataVariables]; ok {
		data, err := json.Marshal(raw)
		if err != nil {
			return "", fmt.Errorf("mock: encode variables: %w", err)
		}
		if err := json.Unmarshal(data, &vars); err != nil {
			return "", fmt.Errorf("mock: decode variables: %w", err)
		}
	}

	var out any
	switch agent {
	case "fake_news_agent":
		out = m.article(vars)
	case "game_master_agent":
		out = m.evaluation(vars)
	case "news_polish_agent":
		out = map[string]any{
			"polished_content": vars.Content + " (edited for clarity)",
			"suggestions":      []string{"Cite a primary source", "Shorten the headline"},
			"reasoning":        "[MOCK] Tightened wording without changing facts.",
		}
	default:
		return "[MOCK] This is a mock response from the LLM client.", nil
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (m *MockClient) article(vars mockVariables) map[string]any {
	veracity := vars.News1Veracity
	if veracity == "" {
		veracity = "false"
	}
	article := map[string]any{
		"title":    "[MOCK] Breaking: " + truncate(vars.News1, 40),
		"content":  "[MOCK] Sources close to the story report: " + vars.News1,
		"source":   "Mock Daily",
		"veracity": veracity,
	}
	if len(vars.AvailableTools) > 0 {
		article["tool_used"] = []map[string]string{{"tool_name": vars.AvailableTools[0].ToolName}}
	}
	return article
}

func (m *MockClient) evaluation(vars mockVariables) map[string]any {
	trustChange := 5
	switch vars.Veracity {
	case "false":
		trustChange = -3
	case "partial":
		trustChange = 2
	}
	if vars.Author == "ai" {
		trustChange = 4
	}
	spreadChange := 6

	status := make([]map[string]any, 0, len(vars.Platforms))
	for _, p := range vars.Platforms {
		player, ai, spread := p.PlayerTrust, p.AITrust, p.SpreadRate
		if p.PlatformName == vars.TargetPlatform {
			if vars.Author == "ai" {
				ai = clampScore(ai + trustChange)
			} else {
				player = clampScore(player + trustChange)
			}
			spread = clampScore(spread + spreadChange)
		}
		status = append(status, map[string]any{
			"platform_name": p.PlatformName,
			"player_trust":  player,
			"ai_trust":      ai,
			"spread_rate":   spread,
		})
	}

	return map[string]any{
		"trust_change":       trustChange,
		"spread_change":      spreadChange,
		"reach_count":        1000 + 10*len(vars.Content),
		"effectiveness":      "medium",
		"simulated_comments": []string{"[MOCK] Is this true?", "[MOCK] Sharing with my family."},
		"platform_status":    status,
	}
}

// estimateTokens provides a rough token count estimate.
func (m *MockClient) estimateTokens(req *ChatCompletionRequest) int {
	total := 0
	for _, msg := range req.Messages {
		total += len(msg.Content) / 4
	}
	return total
}

func clampScore(v int) int {
	return max(0, min(100, v))
}

// truncate truncates a string to the given length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
