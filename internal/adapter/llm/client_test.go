package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientCreateChatCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		var req ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.ResponseFormat["type"] != "json_object" {
			t.Fatalf("unexpected response_format: %v", req.ResponseFormat)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt","choices":[{"index":0,"message":{"role":"assistant","content":"{\"ok\":true}"},"finish_reason":"stop"}],"usage":{"prompt_tokens":1,"completion_tokens":2,"total_tokens":3}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "", time.Second)
	resp, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Model:          "gpt",
		Messages:       []ChatMessage{{Role: "user", Content: "hello"}},
		ResponseFormat: map[string]interface{}{"type": "json_object"},
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion failed: %v", err)
	}
	content, err := resp.Content()
	if err != nil || content != `{"ok":true}` {
		t.Fatalf("unexpected content: %q, %v", content, err)
	}
}

func TestClientCreateChatCompletionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"bad","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	_, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Model:    "gpt",
		Messages: []ChatMessage{{Role: "user", Content: "hello"}},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestClientSetHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("unexpected Authorization header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","choices":[]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second)
	resp, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{Model: "gpt"})
	if err != nil {
		t.Fatalf("CreateChatCompletion failed: %v", err)
	}
	if _, err := resp.Content(); err == nil {
		t.Fatalf("expected empty completion error")
	}
}

func TestMockClientJudgeMovesTargetPlatform(t *testing.T) {
	client := NewMockClient()
	resp, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Model: "mock",
		Metadata: map[string]interface{}{
			MetadataAgentName: "game_master_agent",
			MetadataVariables: map[string]interface{}{
				"author":          "player",
				"veracity":        "true",
				"target_platform": "Thread",
				"platforms": []map[string]interface{}{
					{"platform_name": "Facebook", "player_trust": 50, "ai_trust": 50, "spread_rate": 50},
					{"platform_name": "Thread", "player_trust": 98, "ai_trust": 50, "spread_rate": 50},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion failed: %v", err)
	}
	content, _ := resp.Content()

	var out struct {
		TrustChange    int `json:"trust_change"`
		PlatformStatus []struct {
			PlatformName string `json:"platform_name"`
			PlayerTrust  int    `json:"player_trust"`
		} `json:"platform_status"`
	}
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		t.Fatalf("mock judge returned invalid JSON: %v", err)
	}
	if out.TrustChange != 5 || len(out.PlatformStatus) != 2 {
		t.Fatalf("unexpected judge output: %+v", out)
	}
	if out.PlatformStatus[0].PlayerTrust != 50 || out.PlatformStatus[1].PlayerTrust != 100 {
		t.Fatalf("unexpected platform status: %+v", out.PlatformStatus)
	}
}

func TestMockClientWriterDeclaresFirstTool(t *testing.T) {
	client := NewMockClient()
	resp, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Metadata: map[string]interface{}{
			MetadataAgentName: "fake_news_agent",
			MetadataVariables: map[string]interface{}{
				"news_1":          "Lemon water cures the flu",
				"news_1_veracity": "false",
				"available_tools": []map[string]interface{}{{"tool_name": "Bot Amplification"}},
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion failed: %v", err)
	}
	content, _ := resp.Content()

	var out struct {
		Veracity string `json:"veracity"`
		ToolUsed []struct {
			ToolName string `json:"tool_name"`
		} `json:"tool_used"`
	}
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		t.Fatalf("mock writer returned invalid JSON: %v", err)
	}
	if out.Veracity != "false" || len(out.ToolUsed) != 1 || out.ToolUsed[0].ToolName != "Bot Amplification" {
		t.Fatalf("unexpected writer output: %+v", out)
	}
}
