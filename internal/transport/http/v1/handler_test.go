package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/sustainet/internal/adapter/llm"
	"github.com/xiaot623/sustainet/internal/agent"
	"github.com/xiaot623/sustainet/internal/catalog"
	"github.com/xiaot623/sustainet/internal/config"
	"github.com/xiaot623/sustainet/internal/domain"
	"github.com/xiaot623/sustainet/internal/policy"
	"github.com/xiaot623/sustainet/internal/repository"
	"github.com/xiaot623/sustainet/internal/service"
	"github.com/xiaot623/sustainet/tests/helpers"
)

func newTestServer(t *testing.T) (*echo.Echo, store.Store) {
	t.Helper()
	db := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()
	policyEngine, err := policy.NewDefaultEngine(ctx)
	require.NoError(t, err)

	runner := agent.NewRunner(db, llm.NewMockClient(), "mock-model", nil)
	cfg := config.GameConfig{
		MaxRounds:          10,
		WinTrustThreshold:  100,
		WinPlatformCount:   3,
		InitialPlayerTrust: 50,
		InitialAITrust:     50,
		InitialSpreadRate:  50,
		PlatformNames:      []string{"Facebook", "Instagram", "Thread"},
		AudienceTypes:      []string{"youth", "middle-aged", "seniors"},
	}
	svc := service.New(db, runner, catalog.New(db, time.Minute, nil), policyEngine, cfg)

	e := echo.New()
	NewHandler(svc).RegisterRoutes(e)
	return e, db
}

func doJSON(e *echo.Echo, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e, _ := newTestServer(t)
	rec := doJSON(e, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestGameFlow(t *testing.T) {
	e, db := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/v1/games", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var started service.StartGameResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	assert.Equal(t, 1, started.RoundNumber)
	assert.Len(t, started.PlatformSetup, 3)
	require.NotNil(t, started.AITurn)
	assert.Empty(t, started.AITurn.Article.TargetPlatform)
	assert.NotContains(t, rec.Body.String(), `"veracity"`)

	t.Run("player turn", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/v1/games/"+started.SessionID+"/rounds/1/player-turn", PlayerTurnRequest{
			Article: &domain.Article{Title: "Check", Content: "Here are the facts.", Veracity: domain.VeracityTrue},
			Tools:   []domain.ToolRef{{ToolName: "Fact Check"}},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.NotContains(t, rec.Body.String(), `"veracity"`)

		var resp service.TurnResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, domain.ActorPlayer, resp.Actor)
		assert.Equal(t, "Facebook", resp.Article.TargetPlatform)
		require.Len(t, resp.ToolUsed, 1)
		assert.Equal(t, "Fact Check", resp.ToolUsed[0].ToolName)
		require.NotNil(t, resp.GameEndInfo)
		assert.False(t, resp.GameEndInfo.IsEnded)

		states, err := db.GetPlatformStates(context.Background(), started.SessionID, 1)
		require.NoError(t, err)
		for _, st := range states {
			if st.PlatformName == "Facebook" {
				assert.Equal(t, 55, st.PlayerTrust)
			}
		}
	})

	t.Run("repeat player turn conflicts", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/v1/games/"+started.SessionID+"/rounds/1/player-turn", PlayerTurnRequest{
			Article: &domain.Article{Content: "again"},
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("next round", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/v1/games/"+started.SessionID+"/rounds/next", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp service.TurnResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.RoundNumber)
		assert.Equal(t, domain.ActorAI, resp.Actor)
	})

	t.Run("status", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/v1/games/"+started.SessionID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp service.GameStatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.CurrentRound)
		assert.Equal(t, domain.GameStatusActive, resp.Status)
		assert.False(t, resp.GameEnd.IsEnded)
	})
}

func TestErrorMapping(t *testing.T) {
	e, _ := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"invalid session id", http.MethodGet, "/v1/games/nope", nil, http.StatusBadRequest, "INVALID_SESSION_ID"},
		{"unknown session", http.MethodGet, "/v1/games/game_unknown", nil, http.StatusNotFound, "RESOURCE_NOT_FOUND"},
		{"bad round", http.MethodPost, "/v1/games/game_unknown/rounds/zero/ai-turn", nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown actor", http.MethodGet, "/v1/tools?actor=moderator", nil, http.StatusBadRequest, "INVALID_ACTOR"},
		{"empty polish", http.MethodPost, "/v1/news/polish", map[string]string{"content": ""}, http.StatusBadRequest, "EMPTY_CONTENT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(e, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusFor(domain.KindBusinessLogic))
	assert.Equal(t, http.StatusBadGateway, statusFor(domain.KindExternalService))
	assert.Equal(t, http.StatusInternalServerError, statusFor(domain.KindDatabase))
}
