package v1

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/sustainet/internal/domain"
)

func TestAgents(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/v1/agents/game_master_agent", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var seeded domain.Agent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &seeded))
	assert.Equal(t, "game_master_agent", seeded.Name)
	assert.NotEmpty(t, seeded.Instruction)

	rec = doJSON(e, http.MethodPost, "/v1/agents", map[string]any{"name": "fact_checker", "instruction": "Check {content}"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodGet, "/v1/agents/fact_checker", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var saved domain.Agent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, "litellm", saved.Provider)
	assert.Equal(t, "Check {content}", saved.Instruction)

	rec = doJSON(e, http.MethodGet, "/v1/agents/nobody", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodPost, "/v1/agents", map[string]any{"name": "blank"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNews(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/v1/news", map[string]any{
		"title":    "Local river cleaned",
		"content":  "Volunteers removed two tons of waste.",
		"veracity": "true",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created domain.News
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.IsActive)
	assert.NotZero(t, created.NewsID)

	rec = doJSON(e, http.MethodPost, "/v1/news", map[string]any{
		"title":    "Local river cleaned",
		"content":  "Different text.",
		"veracity": "false",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(e, http.MethodPost, "/v1/news", map[string]any{"title": "x", "content": "y", "veracity": "maybe"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodGet, "/v1/news/random", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var random domain.News
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &random))
	assert.NotEmpty(t, random.Content)
}
