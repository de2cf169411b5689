package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/confreview/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMServiceGenerate(t *testing.T) {
	var received OllamaGenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/generate":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			_ = json.NewEncoder(w).Encode(OllamaGenerateResponse{Model: received.Model, Response: "- insight", Done: true})
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[{"name":"llama3.1:8b"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	llm := NewLLMService(config.LLMConfig{BaseURL: server.URL, Model: "llama3.1:8b", Timeout: 5 * time.Second})

	ctx := WithCallInfo(context.Background(), 7, 3)
	out, err := llm.Generate(ctx, "system prompt", "paper text")
	require.NoError(t, err)
	assert.Equal(t, "- insight", out)
	assert.Equal(t, "system prompt", received.System)
	assert.Equal(t, "paper text", received.Prompt)
	assert.False(t, received.Stream)

	calls := llm.GetAPICalls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.StatusOK, calls[0].Status)
	require.NotNil(t, calls[0].PaperID)
	assert.Equal(t, uint(7), *calls[0].PaperID)
	require.NotNil(t, calls[0].JobID)
	assert.Equal(t, uint(3), *calls[0].JobID)

	require.NoError(t, llm.CheckLLMHealth(context.Background()))
	models, err := llm.GetAvailableModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3.1:8b"}, models)

	llm.ClearAPICalls()
	assert.Empty(t, llm.GetAPICalls())
}

func TestLLMServiceErrorStatusIsTracked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	llm := NewLLMService(config.LLMConfig{BaseURL: server.URL})
	_, err := llm.Generate(context.Background(), "s", "t")
	require.Error(t, err)

	calls := llm.GetAPICalls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.StatusInternalServerError, calls[0].Status)
	assert.Contains(t, calls[0].Error, "model not loaded")
	assert.Error(t, llm.CheckLLMHealth(context.Background()))
}

func TestLLMServiceCallHistoryIsBounded(t *testing.T) {
	llm := NewLLMService(config.LLMConfig{})
	for i := 0; i < maxTrackedCalls+5; i++ {
		llm.trackAPICall(context.Background(), "insight_extraction", nil, 200, 0, "", "")
	}
	assert.Len(t, llm.GetAPICalls(), maxTrackedCalls)
}

func TestLLMServiceHealthRequiresConfiguredModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"models":[{"name":"mistral:7b"}]}`))
	}))
	defer server.Close()

	llm := NewLLMService(config.LLMConfig{BaseURL: server.URL, Model: "llama3.1:8b"})
	err := llm.CheckLLMHealth(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llama3.1:8b")

	models, err := llm.GetAvailableModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"mistral:7b"}, models)
}
