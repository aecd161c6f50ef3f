package openrouter_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faktura/internal/assistant/openrouter"
	"faktura/internal/config"
	"faktura/internal/port"
)

func TestClient_Complete(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "{\"message\": \"hi\"}"}}]}`))
	}))
	defer server.Close()

	client := openrouter.NewClientWithEndpoint(&config.AssistantConfig{
		APIKey: "test-key",
		Model:  "anthropic/claude-sonnet-4",
	}, server.URL)

	got, err := client.Complete(context.Background(), port.ChatRequest{
		System:   "You are an invoicing assistant.",
		Messages: []port.ChatTurn{{Role: "user", Content: "create an invoice"}},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"message": "hi"}`, got)

	assert.Equal(t, "anthropic/claude-sonnet-4", captured["model"])
	messages := captured["messages"].([]interface{})
	require.Len(t, messages, 2)
	first := messages[0].(map[string]interface{})
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "You are an invoicing assistant.", first["content"])
}

func TestClient_Complete_OmitsEmptySystemTurn(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}]}`))
	}))
	defer server.Close()

	client := openrouter.NewClientWithEndpoint(&config.AssistantConfig{APIKey: "k"}, server.URL)

	_, err := client.Complete(context.Background(), port.ChatRequest{
		Messages: []port.ChatTurn{{Role: "user", Content: "hello"}},
	})
	require.NoError(t, err)
	assert.Len(t, captured["messages"].([]interface{}), 1)
}

func TestClient_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer server.Close()

	client := openrouter.NewClientWithEndpoint(&config.AssistantConfig{APIKey: "k"}, server.URL)

	_, err := client.Complete(context.Background(), port.ChatRequest{
		Messages: []port.ChatTurn{{Role: "user", Content: "hello"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestClient_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := openrouter.NewClientWithEndpoint(&config.AssistantConfig{APIKey: "k"}, server.URL)

	_, err := client.Complete(context.Background(), port.ChatRequest{
		Messages: []port.ChatTurn{{Role: "user", Content: "hello"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
