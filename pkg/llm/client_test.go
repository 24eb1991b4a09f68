package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, handler func(w http.ResponseWriter, req openai.ChatCompletionRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(w, req)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestChatClientComplete(t *testing.T) {
	srv := completionServer(t, func(w http.ResponseWriter, req openai.ChatCompletionRequest) {
		require.Len(t, req.Messages, 1)
		assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[0].Role)
		assert.Equal(t, "say hi", req.Messages[0].Content)

		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "hi there"}},
			},
		})
	})

	client, err := NewChatClient(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "test-model"})
	require.NoError(t, err)

	got, err := client.Complete(context.Background(), "say hi")
	require.NoError(t, err)
	assert.Equal(t, "hi there", got)
}

func TestChatClientServerError(t *testing.T) {
	srv := completionServer(t, func(w http.ResponseWriter, _ openai.ChatCompletionRequest) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "upstream down", "type": "server_error"},
		})
	})

	client, err := NewChatClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "anything")
	assert.ErrorContains(t, err, "chat completion")
}

func TestChatClientEmptyChoices(t *testing.T) {
	srv := completionServer(t, func(w http.ResponseWriter, _ openai.ChatCompletionRequest) {
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{})
	})

	client, err := NewChatClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "anything")
	assert.ErrorContains(t, err, "no choices")
}

func TestNewChatClientRequiresAPIKey(t *testing.T) {
	_, err := NewChatClient(Config{})
	assert.ErrorContains(t, err, "API key")
}
