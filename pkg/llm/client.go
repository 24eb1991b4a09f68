// Package llm wraps the external text-generation capability behind a
// single-method client. Callers send a prompt and receive raw text; JSON
// payload extraction from that text lives in ExtractJSON.
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the text-generation capability used by passage generation,
// quiz generation, parameter assessment, open-ended grading and the
// assistant.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config holds the chat-completion client settings. BaseURL may point at
// any OpenAI-compatible endpoint.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// ChatClient implements Client over the chat-completions API.
type ChatClient struct {
	client *openai.Client
	model  string
}

func NewChatClient(cfg Config) (*ChatClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &ChatClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

func (c *ChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}

	return resp.Choices[0].Message.Content, nil
}
