package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/palaverbot/palaver/internal/model"
	"github.com/palaverbot/palaver/internal/store"
)

// Client implements model.Provider on the OpenAI chat completions API.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewClient creates an OpenAI-backed provider. baseURL may be empty for the
// public API; chatModel e.g. "gpt-4o-mini".
func NewClient(apiKey, baseURL, chatModel string, timeout time.Duration) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		client:  openai.NewClientWithConfig(cfg),
		model:   chatModel,
		timeout: timeout,
	}
}

// Complete replays the history verbatim and returns the assistant's reply.
func (c *Client) Complete(history []store.Turn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("model returned an empty completion")
	}
	return content, nil
}

// classify maps API errors onto the two user-reportable limit kinds. Quota
// exhaustion also arrives with status 429, so it is checked first.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if code, ok := apiErr.Code.(string); ok && code == "insufficient_quota" {
			return fmt.Errorf("%w: %v", model.ErrQuotaExceeded, err)
		}
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %v", model.ErrRateLimited, err)
		}
	}
	return fmt.Errorf("chat completion failed: %w", err)
}
