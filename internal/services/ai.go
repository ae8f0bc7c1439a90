package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// ErrNoCompletion is returned when the provider answers without any choice.
var ErrNoCompletion = errors.New("no completion returned by provider")

// CompletionRequest is one chat-completion call.
type CompletionRequest struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// ChatCompleter performs a chat completion and returns the first choice's text.
type ChatCompleter interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// OpenRouterClient talks to OpenRouter (or any OpenAI-compatible endpoint).
type OpenRouterClient struct {
	client  *openai.Client
	timeout time.Duration
}

func NewOpenRouterClient(baseURL, apiKey string, timeout time.Duration) *OpenRouterClient {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenRouterClient{
		client:  openai.NewClientWithConfig(cfg),
		timeout: timeout,
	}
}

// Complete sends a single request; there are no retries.
func (c *OpenRouterClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("OpenRouter client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	temperature := float32(req.Temperature)
	if temperature == 0 {
		// go-openai omits a zero temperature from the request body
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: req.Model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: req.System,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: req.Prompt,
				},
			},
			Temperature: temperature,
			MaxTokens:   req.MaxTokens,
		},
	)
	if err != nil {
		return "", fmt.Errorf("OpenRouter API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoCompletion
	}

	return resp.Choices[0].Message.Content, nil
}
