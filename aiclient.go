package scitalk

import (
	"context"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = openai.GPT4o

// TextGenerator is the single entry point the workflow uses to reach the
// text-generation service.
type TextGenerator interface {
	Generate(ctx context.Context, systemRole, userPrompt string, maxTokens int, temperature float32) (string, error)
}

// chatCompleter is the slice of the OpenAI client the adapter needs.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client adapts the OpenAI chat completion API to the workflow. One Client is
// shared read-only across sessions.
type Client struct {
	chat  chatCompleter
	model string
}

// NewClient creates a client for the given API key and model identifier.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		chat:  openai.NewClient(apiKey),
		model: model,
	}
}

// Generate sends one system message and one user message and blocks until the
// service responds. The result is trimmed of surrounding whitespace.
func (c *Client) Generate(ctx context.Context, systemRole, userPrompt string, maxTokens int, temperature float32) (string, error) {
	if temperature == 0 {
		// go-openai omits a zero temperature from the request body, which
		// would fall back to the service default instead of deterministic.
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := c.chat.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemRole,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: userPrompt,
				},
			},
			MaxTokens:   maxTokens,
			Temperature: temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", c.model)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
