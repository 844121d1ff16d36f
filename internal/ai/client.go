package ai

import (
	"context"
	"github.com/myrjola/ideaforge/internal/errors"
	"github.com/sashabaranov/go-openai"
	"log/slog"
	"net/http"
)

// DefaultBaseURL is Groq's OpenAI-compatible API.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

var ErrEmptyCompletion = errors.NewSentinel("completion has no choices")

// CompletionRequest is a single chat-style prompt with a system and a user message.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Model        string
	Temperature  float32
	MaxTokens    int
}

type Client struct {
	client *openai.Client
}

// NewClient creates a client for an OpenAI-compatible chat completion API at baseURL.
//
// httpClient may be nil in which case the go-openai default is used.
func NewClient(apiKey, baseURL string, httpClient *http.Client) Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if httpClient != nil {
		config.HTTPClient = httpClient
	}
	return Client{
		client: openai.NewClientWithConfig(config),
	}
}

// Complete returns the content of the first choice of the completion.
func (c Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:       req.Model,
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
			},
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "create chat completion", slog.String("model", req.Model))
	}
	if len(completion.Choices) == 0 {
		return "", errors.Wrap(ErrEmptyCompletion, "read completion", slog.String("model", req.Model))
	}
	return completion.Choices[0].Message.Content, nil
}
