package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Params tune the upstream completion.
type Params struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// OpenAIGenerator talks to the chat completions API with the player's key.
type OpenAIGenerator struct {
	params  Params
	baseURL string
	logger  *slog.Logger
}

// NewOpenAIGenerator returns a generator for the OpenAI API. An empty
// baseURL uses the public endpoint.
func NewOpenAIGenerator(params Params, baseURL string, logger *slog.Logger) *OpenAIGenerator {
	if params.Model == "" {
		params.Model = openai.GPT4oMini
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIGenerator{params: params, baseURL: baseURL, logger: logger}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, credential string, req Request) (string, error) {
	system, err := SystemPrompt(req)
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	cfg := openai.DefaultConfig(credential)
	if g.baseURL != "" {
		cfg.BaseURL = g.baseURL
	}
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.params.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: req.Message},
		},
		Temperature:         g.params.Temperature,
		MaxCompletionTokens: g.params.MaxTokens,
	})
	if err != nil {
		g.logger.Error("OpenAI API call failed", "character", req.Character.ID, "error", err)
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		g.logger.Warn("OpenAI returned no choices", "character", req.Character.ID)
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
