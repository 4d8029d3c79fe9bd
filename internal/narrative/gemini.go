package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiGenerator answers through the Gemini API. A client is opened per
// call because every player brings their own key.
type GeminiGenerator struct {
	params Params
	logger *slog.Logger
}

func NewGeminiGenerator(params Params, logger *slog.Logger) *GeminiGenerator {
	if params.Model == "" {
		params.Model = "gemini-2.5-flash"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiGenerator{params: params, logger: logger}
}

func (g *GeminiGenerator) Generate(ctx context.Context, credential string, req Request) (string, error) {
	system, err := SystemPrompt(req)
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(credential))
	if err != nil {
		g.logger.Error("Failed to create Generative client", "error", err)
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.params.Model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	model.SetTemperature(g.params.Temperature)
	if g.params.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(g.params.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Message))
	if err != nil {
		g.logger.Error("Gemini API call failed", "character", req.Character.ID, "error", err)
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return strings.TrimSpace(getText(resp)), nil
}

// getText joins the text parts of the first candidate.
func getText(resp *genai.GenerateContentResponse) string {
	var text string
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				text += string(txt)
			}
		}
	}
	return text
}
