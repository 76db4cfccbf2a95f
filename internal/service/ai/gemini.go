package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"docmind/internal/domain"
)

// GeminiClient talks to the Gemini API through the official SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

var _ Client = (*GeminiClient)(nil)

// NewGeminiClient builds a Gemini-backed client for the given model.
func NewGeminiClient(ctx context.Context, apiKey, model string, logger *slog.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
		logger: logger.With("component", "gemini"),
	}, nil
}

// Complete sends the prompt and concatenates the text parts of the first
// candidate.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.4)),
	})
	if err != nil {
		c.logger.Error("generate content failed", "model", c.model, "error", err)
		return "", fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", domain.ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", domain.ErrEmptyResponse
	}

	return sb.String(), nil
}
