package ai

import (
	"context"
	"fmt"
	"log/slog"
)

// OfflineClient stands in when no API key is configured. Every call fails
// with a clear error instead of a confusing network timeout.
type OfflineClient struct{}

var _ Client = OfflineClient{}

func NewOfflineClient(logger *slog.Logger) OfflineClient {
	logger.Warn("no Gemini API key configured, AI operations will fail")
	return OfflineClient{}
}

func (OfflineClient) Complete(ctx context.Context, prompt string) (string, error) {
	return "", fmt.Errorf("AI provider is not configured")
}
