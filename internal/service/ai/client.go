package ai

import "context"

// Client is the minimal surface the service needs from an AI provider.
type Client interface {
	// Complete sends a prompt and returns the raw model output.
	Complete(ctx context.Context, prompt string) (string, error)
}
