// Package llm provides language-model provider abstractions.
//
// Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Provider-specific error handling
// - Streaming delivery

package llm

import (
	"context"

	"fitcoach/model"
)

// Provider defines the abstract interface for language-model providers.
// Implementations hide provider-specific details while exposing a
// consistent interface for grounded chat completions.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the current model being used.
	Model() string

	// Generate sends an atomic completion request over the ordered
	// message sequence and returns the reply text.
	Generate(ctx context.Context, messages []model.Message) (string, error)

	// GenerateStream streams a completion, sending text fragments to the
	// provided channel in arrival order. The stream is finite and not
	// restartable. The caller owns the channel.
	GenerateStream(ctx context.Context, messages []model.Message, chunks chan<- string) error
}
