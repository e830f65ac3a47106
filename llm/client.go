// Client - simple wrapper around providers.

package llm

import (
	"context"

	"fitcoach/model"
)

// Client wraps a Provider with a simple interface.
type Client struct {
	provider Provider
}

// NewClient creates a new LLM client from a provider.
func NewClient(provider Provider) *Client {
	return &Client{provider: provider}
}

// Generate sends a completion request and returns the reply text.
func (c *Client) Generate(ctx context.Context, messages []model.Message) (string, error) {
	return c.provider.Generate(ctx, messages)
}

// GenerateStream streams a completion.
func (c *Client) GenerateStream(ctx context.Context, messages []model.Message, chunks chan<- string) error {
	return c.provider.GenerateStream(ctx, messages, chunks)
}

// Provider returns the underlying provider.
func (c *Client) Provider() Provider {
	return c.provider
}
