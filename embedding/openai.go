// OpenAI-compatible embeddings client using go-openai library.
//
// Information Hiding:
// - API endpoint and authentication
// - Request/response format for the embeddings API
// - Dimensionality validation

package embedding

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIEmbedder implements Embedder against the OpenAI embeddings API
// or any OpenAI-compatible endpoint (Ollama, vLLM) via a custom base URL.
type OpenAIEmbedder struct {
	client    *openai.Client
	model     string
	dimension int
}

// Config configures the embeddings client.
type Config struct {
	// APIKey authenticates against the endpoint. Local endpoints accept
	// any non-empty token.
	APIKey string
	// BaseURL overrides the OpenAI API endpoint when non-empty.
	BaseURL string
	// Model is the embedding model identifier.
	Model string
	// Dimension, when non-zero, is enforced on every returned vector.
	// When zero it is learned from the first response.
	Dimension int
}

// NewOpenAIEmbedder creates a new embeddings client.
func NewOpenAIEmbedder(cfg Config) *OpenAIEmbedder {
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIEmbedder{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.Model,
		dimension: cfg.Dimension,
	}
}

// Name returns the identifier of this embedder implementation.
func (e *OpenAIEmbedder) Name() string { return "openai" }

// Dimension returns the dimensionality of produced vectors.
func (e *OpenAIEmbedder) Dimension() int { return e.dimension }

// Embed returns an embedding vector for the given text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch returns one embedding vector per input text, in input order.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", ErrUnavailable, len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("%w: empty embedding at index %d", ErrUnavailable, i)
		}
		if e.dimension == 0 {
			e.dimension = len(d.Embedding)
		}
		if len(d.Embedding) != e.dimension {
			return nil, fmt.Errorf("%w: dimensionality mismatch: expected %d, got %d", ErrUnavailable, e.dimension, len(d.Embedding))
		}
		vectors[i] = d.Embedding
	}

	return vectors, nil
}

// Verify OpenAIEmbedder implements Embedder
var _ Embedder = (*OpenAIEmbedder)(nil)
