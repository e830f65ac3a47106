// Package embedding converts text into fixed-length numeric vectors for
// similarity search.
package embedding

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the embedding service is unreachable
// or produces malformed output (wrong vector dimensionality).
var ErrUnavailable = errors.New("embedding service unavailable")

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	// Name returns the identifier of this embedder implementation.
	Name() string

	// Dimension returns the dimensionality of produced vectors, or 0 if
	// not yet known.
	Dimension() int

	// Embed returns an embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one embedding vector per input text, in input
	// order. Used for bulk seeding.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
