// Package vectorstore defines the nearest-neighbor index abstraction.
//
// The index is the only long-lived store in the system: read/append
// shared across all concurrent turns. Retrieval is read-only; writes
// happen once at seeding time.
package vectorstore

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the index cannot be reached or
// rejects a request.
var ErrUnavailable = errors.New("vector index unavailable")

// Payload is the metadata stored alongside each vector.
type Payload struct {
	Title    string `json:"title"`
	Text     string `json:"text"`
	Video    string `json:"video,omitempty"`
	Category string `json:"category,omitempty"`
}

// Point is one record to upsert: a stable id, its embedding and payload.
type Point struct {
	ID      string
	Vector  []float32
	Payload Payload
}

// Hit is one ranked query result. Distance is a cosine distance: lower
// means closer.
type Hit struct {
	ID       string
	Payload  Payload
	Distance float64
}

// Index persists vectors and supports cosine similarity search.
type Index interface {
	// Exists reports whether the collection has been created.
	Exists(ctx context.Context) (bool, error)

	// Create creates the collection for vectors of the given dimension.
	Create(ctx context.Context, dimension int) error

	// Upsert inserts or replaces points by id.
	Upsert(ctx context.Context, points []Point) error

	// Query returns the k nearest neighbors ordered by ascending
	// distance. An empty collection yields an empty result, not an error.
	Query(ctx context.Context, vector []float32, k int) ([]Hit, error)
}
