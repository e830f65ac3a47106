// Package memory is an in-process vector index with exact cosine
// search. Suitable for tests and single-machine deployments without a
// Qdrant instance.
//
// Information Hiding:
// - Slice storage structure hidden from users
// - Thread-safe access via RWMutex hidden behind the interface
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"fitcoach/vectorstore"
)

// Index stores points in memory and scans them linearly on query.
type Index struct {
	mu        sync.RWMutex
	created   bool
	dimension int
	points    []vectorstore.Point
}

// New creates an empty in-memory index. The collection does not exist
// until Create is called.
func New() *Index {
	return &Index{}
}

// Exists reports whether the collection has been created.
func (s *Index) Exists(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.created, nil
}

// Create creates the collection for vectors of the given dimension.
func (s *Index) Create(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", dimension)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = true
	s.dimension = dimension
	return nil
}

// Upsert inserts or replaces points by id.
func (s *Index) Upsert(ctx context.Context, points []vectorstore.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		if s.dimension > 0 && len(p.Vector) != s.dimension {
			return fmt.Errorf("point %s: expected dimension %d, got %d", p.ID, s.dimension, len(p.Vector))
		}
		replaced := false
		for i := range s.points {
			if s.points[i].ID == p.ID {
				s.points[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			s.points = append(s.points, p)
		}
	}
	return nil
}

// Query returns the k nearest neighbors ordered by ascending cosine
// distance.
func (s *Index) Query(ctx context.Context, vector []float32, k int) ([]vectorstore.Hit, error) {
	if k <= 0 {
		k = 5
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]vectorstore.Hit, 0, len(s.points))
	for _, p := range s.points {
		hits = append(hits, vectorstore.Hit{
			ID:       p.ID,
			Payload:  p.Payload,
			Distance: cosineDistance(vector, p.Vector),
		})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// cosineDistance is 1 - cosine similarity. Mismatched or zero vectors
// are treated as maximally distant.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// Verify Index implements vectorstore.Index
var _ vectorstore.Index = (*Index)(nil)
