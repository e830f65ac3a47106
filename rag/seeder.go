// One-time bootstrap indexing of the fitness dataset.
//
// Seeding runs only when the index collection does not yet exist: a
// process restart against an already-seeded index performs zero
// embedding calls and zero upserts.

package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"fitcoach/embedding"
	"fitcoach/vectorstore"
)

// SeedRecord is one passage record from the source dataset.
type SeedRecord struct {
	Content  string `json:"content"`
	Title    string `json:"title"`
	Video    string `json:"video,omitempty"`
	Category string `json:"category,omitempty"`
}

// Seeder embeds and upserts dataset records into the vector index.
type Seeder struct {
	embedder embedding.Embedder
	index    vectorstore.Index
	logger   *slog.Logger
}

// NewSeeder constructs a Seeder.
func NewSeeder(embedder embedding.Embedder, index vectorstore.Index, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{embedder: embedder, index: index, logger: logger}
}

// SeedFromFile reads a JSON array of records from path and seeds the
// index. Returns the number of points upserted (0 when the collection
// already exists).
func (s *Seeder) SeedFromFile(ctx context.Context, path string) (int, error) {
	exists, err := s.index.Exists(ctx)
	if err != nil {
		return 0, fmt.Errorf("checking collection: %w", err)
	}
	if exists {
		s.logger.Info("collection already exists, skipping seeding")
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading dataset: %w", err)
	}

	var records []SeedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("parsing dataset: %w", err)
	}

	return s.Seed(ctx, records)
}

// Seed embeds every valid record's content and upserts it with the
// point id "{category}_{ordinal}". Malformed records (empty content)
// are skipped and logged, never aborting the pass. The collection
// existence check makes concurrent cold-starts safe together with
// id-idempotent upserts.
func (s *Seeder) Seed(ctx context.Context, records []SeedRecord) (int, error) {
	exists, err := s.index.Exists(ctx)
	if err != nil {
		return 0, fmt.Errorf("checking collection: %w", err)
	}
	if exists {
		s.logger.Info("collection already exists, skipping seeding")
		return 0, nil
	}

	valid := make([]SeedRecord, 0, len(records))
	for i, rec := range records {
		if rec.Content == "" {
			s.logger.Warn("skipping malformed dataset record", "index", i, "title", rec.Title)
			continue
		}
		valid = append(valid, rec)
	}
	if len(valid) == 0 {
		return 0, fmt.Errorf("dataset contains no valid records")
	}

	contents := make([]string, len(valid))
	for i, rec := range valid {
		contents[i] = rec.Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, contents)
	if err != nil {
		return 0, fmt.Errorf("embedding dataset: %w", err)
	}

	if err := s.index.Create(ctx, len(vectors[0])); err != nil {
		return 0, fmt.Errorf("creating collection: %w", err)
	}

	points := make([]vectorstore.Point, len(valid))
	for i, rec := range valid {
		category := rec.Category
		if category == "" {
			category = "general"
		}
		points[i] = vectorstore.Point{
			ID:     fmt.Sprintf("%s_%d", category, i),
			Vector: vectors[i],
			Payload: vectorstore.Payload{
				Title:    rec.Title,
				Text:     rec.Content,
				Video:    rec.Video,
				Category: category,
			},
		}
	}

	if err := s.index.Upsert(ctx, points); err != nil {
		return 0, fmt.Errorf("upserting points: %w", err)
	}

	s.logger.Info("knowledge base seeded", "points", len(points))
	return len(points), nil
}
