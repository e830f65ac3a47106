package memory

import (
	"context"
	"testing"

	"fitcoach/vectorstore"
)

func TestExistsBeforeAndAfterCreate(t *testing.T) {
	idx := New()
	ctx := context.Background()

	exists, err := idx.Exists(ctx)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected collection to not exist before Create")
	}

	if err := idx.Create(ctx, 3); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	exists, err = idx.Exists(ctx)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected collection to exist after Create")
	}
}

func TestQueryOrderedByDistance(t *testing.T) {
	idx := New()
	ctx := context.Background()

	if err := idx.Create(ctx, 3); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	points := []vectorstore.Point{
		{ID: "a", Vector: []float32{1, 0, 0}, Payload: vectorstore.Payload{Title: "exact"}},
		{ID: "b", Vector: []float32{0, 1, 0}, Payload: vectorstore.Payload{Title: "orthogonal"}},
		{ID: "c", Vector: []float32{1, 1, 0}, Payload: vectorstore.Payload{Title: "diagonal"}},
	}
	if err := idx.Upsert(ctx, points); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	hits, err := idx.Query(ctx, []float32{1, 0, 0}, 5)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	if hits[0].ID != "a" || hits[1].ID != "c" || hits[2].ID != "b" {
		t.Errorf("unexpected order: %s, %s, %s", hits[0].ID, hits[1].ID, hits[2].ID)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Distance < hits[i-1].Distance {
			t.Errorf("distances not ascending at rank %d", i)
		}
	}
}

func TestQueryEmptyCollection(t *testing.T) {
	idx := New()
	ctx := context.Background()

	if err := idx.Create(ctx, 3); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	hits, err := idx.Query(ctx, []float32{1, 0, 0}, 5)
	if err != nil {
		t.Fatalf("Query on empty collection should not error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected 0 hits, got %d", len(hits))
	}
}

func TestQueryCapsAtK(t *testing.T) {
	idx := New()
	ctx := context.Background()

	if err := idx.Create(ctx, 2); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		p := vectorstore.Point{
			ID:     string(rune('a' + i)),
			Vector: []float32{float32(i + 1), 1},
		}
		if err := idx.Upsert(ctx, []vectorstore.Point{p}); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	hits, err := idx.Query(ctx, []float32{1, 1}, 5)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(hits) != 5 {
		t.Errorf("expected 5 hits, got %d", len(hits))
	}
}

func TestUpsertReplacesById(t *testing.T) {
	idx := New()
	ctx := context.Background()

	if err := idx.Create(ctx, 2); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	first := vectorstore.Point{ID: "x", Vector: []float32{1, 0}, Payload: vectorstore.Payload{Title: "old"}}
	second := vectorstore.Point{ID: "x", Vector: []float32{1, 0}, Payload: vectorstore.Payload{Title: "new"}}

	if err := idx.Upsert(ctx, []vectorstore.Point{first}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := idx.Upsert(ctx, []vectorstore.Point{second}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	hits, err := idx.Query(ctx, []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit after replace, got %d", len(hits))
	}
	if hits[0].Payload.Title != "new" {
		t.Errorf("expected replaced payload, got %q", hits[0].Payload.Title)
	}
}
