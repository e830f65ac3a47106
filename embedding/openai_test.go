package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeEmbeddingsServer serves a fixed vector per input text.
func fakeEmbeddingsServer(t *testing.T, vector []float32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		type datum struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		}
		data := make([]datum, len(req.Input))
		for i := range req.Input {
			data[i] = datum{Embedding: vector, Index: i}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
}

func TestEmbedBatchLearnsDimension(t *testing.T) {
	srv := fakeEmbeddingsServer(t, []float32{0.1, 0.2, 0.3})
	defer srv.Close()

	embedder := NewOpenAIEmbedder(Config{APIKey: "test", BaseURL: srv.URL})

	vectors, err := embedder.EmbedBatch(context.Background(), []string{"squat", "deadlift"})
	if err != nil {
		t.Fatalf("EmbedBatch failed: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	if embedder.Dimension() != 3 {
		t.Errorf("expected learned dimension 3, got %d", embedder.Dimension())
	}
}

func TestEmbedDimensionMismatch(t *testing.T) {
	srv := fakeEmbeddingsServer(t, []float32{0.1, 0.2})
	defer srv.Close()

	embedder := NewOpenAIEmbedder(Config{APIKey: "test", BaseURL: srv.URL, Dimension: 768})

	_, err := embedder.Embed(context.Background(), "squat")
	if err == nil {
		t.Fatal("expected dimensionality error")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestEmbedUnreachableService(t *testing.T) {
	embedder := NewOpenAIEmbedder(Config{APIKey: "test", BaseURL: "http://127.0.0.1:1"})

	_, err := embedder.Embed(context.Background(), "squat")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
