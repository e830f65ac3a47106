// Package qdrant is a minimal REST client to Qdrant implementing the
// vectorstore.Index interface. It assumes cosine distance.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fitcoach/vectorstore"
)

// Index is a Qdrant-backed vector index over a single collection.
type Index struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

// Config configures the Qdrant client.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// New creates a Qdrant index client.
func New(cfg Config) *Index {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Index{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Exists reports whether the collection has been created.
func (s *Index) Exists(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/collections/%s", s.url, s.collection), nil)
	if err != nil {
		return false, fmt.Errorf("%w: %v", vectorstore.ErrUnavailable, err)
	}
	s.auth(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", vectorstore.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("%w: GET collection failed: %s", vectorstore.ErrUnavailable, resp.Status)
	}
}

// Create creates the collection for vectors of the given dimension.
func (s *Index) Create(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", dimension)
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return s.putJSON(ctx, fmt.Sprintf("%s/collections/%s", s.url, s.collection), body)
}

// Upsert inserts or replaces points by id.
func (s *Index) Upsert(ctx context.Context, points []vectorstore.Point) error {
	body := map[string]any{"points": make([]map[string]any, 0, len(points))}
	items := body["points"].([]map[string]any)
	for _, p := range points {
		items = append(items, map[string]any{
			"id":     p.ID,
			"vector": p.Vector,
			"payload": map[string]any{
				"title":    p.Payload.Title,
				"text":     p.Payload.Text,
				"video":    p.Payload.Video,
				"category": p.Payload.Category,
			},
		})
	}
	body["points"] = items
	return s.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body)
}

// Query returns the k nearest neighbors ordered by ascending distance.
// Qdrant reports cosine similarity; it is converted to a distance here
// so that lower always means closer.
func (s *Index) Query(ctx context.Context, vector []float32, k int) ([]vectorstore.Hit, error) {
	if k <= 0 {
		k = 5
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp); err != nil {
		return nil, err
	}

	hits := make([]vectorstore.Hit, 0, len(resp.Result))
	for _, r := range resp.Result {
		hit := vectorstore.Hit{Distance: 1 - r.Score}
		if id, ok := r.ID.(string); ok {
			hit.ID = id
		} else {
			hit.ID = fmt.Sprint(r.ID)
		}
		if v, ok := r.Payload["title"].(string); ok {
			hit.Payload.Title = v
		}
		if v, ok := r.Payload["text"].(string); ok {
			hit.Payload.Text = v
		}
		if v, ok := r.Payload["video"].(string); ok {
			hit.Payload.Video = v
		}
		if v, ok := r.Payload["category"].(string); ok {
			hit.Payload.Category = v
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func (s *Index) auth(req *http.Request) {
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
}

func (s *Index) putJSON(ctx context.Context, url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", vectorstore.ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	s.auth(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", vectorstore.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: PUT %s failed: %s", vectorstore.ErrUnavailable, url, resp.Status)
	}
	return nil
}

func (s *Index) postJSON(ctx context.Context, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", vectorstore.ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	s.auth(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", vectorstore.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: POST %s failed: %s", vectorstore.ErrUnavailable, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Verify Index implements vectorstore.Index
var _ vectorstore.Index = (*Index)(nil)
