// Package rag turns a user query into ranked context passages plus
// deduplicated media recommendations, and seeds the vector index from
// the fitness dataset on first run.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"fitcoach/embedding"
	"fitcoach/model"
	"fitcoach/vectorstore"
)

const (
	// topK is the fixed number of nearest neighbors fetched per query.
	topK = 5
	// recommendationCutoff: only passages ranked strictly below this
	// produce media recommendations.
	recommendationCutoff = 3
	// contextSeparator joins context blocks while preserving ranked order.
	contextSeparator = "\n\n---\n\n"
)

// Retriever converts a query string into (context text, recommendation
// set) using an Embedder and a vector Index. It owns no state across
// calls: identical query text and unchanged index state yield identical
// output.
type Retriever struct {
	embedder embedding.Embedder
	index    vectorstore.Index
	logger   *slog.Logger
}

// NewRetriever constructs a Retriever from the given embedder and index.
func NewRetriever(embedder embedding.Embedder, index vectorstore.Index, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{embedder: embedder, index: index, logger: logger}
}

// Retrieve embeds the query, fetches the top-k nearest passages and
// formats them into a single context string, deriving at most
// recommendationCutoff media recommendations from the best-ranked hits.
// An empty index yields ("", empty map) without error. Embedding and
// index failures carry embedding.ErrUnavailable and
// vectorstore.ErrUnavailable respectively.
func (r *Retriever) Retrieve(ctx context.Context, query string) (string, map[string]model.Recommendation, error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return "", nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := r.index.Query(ctx, vector, topK)
	if err != nil {
		return "", nil, fmt.Errorf("querying index: %w", err)
	}

	passages := make([]model.RetrievedPassage, len(hits))
	for rank, hit := range hits {
		passages[rank] = model.RetrievedPassage{
			Title:    hit.Payload.Title,
			Body:     hit.Payload.Text,
			MediaURL: hit.Payload.Video,
			Distance: hit.Distance,
			Rank:     rank,
		}
	}

	contextText := formatContext(passages)
	recommendations := buildRecommendations(passages)

	r.logger.Debug("retrieval complete",
		"query_len", len(query),
		"passages", len(passages),
		"recommendations", len(recommendations),
	)

	return contextText, recommendations, nil
}

// formatContext renders each passage as "**{title}**\n{body}" and joins
// them in ranked order.
func formatContext(passages []model.RetrievedPassage) string {
	if len(passages) == 0 {
		return ""
	}
	blocks := make([]string, len(passages))
	for i, p := range passages {
		blocks[i] = fmt.Sprintf("**%s**\n%s", p.Title, p.Body)
	}
	return strings.Join(blocks, contextSeparator)
}

// buildRecommendations synthesizes a Recommendation for each of the
// first recommendationCutoff passages carrying a media URL, keyed by
// the positional id "vid_{rank}".
func buildRecommendations(passages []model.RetrievedPassage) map[string]model.Recommendation {
	recommendations := make(map[string]model.Recommendation)
	for _, p := range passages {
		if p.Rank >= recommendationCutoff {
			break
		}
		if p.MediaURL == "" {
			continue
		}
		id := fmt.Sprintf("vid_%d", p.Rank)
		recommendations[id] = model.Recommendation{
			ID:           id,
			Title:        p.Title,
			VideoURL:     p.MediaURL,
			ThumbnailURL: youtubeThumbnail(p.MediaURL),
		}
	}
	return recommendations
}

// youtubeThumbnail derives the predictable thumbnail URL for YouTube
// watch links. Other hosts have no stable thumbnail convention and
// yield an empty string.
func youtubeThumbnail(videoURL string) string {
	u, err := url.Parse(videoURL)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	if host != "youtube.com" {
		return ""
	}
	id := u.Query().Get("v")
	if id == "" {
		return ""
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", id)
}
