// Package store persists embedded chunks in a vector database and answers
// similarity searches over them.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrUnavailable marks a vector store that cannot be reached.
	ErrUnavailable = errors.New("vector store unavailable")

	// ErrUpsert marks a failed write to the vector store.
	ErrUpsert = errors.New("vector store upsert failed")
)

// Payload is the metadata stored alongside each vector.
type Payload struct {
	// Source identifies the document the chunk came from.
	Source string `json:"source"`

	// Text is the chunk content.
	Text string `json:"text"`
}

// Point is one embedded chunk ready for storage.
type Point struct {
	ID      string    `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload Payload   `json:"payload"`
}

// SearchHit is one similarity search result.
type SearchHit struct {
	ID     string  `json:"id"`
	Score  float32 `json:"score"`
	Source string  `json:"source"`
	Text   string  `json:"text"`
}

// VectorStore stores embedded chunks and searches them by vector similarity.
type VectorStore interface {
	// EnsureCollection creates the backing collection if it does not exist.
	EnsureCollection(ctx context.Context) error

	// Upsert writes points, overwriting any with the same ID.
	Upsert(ctx context.Context, points []Point) error

	// Search returns the topK most similar points.
	Search(ctx context.Context, vector []float32, topK int) ([]SearchHit, error)

	// Count returns the number of stored points.
	Count(ctx context.Context) (int64, error)
}

// PointID derives a deterministic point id from the source document and
// chunk index. Re-ingesting the same document yields the same ids, so
// upserts replace instead of duplicate.
func PointID(sourceID string, index int) string {
	name := fmt.Sprintf("%s: %d", sourceID, index)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// BuildContext extracts non-empty chunk texts and deduplicated source names
// from search hits, preserving hit order.
func BuildContext(hits []SearchHit) (contexts []string, sources []string) {
	seen := make(map[string]struct{})
	for _, hit := range hits {
		if hit.Text == "" {
			continue
		}
		contexts = append(contexts, hit.Text)
		if hit.Source == "" {
			continue
		}
		if _, ok := seen[hit.Source]; !ok {
			seen[hit.Source] = struct{}{}
			sources = append(sources, hit.Source)
		}
	}
	return contexts, sources
}
