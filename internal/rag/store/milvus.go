package store

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus/client/v2/entity"

	"github.com/chethannhub/RAG-PDF-APP/pkg/component/milvus"
)

const (
	// DefaultCollection is the default collection name.
	DefaultCollection = "docs_e5_768"

	maxSourceLen = 1024
	maxTextLen   = 65535
)

// MilvusStore implements VectorStore on top of a Milvus collection.
type MilvusStore struct {
	client     *milvus.Client
	collection string
	dimension  int
}

// NewMilvusStore creates a store over the given collection.
func NewMilvusStore(client *milvus.Client, collection string, dimension int) *MilvusStore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &MilvusStore{
		client:     client,
		collection: collection,
		dimension:  dimension,
	}
}

// Collection returns the collection name.
func (s *MilvusStore) Collection() string {
	return s.collection
}

// EnsureCollection creates the collection and index if missing.
func (s *MilvusStore) EnsureCollection(ctx context.Context) error {
	schema := &milvus.CollectionSchema{
		Name:        s.collection,
		Description: "Embedded document chunks",
		Dimension:   s.dimension,
		MetaFields: []milvus.MetaField{
			{Name: "source", DataType: entity.FieldTypeVarChar, MaxLen: maxSourceLen},
			{Name: "text", DataType: entity.FieldTypeVarChar, MaxLen: maxTextLen},
		},
	}
	if err := s.client.EnsureCollection(ctx, schema); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Upsert writes points into the collection, replacing rows with the same id.
func (s *MilvusStore) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	if err := s.client.Upsert(ctx, s.collection, buildUpsertData(points)); err != nil {
		return fmt.Errorf("%w: %v", ErrUpsert, err)
	}
	return nil
}

// buildUpsertData assembles the column payload. Both varchar payload fields
// are truncated to their column limits so an oversized value never reaches
// the backend.
func buildUpsertData(points []Point) *milvus.UpsertData {
	ids := make([]string, len(points))
	vectors := make([][]float32, len(points))
	sourceVals := make([]any, len(points))
	textVals := make([]any, len(points))
	for i, p := range points {
		ids[i] = p.ID
		vectors[i] = p.Vector
		sourceVals[i] = truncate(p.Payload.Source, maxSourceLen)
		textVals[i] = truncate(p.Payload.Text, maxTextLen)
	}

	return &milvus.UpsertData{
		IDs:        ids,
		Embeddings: vectors,
		Metadata: map[string][]any{
			"source": sourceVals,
			"text":   textVals,
		},
	}
}

// Search returns the topK nearest points to the query vector.
func (s *MilvusStore) Search(ctx context.Context, vector []float32, topK int) ([]SearchHit, error) {
	results, err := s.client.Search(ctx, s.collection, vector, topK, []string{"source", "text"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	hits := make([]SearchHit, 0, len(results))
	for _, r := range results {
		hit := SearchHit{
			ID:    r.ID,
			Score: r.Score,
		}
		if v, ok := r.Metadata["source"].(string); ok {
			hit.Source = v
		}
		if v, ok := r.Metadata["text"].(string); ok {
			hit.Text = v
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Count returns the number of stored points.
func (s *MilvusStore) Count(ctx context.Context) (int64, error) {
	n, err := s.client.GetCollectionStats(ctx, s.collection)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n, nil
}

var _ VectorStore = (*MilvusStore)(nil)

// truncate limits text to max runes so it fits the varchar column.
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
