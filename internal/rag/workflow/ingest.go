package workflow

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"

	"github.com/chethannhub/RAG-PDF-APP/internal/rag/chunk"
	"github.com/chethannhub/RAG-PDF-APP/internal/rag/extract"
	"github.com/chethannhub/RAG-PDF-APP/internal/rag/store"
)

// Embedder is the embedding capability the workflows need.
type Embedder interface {
	// EmbedPassages embeds document chunks, preserving input order.
	EmbedPassages(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// IngestInput describes a document to ingest.
type IngestInput struct {
	// PDFPath is the document location on disk.
	PDFPath string `json:"pdf_path"`

	// SourceID identifies the document in the store. Defaults to PDFPath.
	SourceID string `json:"source_id,omitempty"`
}

// IngestResult reports how many chunks were stored.
type IngestResult struct {
	Ingested int `json:"ingested"`
}

// chunkSet is the output of the load step, carried into the upsert step.
type chunkSet struct {
	Chunks   []string `json:"chunks"`
	SourceID string   `json:"source_id"`
}

// IngestWorkflow loads a document, chunks it, embeds the chunks, and
// upserts them into the vector store.
type IngestWorkflow struct {
	extractor extract.Extractor
	splitter  *chunk.Splitter
	embedder  Embedder
	store     store.VectorStore
}

// NewIngestWorkflow wires an ingestion pipeline.
func NewIngestWorkflow(extractor extract.Extractor, splitter *chunk.Splitter, embedder Embedder, vs store.VectorStore) *IngestWorkflow {
	return &IngestWorkflow{
		extractor: extractor,
		splitter:  splitter,
		embedder:  embedder,
		store:     vs,
	}
}

// Run executes the ingestion pipeline through the step runner.
func (w *IngestWorkflow) Run(ctx context.Context, runner StepRunner, input IngestInput) (*IngestResult, error) {
	if input.PDFPath == "" {
		return nil, fmt.Errorf("pdf_path is required")
	}

	set, err := RunStep(ctx, runner, "load-and-chunk", func(ctx context.Context) (chunkSet, error) {
		sourceID := input.SourceID
		if sourceID == "" {
			sourceID = input.PDFPath
		}

		pages, err := w.extractor.Extract(ctx, input.PDFPath)
		if err != nil {
			return chunkSet{}, err
		}

		var chunks []string
		for _, page := range pages {
			chunks = append(chunks, w.splitter.Split(page)...)
		}

		logger.Infow("document chunked",
			"source_id", sourceID,
			"pages", len(pages),
			"chunks", len(chunks),
		)
		return chunkSet{Chunks: chunks, SourceID: sourceID}, nil
	})
	if err != nil {
		return nil, err
	}

	result, err := RunStep(ctx, runner, "embed-and-upsert", func(ctx context.Context) (IngestResult, error) {
		if len(set.Chunks) == 0 {
			return IngestResult{Ingested: 0}, nil
		}

		vectors, err := w.embedder.EmbedPassages(ctx, set.Chunks)
		if err != nil {
			return IngestResult{}, err
		}

		points := make([]store.Point, len(set.Chunks))
		for i, text := range set.Chunks {
			points[i] = store.Point{
				ID:     store.PointID(set.SourceID, i),
				Vector: vectors[i],
				Payload: store.Payload{
					Source: set.SourceID,
					Text:   text,
				},
			}
		}

		if err := w.store.Upsert(ctx, points); err != nil {
			return IngestResult{}, err
		}

		logger.Infow("chunks upserted", "source_id", set.SourceID, "count", len(points))
		return IngestResult{Ingested: len(points)}, nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}
