package options

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/chethannhub/RAG-PDF-APP/internal/rag/chunk"
	"github.com/chethannhub/RAG-PDF-APP/internal/rag/embed"
	"github.com/chethannhub/RAG-PDF-APP/internal/rag/store"
)

// RAGOptions contains RAG pipeline configuration.
type RAGOptions struct {
	// ChunkSize is the chunk window length in runes.
	ChunkSize int `json:"chunk-size" mapstructure:"chunk-size"`

	// ChunkOverlap is the overlap between consecutive chunks.
	ChunkOverlap int `json:"chunk-overlap" mapstructure:"chunk-overlap"`

	// Collection is the name of the Milvus collection.
	Collection string `json:"collection" mapstructure:"collection"`

	// EmbeddingDim is the dimension of embedding vectors.
	EmbeddingDim int `json:"embedding-dim" mapstructure:"embedding-dim"`

	// EmbedBatchSize is how many chunks go to the provider per request.
	EmbedBatchSize int `json:"embed-batch-size" mapstructure:"embed-batch-size"`

	// EmbedConcurrency bounds parallel embedding requests.
	EmbedConcurrency int `json:"embed-concurrency" mapstructure:"embed-concurrency"`
}

// NewRAGOptions creates new RAGOptions with defaults.
func NewRAGOptions() *RAGOptions {
	return &RAGOptions{
		ChunkSize:        chunk.DefaultChunkSize,
		ChunkOverlap:     chunk.DefaultChunkOverlap,
		Collection:       store.DefaultCollection,
		EmbeddingDim:     embed.DefaultDimension,
		EmbedBatchSize:   embed.DefaultBatchSize,
		EmbedConcurrency: embed.DefaultConcurrency,
	}
}

// AddFlags adds flags for RAG options to the specified FlagSet.
func (o *RAGOptions) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.ChunkSize, "rag.chunk-size", o.ChunkSize, "Size of text chunks in runes.")
	fs.IntVar(&o.ChunkOverlap, "rag.chunk-overlap", o.ChunkOverlap, "Overlap between chunks in runes.")
	fs.StringVar(&o.Collection, "rag.collection", o.Collection, "Milvus collection name.")
	fs.IntVar(&o.EmbeddingDim, "rag.embedding-dim", o.EmbeddingDim, "Embedding vector dimension.")
	fs.IntVar(&o.EmbedBatchSize, "rag.embed-batch-size", o.EmbedBatchSize, "Chunks per embedding request.")
	fs.IntVar(&o.EmbedConcurrency, "rag.embed-concurrency", o.EmbedConcurrency, "Parallel embedding requests.")
}

// Validate validates the RAG options.
func (o *RAGOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("rag: chunk-size must be positive"))
	}
	if o.ChunkOverlap < 0 || o.ChunkOverlap >= o.ChunkSize {
		errs = append(errs, fmt.Errorf("rag: chunk-overlap must be in [0, chunk-size)"))
	}
	if o.Collection == "" {
		errs = append(errs, fmt.Errorf("rag: collection is required"))
	}
	if o.EmbeddingDim <= 0 {
		errs = append(errs, fmt.Errorf("rag: embedding-dim must be positive"))
	}
	return errs
}

// Complete completes the RAG options with defaults.
func (o *RAGOptions) Complete() error {
	if o.EmbedBatchSize <= 0 {
		o.EmbedBatchSize = embed.DefaultBatchSize
	}
	if o.EmbedConcurrency <= 0 {
		o.EmbedConcurrency = embed.DefaultConcurrency
	}
	return nil
}
