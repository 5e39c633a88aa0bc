// Package embed turns text into unit-normalized vectors via an LLM
// embedding provider.
//
// The embedding model is asymmetric: documents and queries get different
// prefixes so they land in the right region of the vector space.
package embed

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/chethannhub/RAG-PDF-APP/pkg/llm"
)

// ErrEmbed marks an embedding call that failed or returned malformed output.
var ErrEmbed = errors.New("embedding failed")

const (
	// passagePrefix marks document-side text for asymmetric models.
	passagePrefix = "passage: "

	// queryPrefix marks query-side text for asymmetric models.
	queryPrefix = "query: "

	// DefaultBatchSize is how many texts go to the provider per request.
	DefaultBatchSize = 64

	// DefaultDimension is the expected vector width.
	DefaultDimension = 768

	// DefaultConcurrency bounds parallel embedding requests.
	DefaultConcurrency = 4
)

// Config controls batching and validation.
type Config struct {
	// BatchSize is the number of texts per provider request.
	BatchSize int

	// Dimension is the expected embedding width. Zero disables the check.
	Dimension int

	// Concurrency bounds how many batches are in flight at once.
	Concurrency int
}

// DefaultConfig returns the default embedder configuration.
func DefaultConfig() Config {
	return Config{
		BatchSize:   DefaultBatchSize,
		Dimension:   DefaultDimension,
		Concurrency: DefaultConcurrency,
	}
}

// Embedder batches texts through an embedding provider and normalizes the
// results.
type Embedder struct {
	provider llm.EmbeddingProvider
	pool     *ants.Pool
	cfg      Config
}

// NewEmbedder creates an Embedder backed by the given provider.
func NewEmbedder(provider llm.EmbeddingProvider, cfg Config) (*Embedder, error) {
	if provider == nil {
		return nil, fmt.Errorf("embedding provider is nil")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	pool, err := ants.NewPool(cfg.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	return &Embedder{
		provider: provider,
		pool:     pool,
		cfg:      cfg,
	}, nil
}

// Close releases the worker pool.
func (e *Embedder) Close() {
	e.pool.Release()
}

// Dimension returns the expected vector width.
func (e *Embedder) Dimension() int {
	return e.cfg.Dimension
}

// EmbedPassages embeds document chunks. Output order matches input order
// even though batches run concurrently.
func (e *Embedder) EmbedPassages(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	prefixed := make([]string, len(texts))
	for i, t := range texts {
		prefixed[i] = passagePrefix + t
	}

	type batchResult struct {
		start      int
		embeddings [][]float32
	}

	numBatches := (len(prefixed) + e.cfg.BatchSize - 1) / e.cfg.BatchSize
	results := make([]batchResult, numBatches)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for b := 0; b < numBatches; b++ {
		start := b * e.cfg.BatchSize
		end := start + e.cfg.BatchSize
		if end > len(prefixed) {
			end = len(prefixed)
		}
		batch := prefixed[start:end]
		idx := b

		wg.Add(1)
		submitErr := e.pool.Submit(func() {
			defer wg.Done()

			embeddings, err := e.provider.Embed(ctx, batch)
			if err == nil && len(embeddings) != len(batch) {
				err = fmt.Errorf("provider returned %d embeddings for %d texts", len(embeddings), len(batch))
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			results[idx] = batchResult{start: start, embeddings: embeddings}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbed, firstErr)
	}

	out := make([][]float32, len(texts))
	for _, r := range results {
		for i, vec := range r.embeddings {
			out[r.start+i] = vec
		}
	}

	for i, vec := range out {
		if e.cfg.Dimension > 0 && len(vec) != e.cfg.Dimension {
			return nil, fmt.Errorf("%w: embedding %d has dimension %d, want %d", ErrEmbed, i, len(vec), e.cfg.Dimension)
		}
		normalize(vec)
	}

	return out, nil
}

// EmbedQuery embeds a single search query.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vec, err := e.provider.EmbedSingle(ctx, queryPrefix+text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbed, err)
	}
	if e.cfg.Dimension > 0 && len(vec) != e.cfg.Dimension {
		return nil, fmt.Errorf("%w: query embedding has dimension %d, want %d", ErrEmbed, len(vec), e.cfg.Dimension)
	}
	normalize(vec)
	return vec, nil
}

// normalize scales the vector to unit length in place. Zero vectors are
// left untouched.
func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}
