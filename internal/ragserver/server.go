// Package ragserver wires the RAG pipeline behind an HTTP API.
package ragserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/chethannhub/RAG-PDF-APP/internal/rag/chunk"
	"github.com/chethannhub/RAG-PDF-APP/internal/rag/embed"
	"github.com/chethannhub/RAG-PDF-APP/internal/rag/extract"
	"github.com/chethannhub/RAG-PDF-APP/internal/rag/store"
	"github.com/chethannhub/RAG-PDF-APP/internal/rag/workflow"
	"github.com/chethannhub/RAG-PDF-APP/internal/ragserver/handler"
	"github.com/chethannhub/RAG-PDF-APP/pkg/component/milvus"
	"github.com/chethannhub/RAG-PDF-APP/pkg/llm"

	// Registered providers.
	_ "github.com/chethannhub/RAG-PDF-APP/pkg/llm/ollama"
	_ "github.com/chethannhub/RAG-PDF-APP/pkg/llm/openai"
)

// Config carries everything needed to assemble the server.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// Mode is the gin mode.
	Mode string

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// Milvus is the vector database connection configuration.
	Milvus *milvus.Options

	// Collection is the vector collection name.
	Collection string

	// Dimension is the embedding vector width.
	Dimension int

	// ChunkSize and ChunkOverlap configure the splitter, in runes.
	ChunkSize    int
	ChunkOverlap int

	// EmbedBatchSize and EmbedConcurrency configure embedding batching.
	EmbedBatchSize   int
	EmbedConcurrency int

	// EmbeddingProvider and EmbeddingConfig select the embedding backend.
	EmbeddingProvider string
	EmbeddingConfig   map[string]any

	// ChatProvider and ChatConfig select the generation backend.
	ChatProvider string
	ChatConfig   map[string]any

	// Redis enables the query cache backend when non-nil.
	Redis *goredis.Options

	// Cache configures the query cache.
	Cache *workflow.QueryCacheConfig
}

// Server is the assembled RAG HTTP server.
type Server struct {
	cfg          *Config
	httpServer   *http.Server
	milvusClient *milvus.Client
	redisClient  *goredis.Client
	embedder     *embed.Embedder
}

// NewServer builds the full pipeline: vector store, providers, workflows,
// handlers and router. The collection is created on startup so the first
// request never races schema creation.
func NewServer(ctx context.Context, cfg *Config) (*Server, error) {
	milvusClient, err := milvus.New(cfg.Milvus)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus: %w", err)
	}

	vectorStore := store.NewMilvusStore(milvusClient, cfg.Collection, cfg.Dimension)
	if err := vectorStore.EnsureCollection(ctx); err != nil {
		return nil, err
	}
	logger.Infow("vector collection ready", "collection", vectorStore.Collection(), "dimension", cfg.Dimension)

	embedProvider, err := llm.NewEmbeddingProvider(cfg.EmbeddingProvider, cfg.EmbeddingConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}
	chatProvider, err := llm.NewChatProvider(cfg.ChatProvider, cfg.ChatConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat provider: %w", err)
	}
	logger.Infow("llm providers ready", "embedding", embedProvider.Name(), "chat", chatProvider.Name())

	// Probe providers that expose a liveness check so a dead local backend
	// shows up at startup instead of on the first request.
	for _, p := range []any{embedProvider, chatProvider} {
		pinger, ok := p.(interface{ Ping(context.Context) error })
		if !ok {
			continue
		}
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := pinger.Ping(pingCtx); err != nil {
			logger.Warnw("llm provider unreachable", "error", err.Error())
		}
		cancel()
	}

	embedder, err := embed.NewEmbedder(embedProvider, embed.Config{
		BatchSize:   cfg.EmbedBatchSize,
		Dimension:   cfg.Dimension,
		Concurrency: cfg.EmbedConcurrency,
	})
	if err != nil {
		return nil, err
	}

	splitter, err := chunk.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	var redisClient *goredis.Client
	if cfg.Redis != nil {
		redisClient = goredis.NewClient(cfg.Redis)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Warnw("redis unreachable, query cache disabled", "error", err.Error())
			_ = redisClient.Close()
			redisClient = nil
		}
		cancel()
	}
	cache := workflow.NewQueryCache(redisClient, cfg.Cache)

	ingestWF := workflow.NewIngestWorkflow(extract.NewPDFExtractor(), splitter, embedder, vectorStore)
	queryWF := workflow.NewQueryWorkflow(embedder, vectorStore, chatProvider, cache)

	ragHandler := handler.NewRAGHandler(ingestWF, queryWF, vectorStore, cache, handler.Info{
		Collection:        vectorStore.Collection(),
		Dimension:         cfg.Dimension,
		EmbeddingProvider: embedProvider.Name(),
		ChatProvider:      chatProvider.Name(),
	}, nil)

	srv := &Server{
		cfg:          cfg,
		milvusClient: milvusClient,
		redisClient:  redisClient,
		embedder:     embedder,
	}
	srv.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(cfg.Mode, ragHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return srv, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// server fails.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infow("http server listening", "addr", s.cfg.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	s.embedder.Close()
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if err := s.milvusClient.Close(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("milvus close: %w", err))
	}

	return errors.Join(errs...)
}
