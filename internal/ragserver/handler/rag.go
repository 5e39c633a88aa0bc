// Package handler provides HTTP handlers for the RAG service.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chethannhub/RAG-PDF-APP/internal/rag/store"
	"github.com/chethannhub/RAG-PDF-APP/internal/rag/workflow"
)

// IngestRunner runs the ingestion pipeline.
type IngestRunner interface {
	Run(ctx context.Context, runner workflow.StepRunner, input workflow.IngestInput) (*workflow.IngestResult, error)
}

// QueryRunner runs the query pipeline.
type QueryRunner interface {
	Run(ctx context.Context, runner workflow.StepRunner, input workflow.QueryInput) (*workflow.QueryResult, error)
}

// queryTimeout bounds a single query end to end, LLM call included.
const queryTimeout = 60 * time.Second

// Info is the static pipeline configuration reported by Stats.
type Info struct {
	Collection        string `json:"collection"`
	Dimension         int    `json:"dimension"`
	EmbeddingProvider string `json:"embedding_provider"`
	ChatProvider      string `json:"chat_provider"`
}

// RAGHandler handles RAG HTTP requests.
type RAGHandler struct {
	ingest    IngestRunner
	query     QueryRunner
	store     store.VectorStore
	cache     *workflow.QueryCache
	info      Info
	newRunner func() workflow.StepRunner
}

// NewRAGHandler creates a new RAGHandler. Each request gets a fresh step
// runner from newRunner so checkpoints never leak across requests.
func NewRAGHandler(ingest IngestRunner, query QueryRunner, vs store.VectorStore, cache *workflow.QueryCache, info Info, newRunner func() workflow.StepRunner) *RAGHandler {
	if newRunner == nil {
		newRunner = func() workflow.StepRunner {
			return workflow.NewLocalRunner(workflow.DefaultMaxAttempts, workflow.DefaultBackoff)
		}
	}
	return &RAGHandler{
		ingest:    ingest,
		query:     query,
		store:     vs,
		cache:     cache,
		info:      info,
		newRunner: newRunner,
	}
}

// SuccessResponse is a standard success response.
type SuccessResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// IngestRequest represents an ingest request.
type IngestRequest struct {
	PDFPath  string `json:"pdf_path" binding:"required"`
	SourceID string `json:"source_id,omitempty"`
}

// Ingest loads, chunks, embeds and stores a PDF.
func (h *RAGHandler) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: err.Error()})
		return
	}

	result, err := h.ingest.Run(c.Request.Context(), h.newRunner(), workflow.IngestInput{
		PDFPath:  req.PDFPath,
		SourceID: req.SourceID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 500, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: "success", Data: result})
}

// QueryRequest represents a query request.
type QueryRequest struct {
	Question string `json:"question" binding:"required"`
	TopK     int    `json:"top_k,omitempty"`
}

// Query answers a question from the ingested documents.
func (h *RAGHandler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: err.Error()})
		return
	}
	if req.TopK < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: "top_k must be a positive integer"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	result, err := h.query.Run(ctx, h.newRunner(), workflow.QueryInput{
		Question: req.Question,
		TopK:     req.TopK,
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			c.JSON(http.StatusRequestTimeout, ErrorResponse{
				Code:    408,
				Message: "Query timeout: the request took too long to process. Please try again or simplify your question.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 500, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: "success", Data: result})
}

// Stats returns knowledge base statistics.
func (h *RAGHandler) Stats(c *gin.Context) {
	count, err := h.store.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 500, Message: err.Error()})
		return
	}

	stats := gin.H{
		"collection":         h.info.Collection,
		"dimension":          h.info.Dimension,
		"embedding_provider": h.info.EmbeddingProvider,
		"chat_provider":      h.info.ChatProvider,
		"chunk_count":        count,
	}
	if h.cache != nil {
		if cacheStats, err := h.cache.Stats(c.Request.Context()); err == nil {
			stats["cache"] = cacheStats
		}
	}

	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: "success", Data: stats})
}

// Healthz reports liveness.
func (h *RAGHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
