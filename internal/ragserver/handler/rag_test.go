package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chethannhub/RAG-PDF-APP/internal/rag/store"
	"github.com/chethannhub/RAG-PDF-APP/internal/rag/workflow"
)

type stubIngest struct {
	result *workflow.IngestResult
	err    error
	input  workflow.IngestInput
}

func (s *stubIngest) Run(_ context.Context, _ workflow.StepRunner, input workflow.IngestInput) (*workflow.IngestResult, error) {
	s.input = input
	return s.result, s.err
}

type stubQuery struct {
	result *workflow.QueryResult
	err    error
	input  workflow.QueryInput
}

func (s *stubQuery) Run(_ context.Context, _ workflow.StepRunner, input workflow.QueryInput) (*workflow.QueryResult, error) {
	s.input = input
	return s.result, s.err
}

type stubStore struct {
	count    int64
	countErr error
}

func (s *stubStore) EnsureCollection(_ context.Context) error                 { return nil }
func (s *stubStore) Upsert(_ context.Context, _ []store.Point) error          { return nil }
func (s *stubStore) Count(_ context.Context) (int64, error)                   { return s.count, s.countErr }
func (s *stubStore) Search(_ context.Context, _ []float32, _ int) ([]store.SearchHit, error) {
	return nil, nil
}

func newTestHandler(ingest IngestRunner, query QueryRunner, vs store.VectorStore) *RAGHandler {
	info := Info{
		Collection:        "docs_e5_768",
		Dimension:         768,
		EmbeddingProvider: "ollama",
		ChatProvider:      "openai",
	}
	return NewRAGHandler(ingest, query, vs, nil, info, nil)
}

func setupRouter(h *RAGHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/rag/ingest", h.Ingest)
	r.POST("/api/v1/rag/query", h.Query)
	r.GET("/api/v1/rag/stats", h.Stats)
	r.GET("/healthz", h.Healthz)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIngestHandler(t *testing.T) {
	ingest := &stubIngest{result: &workflow.IngestResult{Ingested: 7}}
	h := newTestHandler(ingest, &stubQuery{}, &stubStore{})
	r := setupRouter(h)

	w := doJSON(t, r, http.MethodPost, "/api/v1/rag/ingest", gin.H{
		"pdf_path":  "/docs/report.pdf",
		"source_id": "report",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/docs/report.pdf", ingest.input.PDFPath)
	assert.Equal(t, "report", ingest.input.SourceID)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Code)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 7, data["ingested"])
}

func TestIngestHandlerMissingPath(t *testing.T) {
	h := newTestHandler(&stubIngest{}, &stubQuery{}, &stubStore{})
	r := setupRouter(h)

	w := doJSON(t, r, http.MethodPost, "/api/v1/rag/ingest", gin.H{"source_id": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestHandlerWorkflowError(t *testing.T) {
	ingest := &stubIngest{err: fmt.Errorf("milvus down")}
	h := newTestHandler(ingest, &stubQuery{}, &stubStore{})
	r := setupRouter(h)

	w := doJSON(t, r, http.MethodPost, "/api/v1/rag/ingest", gin.H{"pdf_path": "/docs/report.pdf"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestQueryHandler(t *testing.T) {
	query := &stubQuery{result: &workflow.QueryResult{
		Answer:      "blue",
		Sources:     []string{"report.pdf"},
		NumContexts: 3,
	}}
	h := newTestHandler(&stubIngest{}, query, &stubStore{})
	r := setupRouter(h)

	w := doJSON(t, r, http.MethodPost, "/api/v1/rag/query", gin.H{
		"question": "what color is the sky?",
		"top_k":    3,
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "what color is the sky?", query.input.Question)
	assert.Equal(t, 3, query.input.TopK)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "blue", data["answer"])
	assert.EqualValues(t, 3, data["num_contexts"])
}

func TestQueryHandlerMissingQuestion(t *testing.T) {
	h := newTestHandler(&stubIngest{}, &stubQuery{}, &stubStore{})
	r := setupRouter(h)

	w := doJSON(t, r, http.MethodPost, "/api/v1/rag/query", gin.H{"top_k": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryHandlerNegativeTopK(t *testing.T) {
	h := newTestHandler(&stubIngest{}, &stubQuery{}, &stubStore{})
	r := setupRouter(h)

	w := doJSON(t, r, http.MethodPost, "/api/v1/rag/query", gin.H{
		"question": "anything?",
		"top_k":    -1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "top_k")
}

func TestQueryHandlerWorkflowError(t *testing.T) {
	query := &stubQuery{err: fmt.Errorf("embedding backend down")}
	h := newTestHandler(&stubIngest{}, query, &stubStore{})
	r := setupRouter(h)

	w := doJSON(t, r, http.MethodPost, "/api/v1/rag/query", gin.H{"question": "anything?"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestStatsHandler(t *testing.T) {
	h := newTestHandler(&stubIngest{}, &stubQuery{}, &stubStore{count: 42})
	r := setupRouter(h)

	w := doJSON(t, r, http.MethodGet, "/api/v1/rag/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 42, data["chunk_count"])
	assert.Equal(t, "docs_e5_768", data["collection"])
	assert.EqualValues(t, 768, data["dimension"])
	assert.Equal(t, "ollama", data["embedding_provider"])
	assert.Equal(t, "openai", data["chat_provider"])
}

func TestStatsHandlerStoreError(t *testing.T) {
	h := newTestHandler(&stubIngest{}, &stubQuery{}, &stubStore{countErr: fmt.Errorf("unreachable")})
	r := setupRouter(h)

	w := doJSON(t, r, http.MethodGet, "/api/v1/rag/stats", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(&stubIngest{}, &stubQuery{}, &stubStore{})
	r := setupRouter(h)

	w := doJSON(t, r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
