package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/kart-io/logger"

	"github.com/chethannhub/RAG-PDF-APP/internal/rag/store"
	"github.com/chethannhub/RAG-PDF-APP/pkg/llm"
)

const (
	// DefaultTopK is how many chunks a query retrieves by default.
	DefaultTopK = 5

	// systemPrompt anchors the model to the retrieved context.
	systemPrompt = "You are a helpful assistant that answers based on provided context."

	// degradedAnswer is returned when generation fails. Retrieval results
	// still reach the caller, so a broken LLM degrades rather than errors.
	degradedAnswer = "(no answer available)"
)

// QueryInput describes a question to answer.
type QueryInput struct {
	Question string `json:"question"`

	// TopK is how many chunks to retrieve. Zero or negative selects the
	// default.
	TopK int `json:"top_k,omitempty"`
}

// QueryResult is the answer with its supporting evidence.
type QueryResult struct {
	Answer      string   `json:"answer"`
	Sources     []string `json:"sources"`
	NumContexts int      `json:"num_contexts"`
}

// searchOutcome is the output of the retrieval step.
type searchOutcome struct {
	Contexts []string `json:"contexts"`
	Sources  []string `json:"sources"`
}

// QueryWorkflow retrieves relevant chunks and asks the chat model to answer
// from them.
type QueryWorkflow struct {
	embedder Embedder
	store    store.VectorStore
	chat     llm.ChatProvider
	cache    *QueryCache
}

// NewQueryWorkflow wires a query pipeline. The cache may be nil.
func NewQueryWorkflow(embedder Embedder, vs store.VectorStore, chat llm.ChatProvider, cache *QueryCache) *QueryWorkflow {
	return &QueryWorkflow{
		embedder: embedder,
		store:    vs,
		chat:     chat,
		cache:    cache,
	}
}

// Run executes the query pipeline through the step runner.
func (w *QueryWorkflow) Run(ctx context.Context, runner StepRunner, input QueryInput) (*QueryResult, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, fmt.Errorf("question is required")
	}

	topK := input.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	if w.cache != nil {
		if cached, err := w.cache.Get(ctx, input.Question, topK); err == nil && cached != nil {
			return cached, nil
		}
	}

	found, err := RunStep(ctx, runner, "embed-and-search", func(ctx context.Context) (searchOutcome, error) {
		vector, err := w.embedder.EmbedQuery(ctx, input.Question)
		if err != nil {
			return searchOutcome{}, err
		}

		hits, err := w.store.Search(ctx, vector, topK)
		if err != nil {
			return searchOutcome{}, err
		}

		contexts, sources := store.BuildContext(hits)
		logger.Infow("retrieval done", "hits", len(hits), "contexts", len(contexts))
		return searchOutcome{Contexts: contexts, Sources: sources}, nil
	})
	if err != nil {
		return nil, err
	}

	result, err := RunStep(ctx, runner, "generate-answer", func(ctx context.Context) (QueryResult, error) {
		answer := w.generate(ctx, input.Question, found.Contexts)
		return QueryResult{
			Answer:      answer,
			Sources:     found.Sources,
			NumContexts: len(found.Contexts),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	if w.cache != nil {
		_ = w.cache.Set(ctx, input.Question, topK, &result)
	}

	return &result, nil
}

// generate asks the chat model for an answer. Any failure degrades to the
// sentinel answer instead of failing the run.
func (w *QueryWorkflow) generate(ctx context.Context, question string, contexts []string) string {
	resp, err := w.chat.Generate(ctx, buildPrompt(question, contexts), systemPrompt)
	if err != nil {
		logger.Warnw("answer generation failed, degrading", "error", err.Error())
		return degradedAnswer
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		logger.Warnw("answer generation returned empty content, degrading")
		return degradedAnswer
	}
	return resp.Content
}

// buildPrompt composes the user prompt from the question and retrieved
// context chunks.
func buildPrompt(question string, contexts []string) string {
	bullets := make([]string, len(contexts))
	for i, c := range contexts {
		bullets[i] = "- " + c
	}

	var b strings.Builder
	b.WriteString("Use the following context to answer the question.\n\n")
	b.WriteString("Context:\n")
	b.WriteString(strings.Join(bullets, "\n\n"))
	b.WriteString("\n\n")
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\n")
	b.WriteString("Answer concisely based on the context above.")
	return b.String()
}
