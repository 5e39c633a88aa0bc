// Package workflow orchestrates ingestion and query pipelines as named,
// checkpointed steps so a failed run can resume without redoing finished
// work.
package workflow

import (
	"context"
	stdjson "encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/kart-io/logger"

	"github.com/chethannhub/RAG-PDF-APP/pkg/utils/json"
)

// StepRunner executes a named step and returns its JSON-serialized output.
// A runner may replay a previously recorded output instead of invoking fn.
type StepRunner interface {
	Run(ctx context.Context, name string, fn func(ctx context.Context) (any, error)) (stdjson.RawMessage, error)
}

// RunStep runs a step through the runner and decodes its output as T.
func RunStep[T any](ctx context.Context, r StepRunner, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T

	raw, err := r.Run(ctx, name, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("failed to decode output of step %q: %w", name, err)
	}
	return out, nil
}

const (
	// DefaultMaxAttempts is the per-step retry budget.
	DefaultMaxAttempts = 3

	// DefaultBackoff is the base delay between attempts. The delay grows
	// linearly with the attempt number.
	DefaultBackoff = time.Second
)

// LocalRunner is an in-process StepRunner. Each completed step's output is
// checkpointed, so re-running the workflow with the same runner replays
// finished steps instead of executing them again.
type LocalRunner struct {
	mu          sync.Mutex
	checkpoints map[string]stdjson.RawMessage
	maxAttempts int
	backoff     time.Duration
}

// NewLocalRunner creates a LocalRunner with the given retry budget.
func NewLocalRunner(maxAttempts int, backoff time.Duration) *LocalRunner {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	return &LocalRunner{
		checkpoints: make(map[string]stdjson.RawMessage),
		maxAttempts: maxAttempts,
		backoff:     backoff,
	}
}

// Run executes the step, retrying transient failures, and records the
// output. A step that already has a checkpoint returns it without running.
func (r *LocalRunner) Run(ctx context.Context, name string, fn func(ctx context.Context) (any, error)) (stdjson.RawMessage, error) {
	r.mu.Lock()
	if out, ok := r.checkpoints[name]; ok {
		r.mu.Unlock()
		logger.Infow("replaying checkpointed step", "step", name)
		return out, nil
	}
	r.mu.Unlock()

	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			raw, mErr := json.Marshal(result)
			if mErr != nil {
				return nil, fmt.Errorf("failed to marshal output of step %q: %w", name, mErr)
			}
			r.mu.Lock()
			r.checkpoints[name] = raw
			r.mu.Unlock()
			logger.Infow("step completed", "step", name, "attempt", attempt)
			return raw, nil
		}

		lastErr = err
		logger.Warnw("step attempt failed", "step", name, "attempt", attempt, "error", err.Error())

		if attempt < r.maxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * r.backoff):
			}
		}
	}

	return nil, fmt.Errorf("step %q failed after %d attempts: %w", name, r.maxAttempts, lastErr)
}

// Completed reports whether the named step has a checkpoint.
func (r *LocalRunner) Completed(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.checkpoints[name]
	return ok
}

// Reset drops all checkpoints so the next run starts from scratch.
func (r *LocalRunner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkpoints = make(map[string]stdjson.RawMessage)
}
