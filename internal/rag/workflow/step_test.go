package workflow

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRunnerRunsStepOnce(t *testing.T) {
	r := NewLocalRunner(3, time.Millisecond)

	calls := 0
	fn := func(ctx context.Context) (string, error) {
		calls++
		return "output", nil
	}

	out, err := RunStep(context.Background(), r, "step-a", fn)
	require.NoError(t, err)
	assert.Equal(t, "output", out)
	assert.Equal(t, 1, calls)

	// Second run replays the checkpoint without invoking fn.
	out, err = RunStep(context.Background(), r, "step-a", fn)
	require.NoError(t, err)
	assert.Equal(t, "output", out)
	assert.Equal(t, 1, calls)
	assert.True(t, r.Completed("step-a"))
}

func TestLocalRunnerRetriesTransientFailure(t *testing.T) {
	r := NewLocalRunner(3, time.Millisecond)

	calls := 0
	out, err := RunStep(context.Background(), r, "flaky", func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, fmt.Errorf("transient failure %d", calls)
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, out)
	assert.Equal(t, 3, calls)
}

func TestLocalRunnerExhaustsRetryBudget(t *testing.T) {
	r := NewLocalRunner(2, time.Millisecond)

	calls := 0
	_, err := RunStep(context.Background(), r, "doomed", func(ctx context.Context) (int, error) {
		calls++
		return 0, fmt.Errorf("permanent failure")
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.False(t, r.Completed("doomed"))
}

func TestLocalRunnerFailedStepRetriesOnNextRun(t *testing.T) {
	r := NewLocalRunner(1, time.Millisecond)

	calls := 0
	fn := func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", fmt.Errorf("boom")
		}
		return "ok", nil
	}

	_, err := RunStep(context.Background(), r, "resume", fn)
	require.Error(t, err)

	// No checkpoint was written, so the next run executes the step again.
	out, err := RunStep(context.Background(), r, "resume", fn)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 2, calls)
}

func TestLocalRunnerContextCancelledBetweenAttempts(t *testing.T) {
	r := NewLocalRunner(3, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := RunStep(ctx, r, "cancelled", func(ctx context.Context) (int, error) {
		calls++
		return 0, fmt.Errorf("fail")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestLocalRunnerReset(t *testing.T) {
	r := NewLocalRunner(1, time.Millisecond)

	calls := 0
	fn := func(ctx context.Context) (int, error) {
		calls++
		return calls, nil
	}

	_, err := RunStep(context.Background(), r, "step", fn)
	require.NoError(t, err)

	r.Reset()
	assert.False(t, r.Completed("step"))

	out, err := RunStep(context.Background(), r, "step", fn)
	require.NoError(t, err)
	assert.Equal(t, 2, out)
}
