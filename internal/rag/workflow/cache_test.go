package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKeyIncludesTopK(t *testing.T) {
	c := NewQueryCache(nil, &QueryCacheConfig{Enabled: true, KeyPrefix: "rag:query:"})

	// The same question at different retrieval depths returns different
	// result shapes, so the keys must differ too.
	assert.NotEqual(t, c.cacheKey("what is X?", 1), c.cacheKey("what is X?", 10))
	assert.Equal(t, c.cacheKey("what is X?", 5), c.cacheKey("what is X?", 5))
	assert.NotEqual(t, c.cacheKey("what is X?", 5), c.cacheKey("what is Y?", 5))
}

func TestCacheKeyUsesPrefix(t *testing.T) {
	c := NewQueryCache(nil, &QueryCacheConfig{Enabled: true, KeyPrefix: "rag:query:"})

	key := c.cacheKey("anything", 5)
	assert.Regexp(t, `^rag:query:[0-9a-f]{64}$`, key)
}

func TestCacheDisabledIsNoop(t *testing.T) {
	c := NewQueryCache(nil, nil)

	require.NoError(t, c.Set(context.Background(), "q", 5, &QueryResult{Answer: "a"}))

	cached, err := c.Get(context.Background(), "q", 5)
	assert.Error(t, err)
	assert.Nil(t, cached)
}
