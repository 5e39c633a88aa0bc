package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointIDDeterministic(t *testing.T) {
	// UUIDv5 in the URL namespace of "<source>: <index>".
	assert.Equal(t, "afc5ad8d-d19a-5abb-a0a8-660d99bb63ba", PointID("report.pdf", 0))
	assert.Equal(t, "ba2f61fb-132d-5984-aa9b-0990481b92fa", PointID("report.pdf", 1))

	// Same inputs, same id.
	assert.Equal(t, PointID("report.pdf", 0), PointID("report.pdf", 0))

	// Different source or index, different id.
	assert.NotEqual(t, PointID("report.pdf", 0), PointID("other.pdf", 0))
	assert.NotEqual(t, PointID("report.pdf", 0), PointID("report.pdf", 1))
}

func TestBuildContext(t *testing.T) {
	hits := []SearchHit{
		{ID: "1", Score: 0.9, Source: "a.pdf", Text: "first"},
		{ID: "2", Score: 0.8, Source: "b.pdf", Text: ""},
		{ID: "3", Score: 0.7, Source: "a.pdf", Text: "third"},
		{ID: "4", Score: 0.6, Source: "", Text: "fourth"},
	}

	contexts, sources := BuildContext(hits)

	// Empty-text hits are dropped entirely; sources are deduplicated in
	// hit order.
	assert.Equal(t, []string{"first", "third", "fourth"}, contexts)
	assert.Equal(t, []string{"a.pdf"}, sources)
}

func TestBuildContextEmpty(t *testing.T) {
	contexts, sources := BuildContext(nil)
	assert.Empty(t, contexts)
	assert.Empty(t, sources)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "ab", truncate("abcd", 2))
	assert.Equal(t, "日本", truncate("日本語", 2))
}

func TestBuildUpsertDataTruncatesPayload(t *testing.T) {
	longSource := strings.Repeat("p", maxSourceLen+100)
	longText := strings.Repeat("t", maxTextLen+100)

	data := buildUpsertData([]Point{{
		ID:     PointID(longSource, 0),
		Vector: []float32{1, 0},
		Payload: Payload{
			Source: longSource,
			Text:   longText,
		},
	}})

	require.Len(t, data.IDs, 1)
	source, ok := data.Metadata["source"][0].(string)
	require.True(t, ok)
	text, ok := data.Metadata["text"][0].(string)
	require.True(t, ok)

	// Both varchar fields are capped to their column limits.
	assert.Len(t, []rune(source), maxSourceLen)
	assert.Len(t, []rune(text), maxTextLen)
}
