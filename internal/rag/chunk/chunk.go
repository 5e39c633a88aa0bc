// Package chunk splits document text into overlapping windows for embedding.
package chunk

import (
	"fmt"
)

const (
	// DefaultChunkSize is the window length in runes.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is how many runes consecutive windows share.
	DefaultChunkOverlap = 200
)

// Splitter splits text into overlapping chunks. Sizes are measured in runes
// so multi-byte text never splits mid-character.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

// NewSplitter creates a Splitter. The overlap must be non-negative and
// strictly smaller than the chunk size, otherwise the window would never
// advance.
func NewSplitter(chunkSize, chunkOverlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", chunkSize, chunkOverlap)
	}
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}, nil
}

// NewDefaultSplitter creates a Splitter with the default window parameters.
func NewDefaultSplitter() *Splitter {
	s, _ := NewSplitter(DefaultChunkSize, DefaultChunkOverlap)
	return s
}

// ChunkSize returns the configured window length.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// ChunkOverlap returns the configured window overlap.
func (s *Splitter) ChunkOverlap() int { return s.chunkOverlap }

// Split splits text into overlapping chunks. A window starts every
// size-overlap runes until the text is exhausted, so the final chunk may be
// shorter than the window. A text no longer than one window yields a single
// chunk equal to the text; empty text yields nil.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= s.chunkSize {
		return []string{text}
	}

	step := s.chunkSize - s.chunkOverlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}
