// Package chunker splits instruction text into overlapping, word-boundary
// respecting segments of bounded size.
package chunker

import (
	"strings"
	"unicode"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Chunker splits text into fixed-size chunks with overlap.
type Chunker struct {
	size    int
	overlap int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithSize sets the chunk size in characters.
func WithSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.size = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		size:    DefaultChunkSize,
		overlap: DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Size returns the configured chunk size.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Split walks the text in windows of the configured size. When a window's
// right edge falls inside the text it backtracks to the nearest preceding
// whitespace so words are not cut in half. Each window after the first
// overlaps the previous by roughly the configured overlap; the whitespace
// backtrack makes that a soft bound. Empty input yields zero chunks, and an
// all-whitespace window is filtered out.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	chunks := make([]string, 0, len(runes)/maxInt(1, c.size-c.overlap)+1)
	start := 0

	for start < len(runes) {
		end := start + c.size
		if end >= len(runes) {
			end = len(runes)
		} else if ws := lastSpaceAfter(runes, start, end); ws > start {
			end = ws
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}

		next := end - c.overlap
		if next < 0 {
			next = 0
		}
		// Guarantee forward progress even when overlap >= size.
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// lastSpaceAfter returns the index of the last whitespace rune in
// runes[start:end], or start when the window contains none.
func lastSpaceAfter(runes []rune, start, end int) int {
	for i := end - 1; i > start; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return start
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
