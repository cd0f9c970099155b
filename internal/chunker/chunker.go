// Package chunker splits protocol text into bounded-size chunks at
// sentence boundaries.
package chunker

import (
	"github.com/custodia-labs/protolens-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 4000

// Chunker splits protocol text into chunks no longer than the configured
// budget, breaking only at sentence boundaries. A single sentence longer
// than the budget becomes its own oversized chunk; downstream callers
// must tolerate this rather than truncate.
type Chunker struct {
	chunkSize int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Chunk splits text into ordered protocol chunks. The split is
// deterministic: the same text and budget always yield the same chunks,
// and concatenating the chunk contents reconstructs the input exactly.
// Empty input yields no chunks.
func (c *Chunker) Chunk(text string) []domain.ProtocolChunk {
	if text == "" {
		return nil
	}

	sentences := splitSentences(text)

	chunks := make([]domain.ProtocolChunk, 0, len(text)/c.chunkSize+1)
	start := 0
	current := 0 // length of the chunk being accumulated

	flush := func(end int) {
		if end == start {
			return
		}
		chunks = append(chunks, domain.ProtocolChunk{
			Index:   len(chunks),
			Content: text[start:end],
			Start:   start,
			End:     end,
		})
		start = end
		current = 0
	}

	offset := 0
	for _, length := range sentences {
		if current > 0 && current+length > c.chunkSize {
			flush(offset)
		}
		current += length
		offset += length

		// An oversized sentence is emitted whole, on its own.
		if current > c.chunkSize {
			flush(offset)
		}
	}
	flush(offset)

	return chunks
}

// splitSentences returns the length in bytes of each sentence, where a
// sentence ends at '.', '!' or '?' followed by whitespace. The trailing
// whitespace run belongs to the sentence it terminates, so the lengths
// always sum to len(text).
func splitSentences(text string) []int {
	lengths := make([]int, 0)
	begin := 0

	for i := 0; i < len(text); i++ {
		if !isTerminator(text[i]) {
			continue
		}
		// Require whitespace after the terminator; a trailing
		// terminator at end of input also closes the sentence.
		j := i + 1
		if j < len(text) && !isSpace(text[j]) {
			continue
		}
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		lengths = append(lengths, j-begin)
		begin = j
		i = j - 1
	}

	if begin < len(text) {
		lengths = append(lengths, len(text)-begin)
	}

	return lengths
}

func isTerminator(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
