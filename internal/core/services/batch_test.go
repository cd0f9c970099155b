package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/protolens-cli/internal/core/domain"
	"github.com/custodia-labs/protolens-cli/internal/core/ports/driven"
)

func makeChunks(n int) []domain.ProtocolChunk {
	chunks := make([]domain.ProtocolChunk, n)
	for i := range chunks {
		chunks[i] = domain.ProtocolChunk{Index: i, Content: fmt.Sprintf("chunk %d text.", i)}
	}
	return chunks
}

// sectionResponse builds an analysis payload whose single suggestion
// carries the chunk content, so result order can be asserted.
func sectionResponse(content string) json.RawMessage {
	resp := map[string]any{
		"suggestions": []map[string]any{
			{"type": "improvement", "impact": "low", "message": content, "recommendation": "r " + content},
		},
		"scheduleElements": []any{},
	}
	raw, _ := json.Marshal(resp)
	return raw
}

func TestBatchRunner_PreservesChunkOrder(t *testing.T) {
	caller := newFakeCaller()
	caller.respond = func(req driven.StructuredRequest) (json.RawMessage, error) {
		var payload analyzePayload
		if err := json.Unmarshal([]byte(req.Payload), &payload); err != nil {
			return nil, err
		}
		return sectionResponse(payload.Content), nil
	}
	runner := NewBatchRunner(NewChunkAnalyzer(caller), 3)

	chunks := makeChunks(7)
	results, err := runner.Run(context.Background(), chunks, domain.StudyDetails{})

	require.NoError(t, err)
	require.Len(t, results, 7)
	for i, result := range results {
		assert.Equal(t, fmt.Sprintf("chunk %d text.", i), result.Suggestions[0].Message)
	}
}

func TestBatchRunner_BoundsConcurrency(t *testing.T) {
	var mu sync.Mutex
	inFlight := 0
	peak := 0

	caller := newFakeCaller()
	caller.respond = func(_ driven.StructuredRequest) (json.RawMessage, error) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		defer func() {
			mu.Lock()
			inFlight--
			mu.Unlock()
		}()
		return json.RawMessage(`{}`), nil
	}
	runner := NewBatchRunner(NewChunkAnalyzer(caller), 3)

	_, err := runner.Run(context.Background(), makeChunks(10), domain.StudyDetails{})

	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, 3)
}

func TestBatchRunner_FailureFailsWholeRun(t *testing.T) {
	boom := errors.New("model unavailable")
	caller := newFakeCaller()
	caller.respond = func(req driven.StructuredRequest) (json.RawMessage, error) {
		// Fail the second chunk of the first batch.
		if strings.Contains(req.Payload, "chunk 1 text.") {
			return nil, boom
		}
		return json.RawMessage(`{}`), nil
	}
	runner := NewBatchRunner(NewChunkAnalyzer(caller), 3)

	results, err := runner.Run(context.Background(), makeChunks(3), domain.StudyDetails{})

	require.Error(t, err)
	assert.Nil(t, results, "no partial results on failure")

	var batchErr *domain.BatchError
	require.True(t, errors.As(err, &batchErr))
	assert.Equal(t, 1, batchErr.ChunkIndex)
	assert.True(t, errors.Is(err, boom))
}

func TestBatchRunner_FailureStopsLaterBatches(t *testing.T) {
	caller := newFakeCaller()
	caller.respond = func(req driven.StructuredRequest) (json.RawMessage, error) {
		if strings.Contains(req.Payload, "chunk 0 text.") {
			return nil, errors.New("boom")
		}
		return json.RawMessage(`{}`), nil
	}
	runner := NewBatchRunner(NewChunkAnalyzer(caller), 2)

	_, err := runner.Run(context.Background(), makeChunks(6), domain.StudyDetails{})

	require.Error(t, err)
	// Only the first batch of two was dispatched.
	assert.Equal(t, 2, caller.callCount())
}

func TestBatchRunner_EmptyChunks(t *testing.T) {
	caller := newFakeCaller()
	runner := NewBatchRunner(NewChunkAnalyzer(caller), 3)

	results, err := runner.Run(context.Background(), nil, domain.StudyDetails{})

	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, caller.callCount())
}

func TestNewBatchRunner_InvalidSizeUsesDefault(t *testing.T) {
	runner := NewBatchRunner(NewChunkAnalyzer(newFakeCaller()), 0)
	assert.Equal(t, DefaultBatchSize, runner.batchSize)
}
