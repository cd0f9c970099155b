package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/protolens-cli/internal/core/domain"
	"github.com/custodia-labs/protolens-cli/internal/logger"
)

// DefaultBatchSize is the number of chunk analyses dispatched concurrently.
const DefaultBatchSize = 3

// BatchRunner runs chunk analyses in sequential batches. Within a batch
// the analyses fan out concurrently; the runner waits for the whole
// batch to settle before starting the next, bounding peak in-flight
// requests to the batch size.
type BatchRunner struct {
	analyzer  *ChunkAnalyzer
	batchSize int
}

// NewBatchRunner creates a batch runner. A batchSize below one falls
// back to DefaultBatchSize.
func NewBatchRunner(analyzer *ChunkAnalyzer, batchSize int) *BatchRunner {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &BatchRunner{analyzer: analyzer, batchSize: batchSize}
}

// Run analyses every chunk and returns the outputs in chunk order,
// regardless of completion order within a batch. If any analysis fails
// the whole run fails with a domain.BatchError naming the chunk; partial
// results are discarded, not returned degraded. Batches are not retried.
func (r *BatchRunner) Run(ctx context.Context, chunks []domain.ProtocolChunk, study domain.StudyDetails) ([]domain.ChunkAnalysis, error) {
	results := make([]domain.ChunkAnalysis, len(chunks))
	errs := make([]error, len(chunks))

	for begin := 0; begin < len(chunks); begin += r.batchSize {
		end := begin + r.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		logger.Debug("Analysing chunks %d-%d of %d", begin+1, end, len(chunks))

		var wg sync.WaitGroup
		for i := begin; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = r.analyzer.Analyze(ctx, chunks[i], study)
			}(i)
		}
		wg.Wait()

		// Fail the whole run on the first failing chunk of this batch.
		for i := begin; i < end; i++ {
			if errs[i] != nil {
				return nil, &domain.BatchError{ChunkIndex: i, Err: errs[i]}
			}
		}
	}

	return results, nil
}
