package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/protolens-cli/internal/chunker"
	"github.com/custodia-labs/protolens-cli/internal/core/domain"
	"github.com/custodia-labs/protolens-cli/internal/core/ports/driven"
	"github.com/custodia-labs/protolens-cli/internal/core/ports/driving"
	"github.com/custodia-labs/protolens-cli/internal/logger"
)

// Ensure PipelineService implements the interface.
var _ driving.ProtocolPipeline = (*PipelineService)(nil)

// PipelineService is the facade over the analysis and generation
// pipeline. It holds a single long-lived caller handle, immutable once
// constructed; reconfiguring credentials means building a new service.
type PipelineService struct {
	chunker   *chunker.Chunker
	runner    *BatchRunner
	aggregate *Aggregator
	generator *DocumentGenerator
}

// PipelineOption configures the pipeline service.
type PipelineOption func(*pipelineConfig)

type pipelineConfig struct {
	chunkSize int
	batchSize int
	fallback  MetricFallback
}

// WithChunkSize sets the maximum characters per protocol chunk.
func WithChunkSize(size int) PipelineOption {
	return func(c *pipelineConfig) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithBatchSize sets the number of chunk analyses dispatched concurrently.
func WithBatchSize(size int) PipelineOption {
	return func(c *pipelineConfig) {
		if size > 0 {
			c.batchSize = size
		}
	}
}

// WithMetricFallback sets the strategy for metrics the model omitted.
func WithMetricFallback(fallback MetricFallback) PipelineOption {
	return func(c *pipelineConfig) {
		c.fallback = fallback
	}
}

// NewPipelineService creates the pipeline facade around a caller.
func NewPipelineService(caller driven.StructuredCaller, opts ...PipelineOption) *PipelineService {
	cfg := pipelineConfig{
		chunkSize: chunker.DefaultChunkSize,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &PipelineService{
		chunker:   chunker.New(chunker.WithChunkSize(cfg.chunkSize)),
		runner:    NewBatchRunner(NewChunkAnalyzer(caller), cfg.batchSize),
		aggregate: NewAggregator(cfg.fallback),
		generator: NewDocumentGenerator(caller),
	}
}

// AnalyzeProtocol chunks the protocol, analyses every chunk in bounded
// concurrent batches, and aggregates the outputs. Any chunk failure
// fails the whole call; no partial result is returned.
func (s *PipelineService) AnalyzeProtocol(ctx context.Context, content string, study domain.StudyDetails) (*domain.AnalysisResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyProtocol
	}

	chunks := s.chunker.Chunk(content)
	logger.Info("Analysing protocol in %d chunk(s)", len(chunks))

	analyses, err := s.runner.Run(ctx, chunks, study)
	if err != nil {
		return nil, err
	}

	return s.aggregate.Aggregate(analyses), nil
}

// GenerateFinalDocuments runs the three-stage generation flow against a
// prior analysis result.
func (s *PipelineService) GenerateFinalDocuments(ctx context.Context, content string, selectedSuggestionIDs []string, includeSchedule bool, analysis *domain.AnalysisResult) (*domain.FinalDocuments, error) {
	if analysis == nil {
		return nil, domain.ErrNoAnalysis
	}
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyProtocol
	}

	return s.generator.Generate(ctx, content, selectedSuggestionIDs, includeSchedule, analysis)
}
