package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/protolens-cli/internal/core/domain"
	"github.com/custodia-labs/protolens-cli/internal/core/ports/driven"
)

// ChunkAnalyzer analyses one protocol chunk with a single structured
// LLM call. Every call is independent - no state is shared between
// chunk analyses, so analyses may run concurrently.
type ChunkAnalyzer struct {
	caller driven.StructuredCaller
}

// NewChunkAnalyzer creates a chunk analyzer using the given caller.
func NewChunkAnalyzer(caller driven.StructuredCaller) *ChunkAnalyzer {
	return &ChunkAnalyzer{caller: caller}
}

// analyzePayload is the user message sent for one chunk.
type analyzePayload struct {
	Section      string              `json:"section"`
	Content      string              `json:"content"`
	StudyContext domain.StudyDetails `json:"studyContext"`
}

// chunkAnalysisResponse mirrors the analyzeChunkSchema output.
type chunkAnalysisResponse struct {
	Metrics          domain.PartialMetrics    `json:"metrics"`
	Suggestions      []domain.RawSuggestion   `json:"suggestions"`
	ScheduleElements []domain.ScheduleElement `json:"scheduleElements"`
}

// Analyze submits the chunk plus serialised study context and parses the
// structured response. Parse failures from the caller propagate as
// domain.ErrSchemaViolation; they are never downgraded to defaults here.
func (a *ChunkAnalyzer) Analyze(ctx context.Context, chunk domain.ProtocolChunk, study domain.StudyDetails) (domain.ChunkAnalysis, error) {
	payload, err := json.Marshal(analyzePayload{
		Section:      chunk.SectionName(),
		Content:      chunk.Content,
		StudyContext: study,
	})
	if err != nil {
		return domain.ChunkAnalysis{}, fmt.Errorf("marshal analysis payload: %w", err)
	}

	raw, err := a.caller.CallStructured(ctx, driven.StructuredRequest{
		System:  analyzeSystemPrompt,
		Payload: string(payload),
		Schema:  analyzeChunkSchema(),
	})
	if err != nil {
		return domain.ChunkAnalysis{}, fmt.Errorf("analyze %s: %w", chunk.SectionName(), err)
	}

	var resp chunkAnalysisResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return domain.ChunkAnalysis{}, fmt.Errorf("%w: chunk analysis payload: %v", domain.ErrSchemaViolation, err)
	}

	return domain.ChunkAnalysis{
		Section:          chunk.SectionName(),
		Metrics:          resp.Metrics,
		Suggestions:      resp.Suggestions,
		ScheduleElements: resp.ScheduleElements,
	}, nil
}
