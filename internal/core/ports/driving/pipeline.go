package driving

import (
	"context"

	"github.com/custodia-labs/protolens-cli/internal/core/domain"
)

// ProtocolPipeline is the single entry point external collaborators use
// to run protocol analysis and document generation. It owns no UI state.
type ProtocolPipeline interface {
	// AnalyzeProtocol chunks the protocol text, analyses every chunk
	// with bounded concurrency, and folds the per-chunk outputs into
	// one consistent result. Any single chunk failure fails the whole
	// call; no partial result is returned.
	AnalyzeProtocol(ctx context.Context, content string, study domain.StudyDetails) (*domain.AnalysisResult, error)

	// GenerateFinalDocuments regenerates a polished protocol and, when
	// includeSchedule is set, an optimised visit schedule, then
	// cross-validates the two for internal consistency. The analysis
	// result must come from a prior AnalyzeProtocol call.
	GenerateFinalDocuments(ctx context.Context, content string, selectedSuggestionIDs []string, includeSchedule bool, analysis *domain.AnalysisResult) (*domain.FinalDocuments, error)
}
