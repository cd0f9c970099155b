// Package domain defines the core business entities for Protolens.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ProtocolChunk: A bounded slice of protocol text analysed independently
//   - SectionMetrics: Bounded quality scores for one protocol section
//   - Suggestion: A single AI-generated protocol recommendation
//   - StudySchedule: Merged visit schedule with per-visit procedures
//   - AnalysisResult: The aggregate output of a full protocol analysis
//   - FinalDocuments: The generated protocol text and optimised schedule
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
