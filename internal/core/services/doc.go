// Package services implements the protocol analysis pipeline.
//
// Data flows strictly downward: CLI/UI -> PipelineService -> BatchRunner
// -> ChunkAnalyzer -> StructuredCaller -> LLM, and results flow back up
// through the Aggregator before reaching the caller.
//
// Services depend only on domain types and driven ports, never on
// adapters. All LLM-bound operations take a context.Context; the
// pipeline itself enforces no timeouts - those belong to the underlying
// HTTP client configuration.
package services
