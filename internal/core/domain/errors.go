package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrCredentialMissing indicates no API credential is configured.
	// Analysis must fail before any network call is attempted.
	ErrCredentialMissing = errors.New("LLM credential missing")

	// ErrSchemaViolation indicates the model response did not carry the
	// declared structured payload, or the payload failed to parse as JSON.
	// This is never downgraded to a default value by the caller.
	ErrSchemaViolation = errors.New("structured output schema violation")

	// ErrEmptyProtocol indicates the protocol content was empty or blank.
	ErrEmptyProtocol = errors.New("protocol content is empty")

	// ErrNoAnalysis indicates document generation was requested without
	// a prior analysis result.
	ErrNoAnalysis = errors.New("no analysis result available")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

// BatchError reports the failure of one chunk analysis within a batch.
// Any BatchError fails the whole analysis: partial results are discarded,
// never returned degraded.
type BatchError struct {
	// ChunkIndex is the ordinal of the chunk whose analysis failed.
	ChunkIndex int

	// Err is the underlying analysis error.
	Err error
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	return fmt.Sprintf("chunk %d analysis failed: %v", e.ChunkIndex, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *BatchError) Unwrap() error {
	return e.Err
}
