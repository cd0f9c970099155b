package domain

import "strconv"

// ProtocolChunk is a bounded slice of the source protocol text.
// Chunks are immutable once produced and are discarded after the
// owning analysis call completes.
type ProtocolChunk struct {
	// Index is the ordinal position within the source document.
	Index int

	// Content is the chunk text.
	Content string

	// Start is the byte offset of the chunk within the source.
	Start int

	// End is the byte offset one past the last byte of the chunk.
	End int
}

// SectionName returns the display name used to attribute metrics and
// suggestions to this chunk.
func (c ProtocolChunk) SectionName() string {
	return "Section " + strconv.Itoa(c.Index+1)
}

// StudyDetails carries the trial context supplied alongside each chunk.
// All fields are optional free text; empty fields are omitted from the
// serialised payload sent to the model.
type StudyDetails struct {
	// Title is the study title.
	Title string `json:"title,omitempty"`

	// Phase is the trial phase (e.g. "Phase II").
	Phase string `json:"phase,omitempty"`

	// Indication is the condition under study.
	Indication string `json:"indication,omitempty"`

	// Population describes the target population.
	Population string `json:"population,omitempty"`

	// PrimaryEndpoint is the primary outcome measure.
	PrimaryEndpoint string `json:"primaryEndpoint,omitempty"`
}
