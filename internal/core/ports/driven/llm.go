package driven

import (
	"context"
	"encoding/json"
)

// StructuredCaller issues a single schema-constrained request to an LLM.
//
// The provider is instructed to satisfy the declared schema via one
// structured tool/function call; the response carries the call arguments
// as JSON. A response lacking the structured payload, or whose payload
// does not parse as JSON, fails with domain.ErrSchemaViolation. The
// caller has no authority to downgrade that failure to defaults - the
// decision belongs to whoever invoked it.
//
// Implementations make exactly one network call per invocation and never
// retry internally. The handle is immutable once constructed; a
// credential change requires a fresh instance, never in-place mutation
// while calls are outstanding.
type StructuredCaller interface {
	// CallStructured sends one request and returns the raw structured
	// payload for the caller to parse into its expected type.
	CallStructured(ctx context.Context, req StructuredRequest) (json.RawMessage, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// StructuredRequest describes one schema-constrained model call.
type StructuredRequest struct {
	// System is the system instruction.
	System string

	// Payload is the single user message (plain text or serialised JSON).
	Payload string

	// Schema declares the required output shape.
	Schema ToolSchema

	// MaxTokens caps the response size. Zero selects a provider default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

// ToolSchema names a structured output contract.
type ToolSchema struct {
	// Name identifies the tool/function the model must call.
	Name string

	// Description tells the model what the tool is for.
	Description string

	// Parameters is the JSON-Schema-like parameter tree.
	Parameters ParameterSpec
}

// ParameterSpec is one node of a JSON-Schema-like parameter tree.
type ParameterSpec struct {
	// Type is the JSON type ("object", "array", "string", "number",
	// "boolean", "integer").
	Type string `json:"type"`

	// Description documents the parameter for the model.
	Description string `json:"description,omitempty"`

	// Properties lists child parameters of an object node.
	Properties map[string]ParameterSpec `json:"properties,omitempty"`

	// Items describes the element type of an array node.
	Items *ParameterSpec `json:"items,omitempty"`

	// Enum restricts a string node to fixed values.
	Enum []string `json:"enum,omitempty"`

	// Required lists the mandatory properties of an object node.
	Required []string `json:"required,omitempty"`
}

// Object builds an object spec with the given properties and required list.
func Object(props map[string]ParameterSpec, required ...string) ParameterSpec {
	return ParameterSpec{Type: "object", Properties: props, Required: required}
}

// Array builds an array spec with the given element type.
func Array(items ParameterSpec) ParameterSpec {
	return ParameterSpec{Type: "array", Items: &items}
}

// String builds a string spec.
func String(description string) ParameterSpec {
	return ParameterSpec{Type: "string", Description: description}
}

// StringEnum builds a string spec restricted to fixed values.
func StringEnum(description string, values ...string) ParameterSpec {
	return ParameterSpec{Type: "string", Description: description, Enum: values}
}

// Number builds a number spec.
func Number(description string) ParameterSpec {
	return ParameterSpec{Type: "number", Description: description}
}

// Boolean builds a boolean spec.
func Boolean(description string) ParameterSpec {
	return ParameterSpec{Type: "boolean", Description: description}
}
