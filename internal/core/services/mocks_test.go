package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/custodia-labs/protolens-cli/internal/core/ports/driven"
)

// fakeCaller is a scripted StructuredCaller. Responses are looked up by
// schema name; a respond function takes precedence when set. Calls are
// recorded under a mutex because batches invoke it concurrently.
type fakeCaller struct {
	mu        sync.Mutex
	calls     []driven.StructuredRequest
	responses map[string]json.RawMessage
	errors    map[string]error
	respond   func(req driven.StructuredRequest) (json.RawMessage, error)
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{
		responses: make(map[string]json.RawMessage),
		errors:    make(map[string]error),
	}
}

func (f *fakeCaller) CallStructured(_ context.Context, req driven.StructuredRequest) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if f.respond != nil {
		return f.respond(req)
	}
	if err, ok := f.errors[req.Schema.Name]; ok {
		return nil, err
	}
	if resp, ok := f.responses[req.Schema.Name]; ok {
		return resp, nil
	}
	return json.RawMessage(`{}`), nil
}

func (f *fakeCaller) ModelName() string { return "fake-model" }

func (f *fakeCaller) Close() error { return nil }

// callCount returns the number of recorded calls.
func (f *fakeCaller) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// callsTo returns the recorded calls for one schema name, in order.
func (f *fakeCaller) callsTo(schemaName string) []driven.StructuredRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []driven.StructuredRequest
	for _, call := range f.calls {
		if call.Schema.Name == schemaName {
			matched = append(matched, call)
		}
	}
	return matched
}
