// Package anthropic provides a StructuredCaller adapter using the Anthropic API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/protolens-cli/internal/adapters/driven/llm"
	"github.com/custodia-labs/protolens-cli/internal/core/domain"
	"github.com/custodia-labs/protolens-cli/internal/core/ports/driven"
)

// Ensure StructuredCaller implements the interface.
var _ driven.StructuredCaller = (*StructuredCaller)(nil)

// Default configuration values.
const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-5-sonnet-latest"
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 4096

	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"
)

// Config holds configuration for the Anthropic structured caller.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the model to use (default: claude-3-5-sonnet-latest).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// RateLimit bounds outgoing requests. Zero uses the shared default.
	RateLimit llm.RateLimitConfig
}

// StructuredCaller issues schema-constrained calls to the Anthropic API.
// The handle is immutable once constructed; a credential change requires
// a fresh instance.
type StructuredCaller struct {
	client  *http.Client
	limiter *llm.RateLimiter
	baseURL string
	apiKey  string
	model   string
}

// messagesRequest is the Anthropic /v1/messages request format.
type messagesRequest struct {
	Model       string            `json:"model"`
	Messages    []messagesMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	System      string            `json:"system,omitempty"`
	Temperature float64           `json:"temperature,omitempty"`
	Tools       []toolDefinition  `json:"tools"`
	ToolChoice  toolChoice        `json:"tool_choice"`
}

// messagesMessage is the Anthropic message format.
type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// toolDefinition declares one tool the model must call.
type toolDefinition struct {
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	InputSchema driven.ParameterSpec `json:"input_schema"`
}

// toolChoice forces the model to call the named tool.
type toolChoice struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// messagesResponse is the Anthropic /v1/messages response format.
type messagesResponse struct {
	Content []struct {
		Type  string          `json:"type"`
		Text  string          `json:"text"`
		Name  string          `json:"name"`
		Input json.RawMessage `json:"input"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewStructuredCaller creates a new Anthropic structured caller.
// A missing API key fails immediately, before any network call.
func NewStructuredCaller(cfg Config) (*StructuredCaller, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: %w", domain.ErrCredentialMissing)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &StructuredCaller{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: llm.NewRateLimiter(cfg.RateLimit),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// CallStructured sends one schema-constrained request and returns the
// tool call arguments. A response without the expected tool_use block
// fails with domain.ErrSchemaViolation; no retry is performed.
func (s *StructuredCaller) CallStructured(ctx context.Context, req driven.StructuredRequest) (json.RawMessage, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	reqBody := messagesRequest{
		Model:     s.model,
		Messages:  []messagesMessage{{Role: "user", Content: req.Payload}},
		MaxTokens: maxTokens,
		System:    req.System,
		Tools: []toolDefinition{{
			Name:        req.Schema.Name,
			Description: req.Schema.Description,
			InputSchema: req.Schema.Parameters,
		}},
		ToolChoice: toolChoice{Type: "tool", Name: req.Schema.Name},
	}
	if req.Temperature > 0 {
		reqBody.Temperature = req.Temperature
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/v1/messages",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", s.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		s.limiter.RecordRateLimitError(0)
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if msgResp.Error != nil {
		return nil, fmt.Errorf("anthropic error: %s", msgResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anthropic error (status %d): %s", resp.StatusCode, string(body))
	}

	for _, block := range msgResp.Content {
		if block.Type == "tool_use" && block.Name == req.Schema.Name {
			if len(block.Input) == 0 || !json.Valid(block.Input) {
				return nil, fmt.Errorf("%w: tool_use input is not valid JSON", domain.ErrSchemaViolation)
			}
			return block.Input, nil
		}
	}

	return nil, fmt.Errorf("%w: no tool_use block for %q in response", domain.ErrSchemaViolation, req.Schema.Name)
}

// ModelName returns the name of the model being used.
func (s *StructuredCaller) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *StructuredCaller) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
