// Package openai provides a StructuredCaller adapter using the OpenAI API.
package openai

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
	DefaultBaseURL   = "https://api.openai.com"
	DefaultModel     = "gpt-4o"
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 4096
)

// Config holds configuration for the OpenAI structured caller.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com).
	BaseURL string

	// Model is the model to use (default: gpt-4o).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// RateLimit bounds outgoing requests. Zero uses the shared default.
	RateLimit llm.RateLimitConfig
}

// StructuredCaller issues schema-constrained calls to the OpenAI API
// via forced function calling.
type StructuredCaller struct {
	client  *http.Client
	limiter *llm.RateLimiter
	baseURL string
	apiKey  string
	model   string
}

// chatRequest is the OpenAI /v1/chat/completions request format.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Tools       []chatTool    `json:"tools"`
	ToolChoice  any           `json:"tool_choice"`
}

// chatMessage is the OpenAI message format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatTool declares one callable function.
type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

// chatFunction is the function definition inside a tool.
type chatFunction struct {
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Parameters  driven.ParameterSpec `json:"parameters"`
}

// chatResponse is the OpenAI /v1/chat/completions response format.
type chatResponse struct {
	Choices []struct {
		Message struct {
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewStructuredCaller creates a new OpenAI structured caller.
// A missing API key fails immediately, before any network call.
func NewStructuredCaller(cfg Config) (*StructuredCaller, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: %w", domain.ErrCredentialMissing)
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
// function call arguments. A response without the expected tool call, or
// with arguments that do not parse as JSON, fails with
// domain.ErrSchemaViolation; no retry is performed.
func (s *StructuredCaller) CallStructured(ctx context.Context, req driven.StructuredRequest) (json.RawMessage, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Payload})

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	reqBody := chatRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		Tools: []chatTool{{
			Type: "function",
			Function: chatFunction{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Parameters:  req.Schema.Parameters,
			},
		}},
		ToolChoice: map[string]any{
			"type":     "function",
			"function": map[string]string{"name": req.Schema.Name},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/v1/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

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

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != nil {
		return nil, fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}

	for _, choice := range chatResp.Choices {
		for _, call := range choice.Message.ToolCalls {
			if call.Function.Name != req.Schema.Name {
				continue
			}
			args := call.Function.Arguments
			if args == "" || !json.Valid([]byte(args)) {
				return nil, fmt.Errorf("%w: tool call arguments are not valid JSON", domain.ErrSchemaViolation)
			}
			return json.RawMessage(args), nil
		}
	}

	return nil, fmt.Errorf("%w: no tool call for %q in response", domain.ErrSchemaViolation, req.Schema.Name)
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
