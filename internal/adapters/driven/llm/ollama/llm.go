// Package ollama provides a StructuredCaller adapter using a local Ollama instance.
package ollama

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
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.1"
	DefaultTimeout = 300 * time.Second // Local inference can be slow
)

// Config holds configuration for the Ollama structured caller.
type Config struct {
	// BaseURL is the Ollama endpoint (default: http://localhost:11434).
	BaseURL string

	// Model is the model to use (default: llama3.1).
	Model string

	// Timeout is the request timeout (default: 300s).
	Timeout time.Duration

	// RateLimit bounds outgoing requests. Zero uses the shared default.
	RateLimit llm.RateLimitConfig
}

// StructuredCaller issues schema-constrained calls to Ollama using its
// structured output (format) support. No API key is required.
type StructuredCaller struct {
	client  *http.Client
	limiter *llm.RateLimiter
	baseURL string
	model   string
}

// chatRequest is the Ollama /api/chat request format.
type chatRequest struct {
	Model    string               `json:"model"`
	Messages []chatMessage        `json:"messages"`
	Format   driven.ParameterSpec `json:"format"`
	Stream   bool                 `json:"stream"`
	Options  map[string]any       `json:"options,omitempty"`
}

// chatMessage is the Ollama message format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the Ollama /api/chat response format.
type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Error string `json:"error,omitempty"`
}

// NewStructuredCaller creates a new Ollama structured caller.
func NewStructuredCaller(cfg Config) (*StructuredCaller, error) {
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
		model:   cfg.Model,
	}, nil
}

// CallStructured sends one request constrained by the schema's parameter
// tree and returns the message content as parsed JSON. Content that does
// not parse as JSON fails with domain.ErrSchemaViolation.
func (s *StructuredCaller) CallStructured(ctx context.Context, req driven.StructuredRequest) (json.RawMessage, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Payload})

	reqBody := chatRequest{
		Model:    s.model,
		Messages: messages,
		Format:   req.Schema.Parameters,
		Stream:   false,
	}
	if req.Temperature > 0 {
		reqBody.Options = map[string]any{"temperature": req.Temperature}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/api/chat",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != "" {
		return nil, fmt.Errorf("ollama error: %s", chatResp.Error)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	content := []byte(chatResp.Message.Content)
	if len(content) == 0 || !json.Valid(content) {
		return nil, fmt.Errorf("%w: response content is not valid JSON", domain.ErrSchemaViolation)
	}

	return json.RawMessage(content), nil
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
