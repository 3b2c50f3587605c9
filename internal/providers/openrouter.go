package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
)

const (
	OpenRouterName    = "openrouter"
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// OpenRouterConfig holds configuration for the OpenRouter client.
type OpenRouterConfig struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts uint          // Transport attempts per request (default: 3)
	RetryDelay  time.Duration // Base delay between attempts (default: 500ms)
}

// OpenRouterClient implements LLMClient against the OpenRouter chat API.
// It handles vendor-prefixed model ids ("anthropic/claude-sonnet-4").
type OpenRouterClient struct {
	apiKey      string
	baseURL     string
	client      *http.Client
	maxAttempts uint
	retryDelay  time.Duration
}

// NewOpenRouterClient creates a new OpenRouter client.
func NewOpenRouterClient(cfg OpenRouterConfig) *OpenRouterClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = OpenRouterBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}

	return &OpenRouterClient{
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		client:      &http.Client{Timeout: cfg.Timeout},
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
	}
}

// Name returns the client identifier.
func (c *OpenRouterClient) Name() string {
	return OpenRouterName
}

// Chat sends a single chat completion request.
func (c *OpenRouterClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	body := openRouterRequest{
		Model:          req.Model,
		Messages:       req.Messages,
		ResponseFormat: req.ResponseFormat,
	}

	resp, err := c.doRequest(ctx, "/chat/completions", &body)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, &ProviderError{Provider: OpenRouterName, Err: fmt.Errorf("no choices in response")}
	}

	result := &ChatResult{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
		Provider:         OpenRouterName,
		ModelUsed:        resp.Model,
		RequestID:        requestID,
		ExecutionTime:    time.Since(start),
	}
	if result.ModelUsed == "" {
		result.ModelUsed = req.Model
	}

	if req.ResponseFormat != nil && result.Content != "" {
		var parsed json.RawMessage
		if err := json.Unmarshal([]byte(result.Content), &parsed); err == nil {
			result.ParsedJSON = parsed
		}
	}

	return result, nil
}

// doRequest posts the request, retrying transient transport failures.
func (c *OpenRouterClient) doRequest(ctx context.Context, path string, body *openRouterRequest) (*openRouterResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &ProviderError{Provider: OpenRouterName, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	var out openRouterResponse
	err = retry.Do(
		func() error {
			httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
			}
			httpReq.Header.Set("Content-Type", "application/json")
			httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

			resp, err := c.client.Do(httpReq)
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			defer resp.Body.Close()

			data, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}

			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				return &RateLimitError{
					Message:    fmt.Sprintf("OpenRouter rate limited: %s", string(data)),
					RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
					StatusCode: resp.StatusCode,
				}
			case resp.StatusCode >= 500:
				return fmt.Errorf("OpenRouter error (status %d): %s", resp.StatusCode, string(data))
			case resp.StatusCode != http.StatusOK:
				return retry.Unrecoverable(fmt.Errorf("OpenRouter error (status %d): %s", resp.StatusCode, string(data)))
			}

			if err := json.Unmarshal(data, &out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to unmarshal response: %w", err))
			}
			return nil
		},
		retry.Attempts(c.maxAttempts),
		retry.Context(ctx),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		var rl *RateLimitError
		if errors.As(err, &rl) {
			return nil, rl
		}
		return nil, &ProviderError{Provider: OpenRouterName, Err: err}
	}

	return &out, nil
}

// OpenRouter API types

type openRouterRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type openRouterResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Verify interface
var _ LLMClient = (*OpenRouterClient)(nil)
