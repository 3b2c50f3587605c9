package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is an LLMClient for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	Err          error
	ResponseText string
	ResponseJSON json.RawMessage
	ModelUsed    string

	// State
	requestCount atomic.Int64
	lastRequest  atomic.Pointer[ChatRequest]
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: "mock response",
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Chat returns the scripted response.
func (c *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)
	c.lastRequest.Store(req)

	if c.Err != nil {
		return nil, c.Err
	}

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	result := &ChatResult{
		Content:   c.ResponseText,
		Provider:  MockClientName,
		ModelUsed: c.ModelUsed,
		RequestID: fmt.Sprintf("mock-%d", count),
	}
	if result.ModelUsed == "" {
		result.ModelUsed = req.Model
	}

	// Rough token estimate so usage plumbing is exercised.
	for _, m := range req.Messages {
		result.PromptTokens += len(m.Content) / 4
	}
	result.CompletionTokens = len(result.Content) / 4
	result.TotalTokens = result.PromptTokens + result.CompletionTokens
	result.ExecutionTime = time.Since(start)

	if req.ResponseFormat != nil && len(c.ResponseJSON) > 0 {
		result.ParsedJSON = c.ResponseJSON
		result.Content = string(c.ResponseJSON)
	}

	return result, nil
}

// RequestCount returns the number of requests made.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// LastRequest returns the most recent request, or nil.
func (c *MockClient) LastRequest() *ChatRequest {
	return c.lastRequest.Load()
}

// Verify interface
var _ LLMClient = (*MockClient)(nil)
