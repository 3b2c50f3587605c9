// Package providers contains the LLM clients the extraction engine routes
// requests to, plus the registry that picks a client for a model id.
package providers

import (
	"context"
	"encoding/json"
	"time"
)

// LLMClient is the interface every model provider implements.
type LLMClient interface {
	// Chat sends a single chat completion request.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g. "gemini").
	Name() string
}

// Message is one chat message.
type Message struct {
	Role    string `json:"role"` // "system" or "user"
	Content string `json:"content"`
}

// ResponseFormat asks the provider for structured output. JSONSchema uses
// the OpenAI-style {"name": ..., "schema": {...}} envelope.
type ResponseFormat struct {
	Type       string          `json:"type"` // "json_schema"
	JSONSchema json.RawMessage `json:"json_schema,omitempty"`
}

// ChatRequest is a request to an LLM.
type ChatRequest struct {
	Messages []Message

	// Model selection (client default if empty).
	Model string

	// Structured output.
	ResponseFormat *ResponseFormat

	// Request tracking.
	RequestID string
}

// ChatResult is the response from an LLM call.
type ChatResult struct {
	Content    string
	ParsedJSON json.RawMessage // Parsed if ResponseFormat was set and output was valid JSON

	// Token counts
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int

	ExecutionTime time.Duration

	// Provider info
	Provider  string
	ModelUsed string
	RequestID string
}
