package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

const (
	GeminiName         = "gemini"
	GeminiDefaultModel = "gemini-2.0-flash"
)

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey       string
	DefaultModel string
}

// GeminiClient implements LLMClient using the Google Gen AI SDK.
type GeminiClient struct {
	apiKey       string
	defaultModel string
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = GeminiDefaultModel
	}
	return &GeminiClient{
		apiKey:       cfg.APIKey,
		defaultModel: cfg.DefaultModel,
	}
}

// Name returns the client identifier.
func (c *GeminiClient) Name() string {
	return GeminiName
}

// Chat sends a single generate-content request to the Gemini API.
func (c *GeminiClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &ProviderError{Provider: GeminiName, Err: fmt.Errorf("failed to create gemini client: %w", err)}
	}

	// Gemini takes system text as a separate instruction rather than a
	// message role.
	var system, user strings.Builder
	for _, m := range req.Messages {
		if m.Role == "system" {
			system.WriteString(m.Content)
			system.WriteString("\n")
		} else {
			user.WriteString(m.Content)
		}
	}

	cfg := &genai.GenerateContentConfig{}
	if system.Len() > 0 {
		cfg.SystemInstruction = genai.NewContentFromText(system.String(), genai.RoleUser)
	}
	if req.ResponseFormat != nil {
		// The JSON shape itself is carried in the prompt and validated by
		// the caller; the MIME type keeps prose out of the response.
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(user.String()), cfg)
	if err != nil {
		return nil, &ProviderError{Provider: GeminiName, Err: err}
	}

	result := &ChatResult{
		Content:       resp.Text(),
		Provider:      GeminiName,
		ModelUsed:     model,
		RequestID:     requestID,
		ExecutionTime: time.Since(start),
	}
	if resp.ModelVersion != "" {
		result.ModelUsed = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		result.PromptTokens = int(u.PromptTokenCount)
		result.CompletionTokens = int(u.CandidatesTokenCount)
		result.TotalTokens = int(u.TotalTokenCount)
	}

	if req.ResponseFormat != nil && result.Content != "" {
		var parsed json.RawMessage
		if err := json.Unmarshal([]byte(result.Content), &parsed); err == nil {
			result.ParsedJSON = parsed
		}
	}

	return result, nil
}

// Verify interface
var _ LLMClient = (*GeminiClient)(nil)
