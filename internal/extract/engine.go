package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/docsift/docsift/internal/providers"
)

// LLMEngine implements Engine on top of the provider registry. It is the
// collaborator the CLI treats as a black box: it reads the document, builds
// the few-shot prompt, performs exactly one model call, and post-processes
// the response into a Result.
type LLMEngine struct {
	registry *providers.Registry
	logger   *slog.Logger
}

// NewLLMEngine creates an engine backed by the given provider registry.
func NewLLMEngine(registry *providers.Registry, logger *slog.Logger) *LLMEngine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LLMEngine{
		registry: registry,
		logger:   logger,
	}
}

// Extract runs one extraction. The provider client is resolved before any
// I/O so a missing credential fails fast, ahead of the network call.
func (e *LLMEngine) Extract(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, &RequestError{Err: fmt.Errorf("prompt must not be empty")}
	}
	if len(req.Examples) == 0 {
		return nil, &RequestError{Err: fmt.Errorf("at least one example is required")}
	}

	client, err := e.registry.ClientFor(req.Model)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(req.Document)
	if err != nil {
		return nil, &DocumentError{Path: req.Document, Err: err}
	}
	doc := string(data)

	chatReq := &providers.ChatRequest{
		Model: req.Model,
		Messages: []providers.Message{
			{Role: "system", Content: systemPrompt(req.Prompt, req.Examples)},
			{Role: "user", Content: doc},
		},
		ResponseFormat: &providers.ResponseFormat{
			Type:       "json_schema",
			JSONSchema: wrappedResultSchema(),
		},
	}

	e.logger.Debug("invoking extraction",
		"provider", client.Name(),
		"model", req.Model,
		"document", req.Document,
		"document_bytes", len(data))

	res, err := client.Chat(ctx, chatReq)
	if err != nil {
		return nil, err
	}

	payload := res.ParsedJSON
	if len(payload) == 0 {
		payload, err = parseModelJSON(res.Content)
		if err != nil {
			return nil, &ParseError{Err: err}
		}
	}
	if err := validatePayload(payload); err != nil {
		return nil, &ParseError{Err: err}
	}

	var wire struct {
		Extractions []struct {
			Class      string         `json:"class"`
			Text       string         `json:"text"`
			Attributes map[string]any `json:"attributes"`
		} `json:"extractions"`
	}
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("malformed extraction payload: %w", err)}
	}

	extractions := make([]Extraction, 0, len(wire.Extractions))
	for _, w := range wire.Extractions {
		extractions = append(extractions, Extraction{
			Class:      w.Class,
			Text:       w.Text,
			Attributes: w.Attributes,
			Citations:  []Citation{},
		})
	}
	alignCitations(doc, extractions)

	model := res.ModelUsed
	if model == "" {
		model = req.Model
	}

	e.logger.Debug("extraction complete",
		"extractions", len(extractions),
		"model", model,
		"total_tokens", res.TotalTokens)

	return &Result{
		Extractions: extractions,
		ModelID:     model,
		Usage: Usage{
			PromptTokens:     res.PromptTokens,
			CompletionTokens: res.CompletionTokens,
			TotalTokens:      res.TotalTokens,
		},
	}, nil
}

// Verify interface
var _ Engine = (*LLMEngine)(nil)
