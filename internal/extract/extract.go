// Package extract defines the structured-extraction data contract and the
// engine boundary the CLI drives: one request in, one ordered result out.
package extract

import "context"

// Request describes a single extraction run. It is immutable once
// constructed and lives for exactly one process run.
type Request struct {
	// Document is the path to the source document. The engine, not the
	// caller, is responsible for reading it.
	Document string

	// Prompt is the natural-language description of what to extract.
	Prompt string

	// Model is the model identifier to request.
	Model string

	// Examples guide the model's output shape. At least one is required.
	Examples []Example
}

// Example is a demonstration given to the model: a sample text and the
// extractions it should produce for that text.
type Example struct {
	Text        string
	Extractions []Extraction
}

// Extraction is one structured fact pulled from a document.
type Extraction struct {
	Class      string         `json:"class"`
	Text       string         `json:"text"`
	Attributes map[string]any `json:"attributes"`

	// Citations anchor the extraction in the source document. Items the
	// engine could not anchor carry an empty slice, never nil.
	Citations []Citation `json:"citations"`
}

// Citation is a byte-offset span into the source document supporting an
// extraction. Start <= End; End is exclusive.
type Citation struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Usage is the token accounting reported by the model provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Result is what an engine returns for one request. Extractions keep the
// order the model produced them in.
type Result struct {
	Extractions []Extraction
	ModelID     string
	Usage       Usage
}

// Engine performs one synchronous extraction. Implementations may do
// network I/O; callers see exactly success or failure, nothing in between.
type Engine interface {
	Extract(ctx context.Context, req Request) (*Result, error)
}
