package extract

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/docsift/docsift/internal/providers"
)

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}
	return path
}

func testRegistry(mock *providers.MockClient) *providers.Registry {
	r := providers.NewRegistry(nil)
	r.Register(providers.GeminiName, mock)
	return r
}

func testRequest(doc string) Request {
	return Request{
		Document: doc,
		Prompt:   "extract people",
		Model:    "gemini-2.0-flash",
		Examples: []Example{{
			Text:        "Alice lives in Wonderland.",
			Extractions: []Extraction{{Class: "entity", Text: "Alice"}},
		}},
	}
}

func TestLLMEngine_Extract(t *testing.T) {
	t.Run("successful extraction with citations", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseJSON = json.RawMessage(`{"extractions": [{"class": "entity", "text": "Bob", "attributes": {"type": "person"}}]}`)
		engine := NewLLMEngine(testRegistry(mock), nil)

		doc := writeDoc(t, "Bob met Alice. Bob left early.")
		res, err := engine.Extract(context.Background(), testRequest(doc))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}

		if len(res.Extractions) != 1 {
			t.Fatalf("len(Extractions) = %d, want 1", len(res.Extractions))
		}
		e := res.Extractions[0]
		if e.Class != "entity" || e.Text != "Bob" {
			t.Errorf("extraction = %+v", e)
		}
		if e.Attributes["type"] != "person" {
			t.Errorf("attributes = %+v", e.Attributes)
		}
		if len(e.Citations) != 1 || e.Citations[0].Start != 0 || e.Citations[0].End != 3 {
			t.Errorf("citations = %+v", e.Citations)
		}
		if res.ModelID != "gemini-2.0-flash" {
			t.Errorf("ModelID = %q", res.ModelID)
		}
		if res.Usage.TotalTokens == 0 {
			t.Error("expected non-zero usage")
		}
	})

	t.Run("document is read and sent to the model", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseJSON = json.RawMessage(`{"extractions": []}`)
		engine := NewLLMEngine(testRegistry(mock), nil)

		doc := writeDoc(t, "the document body")
		if _, err := engine.Extract(context.Background(), testRequest(doc)); err != nil {
			t.Fatalf("Extract() error = %v", err)
		}

		req := mock.LastRequest()
		if req == nil {
			t.Fatal("model was never called")
		}
		if got := req.Messages[len(req.Messages)-1].Content; got != "the document body" {
			t.Errorf("user message = %q", got)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_schema" {
			t.Errorf("ResponseFormat = %+v", req.ResponseFormat)
		}
	})

	t.Run("missing document", func(t *testing.T) {
		mock := providers.NewMockClient()
		engine := NewLLMEngine(testRegistry(mock), nil)

		req := testRequest(filepath.Join(t.TempDir(), "missing.txt"))
		_, err := engine.Extract(context.Background(), req)
		if err == nil {
			t.Fatal("expected error for missing document")
		}
		var docErr *DocumentError
		if !errors.As(err, &docErr) {
			t.Errorf("error = %T, want *DocumentError", err)
		}
		if mock.RequestCount() != 0 {
			t.Error("model must not be called when the document is unreadable")
		}
	})

	t.Run("missing credential fails before any I/O", func(t *testing.T) {
		engine := NewLLMEngine(providers.NewRegistry(nil), nil)

		doc := writeDoc(t, "content")
		_, err := engine.Extract(context.Background(), testRequest(doc))
		if err == nil {
			t.Fatal("expected credential error")
		}
		var credErr *providers.CredentialError
		if !errors.As(err, &credErr) {
			t.Fatalf("error = %T, want *CredentialError", err)
		}
	})

	t.Run("provider failure passes through untouched", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.Err = &providers.RateLimitError{Message: "rate limited"}
		engine := NewLLMEngine(testRegistry(mock), nil)

		doc := writeDoc(t, "content")
		_, err := engine.Extract(context.Background(), testRequest(doc))
		if err == nil {
			t.Fatal("expected provider error")
		}
		if err.Error() != "rate limited" {
			t.Errorf("Error() = %q, want unmodified provider message", err.Error())
		}
	})

	t.Run("unparseable model output", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseText = "I could not find anything."
		engine := NewLLMEngine(testRegistry(mock), nil)

		doc := writeDoc(t, "content")
		_, err := engine.Extract(context.Background(), testRequest(doc))
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("error = %T, want *ParseError", err)
		}
	})

	t.Run("code fenced output is recovered", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseText = "```json\n{\"extractions\": [{\"class\": \"entity\", \"text\": \"x\"}]}\n```"
		engine := NewLLMEngine(testRegistry(mock), nil)

		doc := writeDoc(t, "x marks the spot")
		res, err := engine.Extract(context.Background(), testRequest(doc))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if len(res.Extractions) != 1 {
			t.Fatalf("len(Extractions) = %d, want 1", len(res.Extractions))
		}
	})

	t.Run("payload failing schema validation", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseJSON = json.RawMessage(`{"extractions": [{"class": "entity"}]}`)
		engine := NewLLMEngine(testRegistry(mock), nil)

		doc := writeDoc(t, "content")
		_, err := engine.Extract(context.Background(), testRequest(doc))
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("error = %T, want *ParseError", err)
		}
	})

	t.Run("empty prompt rejected", func(t *testing.T) {
		mock := providers.NewMockClient()
		engine := NewLLMEngine(testRegistry(mock), nil)

		req := testRequest(writeDoc(t, "content"))
		req.Prompt = "   "
		_, err := engine.Extract(context.Background(), req)
		var reqErr *RequestError
		if !errors.As(err, &reqErr) {
			t.Errorf("error = %T, want *RequestError", err)
		}
	})

	t.Run("items without citations keep an empty slice", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseJSON = json.RawMessage(`{"extractions": [{"class": "entity", "text": "not in the doc"}]}`)
		engine := NewLLMEngine(testRegistry(mock), nil)

		doc := writeDoc(t, "something else entirely")
		res, err := engine.Extract(context.Background(), testRequest(doc))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if res.Extractions[0].Citations == nil {
			t.Error("Citations must be an empty slice, not nil")
		}
		if len(res.Extractions[0].Citations) != 0 {
			t.Errorf("Citations = %+v", res.Extractions[0].Citations)
		}
	})
}
