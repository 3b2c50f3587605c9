package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/docsift/docsift/internal/extract"
	"github.com/docsift/docsift/internal/providers"
)

func TestBuild_PreservesOrderAndLength(t *testing.T) {
	res := &extract.Result{
		Extractions: []extract.Extraction{
			{Class: "entity", Text: "first"},
			{Class: "date", Text: "second"},
			{Class: "entity", Text: "third"},
		},
		ModelID: "gemini-2.0-flash",
	}

	out := Build(res)

	if len(out.Extractions) != 3 {
		t.Fatalf("len(Extractions) = %d, want 3", len(out.Extractions))
	}
	for i, want := range []string{"first", "second", "third"} {
		if out.Extractions[i].Text != want {
			t.Errorf("Extractions[%d].Text = %q, want %q", i, out.Extractions[i].Text, want)
		}
	}
	if out.Model != "gemini-2.0-flash" {
		t.Errorf("Model = %q", out.Model)
	}
}

func TestBuild_NilCitationsSerializeAsEmptyArray(t *testing.T) {
	res := &extract.Result{
		Extractions: []extract.Extraction{
			{Class: "entity", Text: "no citations", Citations: nil},
		},
	}

	raw, err := json.Marshal(Build(res))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(raw), `"citations":[]`) {
		t.Errorf("expected empty citations array, got %s", raw)
	}
	if strings.Contains(string(raw), `"citations":null`) {
		t.Errorf("citations must never be null, got %s", raw)
	}
}

func TestWriteResult_OutputSchema(t *testing.T) {
	res := &extract.Result{
		Extractions: []extract.Extraction{
			{
				Class:      "entity",
				Text:       "Alice",
				Attributes: map[string]any{"type": "person"},
				Citations:  []extract.Citation{{Start: 0, End: 5, Text: "Alice"}},
			},
		},
		ModelID: "gemini-2.0-flash",
		Usage:   extract.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}

	var buf bytes.Buffer
	if err := WriteResult(&buf, res); err != nil {
		t.Fatalf("WriteResult() error = %v", err)
	}

	// Pretty-printed output
	if !strings.HasPrefix(buf.String(), "{\n  \"extractions\"") {
		t.Errorf("expected indented output, got %q", buf.String()[:40])
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, key := range []string{"extractions", "model", "usage"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}

	extractions := decoded["extractions"].([]any)
	item := extractions[0].(map[string]any)
	citations := item["citations"].([]any)
	citation := citations[0].(map[string]any)
	start := citation["start"].(float64)
	end := citation["end"].(float64)
	if start > end {
		t.Errorf("citation start %v > end %v", start, end)
	}
}

func TestWriteError_Shape(t *testing.T) {
	t.Run("typed error", func(t *testing.T) {
		var buf bytes.Buffer
		WriteError(&buf, &providers.RateLimitError{Message: "rate limited"})

		var out ErrorOutput
		if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
			t.Fatalf("stderr output is not valid JSON: %v", err)
		}
		if out.Error != "rate limited" {
			t.Errorf("Error = %q, want %q", out.Error, "rate limited")
		}
		if out.Type != "RateLimitError" {
			t.Errorf("Type = %q, want RateLimitError", out.Type)
		}
	})

	t.Run("untyped error falls back to type name", func(t *testing.T) {
		var buf bytes.Buffer
		WriteError(&buf, errors.New("boom"))

		var out ErrorOutput
		if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
			t.Fatalf("stderr output is not valid JSON: %v", err)
		}
		if out.Error != "boom" {
			t.Errorf("Error = %q", out.Error)
		}
		if out.Type != "errorString" {
			t.Errorf("Type = %q, want errorString", out.Type)
		}
	})

	t.Run("wrapped typed error keeps kind", func(t *testing.T) {
		var buf bytes.Buffer
		WriteError(&buf, &extract.DocumentError{Path: "x.txt", Err: errors.New("open x.txt: no such file")})

		var out ErrorOutput
		if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
			t.Fatalf("stderr output is not valid JSON: %v", err)
		}
		if out.Type != "DocumentError" {
			t.Errorf("Type = %q, want DocumentError", out.Type)
		}
	})
}
