// Package bridge shapes extraction results and failures into the two JSON
// documents consumers of the CLI depend on: the success object on stdout
// and the error object on stderr.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/docsift/docsift/internal/extract"
)

// Output is the success document.
type Output struct {
	Extractions []OutputExtraction `json:"extractions"`
	Model       string             `json:"model"`
	Usage       extract.Usage      `json:"usage"`
}

// OutputExtraction mirrors one engine extraction verbatim.
type OutputExtraction struct {
	Class      string             `json:"class"`
	Text       string             `json:"text"`
	Attributes map[string]any     `json:"attributes"`
	Citations  []extract.Citation `json:"citations"`
}

// ErrorOutput is the failure document.
type ErrorOutput struct {
	Error string `json:"error"`
	Type  string `json:"type"`
}

// Build maps an engine result onto the output schema. Extraction order and
// count are preserved exactly; nil citation slices become empty ones so
// they serialize as [] rather than null.
func Build(res *extract.Result) *Output {
	out := &Output{
		Extractions: make([]OutputExtraction, 0, len(res.Extractions)),
		Model:       res.ModelID,
		Usage:       res.Usage,
	}
	for _, ext := range res.Extractions {
		citations := ext.Citations
		if citations == nil {
			citations = []extract.Citation{}
		}
		out.Extractions = append(out.Extractions, OutputExtraction{
			Class:      ext.Class,
			Text:       ext.Text,
			Attributes: ext.Attributes,
			Citations:  citations,
		})
	}
	return out
}

// WriteResult pretty-prints the success document.
func WriteResult(w io.Writer, res *extract.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Build(res)); err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}
	return nil
}

// WriteError shapes any failure as the stderr JSON contract.
func WriteError(w io.Writer, err error) {
	_ = json.NewEncoder(w).Encode(ErrorOutput{
		Error: err.Error(),
		Type:  kindOf(err),
	})
}

// kinder is implemented by typed errors that name their own kind.
type kinder interface{ Kind() string }

// kindOf names an error for the "type" field. Errors without a Kind fall
// back to their bare Go type name.
func kindOf(err error) string {
	var k kinder
	if errors.As(err, &k) {
		return k.Kind()
	}

	name := strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
