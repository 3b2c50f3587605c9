package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// exampleExtraction is the shape extractions take inside rendered example
// output: no citations, those are computed after the fact.
type exampleExtraction struct {
	Class      string         `json:"class"`
	Text       string         `json:"text"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// systemPrompt renders the extraction instructions with the example set as
// demonstration input/output pairs.
func systemPrompt(task string, examples []Example) string {
	var b strings.Builder

	b.WriteString("You extract structured facts from documents.\n\n")
	b.WriteString("Task: ")
	b.WriteString(strings.TrimSpace(task))
	b.WriteString("\n\n")
	b.WriteString("Respond with a single JSON object of the form\n")
	b.WriteString(`{"extractions": [{"class": "...", "text": "...", "attributes": {...}}]}`)
	b.WriteString("\n")
	b.WriteString("Rules:\n")
	b.WriteString("- \"text\" must quote the source document verbatim.\n")
	b.WriteString("- \"class\" is a short label for the kind of fact.\n")
	b.WriteString("- \"attributes\" holds any additional structured detail.\n")
	b.WriteString("- Return an empty extractions array if nothing matches.\n")

	for i, ex := range examples {
		fmt.Fprintf(&b, "\nExample %d input:\n%s\n", i+1, ex.Text)
		fmt.Fprintf(&b, "Example %d output:\n%s\n", i+1, renderExampleOutput(ex))
	}

	return b.String()
}

func renderExampleOutput(ex Example) string {
	items := make([]exampleExtraction, 0, len(ex.Extractions))
	for _, e := range ex.Extractions {
		items = append(items, exampleExtraction{
			Class:      e.Class,
			Text:       e.Text,
			Attributes: e.Attributes,
		})
	}

	raw, err := json.Marshal(map[string]any{"extractions": items})
	if err != nil {
		// Examples are plain data; marshaling them cannot fail.
		panic(err)
	}
	return string(raw)
}
