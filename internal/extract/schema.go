package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// resultSchemaCore constrains the payload the model must return. The same
// document is used for provider-side structured output and local
// validation.
var resultSchemaCore = json.RawMessage(`{
  "type": "object",
  "properties": {
    "extractions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "class": {"type": "string"},
          "text": {"type": "string"},
          "attributes": {"type": "object"}
        },
        "required": ["class", "text"],
        "additionalProperties": false
      }
    }
  },
  "required": ["extractions"],
  "additionalProperties": false
}`)

// wrappedResultSchema returns the schema in the name/schema envelope that
// OpenAI-style response_format parameters expect.
func wrappedResultSchema() json.RawMessage {
	wrapper := map[string]json.RawMessage{
		"name":   json.RawMessage(`"extraction_result"`),
		"schema": resultSchemaCore,
	}
	raw, err := json.Marshal(wrapper)
	if err != nil {
		// The wrapper is built from constants; this cannot fail at runtime.
		panic(err)
	}
	return raw
}

// validatePayload checks parsed model output against the canonical schema.
func validatePayload(payload json.RawMessage) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("extraction.json", bytes.NewReader(resultSchemaCore)); err != nil {
		return fmt.Errorf("failed to load extraction schema: %w", err)
	}
	schema, err := compiler.Compile("extraction.json")
	if err != nil {
		return fmt.Errorf("failed to compile extraction schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return fmt.Errorf("failed to decode extraction payload: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("extraction payload does not match schema: %w", err)
	}
	return nil
}
