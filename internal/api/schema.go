package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema names a JSON schema definition.
type Schema struct {
	Name       string
	Definition map[string]any
}

var resourceSchema = &Schema{
	Name: "resource",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"object", "data"},
		"properties": map[string]any{
			"object": map[string]any{"type": "string"},
			"data":   map[string]any{"type": "object"},
		},
	},
}

var collectionSchema = &Schema{
	Name: "collection",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"object", "data"},
		"properties": map[string]any{
			"object": map[string]any{"const": "collection"},
			"pages": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"next_url": map[string]any{"type": []any{"string", "null"}},
				},
			},
			"data": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"id", "object", "data"},
					"properties": map[string]any{
						"id":     map[string]any{"type": "integer"},
						"object": map[string]any{"type": "string"},
						"data":   map[string]any{"type": "object"},
					},
				},
			},
		},
	},
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateBody checks raw JSON against the schema. Returns
// *ErrInvalidResponse on failure.
func validateBody(schema *Schema, raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidResponse{Body: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compiledSchema(schema)
	if err != nil {
		return &ErrInvalidResponse{Body: raw, Err: fmt.Errorf("compile schema %q: %w", schema.Name, err)}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &ErrInvalidResponse{Body: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

func compiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a plain decoded value, so round-trip through JSON.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var def any
	if err := json.Unmarshal(defBytes, &def); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
