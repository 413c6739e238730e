package llm

import "sort"

// StructuredOutput names a response schema for structured output mode.
type StructuredOutput struct {
	Name   string
	Schema *Schema
}

// Schema is the subset of JSON Schema both providers understand.
type Schema struct {
	Type        string // object, array, string, number, integer, boolean
	Description string
	Properties  map[string]*Schema
	Required    []string
	Items       *Schema
	MaxItems    int
}

// JSONSchema renders s as a JSON Schema document. Objects are closed (additionalProperties false)
// and every property is required, which strict modes demand.
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": s.Type}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if s.Type == "object" {
		props := make(map[string]any, len(s.Properties))
		required := make([]string, 0, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = p.JSONSchema()
			required = append(required, name)
		}
		out["properties"] = props
		sort.Strings(required)
		out["required"] = required
		out["additionalProperties"] = false
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}
	return out
}
