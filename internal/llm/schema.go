package llm

import "encoding/json"

// SchemaType is the JSON type of a schema node.
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeBoolean SchemaType = "boolean"
)

// Schema is a provider-neutral description of the shape the model must
// return. Each adapter converts it to its SDK's native form (genai
// response schema, OpenAI json_schema response format). It covers only
// the shapes this service asks for: objects, arrays and scalars.
type Schema struct {
	// Name labels the schema for providers that require a named
	// response format. Only meaningful on the root node.
	Name string

	Type        SchemaType
	Description string

	// Properties and Required apply when Type is TypeObject.
	Properties map[string]*Schema
	Required   []string

	// Items applies when Type is TypeArray.
	Items *Schema
}

// JSONSchema renders the node as a JSON Schema document, the form the
// OpenAI structured-output API accepts. Objects are closed
// (additionalProperties false) so the model cannot smuggle extra
// fields past strict mode.
func (s *Schema) JSONSchema() json.RawMessage {
	raw, _ := json.Marshal(s.jsonSchemaNode())
	return raw
}

func (s *Schema) jsonSchemaNode() map[string]any {
	node := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		node["description"] = s.Description
	}
	if s.Type == TypeObject {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = p.jsonSchemaNode()
		}
		node["properties"] = props
		node["additionalProperties"] = false
		if len(s.Required) > 0 {
			node["required"] = s.Required
		}
	}
	if s.Type == TypeArray && s.Items != nil {
		node["items"] = s.Items.jsonSchemaNode()
	}
	return node
}
