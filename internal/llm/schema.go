package llm

import (
	"encoding/json"

	"github.com/google/generative-ai-go/genai"
)

// Schema is a provider-neutral subset of JSON Schema used to constrain
// structured completions.
type Schema struct {
	Type                 string             `json:"type"`
	Description          string             `json:"description,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Enum                 []string           `json:"enum,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
}

// EnumObject returns a closed object schema with one required string
// property restricted to values.
func EnumObject(property string, values []string) *Schema {
	closed := false
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			property: {Type: "string", Enum: values},
		},
		Required:             []string{property},
		AdditionalProperties: &closed,
	}
}

// JSON returns the JSON Schema document.
func (s *Schema) JSON() ([]byte, error) {
	return json.Marshal(s)
}

// toGenai converts the schema to the Gemini representation. Gemini has no
// additionalProperties keyword; it is dropped.
func (s *Schema) toGenai() *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
		Items:       s.Items.toGenai(),
	}
	if len(s.Enum) > 0 {
		out.Format = "enum"
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = prop.toGenai()
		}
	}
	return out
}

func genaiType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}
