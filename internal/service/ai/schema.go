package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/kaptinlin/jsonrepair"
	"google.golang.org/genai"

	"lingovibe/backend/internal/model"
)

// ErrSchemaViolation is returned when a structured reply cannot be parsed
// into the requested shape.
var ErrSchemaViolation = errors.New("response does not match schema")

// Schema is a JSON schema derived from a Go type, resolved for validation.
type Schema struct {
	Name     string
	schema   *jsonschema.Schema
	resolved *jsonschema.Resolved
}

// NewSchema infers the schema of T.
func NewSchema[T any](name string) (*Schema, error) {
	s, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("infer schema %s: %w", name, err)
	}
	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve schema %s: %w", name, err)
	}
	return &Schema{Name: name, schema: s, resolved: resolved}, nil
}

func mustSchema[T any](name string) *Schema {
	s, err := NewSchema[T](name)
	if err != nil {
		panic(err)
	}
	return s
}

// DefinitionSchema is the structured reply of a dictionary lookup.
var DefinitionSchema = mustSchema[model.Definition]("dictionary_entry")

// Map returns the schema as a generic JSON object, the form OpenAI expects.
func (s *Schema) Map() map[string]any {
	data, err := json.Marshal(s.schema)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}

// String returns the schema as indented JSON, for prompt-enforced providers.
func (s *Schema) String() string {
	data, err := json.MarshalIndent(s.schema, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

// Gemini converts the schema to the genai form.
func (s *Schema) Gemini() *genai.Schema {
	return geminiSchema(s.schema)
}

func geminiSchema(schema *jsonschema.Schema) *genai.Schema {
	if schema == nil {
		return nil
	}

	gs := &genai.Schema{
		Description: schema.Description,
		Items:       geminiSchema(schema.Items),
		Required:    schema.Required,
	}

	if n := len(schema.Properties); n > 0 {
		gs.Properties = make(map[string]*genai.Schema, n)
		for k, prop := range schema.Properties {
			gs.Properties[k] = geminiSchema(prop)
		}
		gs.PropertyOrdering = schema.PropertyOrder
	}

	typ := schema.Type
	if typ == "" {
		for _, t := range schema.Types {
			if t == "null" {
				gs.Nullable = genai.Ptr(true)
				continue
			}
			typ = t
		}
	}
	switch typ {
	case "object":
		gs.Type = genai.TypeObject
	case "array":
		gs.Type = genai.TypeArray
	case "string":
		gs.Type = genai.TypeString
	case "number":
		gs.Type = genai.TypeNumber
	case "integer":
		gs.Type = genai.TypeInteger
	case "boolean":
		gs.Type = genai.TypeBoolean
	}
	return gs
}

// Decode parses raw model output into v. Markdown fences are stripped,
// malformed JSON is repaired, and the result must validate against s.
func (s *Schema) Decode(raw string, v any) error {
	text := stripCodeFence(raw)
	if text == "" {
		return fmt.Errorf("%w: empty response", ErrSchemaViolation)
	}

	var instance any
	if err := json.Unmarshal([]byte(text), &instance); err != nil {
		var syntaxErr *json.SyntaxError
		if !errors.As(err, &syntaxErr) {
			return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
		}
		fixed, rerr := jsonrepair.JSONRepair(text)
		if rerr != nil {
			return fmt.Errorf("%w: repair: %v", ErrSchemaViolation, rerr)
		}
		text = fixed
		if err := json.Unmarshal([]byte(text), &instance); err != nil {
			return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
		}
	}

	if err := s.resolved.Validate(instance); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	return nil
}

// ParseDefinition decodes a define reply.
func ParseDefinition(raw string) (*model.Definition, error) {
	var def model.Definition
	if err := DefinitionSchema.Decode(raw, &def); err != nil {
		return nil, err
	}
	if def.Examples == nil {
		def.Examples = []model.ExampleSentence{}
	}
	return &def, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	lines = lines[1:]
	if n := len(lines); n > 0 && strings.TrimSpace(lines[n-1]) == "```" {
		lines = lines[:n-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// requiredKeys lists the top-level required properties, sorted.
func (s *Schema) requiredKeys() []string {
	keys := slices.Clone(s.schema.Required)
	slices.Sort(keys)
	return keys
}
