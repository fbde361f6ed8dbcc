package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Compiled is the validated, runtime-usable form of a Schema. It carries the
// canonical field order used for prompt rendering and output columns, plus a
// name→kind table used by coercion and validation. Never mutated after
// Compile returns.
type Compiled struct {
	version    int
	fields     []FieldSpec
	kinds      map[string]Kind
	specs      map[string]*FieldSpec
	jsonSchema json.RawMessage
}

// Compile parses a declarative YAML schema and validates it structurally.
// Validation order: top-level shape, per-field required keys, name
// uniqueness, kind-specific constraints. Any violation fails immediately
// with a *SchemaError; a partially valid schema is never returned.
func Compile(source []byte) (*Compiled, error) {
	var raw struct {
		Version   *int  `yaml:"version"`
		Variables []any `yaml:"variables"`
	}
	if err := yaml.Unmarshal(source, &raw); err != nil {
		return nil, &SchemaError{Rule: fmt.Sprintf("not valid YAML: %v", err)}
	}
	if raw.Version == nil {
		return nil, &SchemaError{Rule: "missing 'version' tag"}
	}
	if raw.Variables == nil {
		return nil, &SchemaError{Rule: "missing 'variables' list"}
	}

	s := Schema{Version: *raw.Version}
	seen := make(map[string]struct{}, len(raw.Variables))
	for i, v := range raw.Variables {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, schemaErrf(fmt.Sprintf("#%d", i), "must be a mapping")
		}
		field, err := parseField(m, i, seen)
		if err != nil {
			return nil, err
		}
		s.Fields = append(s.Fields, *field)
	}

	c := &Compiled{
		version: s.Version,
		fields:  s.Fields,
		kinds:   make(map[string]Kind, len(s.Fields)),
		specs:   make(map[string]*FieldSpec, len(s.Fields)),
	}
	for i := range c.fields {
		f := &c.fields[i]
		c.kinds[f.Name] = f.Kind
		c.specs[f.Name] = f
	}

	doc, err := c.buildJSONSchema()
	if err != nil {
		return nil, err
	}
	c.jsonSchema = doc

	// Compiling the derived JSON Schema catches any malformed rendering
	// before a single document is processed.
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(doc)); err != nil {
		return nil, &SchemaError{Rule: fmt.Sprintf("derived JSON schema rejected: %v", err)}
	}
	if _, err := compiler.Compile("schema.json"); err != nil {
		return nil, &SchemaError{Rule: fmt.Sprintf("derived JSON schema does not compile: %v", err)}
	}

	return c, nil
}

func parseField(m map[string]any, index int, seen map[string]struct{}) (*FieldSpec, error) {
	pos := fmt.Sprintf("#%d", index)

	name, ok := m["name"].(string)
	if !ok || name == "" {
		return nil, schemaErrf(pos, "missing 'name' key")
	}
	if _, dup := seen[name]; dup {
		return nil, schemaErrf(name, "duplicate variable name")
	}
	seen[name] = struct{}{}

	kindStr, ok := m["type"].(string)
	if !ok || kindStr == "" {
		return nil, schemaErrf(name, "missing 'type' key")
	}
	kind := Kind(kindStr)
	if !kind.IsValid() {
		return nil, schemaErrf(name, "unknown type %q", kindStr)
	}

	f := &FieldSpec{Name: name, Kind: kind}

	if req, present := m["required"]; present {
		b, ok := req.(bool)
		if !ok {
			return nil, schemaErrf(name, "'required' must be a boolean")
		}
		f.Required = b
	}
	if format, present := m["format"]; present {
		str, ok := format.(string)
		if !ok {
			return nil, schemaErrf(name, "'format' must be a string")
		}
		f.Format = str
	}
	if desc, present := m["description"]; present {
		str, ok := desc.(string)
		if !ok {
			return nil, schemaErrf(name, "'description' must be a string")
		}
		f.Description = str
	}

	if err := parseBounds(f, m); err != nil {
		return nil, err
	}

	switch kind {
	case KindCategorical:
		values, err := stringList(m["allowed_values"])
		if err != nil || len(values) == 0 {
			return nil, schemaErrf(name, "categorical requires a non-empty 'allowed_values' list of strings")
		}
		f.AllowedValues = values

	case KindObjectList:
		props, ok := m["properties"].(map[string]any)
		if !ok || len(props) == 0 {
			return nil, schemaErrf(name, "list[object] requires a non-empty 'properties' mapping")
		}
		f.Properties = make(map[string]Property, len(props))
		for propName, propVal := range props {
			p, err := parseProperty(propVal)
			if err != nil {
				return nil, schemaErrf(name, "property %q: %v", propName, err)
			}
			f.Properties[propName] = p
			f.PropertyOrder = append(f.PropertyOrder, propName)
		}
		// yaml.v3 decodes mappings into unordered maps; keep the property
		// listing deterministic for prompts and JSON schema output.
		sort.Strings(f.PropertyOrder)
	}

	return f, nil
}

func parseBounds(f *FieldSpec, m map[string]any) error {
	for _, key := range []string{"min", "max"} {
		v, present := m[key]
		if !present {
			continue
		}
		if f.Kind != KindInteger && f.Kind != KindFloat {
			return schemaErrf(f.Name, "'%s' is only valid for integer/float fields", key)
		}
		n, ok := asNumber(v)
		if !ok {
			return schemaErrf(f.Name, "'%s' must be a number", key)
		}
		if key == "min" {
			f.Min = &n
		} else {
			f.Max = &n
		}
	}
	if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
		return schemaErrf(f.Name, "'min' (%v) exceeds 'max' (%v)", *f.Min, *f.Max)
	}
	return nil
}

// parseProperty accepts three forms: a bare kind string ("string"), an enum
// list (["a", "b"]), or a mapping ({type: string, enum: [...]}).
func parseProperty(v any) (Property, error) {
	switch pv := v.(type) {
	case string:
		return primitiveProperty(pv)
	case []any:
		enum, err := stringList(pv)
		if err != nil || len(enum) == 0 {
			return Property{}, fmt.Errorf("enum must be a non-empty list of strings")
		}
		return Property{Kind: KindString, Enum: enum}, nil
	case map[string]any:
		kindStr, ok := pv["type"].(string)
		if !ok || kindStr == "" {
			return Property{}, fmt.Errorf("mapping form requires a 'type' string")
		}
		p, err := primitiveProperty(kindStr)
		if err != nil {
			return Property{}, err
		}
		if raw, present := pv["enum"]; present {
			if p.Kind != KindString {
				return Property{}, fmt.Errorf("enum is only valid for string properties")
			}
			enum, err := stringList(raw)
			if err != nil || len(enum) == 0 {
				return Property{}, fmt.Errorf("enum must be a non-empty list of strings")
			}
			p.Enum = enum
		}
		return p, nil
	default:
		return Property{}, fmt.Errorf("must be a primitive kind, an enum list or a mapping")
	}
}

func primitiveProperty(kindStr string) (Property, error) {
	kind := Kind(kindStr)
	switch kind {
	case KindString, KindInteger, KindFloat, KindBoolean:
		return Property{Kind: kind}, nil
	}
	return Property{}, fmt.Errorf("unknown primitive kind %q", kindStr)
}

func stringList(v any) ([]string, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("not a list")
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("not a list of strings")
		}
		out = append(out, s)
	}
	return out, nil
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Version returns the schema format version tag.
func (c *Compiled) Version() int { return c.version }

// Fields returns the canonical ordered field list. Callers must not mutate
// the returned slice.
func (c *Compiled) Fields() []FieldSpec { return c.fields }

// FieldNames returns the canonical field name order.
func (c *Compiled) FieldNames() []string {
	names := make([]string, len(c.fields))
	for i, f := range c.fields {
		names[i] = f.Name
	}
	return names
}

// Spec returns the field spec for name.
func (c *Compiled) Spec(name string) (*FieldSpec, bool) {
	f, ok := c.specs[name]
	return f, ok
}

// Kind returns the declared kind for name.
func (c *Compiled) Kind(name string) (Kind, bool) {
	k, ok := c.kinds[name]
	return k, ok
}

// JSONSchema returns the draft-07 JSON Schema derived from the compiled
// schema, suitable as a provider response_format or for external tooling.
func (c *Compiled) JSONSchema() json.RawMessage { return c.jsonSchema }

// buildJSONSchema renders the compiled schema as a draft-07 document with
// additionalProperties:false so hallucinated keys are rejected.
func (c *Compiled) buildJSONSchema() (json.RawMessage, error) {
	properties := make(map[string]any, len(c.fields))
	var required []string

	for _, f := range c.fields {
		prop := fieldProperty(f)
		if !f.Required {
			prop = map[string]any{"anyOf": []any{prop, map[string]any{"type": "null"}}}
		} else {
			required = append(required, f.Name)
		}
		properties[f.Name] = prop
	}

	doc := map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		doc["required"] = required
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, &SchemaError{Rule: fmt.Sprintf("failed to serialize JSON schema: %v", err)}
	}
	return out, nil
}

func fieldProperty(f FieldSpec) map[string]any {
	prop := map[string]any{}

	switch f.Kind {
	case KindString:
		prop["type"] = "string"
		if f.Format != "" {
			prop["format"] = f.Format
		}
	case KindInteger:
		prop["type"] = "integer"
		if f.Min != nil {
			prop["minimum"] = *f.Min
		}
		if f.Max != nil {
			prop["maximum"] = *f.Max
		}
	case KindFloat:
		prop["type"] = "number"
		if f.Min != nil {
			prop["minimum"] = *f.Min
		}
		if f.Max != nil {
			prop["maximum"] = *f.Max
		}
	case KindBoolean:
		prop["type"] = "boolean"
	case KindCategorical:
		prop["type"] = "string"
		prop["enum"] = f.AllowedValues
	case KindStringList:
		prop["type"] = "array"
		prop["items"] = map[string]any{"type": "string"}
	case KindIntegerList:
		prop["type"] = "array"
		prop["items"] = map[string]any{"type": "integer"}
	case KindObjectList:
		itemProps := make(map[string]any, len(f.Properties))
		for name, p := range f.Properties {
			if len(p.Enum) > 0 {
				itemProps[name] = map[string]any{"type": "string", "enum": p.Enum}
			} else {
				itemProps[name] = map[string]any{"type": jsonType(p.Kind)}
			}
		}
		prop["type"] = "array"
		prop["items"] = map[string]any{"type": "object", "properties": itemProps}
	case KindObject:
		prop["type"] = "object"
	}

	if f.Description != "" {
		prop["description"] = f.Description
	}
	return prop
}

func jsonType(k Kind) string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "number"
	case KindBoolean:
		return "boolean"
	default:
		return "string"
	}
}

// PromptLines renders the schema one line per field in canonical order,
// annotated with type, required/optional tag and bounds/enum. The rendering
// is byte-deterministic for identical schemas.
func (c *Compiled) PromptLines() []string {
	lines := make([]string, 0, len(c.fields)+2)
	lines = append(lines, "Esquema JSON requerido:", "{")

	for _, f := range c.fields {
		var b strings.Builder
		fmt.Fprintf(&b, "  %q: ", f.Name)

		switch f.Kind {
		case KindString:
			b.WriteString(`"string"`)
			if f.Format != "" {
				fmt.Fprintf(&b, " (formato %s)", f.Format)
			}
		case KindBoolean:
			b.WriteString("true o false")
		case KindInteger:
			b.WriteString("number (entero)")
			b.WriteString(boundsNote(f))
		case KindFloat:
			b.WriteString("number (decimal)")
			b.WriteString(boundsNote(f))
		case KindCategorical:
			quoted := make([]string, len(f.AllowedValues))
			for i, v := range f.AllowedValues {
				quoted[i] = fmt.Sprintf("%q", v)
			}
			fmt.Fprintf(&b, "uno de: [%s]", strings.Join(quoted, ", "))
		case KindStringList:
			b.WriteString(`["string", ...]`)
		case KindIntegerList:
			b.WriteString("[number, ...]")
		case KindObjectList:
			keys := make([]string, 0, len(f.PropertyOrder))
			for _, name := range f.PropertyOrder {
				keys = append(keys, fmt.Sprintf("%q: %s", name, propertyNote(f.Properties[name])))
			}
			fmt.Fprintf(&b, "[{%s}, ...]", strings.Join(keys, ", "))
		default:
			b.WriteString(string(f.Kind))
		}

		if f.Required {
			b.WriteString(" [REQUERIDO]")
		} else {
			b.WriteString(" [opcional, puede ser null]")
		}
		if f.Description != "" {
			fmt.Fprintf(&b, "  // %s", f.Description)
		}
		lines = append(lines, b.String())
	}

	lines = append(lines, "}")
	return lines
}

func boundsNote(f FieldSpec) string {
	var parts []string
	if f.Min != nil {
		parts = append(parts, fmt.Sprintf("min=%s", trimFloat(*f.Min)))
	}
	if f.Max != nil {
		parts = append(parts, fmt.Sprintf("max=%s", trimFloat(*f.Max)))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf(" (%s)", strings.Join(parts, ", "))
}

func propertyNote(p Property) string {
	if len(p.Enum) > 0 {
		quoted := make([]string, len(p.Enum))
		for i, v := range p.Enum {
			quoted[i] = fmt.Sprintf("%q", v)
		}
		return fmt.Sprintf("uno de [%s]", strings.Join(quoted, ", "))
	}
	return string(p.Kind)
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%v", v)
	return strings.TrimSuffix(s, ".0")
}
