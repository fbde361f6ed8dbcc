// Package schema defines the declarative extraction schema and compiles it
// into the runtime form used by prompt composition and response validation.
package schema

import (
	"fmt"
)

// Kind is the declared type of an extraction field.
type Kind string

const (
	KindString      Kind = "string"
	KindInteger     Kind = "integer"
	KindFloat       Kind = "float"
	KindBoolean     Kind = "boolean"
	KindCategorical Kind = "categorical"
	KindStringList  Kind = "list[string]"
	KindIntegerList Kind = "list[integer]"
	KindObjectList  Kind = "list[object]"
	KindObject      Kind = "object"
)

// validKinds is the closed set of declarable kinds, in documentation order.
var validKinds = []Kind{
	KindString,
	KindInteger,
	KindFloat,
	KindBoolean,
	KindCategorical,
	KindStringList,
	KindIntegerList,
	KindObjectList,
	KindObject,
}

// IsValid reports whether k is a declarable kind.
func (k Kind) IsValid() bool {
	for _, v := range validKinds {
		if k == v {
			return true
		}
	}
	return false
}

// Property describes one key of a list[object] entry: either a primitive
// kind or an inline enumeration of allowed string values.
type Property struct {
	Kind Kind
	Enum []string
}

// FieldSpec is one declared extraction field.
type FieldSpec struct {
	Name          string
	Kind          Kind
	Required      bool
	Min           *float64 // integer/float only
	Max           *float64 // integer/float only
	AllowedValues []string // categorical only
	Properties    map[string]Property
	PropertyOrder []string // declaration order of Properties keys
	Format        string   // semantic hint, e.g. "email"
	Description   string
}

// Schema is the parsed declarative schema: a version tag plus an ordered
// field list. Immutable once compiled.
type Schema struct {
	Version int
	Fields  []FieldSpec
}

// SchemaError reports a structural violation in a declarative schema.
// Field identifies the offending variable (name, or index when the name is
// unknown); Rule is the exact constraint that was broken.
type SchemaError struct {
	Field string
	Rule  string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid schema: %s", e.Rule)
	}
	return fmt.Sprintf("invalid schema: variable %s: %s", e.Field, e.Rule)
}

func schemaErrf(field, format string, args ...any) *SchemaError {
	return &SchemaError{Field: field, Rule: fmt.Sprintf(format, args...)}
}
