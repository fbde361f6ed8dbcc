package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/talentwire/cvscan/internal/schema"
)

// Record is a validated, normalized extraction result. Every schema field is
// present: scalars that could not be extracted hold nil, list fields hold an
// empty (never nil) slice.
type Record map[string]any

// ValidationError reports the first rule a response violates. The message is
// written in the prompt language because it is echoed back to the model in
// the correction addendum.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("campo '%s': %s", e.Field, e.Rule)
}

func validationErrf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Rule: fmt.Sprintf(format, args...)}
}

// Validate checks a parsed response object against the compiled schema and
// returns the normalized record. Coercion runs first; whatever remains
// invalid is rejected. Unknown keys are rejected before field checks.
// Validation is idempotent: a returned Record validates to itself.
func Validate(obj map[string]any, cs *schema.Compiled) (Record, error) {
	var unknown []string
	for k := range obj {
		if _, ok := cs.Kind(k); !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, validationErrf(unknown[0], "campo desconocido, no está en el esquema")
	}

	rec := make(Record, len(cs.FieldNames()))
	for _, name := range cs.FieldNames() {
		spec, _ := cs.Spec(name)
		value, err := validateField(spec, obj[name])
		if err != nil {
			return nil, err
		}
		rec[name] = value
	}
	return rec, nil
}

func validateField(spec *schema.FieldSpec, raw any) (any, error) {
	switch spec.Kind {
	case schema.KindString:
		return requireScalar(spec, coerceString(raw))

	case schema.KindInteger:
		v, err := requireScalar(spec, coerceInteger(raw))
		if err != nil || v == nil {
			return v, err
		}
		return v, checkBounds(spec, float64(v.(int64)))

	case schema.KindFloat:
		v, err := requireScalar(spec, coerceFloat(raw))
		if err != nil || v == nil {
			return v, err
		}
		return v, checkBounds(spec, v.(float64))

	case schema.KindBoolean:
		return requireScalar(spec, coerceBoolean(raw))

	case schema.KindCategorical:
		v, err := requireScalar(spec, coerceString(raw))
		if err != nil || v == nil {
			return v, err
		}
		s := v.(string)
		for _, allowed := range spec.AllowedValues {
			if s == allowed {
				return s, nil
			}
		}
		return nil, validationErrf(spec.Name, "valor '%s' no permitido (permitidos: %s)",
			s, strings.Join(spec.AllowedValues, ", "))

	case schema.KindStringList:
		return validateList(spec, raw, coerceString)

	case schema.KindIntegerList:
		return validateList(spec, raw, coerceInteger)

	case schema.KindObjectList:
		items := asList(raw)
		out := make([]any, 0, len(items))
		for _, item := range items {
			obj, err := validateObjectItem(spec, item)
			if err != nil {
				return nil, err
			}
			if obj != nil {
				out = append(out, obj)
			}
		}
		if len(out) == 0 && spec.Required {
			return nil, validationErrf(spec.Name, "requerido pero ausente o vacío")
		}
		return out, nil

	case schema.KindObject:
		if raw == nil {
			if spec.Required {
				return nil, validationErrf(spec.Name, "requerido pero ausente o null")
			}
			return nil, nil
		}
		return validateObjectItem(spec, raw)

	default:
		return nil, validationErrf(spec.Name, "tipo no soportado: %s", spec.Kind)
	}
}

// requireScalar enforces the required flag after coercion.
func requireScalar(spec *schema.FieldSpec, coerced any) (any, error) {
	if coerced == nil && spec.Required {
		return nil, validationErrf(spec.Name, "requerido pero ausente o null")
	}
	return coerced, nil
}

func checkBounds(spec *schema.FieldSpec, v float64) error {
	if spec.Min != nil && v < *spec.Min {
		return validationErrf(spec.Name, "valor %v fuera de rango (min=%v)", v, *spec.Min)
	}
	if spec.Max != nil && v > *spec.Max {
		return validationErrf(spec.Name, "valor %v fuera de rango (max=%v)", v, *spec.Max)
	}
	return nil
}

// asList normalizes raw to a slice. Scalars wrap into a one-element list;
// nil becomes the empty list.
func asList(raw any) []any {
	switch x := raw.(type) {
	case nil:
		return []any{}
	case []any:
		return x
	default:
		return []any{raw}
	}
}

func validateList(spec *schema.FieldSpec, raw any, coerce func(any) any) (any, error) {
	items := asList(raw)
	out := make([]any, 0, len(items))
	for _, item := range items {
		if v := coerce(item); v != nil {
			out = append(out, v)
		}
	}
	if len(out) == 0 && spec.Required {
		return nil, validationErrf(spec.Name, "requerido pero ausente o vacío")
	}
	return out, nil
}

// validateObjectItem coerces the declared properties of one object item.
// Undeclared properties are dropped; an item with no usable properties
// is dropped entirely.
func validateObjectItem(spec *schema.FieldSpec, raw any) (map[string]any, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		if s := coerceString(raw); s != nil && len(spec.PropertyOrder) > 0 {
			// A bare string stands in for the first declared property.
			return map[string]any{spec.PropertyOrder[0]: s}, nil
		}
		return nil, validationErrf(spec.Name, "elemento no es un objeto")
	}

	out := make(map[string]any, len(spec.PropertyOrder))
	usable := false
	for _, prop := range spec.PropertyOrder {
		p := spec.Properties[prop]
		var v any
		switch p.Kind {
		case schema.KindInteger:
			v = coerceInteger(m[prop])
		case schema.KindFloat:
			v = coerceFloat(m[prop])
		case schema.KindBoolean:
			v = coerceBoolean(m[prop])
		default:
			v = coerceString(m[prop])
			if v != nil && len(p.Enum) > 0 && !contains(p.Enum, v.(string)) {
				v = nil
			}
		}
		out[prop] = v
		if v != nil {
			usable = true
		}
	}
	if !usable {
		return nil, nil
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
