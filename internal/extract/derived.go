package extract

// DerivedKey is the record key holding the pre-approval flag. It is computed
// locally from validated signals, never asked of the model.
const DerivedKey = "preaprobado"

// experienceProbe lists the specialty experience fields, most specific
// first. The generic signal name resolves to whichever one the schema has.
var experienceProbe = []string{
	"experiencia_electricista_confirmada",
	"experiencia_electromecanico_confirmada",
	"experiencia_mecanico_industrial_confirmada",
	"experiencia_pañol_depositos_confirmada",
	"experiencia_confirmada",
}

// DerivedRule configures the pre-approval computation: every signal field
// must be true. A missing or null signal counts as false.
type DerivedRule struct {
	Signals []string
}

// DefaultDerivedRule returns the standard four-signal rule: age in range,
// confirmed relevant experience, photo present, technical secondary school.
func DefaultDerivedRule() DerivedRule {
	return DerivedRule{
		Signals: []string{
			"edad_en_rango",
			"experiencia_confirmada",
			"hay_foto_en_cv",
			"secundaria_tecnica",
		},
	}
}

// ComputeDerived evaluates the rule over a validated record.
func ComputeDerived(rec Record, rule DerivedRule) bool {
	if len(rule.Signals) == 0 {
		return false
	}
	for _, signal := range rule.Signals {
		if !toBool(resolveSignal(rec, signal)) {
			return false
		}
	}
	return true
}

// resolveSignal reads a signal field. The generic experience signal falls
// back to the specialty-specific field actually present in the record.
func resolveSignal(rec Record, name string) any {
	if v, ok := rec[name]; ok && v != nil {
		return v
	}
	if name == "experiencia_confirmada" {
		for _, candidate := range experienceProbe {
			if v, ok := rec[candidate]; ok && v != nil {
				return v
			}
		}
	}
	return nil
}

// toBool reads a signal through the boolean vocabulary, so a custom rule may
// point at a field the schema declares as integer or string. Anything outside
// the vocabulary counts as false.
func toBool(v any) bool {
	b, ok := coerceBoolean(v).(bool)
	return ok && b
}
