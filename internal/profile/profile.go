// Package profile holds the domain configuration that parameterizes prompt
// text for a hiring position: specialty, locale, search radius and the
// scoring rubric. A Profile is owned by the caller and never mutated by the
// pipeline, so it is safe to share across concurrent workers.
package profile

// Profile is the extraction context for one position.
type Profile struct {
	// Specialty is a named template ("electricista", "mecanico", ...) or
	// "personalizado" for a caller-defined position.
	Specialty string

	// Title of the position, shown in the prompt header.
	Title string

	// Locale is the position's locality; empty means no location context.
	Locale string

	// RadiusKm is the acceptable commute radius around Locale.
	RadiusKm int

	// ExperienceField is the schema field name that confirms relevant
	// experience for this specialty.
	ExperienceField string

	// ExperienceDescription describes what counts as relevant experience.
	ExperienceDescription string

	// Exclusions describes experience that must NOT count; empty means none.
	Exclusions string

	// AgeRange is the desired candidate age range as "min-max".
	AgeRange string

	// RelevantSkills and RelevantIndustries feed the score rubric context.
	RelevantSkills     string
	RelevantIndustries string

	// ScoreCriteria is the rubric included verbatim in the prompt. Empty
	// selects DefaultScoreCriteria.
	ScoreCriteria string

	// Overrides replaces template fields for the "personalizado" specialty.
	Overrides map[string]string
}

// templates are the built-in specialty profiles.
var templates = map[string]Profile{
	"electricista": {
		Specialty:             "electricista",
		Title:                 "Electricista de Mantenimiento Industrial",
		ExperienceField:       "experiencia_electricista_confirmada",
		ExperienceDescription: "trabajo previo con tareas de mantenimiento eléctrico, electricidad industrial, electrónica industrial",
		Exclusions:            "electricidad de obra de construcción",
		AgeRange:              "25-45",
		RelevantSkills:        "PLC, electricidad industrial, neumática, electrónica",
		RelevantIndustries:    "fábricas industriales y rubros afines alimenticio",
	},
	"electromecanico": {
		Specialty:             "electromecanico",
		Title:                 "Electromecánico de Mantenimiento Industrial",
		ExperienceField:       "experiencia_electromecanico_confirmada",
		ExperienceDescription: "trabajo previo con tareas de mantenimiento electromecánico industrial",
		Exclusions:            "electricidad de obra de construcción",
		AgeRange:              "25-45",
		RelevantSkills:        "PLC, electricidad industrial, neumática, electromecánica",
		RelevantIndustries:    "fábricas industriales y rubros afines alimenticio",
	},
	"mecanico": {
		Specialty:             "mecanico",
		Title:                 "Mecánico Industrial",
		ExperienceField:       "experiencia_mecanico_industrial_confirmada",
		ExperienceDescription: "trabajo previo con tareas de mantenimiento mecánico, soldador industrial",
		Exclusions:            "mecánico de obra de construcción",
		AgeRange:              "25-45",
		RelevantSkills:        "soldadura de caños pequeñas medidas, soldaduras piping",
		RelevantIndustries:    "fábricas industriales",
	},
	"pañolero": {
		Specialty:             "pañolero",
		Title:                 "Pañolero Industrial",
		ExperienceField:       "experiencia_pañol_depositos_confirmada",
		ExperienceDescription: "trabajo previo con tareas de pañol industrial, depósitos",
		Exclusions:            "",
		AgeRange:              "25-50",
		RelevantSkills:        "PLC, electricidad industrial, neumática, electrónica, hidráulica",
		RelevantIndustries:    "fábricas industriales y rubros afines alimenticio",
	},
	"personalizado": {
		Specialty:       "personalizado",
		ExperienceField: "experiencia_confirmada",
		AgeRange:        "25-45",
	},
}

// Specialties lists the built-in named specialties, excluding the custom one.
func Specialties() []string {
	return []string{"electricista", "electromecanico", "mecanico", "pañolero"}
}

// Options configures profile construction.
type Options struct {
	Locale        string
	RadiusKm      int
	ScoreCriteria string
	Overrides     map[string]string
}

// New builds a Profile for the given specialty. Unknown specialties fall
// back to the custom template. For the custom specialty, Overrides may
// replace the title, experience description and exclusions.
func New(specialty string, opts Options) *Profile {
	tmpl, ok := templates[specialty]
	if !ok {
		tmpl = templates["personalizado"]
	}
	p := tmpl // copy

	p.Locale = opts.Locale
	p.RadiusKm = opts.RadiusKm
	if p.RadiusKm <= 0 {
		p.RadiusKm = 10
	}
	p.ScoreCriteria = opts.ScoreCriteria
	if p.ScoreCriteria == "" {
		p.ScoreCriteria = DefaultScoreCriteria
	}

	if len(opts.Overrides) > 0 {
		p.Overrides = opts.Overrides
		if p.Specialty == "personalizado" {
			if v, ok := opts.Overrides["titulo"]; ok {
				p.Title = v
			}
			if v, ok := opts.Overrides["experiencia_campo"]; ok {
				p.ExperienceField = v
			}
			if v, ok := opts.Overrides["descripcion_experiencia"]; ok {
				p.ExperienceDescription = v
			}
			if v, ok := opts.Overrides["exclusiones"]; ok {
				p.Exclusions = v
			}
			if v, ok := opts.Overrides["rango_edad"]; ok {
				p.AgeRange = v
			}
		}
	}

	return &p
}

// DefaultScoreCriteria is the rubric used when the caller provides none.
const DefaultScoreCriteria = `Criterios para el score (1-10):

Educación relevante (hasta 2 puntos):
• +1 si culminó el secundario
• +1 si el secundario es técnico

Experiencia (hasta 4 puntos):
• +1 si tiene más de 2 años
• +1 si tiene más de 3 años
• +1 si trabajó en fábricas industriales y rubros afines
• +1 si tuvo responsabilidades específicas o lideró tareas

Claridad y presentación del CV (hasta 1 punto):
• 1 punto si está bien organizado, con fechas y descripciones claras

Conocimientos técnicos (hasta 2 puntos):
• Presencia de conocimientos relevantes para la posición

Ubicación geográfica (hasta 1 punto):
• +1 si reside en la zona objetivo o radio cercano

Penalizaciones:
• -2 puntos si el candidato tiene 2 o más oficios NO relacionados a la especialidad (ej: plomero, durlero, gasista, etc.)`
