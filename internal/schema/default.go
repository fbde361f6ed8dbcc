package schema

import "fmt"

// experienceFieldBySpecialty maps a specialty to the name of its
// experience-confirmation field in the default schema.
var experienceFieldBySpecialty = map[string]string{
	"electricista":    "experiencia_electricista_confirmada",
	"electromecanico": "experiencia_electromecanico_confirmada",
	"mecanico":        "experiencia_mecanico_industrial_confirmada",
	"pañolero":        "experiencia_pañol_depositos_confirmada",
	"personalizado":   "experiencia_confirmada",
}

// ExperienceField returns the experience-confirmation field name for a
// specialty, falling back to the generic name for unknown specialties.
func ExperienceField(specialty string) string {
	if f, ok := experienceFieldBySpecialty[specialty]; ok {
		return f
	}
	return "experiencia_confirmada"
}

// DefaultSchema returns the built-in CV extraction schema as YAML, with the
// experience field named for the given specialty.
func DefaultSchema(specialty string) []byte {
	return []byte(fmt.Sprintf(defaultSchemaTemplate, ExperienceField(specialty)))
}

const defaultSchemaTemplate = `version: 1
variables:
  # Información de contacto
  - name: nombre
    type: string
    required: false
  - name: mail
    type: string
    format: email
    required: false
  - name: telefono
    type: string
    required: false

  # Información del CV
  - name: hay_foto_en_cv
    type: boolean
    required: false

  # Educación
  - name: primaria_completa
    type: boolean
    required: true
  - name: secundaria_completa
    type: boolean
    required: true
  - name: secundaria_tecnica
    type: boolean
    required: false
    description: Indica si el secundario cursado fue una escuela técnica
  - name: titulo_secundario
    type: string
    required: false
    description: Título obtenido en el secundario (ej. "Técnico Electromecánico", "Bachiller", "Técnico Electricista", etc.)
  - name: terciario_completo
    type: boolean
    required: false

  # Experiencia laboral
  - name: %s
    type: boolean
    required: true
  - name: años_experiencia
    type: integer
    min: 0
    max: 50
    required: false

  # Ubicación y edad
  - name: edad
    type: integer
    min: 18
    max: 80
    required: false
    description: Edad del candidato en años
  - name: localidad_residencia
    type: string
    required: false
    description: Localidad o ciudad donde reside el candidato
  - name: lugar_residencia_proximo
    type: boolean
    required: false
    description: Indica si reside cerca de la ubicación objetivo
  - name: edad_en_rango
    type: boolean
    required: false
    description: Indica si la edad está en el rango deseado

  # Evaluación y comentarios
  - name: score_general
    type: integer
    min: 1
    max: 10
    required: true
    description: Puntaje general del candidato evaluado del 1 al 10 basado en experiencia, educación y adecuación al perfil
  - name: observaciones
    type: string
    required: false
    description: Resumen del perfil en máximo 3 oraciones destacando aspectos no capturados en otros campos

  # Campos adicionales opcionales
  - name: idiomas
    type: list[object]
    properties:
      idioma: string
      nivel: string
    required: false
  - name: otros_oficios_tecnicos
    type: list[string]
    required: false
    description: Listado de otros conocimientos técnicos o oficios que posee el candidato
`
