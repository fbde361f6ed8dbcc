// Package prompt renders the compiled schema and domain profile into the
// system/user instruction pair sent to the model. Composition is
// byte-deterministic: identical inputs always produce identical prompts.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/talentwire/cvscan/internal/profile"
	"github.com/talentwire/cvscan/internal/schema"
)

// MaxSourceChars bounds the CV text embedded in a prompt. Longer documents
// are truncated at the character boundary; a known precision/cost trade-off.
const MaxSourceChars = 10000

// maxCorrectionExcerpt bounds how much of a failed response is echoed back
// in the correction addendum.
const maxCorrectionExcerpt = 500

// systemInstructions is the fixed response contract.
const systemInstructions = `Sos un analista de recursos humanos especializado en perfiles técnicos.
Tu tarea es analizar el contenido de UN SOLO CV y devolver un JSON con información estructurada del candidato.

IMPORTANTE:
- Debes responder EXCLUSIVAMENTE con JSON válido
- No incluyas explicaciones, comentarios ni texto adicional
- El JSON debe cumplir exactamente con el esquema proporcionado
- Si un campo no puede deducirse con alta confianza, usa null, false o lista vacía []
- Para campos numéricos, usa números (no strings)
- Para campos booleanos, usa true o false (no strings)
- Para campos categorical, usa exactamente uno de los valores permitidos
- Sé preciso y conservador: mejor null/false que inventar información
- Si un campo no se menciona explícitamente, asumí que es falso o null`

// extractionInstructions is the fixed guidance for ambiguous cases.
var extractionInstructions = []string{
	"Instrucciones adicionales:",
	"• Para 'edad': extrae la edad en años si se menciona explícitamente",
	"• Para 'localidad_residencia': extrae la localidad/ciudad donde reside (ej: 'Lanús, Buenos Aires')",
	"• Para 'años_experiencia': suma todos los años de experiencia laboral relevante",
	"• Para 'idiomas': extrae idioma y nivel (si se menciona)",
	"• Para emails y teléfonos: extrae exactamente como aparecen",
	"• Para 'observaciones': escribe un resumen del perfil en MÁXIMO 3 oraciones destacando:",
	"  - Aspectos relevantes NO capturados en otros campos",
	"  - Soft skills o habilidades interpersonales mencionadas",
	"  - Proyectos especiales, logros o certificaciones adicionales",
	"• Si no encuentras información para un campo, usa null, false o [] (no inventes)",
}

// Compose builds the system and user instructions for one extraction.
// Section order is fixed: header, locale context, rendered schema, specialty
// field definitions, score rubric, extraction instructions, source text,
// closing JSON-only reminder.
func Compose(text string, cs *schema.Compiled, p *profile.Profile) (system, user string) {
	var b strings.Builder

	writeHeader(&b, p)
	b.WriteString("\n")

	for _, line := range cs.PromptLines() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	writeFieldDefinitions(&b, p)
	b.WriteString("\n")

	writeScoreInstructions(&b, p)
	b.WriteString("\n")

	for _, line := range extractionInstructions {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("Texto del CV a analizar:\n---\n")
	b.WriteString(Truncate(text, MaxSourceChars))
	b.WriteString("\n---\n\n")
	b.WriteString("Responde SOLO con el JSON, sin explicaciones adicionales.")

	return systemInstructions, b.String()
}

func writeHeader(b *strings.Builder, p *profile.Profile) {
	title := p.Title
	if title == "" {
		title = "Perfil Técnico"
	}
	fmt.Fprintf(b, "Vas a analizar un CV para una posición de: %s\n", title)

	if p.Locale != "" {
		fmt.Fprintf(b, "Ubicación de la posición: %s, Argentina\n", p.Locale)
		fmt.Fprintf(b, "Radio aceptable: %d km\n", p.RadiusKm)
	}
}

func writeFieldDefinitions(b *strings.Builder, p *profile.Profile) {
	b.WriteString("Definiciones para campos específicos:\n\n")
	b.WriteString("• primaria_completa: true si se menciona finalización de estudios primarios\n")
	b.WriteString("• secundaria_completa: true si terminó la secundaria (aclarar si es escuela técnica)\n")
	b.WriteString("• terciario_completo: true si cursó y finalizó una tecnicatura relacionada\n")
	fmt.Fprintf(b, "• %s: true si se menciona %s y se puede corroborar con fechas o descripciones\n",
		p.ExperienceField, p.ExperienceDescription)
	if p.Exclusions != "" {
		fmt.Fprintf(b, "  False si menciona %s\n", p.Exclusions)
	}

	if lo, hi, ok := splitAgeRange(p.AgeRange); ok {
		fmt.Fprintf(b, "• edad_en_rango: true si edad está entre %s y %s años, false en otro caso\n", lo, hi)
	}
	fmt.Fprintf(b, "• lugar_residencia_proximo: true si reside en un radio menor o igual a %dkm de %s\n",
		p.RadiusKm, p.Locale)
}

func writeScoreInstructions(b *strings.Builder, p *profile.Profile) {
	criteria := p.ScoreCriteria
	if criteria == "" {
		criteria = profile.DefaultScoreCriteria
	}
	fmt.Fprintf(b, "score_general: Número del 1 al 10 según los siguientes criterios:\n\n%s\n\n", criteria)
	b.WriteString("IMPORTANTE: Evalúa cuidadosamente cada criterio y asigna puntos justificados.\n")
}

func splitAgeRange(r string) (lo, hi string, ok bool) {
	parts := strings.SplitN(r, "-", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// CorrectionAddendum builds the retry addendum appended to the ORIGINAL user
// prompt after a parse or validation failure. It embeds the exact error, a
// truncated excerpt of the previous raw response and an explicit instruction
// to return a complete corrected object.
func CorrectionAddendum(prevRaw string, cause error) string {
	excerpt := strings.TrimSpace(prevRaw)
	if len(excerpt) > maxCorrectionExcerpt {
		excerpt = Truncate(excerpt, maxCorrectionExcerpt) + "..."
	}

	var b strings.Builder
	b.WriteString("\n\n---\nIMPORTANTE: Tu respuesta anterior no pudo validarse correctamente.\n\n")
	fmt.Fprintf(&b, "Error encontrado:\n%v\n\n", cause)
	fmt.Fprintf(&b, "Tu respuesta original fue:\n%s\n\n", excerpt)
	b.WriteString(`Por favor, corrige el JSON para que cumpla exactamente con el esquema requerido.
Asegúrate de:
1. Que el JSON sea válido (sin comas extra, comillas correctas)
2. Que todos los campos required estén presentes
3. Que los tipos de datos sean correctos (integer como número, no string)
4. Que los valores categorical sean exactamente uno de los permitidos
5. Que las listas tengan el formato correcto

Genera una respuesta completa y correcta que incluya TODOS los campos del esquema.
Responde ÚNICAMENTE con el JSON corregido, sin explicaciones ni markdown.`)
	return b.String()
}

// Truncate cuts s at the given character budget. Truncation happens at the
// byte boundary of the last full rune that fits.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	// Back off a partially cut UTF-8 sequence.
	for len(cut) > 0 {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r != utf8.RuneError || size != 1 {
			break
		}
		cut = cut[:len(cut)-1]
	}
	return cut
}
