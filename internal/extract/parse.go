// Package extract turns raw model output into validated, typed candidate
// records. Parsing tolerates markdown fences and surrounding prose;
// validation coerces lenient values first and rejects what remains invalid.
package extract

import (
	"encoding/json"
	"strings"
)

// ParseError reports model output that could not be read as a JSON object.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "respuesta no es JSON válido: " + e.Reason
}

// parseObject parses a JSON object from model output, with lightweight
// recovery for markdown code fences and surrounding text.
func parseObject(content string) (map[string]any, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &ParseError{Reason: "respuesta vacía"}
	}

	candidates := []string{content}
	if stripped := stripCodeFences(content); stripped != "" && stripped != content {
		candidates = append(candidates, stripped)
	}
	if extracted := extractObjectCandidate(content); extracted != "" && extracted != content {
		candidates = append(candidates, extracted)
	}

	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}

		var obj map[string]any
		if err := json.Unmarshal([]byte(candidate), &obj); err == nil {
			return obj, nil
		}
	}

	return nil, &ParseError{Reason: "no se encontró un objeto JSON en la respuesta"}
}

func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}

	// Drop first fence line.
	lines = lines[1:]
	// Drop trailing fence if present.
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// extractObjectCandidate returns the outermost {...} span. Arrays are not
// accepted: an extraction response is always a single object.
func extractObjectCandidate(content string) string {
	trimmed := strings.TrimSpace(content)

	start := strings.Index(trimmed, "{")
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(trimmed, "}")
	if end < start {
		return ""
	}
	return strings.TrimSpace(trimmed[start : end+1])
}
