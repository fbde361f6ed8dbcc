package ingest

import (
	"strings"
	"unicode"
)

// NormalizeText cleans extracted document text: control characters go away,
// whitespace collapses, lines with no letters or digits are dropped, a line
// repeated across many pages (header or footer) is kept only once, and
// hard-wrapped sentences are merged back into one line.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	rawLines := strings.Split(s, "\n")
	cleaned := make([]string, len(rawLines))
	counts := make(map[string]int, len(rawLines))
	for i, line := range rawLines {
		cleaned[i] = squeezeSpaces(stripControl(line))
		counts[cleaned[i]]++
	}

	seenRepeated := make(map[string]bool)
	var lines []string
	blank := true

	for _, line := range cleaned {
		if line == "" {
			if !blank {
				lines = append(lines, "")
			}
			blank = true
			continue
		}
		if !hasContent(line) {
			continue
		}
		// Repeated headers/footers survive once.
		if counts[line] >= 4 {
			if seenRepeated[line] {
				continue
			}
			seenRepeated[line] = true
		}
		lines = append(lines, line)
		blank = false
	}

	return strings.TrimSpace(strings.Join(mergeWrapped(lines), "\n"))
}

// mergeWrapped joins a line onto the previous one when the previous line was
// cut mid-sentence: no terminal punctuation above, lowercase start below.
// Blank lines are paragraph boundaries and never merged across.
func mergeWrapped(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if len(out) > 0 && line != "" && out[len(out)-1] != "" &&
			!endsSentence(out[len(out)-1]) && startsLower(line) {
			out[len(out)-1] += " " + line
			continue
		}
		out = append(out, line)
	}
	return out
}

func endsSentence(s string) bool {
	r := []rune(s)
	switch r[len(r)-1] {
	case '.', ':', ';', '!', '?':
		return true
	}
	return false
}

func startsLower(s string) bool {
	for _, r := range s {
		return unicode.IsLower(r)
	}
	return false
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) || !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, s)
}

func squeezeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hasContent(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
