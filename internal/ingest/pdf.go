package ingest

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// parsePDF extracts text and the embedded image count from a PDF.
func parsePDF(data []byte) (*Parsed, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	var text strings.Builder
	imageCount := 0

	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil {
			// A damaged page should not sink the whole document.
			continue
		}
		if r != nil {
			content, err := io.ReadAll(r)
			if err == nil {
				text.WriteString(extractTextFromContent(content))
				text.WriteString("\n")
			}
		}

		images, err := pdfcpu.ExtractPageImages(ctx, pageNr, true)
		if err == nil {
			imageCount += len(images)
		}
	}

	return &Parsed{Text: text.String(), ImageCount: imageCount}, nil
}

// extractTextFromContent pulls string literals out of a page content stream.
// It tracks BT/ET text objects and the text-positioning operators that imply
// line breaks. Hex strings and exotic encodings are ignored.
func extractTextFromContent(content []byte) string {
	var sb strings.Builder
	inText := false

	for i := 0; i < len(content); i++ {
		c := content[i]

		switch {
		case c == '(' && inText:
			literal, next := readStringLiteral(content, i)
			sb.WriteString(literal)
			i = next

		case c == 'B' && hasOperatorAt(content, i, "BT"):
			inText = true
			i++

		case c == 'E' && hasOperatorAt(content, i, "ET"):
			if inText {
				sb.WriteString("\n")
			}
			inText = false
			i++

		case c == 'T' && inText && (hasOperatorAt(content, i, "Td") || hasOperatorAt(content, i, "TD") || hasOperatorAt(content, i, "T*")):
			sb.WriteString("\n")
			i++

		case c == 'T' && inText && hasOperatorAt(content, i, "Tj"):
			sb.WriteString(" ")
			i++
		}
	}

	return sb.String()
}

// hasOperatorAt reports whether op starts at i as a standalone token.
func hasOperatorAt(content []byte, i int, op string) bool {
	if i+len(op) > len(content) {
		return false
	}
	if string(content[i:i+len(op)]) != op {
		return false
	}
	if i > 0 && !isDelimiter(content[i-1]) {
		return false
	}
	if i+len(op) < len(content) && !isDelimiter(content[i+len(op)]) {
		return false
	}
	return true
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '(', ')', '[', ']', '<', '>', '/':
		return true
	}
	return false
}

// readStringLiteral reads a parenthesized PDF string starting at the opening
// paren. It returns the decoded text and the index of the closing paren.
func readStringLiteral(content []byte, start int) (string, int) {
	var sb strings.Builder
	depth := 1
	i := start + 1

	for ; i < len(content); i++ {
		c := content[i]
		switch c {
		case '\\':
			if i+1 >= len(content) {
				return sb.String(), i
			}
			i++
			switch content[i] {
			case 'n':
				sb.WriteByte('\n')
			case 'r', 't', 'b', 'f':
				sb.WriteByte(' ')
			case '(', ')', '\\':
				sb.WriteByte(content[i])
			default:
				// Octal escapes and line continuations are dropped.
			}
		case '(':
			depth++
			sb.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return sb.String(), i
			}
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), i - 1
}
