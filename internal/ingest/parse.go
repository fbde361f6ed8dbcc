package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Parsed is the plain-text view of a document. The image count doubles as
// the photo signal: most CVs that embed an image embed the candidate photo.
type Parsed struct {
	Text       string
	ImageCount int
	HasPhoto   bool
}

// Parser converts loaded documents into normalized text.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a document parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Parse extracts and normalizes the text of one document. The photo signal
// is appended as an annotation so the model can answer the photo field
// without seeing the image itself.
func (p *Parser) Parse(ctx context.Context, doc Document) (*Parsed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var parsed *Parsed
	var err error

	switch doc.MimeType {
	case "application/pdf":
		parsed, err = parsePDF(doc.Bytes)
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		parsed, err = parseDOCX(doc.Bytes)
	case "text/plain":
		parsed = &Parsed{Text: string(doc.Bytes)}
	default:
		return nil, fmt.Errorf("unsupported mime type: %s", doc.MimeType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", doc.Name, err)
	}

	parsed.Text = NormalizeText(parsed.Text)
	if strings.TrimSpace(parsed.Text) == "" {
		return nil, fmt.Errorf("no text extracted from %s", doc.Name)
	}

	parsed.HasPhoto = parsed.ImageCount > 0
	if parsed.HasPhoto {
		parsed.Text += fmt.Sprintf("\n\n[NOTA: Este CV contiene %d imagen(es), probablemente incluya foto del candidato]", parsed.ImageCount)
	}

	p.logger.Debug("parsed document",
		"file", doc.Name,
		"chars", len(parsed.Text),
		"images", parsed.ImageCount)

	return parsed, nil
}
