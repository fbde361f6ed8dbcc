package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// parseDOCX extracts text and the embedded image count from a DOCX archive.
func parseDOCX(data []byte) (*Parsed, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("not a valid docx archive: %w", err)
	}

	var docXML []byte
	imageCount := 0

	for _, f := range zr.File {
		switch {
		case f.Name == "word/document.xml":
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open document.xml: %w", err)
			}
			docXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to read document.xml: %w", err)
			}
		case strings.HasPrefix(f.Name, "word/media/") && isImageName(f.Name):
			imageCount++
		}
	}

	if docXML == nil {
		return nil, fmt.Errorf("docx archive has no word/document.xml")
	}

	text, err := docxText(docXML)
	if err != nil {
		return nil, err
	}

	return &Parsed{Text: text, ImageCount: imageCount}, nil
}

func isImageName(name string) bool {
	switch strings.ToLower(name[strings.LastIndex(name, ".")+1:]) {
	case "png", "jpg", "jpeg", "gif", "bmp", "emf", "wmf":
		return true
	}
	return false
}

// docxText walks the WordprocessingML document: w:t elements carry text,
// paragraph and tab boundaries become line breaks and spaces.
func docxText(docXML []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(docXML))

	var sb strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte(' ')
			case "br":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}
