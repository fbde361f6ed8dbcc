// Package ingest loads candidate documents from disk and turns them into
// normalized plain text for the extraction pipeline. Supported formats are
// PDF, DOCX and plain text.
package ingest

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Document is one candidate file loaded into memory.
type Document struct {
	Name     string // Base file name
	Path     string // Source path; empty for in-memory documents
	MimeType string
	Bytes    []byte
}

// Hash returns the SHA-1 of the document contents, used as a stable
// identifier across runs.
func (d Document) Hash() string {
	sum := sha1.Sum(d.Bytes)
	return hex.EncodeToString(sum[:])
}

var mimeByExt = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
}

// InferMimeType maps a file name to its mime type, empty when unsupported.
func InferMimeType(name string) string {
	return mimeByExt[strings.ToLower(filepath.Ext(name))]
}

// LoadPath reads one document from disk. Unsupported extensions are an error.
func LoadPath(path string) (Document, error) {
	mime := InferMimeType(path)
	if mime == "" {
		return Document{}, fmt.Errorf("unsupported file type: %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return Document{
		Name:     filepath.Base(path),
		Path:     path,
		MimeType: mime,
		Bytes:    data,
	}, nil
}

// LoadDir loads every supported document in a directory, sorted by name.
// Unsupported files are skipped.
func LoadDir(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() || InferMimeType(entry.Name()) == "" {
			continue
		}
		doc, err := LoadPath(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}
