// Package output handles file naming and writing for lawpipe outputs.
// Filenames are derived from the document id, or from the title when the
// document has no id (e.g. fz-152.html, О_персональных_данных.json).
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gaurav-prasanna/lawpipe/core"
)

// maxNameRunes caps filenames built from long titles.
const maxNameRunes = 80

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	// Ensure the output directory exists.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Write writes data for doc with the renderer's extension and returns the
// path written.
func (w *Writer) Write(doc core.Document, data []byte, ext string) (string, error) {
	path := filepath.Join(w.OutputDir, Filename(doc)+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// WriteEdition writes the snapshot output of one edition into a
// per-document directory: {doc}/{edition}.ext.
func (w *Writer) WriteEdition(doc core.Document, editionID string, data []byte, ext string) (string, error) {
	dir := filepath.Join(w.OutputDir, Filename(doc))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, sanitize(editionID)+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// Filename converts a document into a flat filename.
// Example: {ID: "", Title: "О защите прав"} → О_защите_прав
func Filename(doc core.Document) string {
	name := doc.ID
	if name == "" {
		name = doc.Title
	}
	name = strings.Trim(sanitize(name), "_")
	if name == "" {
		return "document"
	}
	return name
}

// sanitize keeps letters, digits, '-' and '.', collapses everything else
// into single underscores, and caps the length.
func sanitize(s string) string {
	var b strings.Builder
	n := 0
	lastUnderscore := false
	for _, ch := range s {
		if n == maxNameRunes {
			break
		}
		switch {
		case unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '-' || ch == '.':
			b.WriteRune(ch)
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteRune('_')
			lastUnderscore = true
		default:
			continue
		}
		n++
	}
	return b.String()
}
