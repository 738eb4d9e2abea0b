// Package render — Markdown renderer.
// Converts the canonical body to Markdown with html-to-markdown.
package render

import (
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/gaurav-prasanna/lawpipe/core"
)

// MarkdownRenderer converts the canonical body to Markdown.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render returns the Markdown form of out.Document.Body.
func (r *MarkdownRenderer) Render(out core.Output) ([]byte, error) {
	md, err := htmltomarkdown.ConvertString(out.Document.Body)
	if err != nil {
		return nil, fmt.Errorf("converting to markdown: %w", err)
	}
	return []byte(md), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
