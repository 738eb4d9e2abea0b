package render

import "github.com/gaurav-prasanna/lawpipe/core"

// HTMLRenderer writes the canonical body as-is. It's the simplest renderer
// since the canonical body is already the pipeline's native format.
type HTMLRenderer struct{}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Render returns the canonical body as bytes (passthrough).
func (r *HTMLRenderer) Render(out core.Output) ([]byte, error) {
	return []byte(out.Document.Body), nil
}

// Extension returns the file extension for HTML output.
func (r *HTMLRenderer) Extension() string {
	return ".html"
}
