// Package source implements the Loader interface.
// It reads raw document content from files or stdin. Markdown sources are
// converted to HTML with goldmark so that the normalizer sees their
// headings and paragraphs as blocks; HTML and text pass through as read.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/gaurav-prasanna/lawpipe/core"
)

// Source formats.
const (
	FormatHTML     = "html"
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Stdin is the path that reads from standard input.
const Stdin = "-"

// FileLoader loads document content from the filesystem.
type FileLoader struct {
	format string
	stdin  io.Reader
}

// Option configures a FileLoader.
type Option func(*FileLoader)

// WithFormat forces a format instead of detecting it from the extension.
func WithFormat(format string) Option {
	return func(l *FileLoader) { l.format = format }
}

// WithStdin sets the reader used for the "-" path.
func WithStdin(r io.Reader) Option {
	return func(l *FileLoader) { l.stdin = r }
}

// New creates a FileLoader.
func New(opts ...Option) *FileLoader {
	l := &FileLoader{stdin: os.Stdin}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load reads path ("-" for stdin) and converts it to the form the
// normalizer expects.
func (l *FileLoader) Load(ctx context.Context, path string) (*core.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		data []byte
		err  error
	)
	if path == Stdin {
		data, err = io.ReadAll(l.stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	format := l.format
	if format == "" {
		format = DetectFormat(path)
	}
	content, err := Convert(data, format)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return &core.Source{Path: path, Format: format, Content: content}, nil
}

// DetectFormat derives the format from a file extension. Unknown
// extensions and stdin are treated as HTML; the normalizer falls back to
// text on its own when no markup is present.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".txt", ".text":
		return FormatText
	}
	return FormatHTML
}

// Convert turns raw data of the given format into normalizer input.
func Convert(data []byte, format string) (string, error) {
	switch format {
	case FormatMarkdown:
		var buf bytes.Buffer
		if err := goldmark.Convert(data, &buf); err != nil {
			return "", fmt.Errorf("converting markdown: %w", err)
		}
		return buf.String(), nil
	case FormatHTML, FormatText, "":
		return string(data), nil
	}
	return "", fmt.Errorf("unknown format %q", format)
}
