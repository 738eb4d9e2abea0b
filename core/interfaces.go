// Package core defines the shared types and stage interfaces for lawpipe.
// Each stage of the pipeline is a clean, testable interface; the concrete
// stages live in the sub-packages (normalize, parse, render, editions).
package core

import (
	"context"
	"time"

	"golang.org/x/net/html"
)

// Document is one legal document as supplied by the caller. The core only
// transforms it; Body receives the canonical rendering.
type Document struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Authority string    `json:"authority,omitempty" yaml:"authority"`
	Number    string    `json:"number,omitempty" yaml:"number"`
	SignedAt  time.Time `json:"signed_at,omitzero" yaml:"signed"`
	AmendedAt time.Time `json:"amended_at,omitzero" yaml:"amended"`
	Body      string    `json:"-" yaml:"-"`
}

// Edition is a dated revision record of a document.
//
// ValidFrom is the date exactly as received from the source; Date is filled
// in by the edition ledger once ValidFrom has been parsed.
type Edition struct {
	ID           string    `json:"id" yaml:"id"`
	DocumentID   string    `json:"document_id,omitempty" yaml:"document_id"`
	ValidFrom    string    `json:"valid_from" yaml:"valid_from"`
	Date         time.Time `json:"-" yaml:"-"`
	ChangeReason string    `json:"change_reason,omitempty" yaml:"change_reason"`
	IsCurrent    bool      `json:"is_current" yaml:"is_current"`
	Snapshot     string    `json:"-" yaml:"snapshot"`
}

// Content is the output of the normalizer.
type Content struct {
	// Root is the cleaned content container. It is nil when the input had
	// no recognizable markup and only the flattened text is available.
	Root *html.Node
	// Text is the flattened form: one line per block, blank lines between
	// paragraphs of plain-text input.
	Text string
	// Empty reports that the input carried no text at all.
	Empty bool
}

// Header is what survives from a previously rendered canonical header.
type Header struct {
	Found bool
	Title string
}

// Output holds everything the pipeline produced for one document.
type Output struct {
	Document        Document  `json:"document"`
	Tree            *Tree     `json:"-"`
	Anchors         []Anchor  `json:"anchors"`
	Editions        []Edition `json:"editions"`
	Miss            bool      `json:"miss"`
	SkippedEditions int       `json:"skipped_editions"`
}

// Source is raw content loaded for one document.
type Source struct {
	Path    string
	Format  string
	Content string
}

// Loader reads raw document content from some origin.
type Loader interface {
	Load(ctx context.Context, path string) (*Source, error)
}

// Normalizer sanitizes arbitrary markup into a cleaned tree or flat text.
// It never fails; malformed input is repaired on a best-effort basis.
type Normalizer interface {
	Normalize(raw string) *Content
}

// Parser recovers the structure tree from normalized content. It never
// returns a nil tree.
type Parser interface {
	Parse(c *Content) *Tree
}

// Renderer converts a canonicalized document into a final output format.
type Renderer interface {
	Render(out Output) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".html").
	Extension() string
}
