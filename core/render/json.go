// Package render — JSON renderer.
// Builds the structured JSON output: document metadata, the recovered
// structure tree, the anchor index and the ordered edition list. The
// canonical body is included so consumers need only one file.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/lawpipe/core"
)

// JSONRenderer produces structured JSON output.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

type documentJSON struct {
	Document        core.Document `json:"document"`
	Type            string        `json:"type"`
	Body            string        `json:"body"`
	Stats           statsJSON     `json:"stats"`
	Tree            *core.Tree    `json:"tree"`
	Anchors         []core.Anchor `json:"anchors"`
	Editions        []editionJSON `json:"editions"`
	Miss            bool          `json:"miss"`
	SkippedEditions int           `json:"skipped_editions"`
}

type statsJSON struct {
	Parts      int `json:"parts"`
	Sections   int `json:"sections"`
	Chapters   int `json:"chapters"`
	Articles   int `json:"articles"`
	Paragraphs int `json:"paragraphs"`
}

type editionJSON struct {
	ID           string `json:"id,omitempty"`
	Date         string `json:"date"`
	ChangeReason string `json:"change_reason,omitempty"`
	IsCurrent    bool   `json:"is_current"`
}

// Render marshals out into the JSON document.
func (r *JSONRenderer) Render(out core.Output) ([]byte, error) {
	page := documentJSON{
		Document:        out.Document,
		Type:            DocumentType(out.Document.Title),
		Body:            out.Document.Body,
		Tree:            out.Tree,
		Anchors:         out.Anchors,
		Editions:        make([]editionJSON, 0, len(out.Editions)),
		Miss:            out.Miss,
		SkippedEditions: out.SkippedEditions,
	}
	if page.Anchors == nil {
		page.Anchors = []core.Anchor{}
	}
	if out.Tree != nil {
		page.Stats = countNodes(out.Tree)
	}
	for _, e := range out.Editions {
		page.Editions = append(page.Editions, editionJSON{
			ID:           e.ID,
			Date:         e.Date.Format("2006-01-02"),
			ChangeReason: e.ChangeReason,
			IsCurrent:    e.IsCurrent,
		})
	}

	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// counter tallies nodes per kind, synthetic containers excluded.
type counter struct{ stats statsJSON }

func (c *counter) VisitPart(n *core.Node, descend func()) {
	if !n.Synthetic {
		c.stats.Parts++
	}
	descend()
}

func (c *counter) VisitSection(n *core.Node, descend func()) {
	if !n.Synthetic {
		c.stats.Sections++
	}
	descend()
}

func (c *counter) VisitChapter(n *core.Node, descend func()) {
	c.stats.Chapters++
	descend()
}

func (c *counter) VisitArticle(_ *core.Node, descend func()) {
	c.stats.Articles++
	descend()
}

func (c *counter) VisitParagraph(*core.Node) {
	c.stats.Paragraphs++
}

func countNodes(tree *core.Tree) statsJSON {
	c := &counter{}
	core.Walk(tree.Children, c)
	c.stats.Paragraphs += len(tree.Preamble)
	return c.stats
}
