// Package normalize implements the Normalizer interface.
// It isolates the document content from arbitrary markup by:
//  1. Parsing the markup with best-effort tree repair
//  2. Removing non-content elements and HTML comments
//  3. Pruning empty elements (line breaks, rules and images excepted)
//  4. Picking the best content container
//
// Input without any markup falls back to flattened plain text.
package normalize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/lawpipe/core"
	"github.com/gaurav-prasanna/lawpipe/core/markup"
)

// noiseSelectors are elements removed before anything else.
// They contribute no document text. Revision indexes are rebuilt from the
// edition ledger on every run, wherever a previous one was left.
var noiseSelectors = []string{
	"script", "style", "noscript", "meta", "link", "template",
	"iframe", "object", "embed",
	"nav", "header", "footer", "aside",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
	".law-editions-block", ".editions-dropdown",
}

// containerSelectors are tried in order to find the content root. A
// previously rendered canonical body wins; the next few are the body
// containers of the legal portals the corpus was scraped from.
var containerSelectors = []string{
	".law-document", ".document-page__content", ".doc-body", "#document", "main", "body",
}

// keepEmpty are elements that carry meaning without text.
var keepEmpty = map[string]bool{"br": true, "hr": true, "img": true}

// markupRegex detects anything that looks like a tag or comment.
var markupRegex = regexp.MustCompile(`<(?:[a-zA-Z][a-zA-Z0-9-]*[\s/>]|/[a-zA-Z]|!--)`)

// ContentNormalizer cleans raw markup or text of unknown origin.
type ContentNormalizer struct{}

// New creates a ContentNormalizer.
func New() *ContentNormalizer {
	return &ContentNormalizer{}
}

// Normalize cleans raw input. It never fails: unparseable or markup-free
// input degrades to the flattened text form.
func (n *ContentNormalizer) Normalize(raw string) *core.Content {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	if !markupRegex.MatchString(raw) {
		return plainContent(raw)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return plainContent(raw)
	}
	return fromDocument(doc)
}

func fromDocument(doc *goquery.Document) *core.Content {
	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}
	for _, root := range doc.Nodes {
		removeComments(root)
		prune(root)
	}

	var root *html.Node
	for _, sel := range containerSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			root = found.Nodes[0]
			break
		}
	}
	if root == nil || markup.FirstElement(root, markup.IsBlock) == nil {
		var text string
		if root != nil {
			text = strings.Join(markup.Lines(root), "\n")
		} else {
			text = doc.Text()
		}
		return plainContent(text)
	}

	lines := markup.Lines(root)
	return &core.Content{
		Root:  root,
		Text:  strings.Join(lines, "\n"),
		Empty: len(lines) == 0,
	}
}

// plainContent builds the flattened text form, keeping a single blank line
// between paragraphs.
func plainContent(raw string) *core.Content {
	var out []string
	blank := false
	for _, l := range strings.Split(raw, "\n") {
		l = markup.CleanLine(l)
		if l == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, l)
	}
	return &core.Content{
		Text:  strings.Join(out, "\n"),
		Empty: len(out) == 0,
	}
}

// removeComments drops every comment node below n.
func removeComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			removeComments(c)
		}
		c = next
	}
}

// prune removes empty elements bottom-up and reports whether n itself is
// still meaningful.
func prune(n *html.Node) bool {
	meaningful := false
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				meaningful = true
			}
		case html.ElementNode:
			if prune(c) {
				meaningful = true
			} else {
				n.RemoveChild(c)
			}
		}
		c = next
	}
	if n.Type != html.ElementNode {
		return true
	}
	switch n.Data {
	case "html", "head", "body":
		return true
	}
	return meaningful || keepEmpty[n.Data]
}
