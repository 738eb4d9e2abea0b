package render

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/lawpipe/core"
	"github.com/gaurav-prasanna/lawpipe/core/markup"
)

var (
	documentSel = cascadia.MustCompile(".law-document")
	contentSel  = cascadia.MustCompile(".law-content")
	titleSel    = cascadia.MustCompile(".law-header h1.law-title")

	// strippedSel covers everything a rendering adds around the content,
	// including revision blocks of older page layouts.
	strippedSel = cascadia.MustCompile(".law-header, .law-editions-block, .editions-dropdown")
)

// Unwrap strips a previously rendered canonical wrapper from c in place,
// leaving only the law-content region as the content root, and returns
// what survives of the old header. Content without the wrapper is left
// untouched.
func Unwrap(c *core.Content) core.Header {
	var h core.Header
	if c == nil || c.Root == nil {
		return h
	}
	for {
		doc := findDocument(c.Root)
		if doc == nil {
			break
		}
		sel := goquery.NewDocumentFromNode(doc)
		if !h.Found {
			h.Found = true
			h.Title = markup.CleanLine(sel.FindMatcher(titleSel).First().Text())
		}
		sel.FindMatcher(strippedSel).Remove()

		inner := sel.FindMatcher(contentSel)
		if inner.Length() == 0 {
			c.Root = doc
			break
		}
		c.Root = inner.Nodes[0]
	}
	if h.Found {
		lines := markup.Lines(c.Root)
		c.Text = strings.Join(lines, "\n")
		c.Empty = len(lines) == 0
	}
	return h
}

// findDocument returns root itself or its first descendant carrying the
// canonical wrapper class.
func findDocument(root *html.Node) *html.Node {
	if documentSel.Match(root) {
		return root
	}
	return cascadia.Query(root, documentSel)
}
