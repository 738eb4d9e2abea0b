package editions

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/lawpipe/core/markup"
)

var (
	blockSel  = cascadia.MustCompile(".law-editions-block")
	headerSel = cascadia.MustCompile(".law-header")
)

// Merge places frag into body. An existing revision index is replaced in
// place and any extra copies are dropped; otherwise frag goes right after
// the law-header. A body without either is returned unchanged, and a nil
// frag removes an existing index. Merging the same fragment twice yields
// the same body.
func Merge(body string, frag *html.Node) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body, fmt.Errorf("parsing body: %w", err)
	}

	existing := doc.FindMatcher(blockSel)
	switch {
	case existing.Length() > 0:
		first := existing.Nodes[0]
		for _, n := range existing.Nodes[1:] {
			removeBlock(n)
		}
		if frag == nil {
			removeBlock(first)
		} else {
			first.Parent.InsertBefore(frag, first)
			first.Parent.RemoveChild(first)
		}
	case frag == nil:
		return body, nil
	default:
		header := doc.FindMatcher(headerSel)
		if header.Length() == 0 {
			return body, nil
		}
		h := header.Nodes[0]
		next := h.NextSibling
		h.Parent.InsertBefore(markup.Text("\n"), next)
		h.Parent.InsertBefore(frag, next)
	}

	out, err := doc.Find("body").Html()
	if err != nil {
		return body, fmt.Errorf("serializing body: %w", err)
	}
	return out, nil
}

// removeBlock detaches n together with the line break rendered before it.
func removeBlock(n *html.Node) {
	if prev := n.PrevSibling; markup.IsWhitespace(prev) {
		markup.Detach(prev)
	}
	markup.Detach(n)
}

// Merge places the ledger's revision index into body.
func (l *Ledger) Merge(body string, opts FragmentOptions) (string, error) {
	return Merge(body, l.Fragment(opts))
}
