package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// blockTags end the current line before and after their content.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"body": true, "caption": true, "dd": true, "details": true, "div": true,
	"dl": true, "dt": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "pre": true,
	"section": true, "summary": true, "table": true, "tbody": true,
	"td": true, "tfoot": true, "th": true, "thead": true, "tr": true,
	"ul": true,
}

// IsBlock reports whether n is a block-level element.
func IsBlock(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && blockTags[n.Data]
}

// CleanLine collapses whitespace runs to single spaces and applies NFC.
func CleanLine(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

// Lines flattens the content of n into non-empty text lines. Block
// elements, <br>, <hr> and newlines inside text break lines; inline runs
// are concatenated.
func Lines(n *html.Node) []string {
	f := &flattener{}
	f.walk(n)
	f.flush()
	return f.lines
}

// SplitLines cleans each line of plain text and drops empty ones.
func SplitLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if l = CleanLine(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

type flattener struct {
	cur   strings.Builder
	lines []string
}

func (f *flattener) flush() {
	if l := CleanLine(f.cur.String()); l != "" {
		f.lines = append(f.lines, l)
	}
	f.cur.Reset()
}

func (f *flattener) walk(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			for i, part := range strings.Split(c.Data, "\n") {
				if i > 0 {
					f.flush()
				}
				f.cur.WriteString(part)
			}
		case html.ElementNode:
			switch {
			case c.Data == "br" || c.Data == "hr":
				f.flush()
			case IsBlock(c):
				f.flush()
				f.walk(c)
				f.flush()
			default:
				f.walk(c)
			}
		}
	}
}
