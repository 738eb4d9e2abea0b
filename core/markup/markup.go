// Package markup holds the small html.Node helpers shared by the
// normalizer, parser, renderer and edition ledger: building elements,
// reading classes and attributes, serializing, and flattening to lines.
package markup

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element creates an element node with an optional class and attributes.
func Element(tag, class string, attrs ...html.Attribute) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	if class != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
	}
	n.Attr = append(n.Attr, attrs...)
	return n
}

// Attr builds an attribute.
func Attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// Text creates a text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// TextElement creates an element holding a single text node.
func TextElement(tag, class, text string, attrs ...html.Attribute) *html.Node {
	n := Element(tag, class, attrs...)
	n.AppendChild(Text(text))
	return n
}

// AppendBlock appends child on its own line.
func AppendBlock(parent, child *html.Node) {
	parent.AppendChild(Text("\n"))
	parent.AppendChild(child)
}

// CloseBlock terminates the last block line of parent, if it has any
// children.
func CloseBlock(parent *html.Node) {
	if parent.FirstChild != nil {
		parent.AppendChild(Text("\n"))
	}
}

// Render serializes n (including n itself).
func Render(n *html.Node) (string, error) {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return "", fmt.Errorf("rendering %s: %w", n.Data, err)
	}
	return b.String(), nil
}

// GetAttr returns the value of key on n, and whether it was present.
func GetAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasClass reports whether n is an element carrying class.
func HasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	v, _ := GetAttr(n, "class")
	return slices.Contains(strings.Fields(v), class)
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// IsWhitespace reports whether n is a text node with only whitespace.
func IsWhitespace(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode && strings.TrimSpace(n.Data) == ""
}

// FirstElement returns the first element child of n matching pred.
func FirstElement(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && pred(c) {
			return c
		}
	}
	return nil
}

// Clone returns a deep copy of n, detached from any tree.
func Clone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      slices.Clone(n.Attr),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(Clone(child))
	}
	return c
}
