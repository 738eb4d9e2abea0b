// Package render implements the canonical renderer and the output
// renderers built on top of it.
//
// The canonical body is one fixed schema: a law-document wrapper holding a
// law-header (type, authority, date and number, amendment, title) and a
// law-content region where part, section and chapter markers are
// interleaved with article blocks in tree order. The body is built as an
// html.Node tree and serialized by html.Render, so rendering what was
// parsed back from a canonical body reproduces it byte for byte.
package render

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/lawpipe/core"
	"github.com/gaurav-prasanna/lawpipe/core/markup"
	"github.com/gaurav-prasanna/lawpipe/core/parse"
)

// DateLayout is the display form of dates in the canonical body.
const DateLayout = "02.01.2006"

// Canonical renders a structure tree into the canonical body.
type Canonical struct {
	vocab     *parse.Vocabulary
	crossRefs bool
}

// Option configures a Canonical renderer.
type Option func(*Canonical)

// WithVocabulary sets the labels used for marker and article headings.
func WithVocabulary(v *parse.Vocabulary) Option {
	return func(r *Canonical) {
		if v != nil {
			r.vocab = v
		}
	}
}

// WithCrossReferences toggles linking of article mentions in paragraphs.
func WithCrossReferences(on bool) Option {
	return func(r *Canonical) { r.crossRefs = on }
}

// NewCanonical creates a Canonical renderer. Cross references are on by
// default.
func NewCanonical(opts ...Option) *Canonical {
	r := &Canonical{vocab: parse.DefaultVocabulary(), crossRefs: true}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render serializes doc and tree. On a recognition miss the content is
// passed through unaltered inside law-content; c is never modified.
func (r *Canonical) Render(doc core.Document, tree *core.Tree, c *core.Content) (string, error) {
	return markup.Render(r.Build(doc, tree, c))
}

// Build returns the canonical node tree.
func (r *Canonical) Build(doc core.Document, tree *core.Tree, c *core.Content) *html.Node {
	if tree == nil {
		tree = &core.Tree{Miss: true}
	}
	if c == nil {
		c = &core.Content{Empty: true}
	}

	wrapper := markup.Element("div", "law-document")
	markup.AppendBlock(wrapper, r.header(doc))

	content := markup.Element("div", "law-content")
	if tree.Miss {
		passThrough(content, c)
	} else {
		r.body(content, tree)
		markup.CloseBlock(content)
	}
	markup.AppendBlock(wrapper, content)
	markup.CloseBlock(wrapper)
	return wrapper
}

func (r *Canonical) header(doc core.Document) *html.Node {
	h := markup.Element("div", "law-header")
	markup.AppendBlock(h, markup.TextElement("div", "law-type", DocumentType(doc.Title)))
	if doc.Authority != "" {
		markup.AppendBlock(h, markup.TextElement("div", "law-authority", doc.Authority))
	}
	if line := dateNumber(doc.SignedAt, doc.Number); line != "" {
		markup.AppendBlock(h, markup.TextElement("div", "law-date-number", line))
	}
	if !doc.AmendedAt.IsZero() {
		markup.AppendBlock(h, markup.TextElement("div", "law-amended", "ред. от "+doc.AmendedAt.Format(DateLayout)))
	}
	markup.AppendBlock(h, markup.TextElement("h1", "law-title", doc.Title))
	markup.CloseBlock(h)
	return h
}

// dateNumber formats the "от 01.01.2020 № 1-ФЗ" header line.
func dateNumber(signed time.Time, number string) string {
	var parts []string
	if !signed.IsZero() {
		parts = append(parts, "от "+signed.Format(DateLayout))
	}
	if number != "" {
		parts = append(parts, "№ "+number)
	}
	return strings.Join(parts, " ")
}

// passThrough copies the cleaned content into dst verbatim, framed by
// single newlines. Plain text becomes one paragraph per line.
func passThrough(dst *html.Node, c *core.Content) {
	if c.Root == nil {
		for _, l := range markup.SplitLines(c.Text) {
			markup.AppendBlock(dst, markup.TextElement("p", "law-paragraph", l))
		}
		markup.CloseBlock(dst)
		return
	}

	first, last := c.Root.FirstChild, c.Root.LastChild
	for first != nil && markup.IsWhitespace(first) {
		first = first.NextSibling
	}
	for last != nil && last != first && markup.IsWhitespace(last) {
		last = last.PrevSibling
	}
	if first == nil {
		return
	}
	dst.AppendChild(markup.Text("\n"))
	for n := first; ; n = n.NextSibling {
		dst.AppendChild(markup.Clone(n))
		if n == last {
			break
		}
	}
	dst.AppendChild(markup.Text("\n"))
}

// body writes the preamble and the flattened structure into content.
func (r *Canonical) body(content *html.Node, tree *core.Tree) {
	b := &builder{r: r, target: content, content: content}
	if r.crossRefs {
		b.refs = references(tree)
	}
	if len(tree.Preamble) > 0 {
		pre := markup.Element("div", "law-preamble")
		for _, p := range tree.Preamble {
			markup.AppendBlock(pre, b.paragraph(p))
		}
		markup.CloseBlock(pre)
		markup.AppendBlock(content, pre)
	}
	core.Walk(tree.Children, b)
}

// builder is the core.Visitor that emits the canonical blocks. Paragraphs
// go to target: the open article's content, or law-content itself.
type builder struct {
	r       *Canonical
	refs    map[string]int
	content *html.Node
	target  *html.Node
}

func (b *builder) VisitPart(n *core.Node, descend func()) { b.container(n, descend) }
func (b *builder) VisitSection(n *core.Node, descend func()) { b.container(n, descend) }
func (b *builder) VisitChapter(n *core.Node, descend func()) { b.container(n, descend) }

func (b *builder) container(n *core.Node, descend func()) {
	if !n.Synthetic {
		markup.AppendBlock(b.content, b.marker(n))
	}
	descend()
}

func (b *builder) marker(n *core.Node) *html.Node {
	class := "law-" + n.Kind.String()
	div := markup.Element("div", class, markup.Attr("data-number", n.Number))
	title := b.r.vocab.Label(n.Kind)
	if n.Number != "" {
		title += " " + n.Number
	}
	div.AppendChild(markup.TextElement("div", class+"-title", title))
	if n.Title != "" {
		div.AppendChild(markup.TextElement("div", class+"-name", n.Title))
	}
	return div
}

func (b *builder) VisitArticle(n *core.Node, descend func()) {
	art := markup.Element("div", "law-article",
		markup.Attr("id", articleID(n.Anchor)),
		markup.Attr("data-anchor", strconv.Itoa(n.Anchor)),
		markup.Attr("data-number", n.Number),
	)
	markup.AppendBlock(art, markup.TextElement("h3", "law-article-title", b.heading(n)))

	body := markup.Element("div", "law-article-content")
	b.target = body
	descend()
	b.target = b.content
	markup.CloseBlock(body)

	markup.AppendBlock(art, body)
	markup.CloseBlock(art)
	markup.AppendBlock(b.content, art)
}

// heading formats "Статья 5.1. Title".
func (b *builder) heading(n *core.Node) string {
	h := b.r.vocab.Label(core.KindArticle)
	if n.Number != "" {
		h += " " + n.Number
	}
	if n.Title != "" {
		h += ". " + n.Title
	}
	return h
}

func (b *builder) VisitParagraph(n *core.Node) {
	markup.AppendBlock(b.target, b.paragraph(n))
}

func (b *builder) paragraph(n *core.Node) *html.Node {
	var p *html.Node
	switch n.Item {
	case core.ItemNumbered:
		p = markup.Element("p", "law-paragraph law-numbered")
		p.AppendChild(markup.TextElement("span", "law-paragraph-number", n.Number+"."))
		appendLinked(p, " "+n.Text, b.refs)
	case core.ItemLettered:
		p = markup.Element("p", "law-subparagraph")
		p.AppendChild(markup.TextElement("span", "law-subparagraph-letter", n.Number+")"))
		appendLinked(p, " "+n.Text, b.refs)
	default:
		p = markup.Element("p", "law-paragraph")
		appendLinked(p, n.Text, b.refs)
	}
	return p
}
