package parse

import (
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/lawpipe/core"
	"github.com/gaurav-prasanna/lawpipe/core/markup"
)

var (
	partSel    = cascadia.MustCompile(".law-part")
	sectionSel = cascadia.MustCompile(".law-section")
	chapterSel = cascadia.MustCompile(".law-chapter")
	articleSel = cascadia.MustCompile(".law-article, .article, .article-section")
	headingSel = cascadia.MustCompile("h1, h2, h3, h4, h5, h6, .law-article-title")

	// semanticSel finds candidates for the semantic strategy; elements
	// matched only by [id] are confirmed against articleIDRegex.
	semanticSel = cascadia.MustCompile(".law-part, .law-section, .law-chapter, .law-article, .article, .article-section, [id]")

	// articleIDRegex matches portal article ids such as "st5_1" or "ст-12".
	articleIDRegex = regexp.MustCompile(`^(?:st|ст-)(\d+(?:[._]\d+)*)$`)
)

// idContainers are the elements whose portal id makes them an article.
// Inline anchors carrying the same ids only mark a position.
var idContainers = map[string]bool{"div": true, "section": true, "article": true}

// hasSemanticMarkers reports whether root carries explicit structure.
func hasSemanticMarkers(root *html.Node) bool {
	found := goquery.NewDocumentFromNode(root).FindMatcher(semanticSel).FilterFunction(func(_ int, s *goquery.Selection) bool {
		_, ok := elementKind(s.Nodes[0])
		return ok
	})
	return found.Length() > 0
}

// elementKind classifies an element carrying explicit structure.
func elementKind(n *html.Node) (core.Kind, bool) {
	switch {
	case partSel.Match(n):
		return core.KindPart, true
	case sectionSel.Match(n):
		return core.KindSection, true
	case chapterSel.Match(n):
		return core.KindChapter, true
	case articleSel.Match(n):
		return core.KindArticle, true
	}
	if !idContainers[n.Data] {
		return 0, false
	}
	if id, ok := markup.GetAttr(n, "id"); ok && articleIDRegex.MatchString(id) {
		return core.KindArticle, true
	}
	return 0, false
}

// numberFromID derives an article number from a portal id: "st5_1" is
// article 5.1.
func numberFromID(n *html.Node) string {
	id, _ := markup.GetAttr(n, "id")
	m := articleIDRegex.FindStringSubmatch(id)
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(m[1], "_", ".")
}

// semanticWalker walks the content tree in document order. Marker
// elements become containers, article elements become articles holding
// their own lines, and every other line goes through the recognizers.
type semanticWalker struct {
	ctx       *context
	cur       strings.Builder
	inArticle bool
	// skip holds heading nodes already consumed by the open marker or
	// article.
	skip []*html.Node
}

func (w *semanticWalker) flush() {
	l := markup.CleanLine(w.cur.String())
	w.cur.Reset()
	if l == "" {
		return
	}
	if w.inArticle {
		w.ctx.paragraph(l)
		return
	}
	w.ctx.line(l)
}

func (w *semanticWalker) walk(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if slices.Contains(w.skip, c) {
			continue
		}
		switch c.Type {
		case html.TextNode:
			for i, part := range strings.Split(c.Data, "\n") {
				if i > 0 {
					w.flush()
				}
				w.cur.WriteString(part)
			}
		case html.ElementNode:
			if !w.inArticle {
				if kind, ok := elementKind(c); ok {
					w.flush()
					if kind == core.KindArticle {
						w.article(c)
					} else {
						w.marker(c, kind)
					}
					continue
				}
			}
			switch {
			case c.Data == "br" || c.Data == "hr":
				w.flush()
			case markup.IsBlock(c):
				w.flush()
				w.walk(c)
				w.flush()
			default:
				w.walk(c)
			}
		}
	}
}

// marker opens a part, section or chapter from an explicit element and
// walks what it wraps. The number comes from data-number when present,
// otherwise from the heading; the title from the law-{kind}-name child.
func (w *semanticWalker) marker(n *html.Node, kind core.Kind) {
	prefix := "law-" + kind.String()
	number, hasNumber := markup.GetAttr(n, "data-number")

	var title string
	name := findClass(n, prefix+"-name")
	if name != nil {
		title = cleanTitle(strings.Join(markup.Lines(name), " "))
	}

	heading := findClass(n, prefix+"-title")
	if heading == nil {
		heading = leadingChild(n)
	}
	if heading != nil {
		var m Match
		ok := false
		if lines := nodeLines(heading); len(lines) > 0 {
			m, ok = w.ctx.vocab.recognizeKind(kind, lines[0])
		}
		switch {
		case ok:
			if !hasNumber {
				number = m.Number
			}
			if title == "" {
				title = m.Title
			}
		case !markup.HasClass(heading, prefix+"-title"):
			// Ordinary content, walked with the rest.
			heading = nil
		}
	}
	w.ctx.open(Match{Kind: kind, Number: number, Title: title})
	if heading == n {
		return
	}

	prev := w.skip
	w.skip = append(slices.Clone(prev), heading, name)
	w.walk(n)
	w.flush()
	w.skip = prev
}

// leadingChild returns the candidate heading of a marker element without
// a title child: n itself when it holds no blocks, else its first child
// with content unless that child is structure.
func leadingChild(n *html.Node) *html.Node {
	if markup.FirstElement(n, markup.IsBlock) == nil {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case markup.IsWhitespace(c):
			continue
		case c.Type == html.ElementNode:
			if _, ok := elementKind(c); ok {
				return nil
			}
			return c
		case c.Type == html.TextNode:
			return c
		}
	}
	return nil
}

func nodeLines(n *html.Node) []string {
	if n.Type == html.TextNode {
		return markup.SplitLines(n.Data)
	}
	return markup.Lines(n)
}

// article opens an article from an explicit element. Everything inside
// it other than the heading becomes its paragraphs.
func (w *semanticWalker) article(n *html.Node) {
	number, hasNumber := markup.GetAttr(n, "data-number")
	if !hasNumber {
		number = numberFromID(n)
	}

	var title string
	heading := findFirst(n, headingSel.Match)
	if heading != nil {
		text := markup.CleanLine(strings.Join(markup.Lines(heading), " "))
		number, title = w.ctx.vocab.SplitHeading(core.KindArticle, number, text)
	}

	w.ctx.openArticle(number, title)
	prev := w.skip
	w.inArticle, w.skip = true, append(slices.Clone(prev), heading)
	w.walk(n)
	w.flush()
	w.inArticle, w.skip = false, prev
	w.ctx.closeArticle()
}

// findClass returns the first descendant of n carrying class.
func findClass(n *html.Node, class string) *html.Node {
	return findFirst(n, func(c *html.Node) bool { return markup.HasClass(c, class) })
}

// findFirst returns the first descendant element of n, in document order,
// matching pred.
func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if pred(c) {
			return c
		}
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}
