package parse

import "github.com/gaurav-prasanna/lawpipe/core"

// context carries the assembly state of one parse: the innermost open
// container of each kind, the open article and the anchor counter. Both
// recognition strategies feed the same assembler, so one input always
// yields one tree regardless of how its markers were found.
type context struct {
	vocab *Vocabulary
	tree  *core.Tree

	part    *core.Node
	section *core.Node
	chapter *core.Node
	article *core.Node

	anchor  int
	markers int
}

func newContext(v *Vocabulary, s core.Strategy) *context {
	return &context{vocab: v, tree: &core.Tree{Strategy: s}}
}

// line recognizes a marker in text or appends it as a paragraph.
func (c *context) line(text string) {
	if m, ok := c.vocab.Recognize(text); ok {
		c.open(m)
		return
	}
	c.paragraph(text)
}

// open starts a new structural node for m.
func (c *context) open(m Match) {
	switch m.Kind {
	case core.KindPart:
		c.markers++
		n := &core.Node{Kind: core.KindPart, Number: m.Number, Title: m.Title}
		c.tree.Children = append(c.tree.Children, n)
		c.part, c.section, c.chapter, c.article = n, nil, nil, nil
	case core.KindSection:
		c.markers++
		c.openSection(&core.Node{Kind: core.KindSection, Number: m.Number, Title: m.Title})
	case core.KindChapter:
		c.markers++
		if c.section == nil {
			c.openSection(c.bucket())
		}
		c.chapter = c.section.Append(&core.Node{Kind: core.KindChapter, Number: m.Number, Title: m.Title})
		c.article = nil
	case core.KindArticle:
		c.openArticle(m.Number, m.Title)
	}
}

// openSection attaches n to the open part, or to the top level.
func (c *context) openSection(n *core.Node) {
	if c.part != nil {
		c.part.Append(n)
	} else {
		c.tree.Children = append(c.tree.Children, n)
	}
	c.section, c.chapter, c.article = n, nil, nil
}

// openArticle attaches a new article to the innermost open chapter or
// section, synthesizing a bucket section when neither is open.
func (c *context) openArticle(number, title string) {
	c.markers++
	parent := c.chapter
	if parent == nil {
		if c.section == nil {
			c.openSection(c.bucket())
		}
		parent = c.section
	}
	c.anchor++
	c.article = parent.Append(&core.Node{
		Kind:   core.KindArticle,
		Number: number,
		Title:  title,
		Anchor: c.anchor,
	})
}

func (c *context) closeArticle() {
	c.article = nil
}

// paragraph appends text to the innermost open node, or to the preamble.
func (c *context) paragraph(text string) {
	p := classify(text)
	switch {
	case c.article != nil:
		c.article.Append(p)
	case c.chapter != nil:
		c.chapter.Append(p)
	case c.section != nil:
		c.section.Append(p)
	case c.part != nil:
		c.part.Append(p)
	default:
		c.tree.Preamble = append(c.tree.Preamble, p)
	}
}

func (c *context) bucket() *core.Node {
	return &core.Node{Kind: core.KindSection, Title: c.vocab.BucketTitle, Synthetic: true}
}

// finish guarantees a non-empty top level and sets the miss flag.
func (c *context) finish(empty bool) *core.Tree {
	if len(c.tree.Children) == 0 {
		c.tree.Children = []*core.Node{c.bucket()}
	}
	c.tree.Miss = c.markers == 0 && !empty
	return c.tree
}
