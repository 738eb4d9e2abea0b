package core

// Kind tags the variant of a structure node.
type Kind int

const (
	KindPart Kind = iota + 1
	KindSection
	KindChapter
	KindArticle
	KindParagraph
)

func (k Kind) String() string {
	switch k {
	case KindPart:
		return "part"
	case KindSection:
		return "section"
	case KindChapter:
		return "chapter"
	case KindArticle:
		return "article"
	case KindParagraph:
		return "paragraph"
	}
	return "unknown"
}

// Item distinguishes plain paragraphs from list items.
type Item int

const (
	ItemPlain    Item = iota
	ItemNumbered      // "1. text"
	ItemLettered      // "а) text"
)

func (i Item) String() string {
	switch i {
	case ItemNumbered:
		return "numbered"
	case ItemLettered:
		return "lettered"
	}
	return "plain"
}

// MarshalText implements encoding.TextMarshaler.
func (i Item) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// Strategy names the recognition strategy used for a parse.
type Strategy string

const (
	StrategySemantic Strategy = "semantic"
	StrategyPattern  Strategy = "pattern"
)

// Node is one unit of the structure tree. A node owns its children; there
// are no parent pointers.
type Node struct {
	Kind Kind `json:"kind"`
	// Number is the declared number token, kept literally ("IV", "5.1",
	// "ПЕРВАЯ"). For list items it is the item marker without punctuation.
	Number string `json:"number,omitempty"`
	Title  string `json:"title,omitempty"`
	// Anchor is set on articles only: 1, 2, 3, ... in discovery order.
	Anchor int `json:"anchor,omitempty"`
	// Synthetic marks placeholder containers created by the parser.
	Synthetic bool    `json:"synthetic,omitempty"`
	Item      Item    `json:"item,omitempty"`
	Text      string  `json:"text,omitempty"`
	Children  []*Node `json:"children,omitempty"`
}

// Append adds a child and returns it.
func (n *Node) Append(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// Tree is the parse result for one document.
type Tree struct {
	Strategy Strategy `json:"strategy"`
	// Preamble holds paragraphs that precede the first structural marker.
	Preamble []*Node `json:"preamble,omitempty"`
	// Children are the top-level containers. Never empty.
	Children []*Node `json:"children"`
	// Miss is set when non-empty input produced no structural marker.
	Miss bool `json:"miss"`
}

// Anchor is one entry of the anchor index.
type Anchor struct {
	ID     int    `json:"id"`
	Number string `json:"number,omitempty"`
	Title  string `json:"title,omitempty"`
}

// Visitor receives one callback per node kind. Container and article
// callbacks get a descend func that walks the node's children in order.
type Visitor interface {
	VisitPart(n *Node, descend func())
	VisitSection(n *Node, descend func())
	VisitChapter(n *Node, descend func())
	VisitArticle(n *Node, descend func())
	VisitParagraph(n *Node)
}

// Walk dispatches every node of nodes (and, through descend, their
// descendants) to v in document order.
func Walk(nodes []*Node, v Visitor) {
	for _, n := range nodes {
		descend := func() { Walk(n.Children, v) }
		switch n.Kind {
		case KindPart:
			v.VisitPart(n, descend)
		case KindSection:
			v.VisitSection(n, descend)
		case KindChapter:
			v.VisitChapter(n, descend)
		case KindArticle:
			v.VisitArticle(n, descend)
		case KindParagraph:
			v.VisitParagraph(n)
		}
	}
}

// Articles returns all article nodes in document order.
func (t *Tree) Articles() []*Node {
	var out []*Node
	var collect func(nodes []*Node)
	collect = func(nodes []*Node) {
		for _, n := range nodes {
			if n.Kind == KindArticle {
				out = append(out, n)
				continue
			}
			collect(n.Children)
		}
	}
	collect(t.Children)
	return out
}

// Anchors returns the anchor index: one entry per article in document order.
func (t *Tree) Anchors() []Anchor {
	articles := t.Articles()
	out := make([]Anchor, 0, len(articles))
	for _, a := range articles {
		out = append(out, Anchor{ID: a.Anchor, Number: a.Number, Title: a.Title})
	}
	return out
}
