package render

import (
	"regexp"
	"strconv"

	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/lawpipe/core"
	"github.com/gaurav-prasanna/lawpipe/core/markup"
)

// refRegex matches article mentions such as "статья 5", "статьей 12.1" or
// "ст. 7". Group 2 is the mention, group 3 the number.
var refRegex = regexp.MustCompile(`(?i)(^|[^\p{L}])((?:стать\p{L}*|ст\.)\s*(\d+(?:\.\d+)*))`)

// references maps each declared article number to the anchor of its first
// article.
func references(tree *core.Tree) map[string]int {
	refs := make(map[string]int)
	for _, a := range tree.Articles() {
		if a.Number == "" {
			continue
		}
		if _, ok := refs[a.Number]; !ok {
			refs[a.Number] = a.Anchor
		}
	}
	return refs
}

// appendLinked appends text to parent, turning mentions of known articles
// into internal links.
func appendLinked(parent *html.Node, text string, refs map[string]int) {
	last := 0
	for _, m := range refRegex.FindAllStringSubmatchIndex(text, -1) {
		anchor, ok := refs[text[m[6]:m[7]]]
		if !ok {
			continue
		}
		appendText(parent, text[last:m[4]])
		parent.AppendChild(markup.TextElement("a", "law-internal-link", text[m[4]:m[5]],
			markup.Attr("href", "#"+articleID(anchor))))
		last = m[5]
	}
	appendText(parent, text[last:])
}

func appendText(parent *html.Node, s string) {
	if s != "" {
		parent.AppendChild(markup.Text(s))
	}
}

func articleID(anchor int) string {
	return "article-" + strconv.Itoa(anchor)
}
