package parse

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gaurav-prasanna/lawpipe/core"
)

// Number token shapes per kind. Tokens are kept as literal text.
const (
	romanNum   = `[IVXLCDM]+`
	decimalNum = `\d+(?:\.\d+)*`
	articleNum = `\d+(?:[.\-]\d+)*`
)

var (
	numberedRegex = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)
	letteredRegex = regexp.MustCompile(`^([а-яёa-z])\)\s+(.+)$`)
)

// Vocabulary is the controlled set of structural keywords and the labels
// used when a structure is rendered back.
type Vocabulary struct {
	Part    []string
	Section []string
	Chapter []string
	Article []string

	PartLabel    string
	SectionLabel string
	ChapterLabel string
	ArticleLabel string

	// BucketTitle names synthesized containers.
	BucketTitle string

	// Ordinals are the word stems accepted as number tokens of parts,
	// sections and chapters ("ЧАСТЬ ПЕРВАЯ", "Глава вторая").
	Ordinals []string

	recognizers []recognizer
}

// Match is one recognized structural marker.
type Match struct {
	Kind   core.Kind
	Number string
	Title  string
}

type recognizer struct {
	kind core.Kind
	re   *regexp.Regexp
	// inline rejects matches whose remainder continues the sentence in
	// lower case, as in "Часть 2 статьи 7 признать утратившей силу".
	inline bool
}

// DefaultVocabulary returns the Russian vocabulary of the source corpus.
func DefaultVocabulary() *Vocabulary {
	v := &Vocabulary{
		Part:         []string{"часть"},
		Section:      []string{"раздел"},
		Chapter:      []string{"глава"},
		Article:      []string{"статья"},
		PartLabel:    "ЧАСТЬ",
		SectionLabel: "РАЗДЕЛ",
		ChapterLabel: "ГЛАВА",
		ArticleLabel: "Статья",
		BucketTitle:  "Статьи",
		Ordinals: []string{
			"перв", "втор", "трет", "четв", "пят", "шест", "седьм", "восьм",
			"девят", "десят", "одиннадцат", "двенадцат", "тринадцат",
			"четырнадцат", "семнадцат", "восемнадцат", "двадцат", "тридцат",
		},
	}
	v.compile()
	return v
}

// Extend adds keywords for each kind and recompiles the recognizers.
func (v *Vocabulary) Extend(part, section, chapter, article []string) *Vocabulary {
	v.Part = append(v.Part, part...)
	v.Section = append(v.Section, section...)
	v.Chapter = append(v.Chapter, chapter...)
	v.Article = append(v.Article, article...)
	v.compile()
	return v
}

// Label returns the rendering label for kind.
func (v *Vocabulary) Label(kind core.Kind) string {
	switch kind {
	case core.KindPart:
		return v.PartLabel
	case core.KindSection:
		return v.SectionLabel
	case core.KindChapter:
		return v.ChapterLabel
	case core.KindArticle:
		return v.ArticleLabel
	}
	return ""
}

// compile builds the ordered recognizers: Part, Section, Chapter, Article.
func (v *Vocabulary) compile() {
	v.recognizers = v.recognizers[:0]
	add := func(kind core.Kind, keywords []string, number string, inline bool) {
		if len(keywords) == 0 {
			return
		}
		re := regexp.MustCompile(`(?i)^(?:` + alternation(keywords) + `)\s+(` + number + `)(\.|\s|$)(.*)$`)
		v.recognizers = append(v.recognizers, recognizer{kind: kind, re: re, inline: inline})
	}
	words := ""
	if len(v.Ordinals) > 0 {
		words = `|(?:` + alternation(v.Ordinals) + `)\p{L}*`
	}
	add(core.KindPart, v.Part, romanNum+`|\d+`+words, true)
	add(core.KindSection, v.Section, romanNum+`|`+decimalNum+words, false)
	add(core.KindChapter, v.Chapter, romanNum+`|`+decimalNum+words, false)
	add(core.KindArticle, v.Article, articleNum, false)
}

func alternation(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}

// Recognize matches line against the recognizers in order.
func (v *Vocabulary) Recognize(line string) (Match, bool) {
	for _, r := range v.recognizers {
		if m, ok := r.match(line); ok {
			return m, true
		}
	}
	return Match{}, false
}

// recognizeKind matches line against the recognizer for kind only.
func (v *Vocabulary) recognizeKind(kind core.Kind, line string) (Match, bool) {
	for _, r := range v.recognizers {
		if r.kind == kind {
			return r.match(line)
		}
	}
	return Match{}, false
}

func (r recognizer) match(line string) (Match, bool) {
	m := r.re.FindStringSubmatch(line)
	if m == nil {
		return Match{}, false
	}
	if r.inline && m[2] != "." && startsLower(m[3]) {
		return Match{}, false
	}
	return Match{Kind: r.kind, Number: m[1], Title: cleanTitle(m[3])}, true
}

func startsLower(s string) bool {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(s))
	return unicode.IsLower(r)
}

// SplitHeading separates a heading such as "Статья 5.1. Title" into its
// number token and title. A known number is stripped literally first so
// that rendered headings split back exactly.
func (v *Vocabulary) SplitHeading(kind core.Kind, number, text string) (string, string) {
	prefix := v.Label(kind)
	if number != "" {
		prefix += " " + number
	}
	if rest, ok := strings.CutPrefix(text, prefix); ok && (rest == "" || rest == "." || strings.HasPrefix(rest, ". ")) {
		return number, cleanTitle(rest)
	}
	if m, ok := v.recognizeKind(kind, text); ok {
		if number != "" {
			return number, m.Title
		}
		return m.Number, m.Title
	}
	return number, cleanTitle(text)
}

// cleanTitle drops separators left between a number token and its title.
func cleanTitle(s string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(s), ".:-–—"))
}

// classify turns a content line into a paragraph node.
func classify(line string) *core.Node {
	if m := numberedRegex.FindStringSubmatch(line); m != nil {
		return &core.Node{Kind: core.KindParagraph, Item: core.ItemNumbered, Number: m[1], Text: m[2]}
	}
	if m := letteredRegex.FindStringSubmatch(line); m != nil {
		return &core.Node{Kind: core.KindParagraph, Item: core.ItemLettered, Number: m[1], Text: m[2]}
	}
	return &core.Node{Kind: core.KindParagraph, Text: line}
}
