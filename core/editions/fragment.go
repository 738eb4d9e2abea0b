package editions

import (
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/lawpipe/core"
	"github.com/gaurav-prasanna/lawpipe/core/markup"
)

// DefaultLinkFormat is the edition page path; the verbs receive the
// escaped document id and edition id.
const DefaultLinkFormat = "/law/%s/edition/%s"

const (
	summaryText  = "Редакции документа"
	currentLabel = "действующая редакция"
)

// FragmentOptions controls the revision index.
type FragmentOptions struct {
	// LinkFormat builds edition links; empty means DefaultLinkFormat.
	LinkFormat string
	// MaxItems caps the listed editions; 0 lists all. The summary always
	// counts every edition.
	MaxItems int
}

// Fragment builds the law-editions-block for eds, which must already be
// ordered by Ledger.Editions. It returns nil for an empty set.
func Fragment(documentID string, eds []core.Edition, opts FragmentOptions) *html.Node {
	if len(eds) == 0 {
		return nil
	}
	format := opts.LinkFormat
	if format == "" {
		format = DefaultLinkFormat
	}

	block := markup.Element("details", "law-editions-block")
	markup.AppendBlock(block, markup.TextElement("summary", "law-editions-summary",
		summaryText+" ("+strconv.Itoa(len(eds))+")"))

	list := markup.Element("div", "law-editions-list")
	shown := eds
	if opts.MaxItems > 0 && len(shown) > opts.MaxItems {
		shown = shown[:opts.MaxItems]
	}
	for _, e := range shown {
		markup.AppendBlock(list, item(documentID, e, format))
	}
	markup.CloseBlock(list)

	markup.AppendBlock(block, list)
	markup.CloseBlock(block)
	return block
}

func item(documentID string, e core.Edition, format string) *html.Node {
	class := "law-edition-item"
	if e.IsCurrent {
		class += " law-edition-current"
	}
	div := markup.Element("div", class,
		markup.Attr("data-edition", e.ID),
		markup.Attr("data-date", e.Date.Format("2006-01-02")),
	)

	target := div
	if e.ID != "" {
		href := fmt.Sprintf(format, url.PathEscape(documentID), url.PathEscape(e.ID))
		target = markup.Element("a", "edition-link", markup.Attr("href", href))
		div.AppendChild(target)
	}
	target.AppendChild(markup.TextElement("span", "edition-date", e.Date.Format("02.01.2006")))
	if e.ChangeReason != "" {
		target.AppendChild(markup.Text(" "))
		target.AppendChild(markup.TextElement("span", "edition-title", e.ChangeReason))
	}
	if e.IsCurrent {
		div.AppendChild(markup.Text(" "))
		div.AppendChild(markup.TextElement("span", "law-edition-current-label", currentLabel))
	}
	return div
}

// Fragment builds the revision index of the ledger's editions.
func (l *Ledger) Fragment(opts FragmentOptions) *html.Node {
	return Fragment(l.documentID, l.Editions(), opts)
}
