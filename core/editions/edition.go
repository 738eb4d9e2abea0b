// Package editions keeps the revision history of one document and merges
// its revision index into the canonical body.
//
// A Ledger owns the edition set: it parses validity dates, enforces one
// explicit identity per record, orders editions newest first and derives
// the single current edition. Fragment and Merge turn that set into the
// law-editions-block of the canonical body, idempotently.
package editions

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUnparseableDate is returned for an edition whose validity date
	// matches none of the known layouts.
	ErrUnparseableDate = errors.New("unparseable edition date")
	// ErrForeignEdition is returned for an edition of another document.
	ErrForeignEdition = errors.New("edition belongs to another document")
)

// dateLayouts are the validity date forms seen in the sources.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate parses a validity date in any of the known layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, s)
}

// Identity selects the key under which a ledger stores editions.
type Identity int

const (
	// IdentityDate keys editions by document and validity date.
	IdentityDate Identity = iota
	// IdentitySourceID keys editions by document and source edition id.
	// Records without an id fall back to the date key.
	IdentitySourceID
)

func (i Identity) String() string {
	if i == IdentitySourceID {
		return "source_id"
	}
	return "date"
}

// ParseIdentity parses "date" or "source_id".
func ParseIdentity(s string) (Identity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "date":
		return IdentityDate, nil
	case "source_id", "id":
		return IdentitySourceID, nil
	}
	return IdentityDate, fmt.Errorf("unknown edition identity %q", s)
}
