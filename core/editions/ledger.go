package editions

import (
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/lawpipe/core"
)

// Ledger owns the edition set of one document. Stored records are never
// modified or deleted; only the current flag is derived on read.
type Ledger struct {
	documentID string
	identity   Identity
	logger     zerolog.Logger

	mu      sync.Mutex
	records []core.Edition
	keys    map[string]bool
	skipped int
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithIdentity sets the record identity.
func WithIdentity(id Identity) Option {
	return func(l *Ledger) { l.identity = id }
}

// WithLogger sets the logger for skipped records and flag disagreements.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// NewLedger creates an empty ledger for documentID.
func NewLedger(documentID string, opts ...Option) *Ledger {
	l := &Ledger{
		documentID: documentID,
		logger:     zerolog.Nop(),
		keys:       make(map[string]bool),
	}
	for _, o := range opts {
		o(l)
	}
	l.logger = l.logger.With().Str("component", "editions").Str("document", documentID).Logger()
	return l
}

// Upsert stores e unless a record with the same identity exists. It
// reports whether e was stored. An edition without a document id is
// adopted by the ledger.
func (l *Ledger) Upsert(e core.Edition) (bool, error) {
	switch e.DocumentID {
	case "":
		e.DocumentID = l.documentID
	case l.documentID:
	default:
		return false, fmt.Errorf("edition %q: %w: %s", e.ID, ErrForeignEdition, e.DocumentID)
	}

	if e.ValidFrom != "" || e.Date.IsZero() {
		date, err := ParseDate(e.ValidFrom)
		if err != nil {
			return false, fmt.Errorf("edition %q: %w", e.ID, err)
		}
		e.Date = date
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	key := l.key(e)
	if l.keys[key] {
		return false, nil
	}
	l.keys[key] = true
	l.records = append(l.records, e)
	return true, nil
}

// Ingest upserts every edition. Records that cannot be stored are logged
// and counted as skipped; duplicates are ignored silently. It returns the
// number of records stored.
func (l *Ledger) Ingest(eds []core.Edition) int {
	stored := 0
	for _, e := range eds {
		ok, err := l.Upsert(e)
		if err != nil {
			l.mu.Lock()
			l.skipped++
			l.mu.Unlock()
			l.logger.Warn().Err(err).Str("edition", e.ID).Str("valid_from", e.ValidFrom).Msg("edition skipped")
			continue
		}
		if ok {
			stored++
		}
	}
	return stored
}

// Skipped returns the number of records Ingest rejected.
func (l *Ledger) Skipped() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.skipped
}

// Len returns the number of stored records.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Editions returns the records newest first, stable for equal dates, with
// exactly one marked current: the first, which carries the maximum date.
func (l *Ledger) Editions() []core.Edition {
	l.mu.Lock()
	out := slices.Clone(l.records)
	l.mu.Unlock()

	slices.SortStableFunc(out, func(a, b core.Edition) int {
		return b.Date.Compare(a.Date)
	})
	for i := range out {
		current := i == 0
		if out[i].IsCurrent != current {
			l.logger.Debug().
				Str("edition", out[i].ID).
				Bool("source_current", out[i].IsCurrent).
				Bool("current", current).
				Msg("current flag recomputed")
		}
		out[i].IsCurrent = current
	}
	return out
}

// Current returns the current edition, if any.
func (l *Ledger) Current() (core.Edition, bool) {
	eds := l.Editions()
	if len(eds) == 0 {
		return core.Edition{}, false
	}
	return eds[0], true
}

// Find returns the stored edition with the given source id.
func (l *Ledger) Find(id string) (core.Edition, bool) {
	if id == "" {
		return core.Edition{}, false
	}
	for _, e := range l.Editions() {
		if e.ID == id {
			return e, true
		}
	}
	return core.Edition{}, false
}

func (l *Ledger) key(e core.Edition) string {
	if l.identity == IdentitySourceID && e.ID != "" {
		return l.documentID + "|id|" + e.ID
	}
	return l.documentID + "|date|" + e.Date.Format("2006-01-02")
}
