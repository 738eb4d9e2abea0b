// Package pipeline wires the stages into the canonicalization flow:
// normalize → strip prior wrapper → parse → render → merge editions.
//
// Canonicalize never fails. Recognition misses pass the cleaned content
// through, unparseable edition dates skip their record, and a render
// failure returns the raw input unaltered; each case is logged and counted.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/lawpipe/core"
	"github.com/gaurav-prasanna/lawpipe/core/editions"
	"github.com/gaurav-prasanna/lawpipe/core/normalize"
	"github.com/gaurav-prasanna/lawpipe/core/parse"
	"github.com/gaurav-prasanna/lawpipe/core/render"
	"github.com/gaurav-prasanna/lawpipe/internal/metrics"
)

var (
	// ErrUnknownEdition is returned by RenderEdition for an id the ledger
	// does not hold.
	ErrUnknownEdition = errors.New("unknown edition")
	// ErrNoSnapshot is returned by RenderEdition for an edition without
	// stored content.
	ErrNoSnapshot = errors.New("edition has no snapshot")
)

// Pipeline canonicalizes documents. It holds no per-document state and is
// safe for concurrent use.
type Pipeline struct {
	normalizer core.Normalizer
	parser     core.Parser
	canonical  *render.Canonical
	logger     zerolog.Logger
	metrics    *metrics.Metrics
	identity   editions.Identity
	fragment   editions.FragmentOptions

	vocab     *parse.Vocabulary
	crossRefs bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithVocabulary sets the keyword vocabulary for parsing and the labels
// for rendering.
func WithVocabulary(v *parse.Vocabulary) Option {
	return func(p *Pipeline) { p.vocab = v }
}

// WithCrossReferences toggles article links in paragraphs.
func WithCrossReferences(on bool) Option {
	return func(p *Pipeline) { p.crossRefs = on }
}

// WithNormalizer replaces the content normalizer.
func WithNormalizer(n core.Normalizer) Option {
	return func(p *Pipeline) { p.normalizer = n }
}

// WithParser replaces the structure parser.
func WithParser(ps core.Parser) Option {
	return func(p *Pipeline) { p.parser = ps }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithIdentity sets the edition identity used by the ledger.
func WithIdentity(id editions.Identity) Option {
	return func(p *Pipeline) { p.identity = id }
}

// WithFragmentOptions configures the revision index.
func WithFragmentOptions(opts editions.FragmentOptions) Option {
	return func(p *Pipeline) { p.fragment = opts }
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:    zerolog.Nop(),
		crossRefs: true,
	}
	for _, o := range opts {
		o(p)
	}
	if p.vocab == nil {
		p.vocab = parse.DefaultVocabulary()
	}
	if p.normalizer == nil {
		p.normalizer = normalize.New()
	}
	if p.parser == nil {
		p.parser = parse.New(parse.WithVocabulary(p.vocab))
	}
	p.canonical = render.NewCanonical(
		render.WithVocabulary(p.vocab),
		render.WithCrossReferences(p.crossRefs),
	)
	return p
}

// Canonicalize turns raw content of doc into the canonical body with the
// revision index of eds merged in.
func (p *Pipeline) Canonicalize(doc core.Document, raw string, eds []core.Edition) core.Output {
	start := time.Now()
	log := p.logger.With().Str("document", doc.ID).Logger()

	content := p.normalizer.Normalize(raw)
	if header := render.Unwrap(content); doc.Title == "" && header.Title != "" {
		doc.Title = header.Title
	}
	tree := p.parser.Parse(content)
	if tree.Miss {
		log.Warn().Msg("no structural markers recognized, content passed through")
	}

	ledger := editions.NewLedger(doc.ID, editions.WithIdentity(p.identity), editions.WithLogger(log))
	ledger.Ingest(eds)
	ordered := ledger.Editions()

	body, err := p.canonical.Render(doc, tree, content)
	if err != nil {
		log.Error().Err(err).Msg("render failed, raw content passed through")
		p.metrics.RecordFallback()
		body = raw
	} else if merged, err := editions.Merge(body, editions.Fragment(doc.ID, ordered, p.fragment)); err != nil {
		log.Error().Err(err).Msg("edition merge failed")
	} else {
		body = merged
	}
	doc.Body = body

	out := core.Output{
		Document:        doc,
		Tree:            tree,
		Anchors:         tree.Anchors(),
		Editions:        ordered,
		Miss:            tree.Miss,
		SkippedEditions: ledger.Skipped(),
	}

	elapsed := time.Since(start)
	p.metrics.RecordDocument(string(tree.Strategy), len(out.Anchors), tree.Miss, elapsed)
	p.metrics.RecordEditions(len(ordered), out.SkippedEditions)
	log.Debug().
		Str("strategy", string(tree.Strategy)).
		Int("articles", len(out.Anchors)).
		Int("editions", len(ordered)).
		Dur("duration_ms", elapsed).
		Msg("document canonicalized")
	return out
}

// RenderEdition canonicalizes the snapshot of one edition: the header's
// amendment line shows the edition date and the same revision index is
// merged in.
func (p *Pipeline) RenderEdition(doc core.Document, editionID string, eds []core.Edition) (core.Output, error) {
	ledger := editions.NewLedger(doc.ID, editions.WithIdentity(p.identity))
	ledger.Ingest(eds)

	e, ok := ledger.Find(editionID)
	if !ok {
		return core.Output{}, fmt.Errorf("document %q: %w: %s", doc.ID, ErrUnknownEdition, editionID)
	}
	if e.Snapshot == "" {
		return core.Output{}, fmt.Errorf("document %q edition %s: %w", doc.ID, editionID, ErrNoSnapshot)
	}
	doc.AmendedAt = e.Date
	return p.Canonicalize(doc, e.Snapshot, eds), nil
}
