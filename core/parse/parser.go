// Package parse implements the Parser interface.
// It recovers the Part > Section > Chapter > Article hierarchy from
// normalized content using one of two strategies:
//  1. semantic: explicit classes and ids on the markup (law-part,
//     law-article, article, portal ids such as st5_1)
//  2. pattern: keyword recognizers applied line by line to the flat text
//
// Both strategies share one assembler, so containers, synthesized buckets
// and anchors follow the same rules.
package parse

import (
	"github.com/gaurav-prasanna/lawpipe/core"
	"github.com/gaurav-prasanna/lawpipe/core/markup"
)

// StructureParser recovers the structure tree of a document.
type StructureParser struct {
	vocab *Vocabulary
}

// Option configures a StructureParser.
type Option func(*StructureParser)

// WithVocabulary replaces the default keyword vocabulary.
func WithVocabulary(v *Vocabulary) Option {
	return func(p *StructureParser) {
		if v != nil {
			p.vocab = v
		}
	}
}

// New creates a StructureParser.
func New(opts ...Option) *StructureParser {
	p := &StructureParser{vocab: DefaultVocabulary()}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Vocabulary returns the vocabulary the parser recognizes.
func (p *StructureParser) Vocabulary() *Vocabulary {
	return p.vocab
}

// Parse never fails and never returns an empty top level. The semantic
// strategy is chosen whenever the content tree carries explicit markers.
func (p *StructureParser) Parse(c *core.Content) *core.Tree {
	if c == nil {
		c = &core.Content{Empty: true}
	}
	if c.Root != nil && hasSemanticMarkers(c.Root) {
		return p.parseSemantic(c)
	}
	return p.parsePattern(c)
}

func (p *StructureParser) parseSemantic(c *core.Content) *core.Tree {
	w := &semanticWalker{ctx: newContext(p.vocab, core.StrategySemantic)}
	w.walk(c.Root)
	w.flush()
	return w.ctx.finish(c.Empty)
}

func (p *StructureParser) parsePattern(c *core.Content) *core.Tree {
	ctx := newContext(p.vocab, core.StrategyPattern)
	for _, l := range markup.SplitLines(c.Text) {
		ctx.line(l)
	}
	return ctx.finish(c.Empty)
}
