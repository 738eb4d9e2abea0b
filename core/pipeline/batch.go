package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/lawpipe/core"
)

// Job is one document to canonicalize.
type Job struct {
	Document core.Document
	Raw      string
	Editions []core.Edition
}

// Batch canonicalizes jobs on up to workers goroutines and hands every
// output to fn together with its job index. fn may be called concurrently.
// The first error returned by fn, or the cancellation of ctx, stops
// scheduling further jobs.
func (p *Pipeline) Batch(ctx context.Context, jobs []Job, workers int, fn func(i int, out core.Output) error) error {
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := p.Canonicalize(job.Document, job.Raw, job.Editions)
			if fn == nil {
				return nil
			}
			if err := fn(i, out); err != nil {
				return fmt.Errorf("document %q: %w", job.Document.ID, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
