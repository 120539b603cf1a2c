package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/graft"
	"github.com/syssam/graft/audit"
	"github.com/syssam/graft/dialect"
	"github.com/syssam/graft/dialect/dgraph"
	"github.com/syssam/graft/schema"
)

// Stats summarizes one ingest run.
type Stats struct {
	// Run is the run identifier carried by every audit record of the run.
	Run string
	// Podes is the number of records read.
	Podes int64
	// Failed is the number of records that could not be translated at all.
	Failed int64
	// Warnings is the number of per-property audit records.
	Warnings int64
}

// Pipeline translates records concurrently and applies the payloads to an
// ingester. Records are independent of each other, so translation order is
// unspecified; each record's own requests run in order.
type Pipeline struct {
	translator *dgraph.Translator
	ingester   dialect.Ingester
	recorder   audit.Recorder
	workers    int
	log        *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers bounds concurrent record translation. Defaults to 4.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithRecorder sets the audit recorder. Defaults to an in-memory recorder.
func WithRecorder(r audit.Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// NewPipeline returns a pipeline over the given translator and ingester.
func NewPipeline(tr *dgraph.Translator, ing dialect.Ingester, opts ...Option) *Pipeline {
	p := &Pipeline{
		translator: tr,
		ingester:   ing,
		recorder:   &audit.MemoryRecorder{},
		workers:    4,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run reads records until EOF, translating and upserting them with bounded
// concurrency. Per-record and per-property failures are audited and counted;
// Run itself fails only on stream corruption, ingester errors, or context
// cancellation.
func (p *Pipeline) Run(ctx context.Context, r *Reader) (*Stats, error) {
	stats := &Stats{Run: uuid.NewString()}
	podes := make(chan podeItem)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(podes)
		for {
			pode, err := r.Read()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			select {
			case podes <- podeItem{pode: pode}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
	for i := 0; i < p.workers; i++ {
		g.Go(func() error {
			for item := range podes {
				if err := p.ingestOne(ctx, stats, item); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}
	p.log.Info("ingest run finished",
		"run", stats.Run,
		"podes", stats.Podes,
		"failed", stats.Failed,
		"warnings", stats.Warnings,
	)
	return stats, nil
}

type podeItem struct {
	pode *schema.Pode
}

func (p *Pipeline) ingestOne(ctx context.Context, stats *Stats, item podeItem) error {
	atomic.AddInt64(&stats.Podes, 1)
	tr, err := p.translator.Pode(item.pode)
	if err != nil {
		atomic.AddInt64(&stats.Failed, 1)
		p.log.Warn("record translation failed", "run", stats.Run, "form", item.pode.Form, "err", err)
		return p.recorder.Record(ctx, audit.Record{
			Run:    stats.Run,
			Form:   item.pode.Form,
			Detail: err.Error(),
			Time:   time.Now().UTC(),
		})
	}
	for _, warn := range tr.Warnings {
		atomic.AddInt64(&stats.Warnings, 1)
		form, prop := locate(warn)
		if form == "" {
			form = tr.Form
		}
		rec := audit.Record{
			Run:    stats.Run,
			Form:   form,
			Prop:   prop,
			Detail: warn.Error(),
			Time:   time.Now().UTC(),
		}
		if err := p.recorder.Record(ctx, rec); err != nil {
			return err
		}
	}
	for _, req := range tr.Requests {
		if err := p.ingester.Mutate(ctx, req); err != nil {
			return fmt.Errorf("ingest: upserting %s record: %w", tr.Form, err)
		}
	}
	return nil
}

// locate extracts the (form, prop) location from a per-property warning.
func locate(warn error) (form, prop string) {
	var (
		refErr    *graft.ReferenceResolutionError
		unionErr  *graft.UnknownUnionTargetError
		scalarErr *graft.UnknownScalarTypeError
		valueErr  *graft.InvalidScalarValueError
		propErr   *graft.UnknownPropError
	)
	switch {
	case errors.As(warn, &refErr):
		return refErr.Form, refErr.Prop
	case errors.As(warn, &unionErr):
		return unionErr.Form, unionErr.Prop
	case errors.As(warn, &scalarErr):
		return scalarErr.Form, scalarErr.Prop
	case errors.As(warn, &valueErr):
		return valueErr.Form, valueErr.Prop
	case errors.As(warn, &propErr):
		return propErr.Form, propErr.Prop
	default:
		return "", ""
	}
}
