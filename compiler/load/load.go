// Package load assembles model-definition units from registered sources into
// a single immutable schema.Model.
package load

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/graft"
	"github.com/syssam/graft/schema"
)

// Loader collects definitions from an explicit set of sources and merges
// them into one model. Collection order never affects the result; model
// assembly is idempotent under reordering.
type Loader struct {
	registry *graft.Registry
	log      *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the structured logger used for per-source diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// NewLoader returns a loader over the given registry.
func NewLoader(registry *graft.Registry, opts ...Option) *Loader {
	l := &Loader{registry: registry, log: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load enumerates every registered source concurrently and assembles the
// yielded definitions into a model. Sources that yield nothing are skipped
// silently; sources that fail are logged and skipped, so one broken source
// never aborts the scan. Load fails with a graft.LoadError only when the
// registry is empty or no source produced any definitions, and with the
// assembly error when collected definitions conflict.
func (l *Loader) Load(ctx context.Context) (*schema.Model, error) {
	sources := l.registry.Sources()
	if len(sources) == 0 {
		return nil, graft.NewLoadError("no sources registered")
	}

	var (
		mu     sync.Mutex
		defs   []*schema.Def
		failed []string
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		src := src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sd, err := src.ModelDefs()
			if err != nil {
				l.log.Warn("skipping model source", "source", src.Name(), "err", err)
				mu.Lock()
				failed = append(failed, src.Name())
				mu.Unlock()
				return nil
			}
			if len(sd) == 0 {
				l.log.Debug("model source yielded no definitions", "source", src.Name())
				return nil
			}
			mu.Lock()
			defs = append(defs, sd...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("graft: collecting model definitions: %w", err)
	}
	if len(defs) == 0 {
		sort.Strings(failed)
		if len(failed) > 0 {
			return nil, graft.NewLoadError(fmt.Sprintf("no model definitions discovered (failed sources: %v)", failed))
		}
		return nil, graft.NewLoadError("no model definitions discovered")
	}

	model, err := schema.NewModel(defs...)
	if err != nil {
		return nil, fmt.Errorf("graft: assembling model: %w", err)
	}
	l.log.Info("model loaded", "sources", len(sources), "forms", model.Len())
	return model, nil
}
