// Package graft translates a source graph data model (forms, properties,
// typed edges) into the schema and data-loading primitives of a target
// property-graph store.
//
// The translation is a straight pipeline: model sources are registered on a
// [Registry], compiler/load assembles them into one immutable schema.Model,
// and dialect/dgraph walks the model to emit the target schema and per-record
// upsert mutations. Translation is one-directional and best-effort: there is
// no round-trip guarantee back to the source model, which is why every
// omitted property produces an audit record.
package graft

import (
	"fmt"
	"sort"
	"sync"

	"github.com/syssam/graft/schema"
)

// Source yields model-definition units. Sources are registered explicitly:
// there is no global registration namespace and no reflective discovery.
type Source interface {
	// Name identifies the source, e.g. "tel". Names are unique per registry.
	Name() string
	// ModelDefs returns the definition units this source contributes. A
	// source may return no defs; such sources are skipped during loading.
	ModelDefs() ([]*schema.Def, error)
}

// Registry is an explicit, name-deduplicating collection of model sources.
// The zero value is ready to use.
type Registry struct {
	mu      sync.RWMutex
	names   map[string]bool
	sources []Source
}

// NewRegistry returns a registry seeded with the given sources.
func NewRegistry(sources ...Source) (*Registry, error) {
	r := &Registry{}
	for _, s := range sources {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a source. Registering two sources with the same name is an
// error, so a partially misconfigured setup stays recoverable rather than
// panicking.
func (r *Registry) Register(s Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.names == nil {
		r.names = make(map[string]bool)
	}
	name := s.Name()
	if r.names[name] {
		return fmt.Errorf("%w: %q", ErrDuplicateSource, name)
	}
	r.names[name] = true
	r.sources = append(r.sources, s)
	return nil
}

// Sources returns the registered sources sorted by name. Load order does not
// affect the assembled model, but a stable order keeps logs deterministic.
func (r *Registry) Sources() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sources := make([]Source, len(r.sources))
	copy(sources, r.sources)
	sort.Slice(sources, func(i, j int) bool { return sources[i].Name() < sources[j].Name() })
	return sources
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}
