// Package dialect defines the target-store abstraction used by the
// translation pipeline.
//
// The core never manages the target store beyond producing payloads: an
// [Ingester] accepts a schema-definition payload and batches of conditional
// mutations, and the dialect subpackages decide what those payloads look
// like. The only dialect currently implemented is [Dgraph]
// (dialect/dgraph).
package dialect

import "context"

// Dgraph is the dialect name of the Dgraph property-graph store.
const Dgraph = "dgraph"

// Mutation is one conditional set of statements inside an upsert request.
type Mutation struct {
	// Cond guards the mutation, e.g. `@if(eq(len(v0), 0))`. Empty applies
	// unconditionally.
	Cond string
	// SetNquads holds the RDF N-Quad statements to set.
	SetNquads []byte
}

// Request is one upsert request: a query block binding variables plus the
// mutations conditioned on them.
type Request struct {
	Query     string
	Mutations []Mutation
}

// Ingester applies translated payloads to a live store. Implementations own
// the connection lifecycle; retry policy beyond transaction aborts is the
// caller's concern.
type Ingester interface {
	// Alter applies a schema-definition payload. Schema application is
	// append-only versus the live store; no destructive diff is computed.
	Alter(ctx context.Context, schema string) error

	// Mutate executes one upsert request.
	Mutate(ctx context.Context, req Request) error

	// Close releases the underlying connection.
	Close() error

	// Dialect returns the dialect name.
	Dialect() string
}
