// Package dgraph translates an assembled source model into Dgraph payloads.
//
// # Schema translation
//
// [Translator.Schema] classifies every property of every form through the
// form's outbound-reference metadata and emits one type declaration per form
// plus one predicate declaration per distinct property name:
//
//	tr := dgraph.NewTranslator(model)
//	sch, warnings := tr.Schema()
//	fmt.Print(sch.Format())
//
// The output is deterministic: repeated runs over an unchanged model format
// to byte-identical text, so schema changes across releases diff cleanly.
// A property name used as scalar in one form and as a reference in another
// is a schema conflict; it resolves to the reference interpretation and is
// reported as a graft.SchemaConflictError.
//
// # Data translation
//
// [Translator.Pode] converts one record into upsert requests: a request
// creating any referenced node that does not yet exist (conditional on the
// node's primary predicate), then a request setting the record's predicates.
// Reference failures are per-property: the property is omitted, a warning
// recorded, and the rest of the record translates normally.
//
// # Applying payloads
//
// [Client] is the dialect.Ingester for a live Dgraph instance. It applies
// schema via Alter and executes each upsert request in its own transaction,
// retrying aborts.
package dgraph
