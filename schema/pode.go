package schema

// Node is a tagged reference value: the identity of one node together with
// the form it belongs to. Typed-union properties carry their target form at
// the value level, so their realized values are always Nodes.
type Node struct {
	// Form is the runtime form tag, e.g. "tel:phone".
	Form string
	// Value is the primary-property value identifying the node.
	Value any
}

// Pode is one concrete data record: a form identity plus its realized
// property values. Podes are transient; they are constructed per ingest
// batch, translated once, and not retained.
type Pode struct {
	// Form names the record's form.
	Form string
	// Value is the primary-property value.
	Value any
	// Props holds the realized secondary properties. Values are literals for
	// scalar properties, identities (or Nodes) for references, and []any for
	// one-to-many references.
	Props map[string]any
}
