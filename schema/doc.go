// Package schema holds the in-memory representation of the source graph
// model: forms, properties, and the outbound-reference metadata that drives
// edge classification.
//
// # Model assembly
//
// Definition units ([Def]) are yielded by model sources and assembled into a
// single immutable [Model]:
//
//	model, err := schema.NewModel(defs...)
//
// Assembly validates the classification invariant: for every form, the three
// reference collections (one-to-one, typed-union, one-to-many) are pairwise
// disjoint and name only declared properties. Every property not named by a
// collection is scalar.
//
// # Classification
//
// Consumers never re-derive the classification from raw property types; they
// ask the form:
//
//	form, _ := model.Form("tel:txtmesg")
//	refs := form.RefsOut()
//	refs.Kind("from")       // schema.One
//	refs.Kind("body")       // schema.Scalar
//	refs.Target("from")     // "tel:phone", true
//
// # Records
//
// A [Pode] is one concrete record: the form's primary-property value plus its
// realized secondary properties. Typed-union values are tagged [Node] values,
// since the schema does not fix their target form.
package schema
