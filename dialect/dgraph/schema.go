package dgraph

import (
	"sort"
	"strings"

	"github.com/syssam/graft"
	"github.com/syssam/graft/internal/naming"
	"github.com/syssam/graft/schema"
)

// Translator turns an assembled model into Dgraph payloads: a schema
// description and per-record upsert mutations. A Translator is immutable and
// safe for concurrent use.
type Translator struct {
	model *schema.Model
	types TypeMap
}

// Option configures a Translator.
type Option func(*Translator)

// WithTypes extends the default scalar type map with overrides, keyed by
// source type name.
func WithTypes(overrides map[string]string) Option {
	return func(t *Translator) { t.types = t.types.Extend(overrides) }
}

// NewTranslator returns a translator over the given model.
func NewTranslator(model *schema.Model, opts ...Option) *Translator {
	t := &Translator{model: model, types: DefaultTypes()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Predicate is one predicate declaration of the target schema.
type Predicate struct {
	// Name is the predicate name, shared across every form that uses it.
	Name string
	// Type is the Dgraph value type: a scalar type, "uid", or "[uid]".
	Type string
	// Index is the index directive, empty for reference predicates.
	Index string
}

// TypeDef is one type declaration, named after its form.
type TypeDef struct {
	// Form is the source form name.
	Form string
	// Name is the Dgraph type name.
	Name string
	// Predicates are the predicate names the type declares, sorted.
	Predicates []string
}

// Schema is the translated target schema. It is ordered deterministically
// (forms then predicates by name) so repeated runs over an unchanged model
// format to byte-identical output.
type Schema struct {
	Predicates []Predicate
	Types      []TypeDef
}

// Format renders the schema as a Dgraph alter payload: predicate lines
// followed by type blocks.
func (s *Schema) Format() string {
	var b strings.Builder
	for _, p := range s.Predicates {
		b.WriteString("<" + p.Name + ">: " + p.Type)
		if p.Index != "" {
			b.WriteString(" " + p.Index)
		}
		b.WriteString(" .\n")
	}
	b.WriteString("\n")
	for i, td := range s.Types {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("type " + td.Name + " {\n")
		for _, pred := range td.Predicates {
			b.WriteString("    <" + pred + ">\n")
		}
		b.WriteString("}\n")
	}
	return b.String()
}

// refRank orders value types by structural information: list references over
// single references over scalars. Schema conflicts resolve to the higher
// rank.
func refRank(dtype string) int {
	switch dtype {
	case "[uid]":
		return 3
	case "uid":
		return 2
	default:
		return 1
	}
}

// Schema classifies every property of every form and returns the target
// schema together with the warnings raised along the way (schema conflicts
// and unknown scalar types). Warnings never remove a property from the
// output.
func (t *Translator) Schema() (*Schema, []error) {
	var warnings []error
	preds := make(map[string]*predState)
	out := &Schema{}

	for _, form := range t.model.Forms() {
		var names []string
		record := func(name, dtype string) {
			names = append(names, name)
			st, ok := preds[name]
			if !ok {
				preds[name] = &predState{typ: dtype, form: form.Name()}
				return
			}
			if st.typ == dtype {
				return
			}
			kept, dropped := st.typ, dtype
			forms := []string{st.form, form.Name()}
			if refRank(dtype) > refRank(st.typ) {
				kept, dropped = dtype, st.typ
				st.typ = dtype
				st.form = form.Name()
			}
			sort.Strings(forms)
			warnings = append(warnings, &graft.SchemaConflictError{
				Predicate: name,
				Forms:     forms,
				Kept:      kept,
				Dropped:   dropped,
			})
		}

		// Primary property. Its predicate is the dotted form name; forms
		// whose primary type carries no value (compounds) declare none.
		primary, warn := t.scalarType(form.Name(), form.Name(), form.Type())
		if warn != nil {
			warnings = append(warnings, warn)
		}
		if primary != "" {
			record(naming.Dotify(form.Name()), primary)
		}

		refs := form.RefsOut()
		for _, prop := range form.Props() {
			// Universal properties (".created", ".seen") are maintained by
			// the source and have no target-schema counterpart.
			if strings.HasPrefix(prop.Name, ".") {
				continue
			}
			var dtype string
			switch refs.Kind(prop.Name) {
			case schema.One, schema.Union:
				dtype = "uid"
			case schema.Many:
				dtype = "[uid]"
			default:
				var warn error
				dtype, warn = t.scalarType(form.Name(), prop.Name, prop.Type)
				if warn != nil {
					warnings = append(warnings, warn)
				}
				if dtype == "" {
					continue
				}
			}
			record(naming.Dotify(prop.Name), dtype)
		}

		sort.Strings(names)
		out.Types = append(out.Types, TypeDef{
			Form:       form.Name(),
			Name:       naming.Pascalify(form.Name()),
			Predicates: names,
		})
	}

	for name, st := range preds {
		out.Predicates = append(out.Predicates, Predicate{
			Name:  name,
			Type:  st.typ,
			Index: indexFor(st.typ),
		})
	}
	sort.Slice(out.Predicates, func(i, j int) bool { return out.Predicates[i].Name < out.Predicates[j].Name })
	return out, warnings
}

type predState struct {
	typ  string
	form string
}

// scalarType resolves a declared source type to a Dgraph value type. Unknown
// types fail closed: they translate as string and raise a warning naming the
// unrecognized type.
func (t *Translator) scalarType(form, prop, src string) (string, error) {
	if dtype, ok := t.types.Lookup(src); ok {
		return dtype, nil
	}
	return "string", &graft.UnknownScalarTypeError{Form: form, Prop: prop, Type: src}
}
