package schema

import (
	"fmt"
	"sort"
)

// RefKind describes how a single property of a form relates to the rest of
// the graph. Every declared property falls into exactly one kind.
type RefKind int

const (
	// Scalar is a literal-valued property (string, integer, timestamp, ...).
	Scalar RefKind = iota
	// One is a reference to exactly one instance of a fixed target form.
	One
	// Union is a reference whose target form is carried by the value itself
	// rather than being fixed by the schema.
	Union
	// Many is an ordered sequence of references to a fixed target form.
	Many
)

// String returns the kind name used in logs and audit records.
func (k RefKind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case One:
		return "one"
	case Union:
		return "union"
	case Many:
		return "many"
	default:
		return fmt.Sprintf("RefKind(%d)", int(k))
	}
}

// Ref binds a property name to the form it points to.
type Ref struct {
	Prop string
	Form string
}

// Refs holds the outbound-reference metadata of a form: the three disjoint
// collections that separate reference properties from scalars. A property
// absent from all three collections is scalar.
type Refs struct {
	// One holds one-to-one references with a fixed target form.
	One []Ref
	// Union holds properties whose target form is resolved per record.
	Union []string
	// Many holds one-to-many references with a fixed target form.
	Many []Ref
}

// Kind reports the classification of the named property.
func (r Refs) Kind(prop string) RefKind {
	for _, ref := range r.One {
		if ref.Prop == prop {
			return One
		}
	}
	for _, name := range r.Union {
		if name == prop {
			return Union
		}
	}
	for _, ref := range r.Many {
		if ref.Prop == prop {
			return Many
		}
	}
	return Scalar
}

// Target returns the fixed target form for a one-to-one or one-to-many
// property, or false when the property has no fixed target.
func (r Refs) Target(prop string) (string, bool) {
	for _, ref := range r.One {
		if ref.Prop == prop {
			return ref.Form, true
		}
	}
	for _, ref := range r.Many {
		if ref.Prop == prop {
			return ref.Form, true
		}
	}
	return "", false
}

// Prop is one declared attribute of a form.
type Prop struct {
	// Name of the property within its form.
	Name string
	// Type is the declared source type name, e.g. "str", "int", "tel:phone".
	Type string
}

// PropDef declares a property inside a definition unit.
type PropDef struct {
	Name string
	Type string
}

// FormDef declares one form inside a definition unit.
type FormDef struct {
	// Name is the colon-namespaced form name, e.g. "tel:txtmesg".
	Name string
	// Type is the source type of the form's primary property.
	Type string
	// Props are the declared secondary properties.
	Props []PropDef
	// Refs is the outbound-reference metadata keyed by property name.
	Refs Refs
}

// Def is one model-definition unit, the granularity at which sources yield
// schema. A source may yield any number of defs, including none.
type Def struct {
	// Name identifies the definition unit, e.g. "tel".
	Name string
	// Forms declared by this unit.
	Forms []*FormDef
}

// Form is one node type of the assembled model. Forms are immutable after
// model assembly.
type Form struct {
	name  string
	typ   string
	props map[string]Prop
	refs  Refs
}

// Name returns the colon-namespaced form name.
func (f *Form) Name() string { return f.name }

// Type returns the source type name of the form's primary property.
func (f *Form) Type() string { return f.typ }

// Prop returns the named property declaration.
func (f *Form) Prop(name string) (Prop, bool) {
	p, ok := f.props[name]
	return p, ok
}

// Props returns the declared properties sorted by name.
func (f *Form) Props() []Prop {
	props := make([]Prop, 0, len(f.props))
	for _, p := range f.props {
		props = append(props, p)
	}
	sort.Slice(props, func(i, j int) bool { return props[i].Name < props[j].Name })
	return props
}

// RefsOut returns the form's outbound-reference collections. Consumers
// classify properties only through this metadata, never by re-deriving the
// classification from raw property types.
func (f *Form) RefsOut() Refs { return f.refs }

// Model is the aggregate schema: every form assembled from every definition
// unit. A model is built once, validated, and never mutated afterwards.
type Model struct {
	forms map[string]*Form
}

// NewModel assembles a model from definition units. Assembly is idempotent
// under reordering: identical duplicate forms are merged silently, while
// conflicting redeclarations are rejected. Every form is validated against
// the classification invariant (the three reference collections are pairwise
// disjoint and refer only to declared properties).
func NewModel(defs ...*Def) (*Model, error) {
	m := &Model{forms: make(map[string]*Form)}
	for _, def := range defs {
		if def == nil {
			continue
		}
		for _, fd := range def.Forms {
			form, err := newForm(fd)
			if err != nil {
				return nil, fmt.Errorf("def %q: %w", def.Name, err)
			}
			if prev, ok := m.forms[form.name]; ok {
				if !sameForm(prev, form) {
					return nil, fmt.Errorf("def %q: form %q redeclared with a different shape", def.Name, form.name)
				}
				continue
			}
			m.forms[form.name] = form
		}
	}
	return m, nil
}

// Form returns the named form.
func (m *Model) Form(name string) (*Form, bool) {
	f, ok := m.forms[name]
	return f, ok
}

// Forms returns all forms sorted by name.
func (m *Model) Forms() []*Form {
	forms := make([]*Form, 0, len(m.forms))
	for _, f := range m.forms {
		forms = append(forms, f)
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i].name < forms[j].name })
	return forms
}

// Len returns the number of forms in the model.
func (m *Model) Len() int { return len(m.forms) }

func newForm(fd *FormDef) (*Form, error) {
	if fd.Name == "" {
		return nil, fmt.Errorf("form with empty name")
	}
	f := &Form{
		name:  fd.Name,
		typ:   fd.Type,
		props: make(map[string]Prop, len(fd.Props)),
		refs:  fd.Refs,
	}
	for _, pd := range fd.Props {
		if _, ok := f.props[pd.Name]; ok {
			return nil, fmt.Errorf("form %q: property %q declared twice", fd.Name, pd.Name)
		}
		f.props[pd.Name] = Prop{Name: pd.Name, Type: pd.Type}
	}
	if err := checkRefs(f); err != nil {
		return nil, err
	}
	return f, nil
}

// checkRefs enforces the classification invariant: each property appears in
// at most one of the three reference collections, and every referenced
// property is declared.
func checkRefs(f *Form) error {
	seen := make(map[string]RefKind)
	record := func(prop string, kind RefKind) error {
		if prop == "" {
			return fmt.Errorf("form %q: %s reference with empty property name", f.name, kind)
		}
		if _, ok := f.props[prop]; !ok {
			return fmt.Errorf("form %q: %s reference %q does not match a declared property", f.name, kind, prop)
		}
		if prev, ok := seen[prop]; ok {
			return fmt.Errorf("form %q: property %q classified as both %s and %s", f.name, prop, prev, kind)
		}
		seen[prop] = kind
		return nil
	}
	for _, ref := range f.refs.One {
		if err := record(ref.Prop, One); err != nil {
			return err
		}
	}
	for _, prop := range f.refs.Union {
		if err := record(prop, Union); err != nil {
			return err
		}
	}
	for _, ref := range f.refs.Many {
		if err := record(ref.Prop, Many); err != nil {
			return err
		}
	}
	return nil
}

func sameForm(a, b *Form) bool {
	if a.name != b.name || a.typ != b.typ || len(a.props) != len(b.props) {
		return false
	}
	for name, p := range a.props {
		q, ok := b.props[name]
		if !ok || p != q {
			return false
		}
	}
	return sameRefs(a.refs, b.refs)
}

func sameRefs(a, b Refs) bool {
	if len(a.One) != len(b.One) || len(a.Union) != len(b.Union) || len(a.Many) != len(b.Many) {
		return false
	}
	kinds := func(r Refs) map[string]Ref {
		m := make(map[string]Ref, len(r.One)+len(r.Many))
		for _, ref := range r.One {
			m["1:"+ref.Prop] = ref
		}
		for _, ref := range r.Many {
			m["n:"+ref.Prop] = ref
		}
		return m
	}
	am, bm := kinds(a), kinds(b)
	for k, ref := range am {
		if bm[k] != ref {
			return false
		}
	}
	union := make(map[string]bool, len(a.Union))
	for _, p := range a.Union {
		union[p] = true
	}
	for _, p := range b.Union {
		if !union[p] {
			return false
		}
	}
	return true
}
