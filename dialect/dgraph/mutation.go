package dgraph

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/syssam/graft"
	"github.com/syssam/graft/dialect"
	"github.com/syssam/graft/internal/naming"
	"github.com/syssam/graft/schema"
)

// Assignment is one translated predicate assignment of a record.
type Assignment struct {
	// Predicate is the target predicate name.
	Predicate string
	// Object is the N-Quad object: a formatted literal for scalars, a
	// uid(...) reference for edges.
	Object string
	// Edge reports whether the assignment is a node reference.
	Edge bool
	// Target is the resolved target form for edges, empty for scalars.
	Target string
}

// Translation is the upsert payload for one record, plus the per-property
// warnings collected while producing it. A non-empty Warnings list never
// implies a failed translation: valid properties are always emitted.
type Translation struct {
	// Form is the record's form name.
	Form string
	// Assignments are the secondary-property assignments, in property order
	// (one-to-many elements in input order).
	Assignments []Assignment
	// Requests are the upsert requests to execute in order: first the
	// request ensuring every referenced node exists, then the request
	// setting the record's predicates.
	Requests []dialect.Request
	// Warnings holds the per-property failures. Every omitted property has
	// exactly one entry here; nothing is dropped silently.
	Warnings []error
}

// identity is one node mentioned by a record: a form plus its primary
// property value, formatted once for each context it appears in (N-Quad
// object versus eq() argument in the query block).
type identity struct {
	form    string
	literal string // N-Quad object form
	eqArg   string // query eq() argument form
	vr      string // bound query variable, v0 is always the subject
}

// Pode translates one record into upsert requests using the classification
// of the record's form. Per-property failures (unresolvable references,
// unknown union tags, undeclared properties) are collected as warnings and
// the property omitted; the record itself fails only when its form is
// unknown or its own identity cannot be established.
func (t *Translator) Pode(p *schema.Pode) (*Translation, error) {
	form, ok := t.model.Form(p.Form)
	if !ok {
		return nil, fmt.Errorf("graft: unknown form %q", p.Form)
	}
	primaryType, _ := t.scalarType(form.Name(), form.Name(), form.Type())
	if primaryType == "" {
		return nil, fmt.Errorf("graft: form %q has no primary predicate to upsert by", p.Form)
	}
	subjectLit, subjectEq, ok := formatIdentity(p.Value, primaryType)
	if !ok {
		return nil, fmt.Errorf("graft: form %q: value %v is not a valid identity", p.Form, p.Value)
	}

	tr := &Translation{Form: p.Form}
	ids := []*identity{{form: p.Form, literal: subjectLit, eqArg: subjectEq, vr: "v0"}}
	seen := map[string]*identity{p.Form + "\x00" + subjectLit: ids[0]}
	intern := func(id *identity) *identity {
		key := id.form + "\x00" + id.literal
		if prev, ok := seen[key]; ok {
			return prev
		}
		id.vr = "v" + strconv.Itoa(len(ids))
		seen[key] = id
		ids = append(ids, id)
		return id
	}

	refs := form.RefsOut()
	for _, name := range sortedProps(p.Props) {
		value := p.Props[name]
		prop, declared := form.Prop(name)
		if !declared {
			tr.Warnings = append(tr.Warnings, &graft.UnknownPropError{Form: p.Form, Prop: name})
			continue
		}
		pred := naming.Dotify(name)
		switch refs.Kind(name) {
		case schema.One:
			target, _ := refs.Target(name)
			id, err := t.resolve(p.Form, name, target, value)
			if err != nil {
				tr.Warnings = append(tr.Warnings, err)
				continue
			}
			tr.Assignments = append(tr.Assignments, Assignment{
				Predicate: pred,
				Object:    "uid(" + intern(id).vr + ")",
				Edge:      true,
				Target:    id.form,
			})
		case schema.Union:
			id, err := t.resolveUnion(p.Form, name, value)
			if err != nil {
				tr.Warnings = append(tr.Warnings, err)
				continue
			}
			tr.Assignments = append(tr.Assignments, Assignment{
				Predicate: pred,
				Object:    "uid(" + intern(id).vr + ")",
				Edge:      true,
				Target:    id.form,
			})
		case schema.Many:
			target, _ := refs.Target(name)
			elems, ok := sequence(value)
			if !ok {
				tr.Warnings = append(tr.Warnings, &graft.ReferenceResolutionError{
					Form: p.Form, Prop: name, Target: target, Value: value,
				})
				continue
			}
			for _, elem := range elems {
				id, err := t.resolve(p.Form, name, target, elem)
				if err != nil {
					tr.Warnings = append(tr.Warnings, err)
					continue
				}
				tr.Assignments = append(tr.Assignments, Assignment{
					Predicate: pred,
					Object:    "uid(" + intern(id).vr + ")",
					Edge:      true,
					Target:    id.form,
				})
			}
		default:
			dtype, warn := t.scalarType(p.Form, name, prop.Type)
			if warn != nil {
				tr.Warnings = append(tr.Warnings, warn)
			}
			// Types with no representable value declare no predicate, so the
			// schema has nothing for an assignment to land on.
			if dtype == "" {
				tr.Warnings = append(tr.Warnings, &graft.InvalidScalarValueError{
					Form: p.Form, Prop: name, Type: prop.Type, Value: value,
				})
				continue
			}
			lit, ok := literal(value, dtype)
			if !ok {
				tr.Warnings = append(tr.Warnings, &graft.InvalidScalarValueError{
					Form: p.Form, Prop: name, Type: prop.Type, Value: value,
				})
				continue
			}
			tr.Assignments = append(tr.Assignments, Assignment{Predicate: pred, Object: lit})
		}
	}

	tr.Requests = t.requests(ids, tr.Assignments)
	return tr, nil
}

// requests builds the two upsert requests: one ensuring every referenced
// node exists (conditional creates keyed on the primary predicate), one
// setting the subject's predicates.
func (t *Translator) requests(ids []*identity, assignments []Assignment) []dialect.Request {
	query := t.query(ids)

	ensure := dialect.Request{Query: query}
	for _, id := range ids {
		var nq strings.Builder
		nq.WriteString("_:" + id.vr + " <" + naming.Dotify(id.form) + "> " + id.literal + " .\n")
		nq.WriteString("_:" + id.vr + " <dgraph.type> \"" + naming.Pascalify(id.form) + "\" .\n")
		ensure.Mutations = append(ensure.Mutations, dialect.Mutation{
			Cond:      "@if(eq(len(" + id.vr + "), 0))",
			SetNquads: []byte(nq.String()),
		})
	}

	var nq strings.Builder
	for _, a := range assignments {
		nq.WriteString("uid(v0) <" + a.Predicate + "> " + a.Object + " .\n")
	}
	set := dialect.Request{Query: query}
	if nq.Len() > 0 {
		set.Mutations = append(set.Mutations, dialect.Mutation{SetNquads: []byte(nq.String())})
	}
	return []dialect.Request{ensure, set}
}

// query binds one variable per referenced identity, keyed on the identity's
// primary predicate.
func (t *Translator) query(ids []*identity) string {
	var b strings.Builder
	b.WriteString("{\n")
	for _, id := range ids {
		b.WriteString("  " + id.vr + " as var(func: eq(<" + naming.Dotify(id.form) + ">, " + id.eqArg + "))\n")
	}
	b.WriteString("}")
	return b.String()
}

// resolve turns a one-to-one or one-to-many element value into an identity
// of the fixed target form.
func (t *Translator) resolve(form, prop, target string, value any) (*identity, error) {
	fail := func() error {
		return &graft.ReferenceResolutionError{Form: form, Prop: prop, Target: target, Value: value}
	}
	tf, ok := t.model.Form(target)
	if !ok {
		return nil, fail()
	}
	if node, ok := nodeValue(value); ok {
		if node.Form != target {
			return nil, fail()
		}
		value = node.Value
	}
	primaryType, _ := t.scalarType(tf.Name(), tf.Name(), tf.Type())
	if primaryType == "" {
		return nil, fail()
	}
	lit, eqArg, ok := formatIdentity(value, primaryType)
	if !ok {
		return nil, fail()
	}
	return &identity{form: target, literal: lit, eqArg: eqArg}, nil
}

// resolveUnion turns a typed-union value into an identity by reading the
// form tag the value carries and resolving it against the live model.
func (t *Translator) resolveUnion(form, prop string, value any) (*identity, error) {
	node, ok := nodeValue(value)
	if !ok {
		return nil, &graft.ReferenceResolutionError{Form: form, Prop: prop, Value: value}
	}
	tf, ok := t.model.Form(node.Form)
	if !ok {
		return nil, &graft.UnknownUnionTargetError{Form: form, Prop: prop, Tag: node.Form}
	}
	primaryType, _ := t.scalarType(tf.Name(), tf.Name(), tf.Type())
	if primaryType == "" {
		return nil, &graft.ReferenceResolutionError{Form: form, Prop: prop, Target: node.Form, Value: node.Value}
	}
	lit, eqArg, ok := formatIdentity(node.Value, primaryType)
	if !ok {
		return nil, &graft.ReferenceResolutionError{Form: form, Prop: prop, Target: node.Form, Value: node.Value}
	}
	return &identity{form: node.Form, literal: lit, eqArg: eqArg}, nil
}

// nodeValue reads a tagged node reference: either a schema.Node or the
// two-element (form, value) tuple shape used by exported records.
func nodeValue(v any) (schema.Node, bool) {
	switch v := v.(type) {
	case schema.Node:
		return v, v.Form != ""
	case *schema.Node:
		if v == nil {
			return schema.Node{}, false
		}
		return *v, v.Form != ""
	case []any:
		if len(v) != 2 {
			return schema.Node{}, false
		}
		form, ok := v[0].(string)
		if !ok || form == "" {
			return schema.Node{}, false
		}
		return schema.Node{Form: form, Value: v[1]}, true
	default:
		return schema.Node{}, false
	}
}

// sequence normalizes a one-to-many value to a slice of elements.
func sequence(v any) ([]any, bool) {
	switch v := v.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// formatIdentity formats a primary-property value for both contexts an
// identity appears in: the N-Quad object of the conditional create and the
// eq() argument of the query block (which takes bare numeric and boolean
// literals rather than typed RDF literals). An empty string never identifies
// a node, even though it is a valid scalar literal.
func formatIdentity(v any, dtype string) (lit, eqArg string, ok bool) {
	lit, ok = literal(v, dtype)
	if !ok {
		return "", "", false
	}
	switch dtype {
	case "int":
		n, _ := asInt(v)
		return lit, strconv.FormatInt(n, 10), true
	case "float":
		f, _ := asFloat(v)
		return lit, strconv.FormatFloat(f, 'g', -1, 64), true
	case "bool":
		return lit, strconv.FormatBool(v.(bool)), true
	default:
		s, _ := asString(v)
		if s == "" {
			return "", "", false
		}
		return lit, strconv.Quote(s), true
	}
}

// literal formats a value as an N-Quad object for the given Dgraph value
// type. Strings pass through exactly (quoted); numeric and boolean values
// carry an explicit datatype so nothing is coerced on the way in.
func literal(v any, dtype string) (string, bool) {
	if v == nil {
		return "", false
	}
	switch dtype {
	case "int":
		n, ok := asInt(v)
		if !ok {
			return "", false
		}
		return strconv.Quote(strconv.FormatInt(n, 10)) + "^^<xs:int>", true
	case "float":
		f, ok := asFloat(v)
		if !ok {
			return "", false
		}
		return strconv.Quote(strconv.FormatFloat(f, 'g', -1, 64)) + "^^<xs:float>", true
	case "bool":
		b, ok := v.(bool)
		if !ok {
			return "", false
		}
		return strconv.Quote(strconv.FormatBool(b)) + "^^<xs:boolean>", true
	case "datetime":
		s, ok := asString(v)
		if !ok {
			return "", false
		}
		return strconv.Quote(s) + "^^<xs:dateTime>", true
	default:
		s, ok := asString(v)
		if !ok {
			return "", false
		}
		return strconv.Quote(s), true
	}
}

func asString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		n, _ := asInt(v)
		return strconv.FormatInt(n, 10), true
	default:
		return "", false
	}
}

func asInt(v any) (int64, bool) {
	switch v := v.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		n, ok := asInt(v)
		return float64(n), ok
	}
}

func sortedProps(props map[string]any) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
