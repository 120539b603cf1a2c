package dgraph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/graft"
	"github.com/syssam/graft/dialect/dgraph"
	"github.com/syssam/graft/schema"
)

func TestPodeTxtmesg(t *testing.T) {
	translator := dgraph.NewTranslator(testModel(t))
	tr, err := translator.Pode(&schema.Pode{
		Form:  "tel:txtmesg",
		Value: "m1",
		Props: map[string]any{
			"from":       "+1555",
			"to":         "+1556",
			"file":       "sha256:abc",
			"recipients": []any{"+1557", "+1558"},
			"body":       "hi",
		},
	})
	require.NoError(t, err)
	require.Empty(t, tr.Warnings)

	// Four single-value assignments plus one node reference per recipient.
	require.Len(t, tr.Assignments, 6)

	byPredicate := map[string][]dgraph.Assignment{}
	for _, a := range tr.Assignments {
		byPredicate[a.Predicate] = append(byPredicate[a.Predicate], a)
	}
	for _, pred := range []string{"from", "to", "file"} {
		require.Len(t, byPredicate[pred], 1, pred)
		assert.True(t, byPredicate[pred][0].Edge, pred)
	}
	assert.Equal(t, "tel:phone", byPredicate["from"][0].Target)
	assert.Equal(t, "file:bytes", byPredicate["file"][0].Target)

	require.Len(t, byPredicate["body"], 1)
	assert.False(t, byPredicate["body"][0].Edge)
	assert.Equal(t, `"hi"`, byPredicate["body"][0].Object)

	require.Len(t, byPredicate["recipients"], 2)
	for _, a := range byPredicate["recipients"] {
		assert.True(t, a.Edge)
		assert.Equal(t, "tel:phone", a.Target)
	}

	// Two requests: ensure referenced nodes, then set predicates.
	require.Len(t, tr.Requests, 2)
	ensure, set := tr.Requests[0], tr.Requests[1]

	// Subject plus five distinct referenced identities.
	assert.Len(t, ensure.Mutations, 6)
	for _, m := range ensure.Mutations {
		assert.Contains(t, m.Cond, "eq(len(")
	}
	assert.Contains(t, ensure.Query, `v0 as var(func: eq(<tel.txtmesg>, "m1"))`)
	assert.Contains(t, ensure.Query, `eq(<tel.phone>, "+1555")`)
	assert.Contains(t, string(ensure.Mutations[0].SetNquads), `_:v0 <dgraph.type> "TelTxtmesg" .`)

	require.Len(t, set.Mutations, 1)
	nquads := string(set.Mutations[0].SetNquads)
	assert.Contains(t, nquads, `uid(v0) <body> "hi" .`)
	assert.Contains(t, nquads, "uid(v0) <from> uid(")
	assert.Equal(t, 6, strings.Count(nquads, "uid(v0) <"))
}

func TestPodeDeduplicatesIdentities(t *testing.T) {
	translator := dgraph.NewTranslator(testModel(t))
	tr, err := translator.Pode(&schema.Pode{
		Form:  "tel:txtmesg",
		Value: "m2",
		Props: map[string]any{
			"from": "+1555",
			"to":   "+1555",
		},
	})
	require.NoError(t, err)
	require.Len(t, tr.Assignments, 2)
	assert.Equal(t, tr.Assignments[0].Object, tr.Assignments[1].Object)
	// Subject plus one shared phone identity.
	assert.Len(t, tr.Requests[0].Mutations, 2)
}

func TestPodeScalarRoundTrip(t *testing.T) {
	translator := dgraph.NewTranslator(testModel(t))
	tr, err := translator.Pode(&schema.Pode{
		Form:  "file:bytes",
		Value: "sha256:abc",
		Props: map[string]any{
			"sha256": "abc",
			"size":   123,
		},
	})
	require.NoError(t, err)
	require.Empty(t, tr.Warnings)
	require.Len(t, tr.Assignments, 2)
	assert.Equal(t, `"abc"`, tr.Assignments[0].Object)
	assert.Equal(t, `"123"^^<xs:int>`, tr.Assignments[1].Object)
}

func TestPodeEmptyScalar(t *testing.T) {
	// An empty string is a legitimate scalar literal; only identities reject
	// emptiness.
	translator := dgraph.NewTranslator(testModel(t))
	tr, err := translator.Pode(&schema.Pode{
		Form:  "tel:txtmesg",
		Value: "m6",
		Props: map[string]any{"body": ""},
	})
	require.NoError(t, err)
	require.Empty(t, tr.Warnings)
	require.Len(t, tr.Assignments, 1)
	assert.Equal(t, "body", tr.Assignments[0].Predicate)
	assert.Equal(t, `""`, tr.Assignments[0].Object)
	assert.Contains(t, string(tr.Requests[1].Mutations[0].SetNquads), `uid(v0) <body> "" .`)
}

func TestPodeInvalidScalar(t *testing.T) {
	translator := dgraph.NewTranslator(testModel(t))
	tr, err := translator.Pode(&schema.Pode{
		Form:  "tel:txtmesg",
		Value: "m7",
		Props: map[string]any{"body": []any{"not", "a", "string"}},
	})
	require.NoError(t, err)
	assert.Empty(t, tr.Assignments)
	require.Len(t, tr.Warnings, 1)
	assert.True(t, graft.IsInvalidScalarValue(tr.Warnings[0]))
}

func TestPodeUnrepresentableScalarType(t *testing.T) {
	// A scalar property whose source type declares no predicate translates to
	// nothing on the data path either, with a warning instead of silence.
	model, err := schema.NewModel(&schema.Def{Name: "test", Forms: []*schema.FormDef{
		{
			Name: "test:blob",
			Type: "guid",
			Props: []schema.PropDef{
				{Name: "label", Type: "str"},
				{Name: "payload", Type: "comp"},
			},
		},
	}})
	require.NoError(t, err)
	translator := dgraph.NewTranslator(model)

	sch, warnings := translator.Schema()
	require.Empty(t, warnings)
	_, declared := predicateByName(sch, "payload")
	assert.False(t, declared)

	tr, err := translator.Pode(&schema.Pode{
		Form:  "test:blob",
		Value: "b1",
		Props: map[string]any{"label": "x", "payload": "opaque"},
	})
	require.NoError(t, err)
	require.Len(t, tr.Assignments, 1)
	assert.Equal(t, "label", tr.Assignments[0].Predicate)
	require.Len(t, tr.Warnings, 1)
	assert.True(t, graft.IsInvalidScalarValue(tr.Warnings[0]))
}

func TestPodePartialMany(t *testing.T) {
	translator := dgraph.NewTranslator(testModel(t))
	tr, err := translator.Pode(&schema.Pode{
		Form:  "tel:txtmesg",
		Value: "m3",
		Props: map[string]any{
			"recipients": []any{"+1557", "", "+1558"},
		},
	})
	require.NoError(t, err, "per-element failures must not abort the record")

	var edges int
	for _, a := range tr.Assignments {
		if a.Predicate == "recipients" {
			edges++
		}
	}
	assert.Equal(t, 2, edges)
	require.Len(t, tr.Warnings, 1)
	assert.True(t, graft.IsReferenceResolution(tr.Warnings[0]))
}

func TestPodeReferenceFailures(t *testing.T) {
	translator := dgraph.NewTranslator(testModel(t))

	t.Run("unresolvable_one", func(t *testing.T) {
		tr, err := translator.Pode(&schema.Pode{
			Form:  "tel:txtmesg",
			Value: "m4",
			Props: map[string]any{
				"from": nil,
				"body": "still here",
			},
		})
		require.NoError(t, err)
		require.Len(t, tr.Warnings, 1)
		assert.True(t, graft.IsReferenceResolution(tr.Warnings[0]))
		// The failing property is omitted; the valid one is kept.
		require.Len(t, tr.Assignments, 1)
		assert.Equal(t, "body", tr.Assignments[0].Predicate)
	})

	t.Run("wrong_target_form", func(t *testing.T) {
		tr, err := translator.Pode(&schema.Pode{
			Form:  "tel:txtmesg",
			Value: "m5",
			Props: map[string]any{
				"from": schema.Node{Form: "file:bytes", Value: "sha256:abc"},
			},
		})
		require.NoError(t, err)
		require.Len(t, tr.Warnings, 1)
		assert.True(t, graft.IsReferenceResolution(tr.Warnings[0]))
		assert.Empty(t, tr.Assignments)
	})

	t.Run("undeclared_prop", func(t *testing.T) {
		tr, err := translator.Pode(&schema.Pode{
			Form:  "tel:phone",
			Value: "+1555",
			Props: map[string]any{"bogus": "x"},
		})
		require.NoError(t, err)
		require.Len(t, tr.Warnings, 1)
		assert.True(t, graft.IsUnknownProp(tr.Warnings[0]))
	})
}

func TestPodeUnion(t *testing.T) {
	translator := dgraph.NewTranslator(testModel(t))

	t.Run("tagged_node", func(t *testing.T) {
		tr, err := translator.Pode(&schema.Pode{
			Form:  "graph:edge",
			Value: "e1",
			Props: map[string]any{
				"n1": schema.Node{Form: "tel:phone", Value: "+1555"},
				"n2": []any{"file:bytes", "sha256:abc"},
			},
		})
		require.NoError(t, err)
		require.Empty(t, tr.Warnings)
		require.Len(t, tr.Assignments, 2)
		assert.Equal(t, "tel:phone", tr.Assignments[0].Target)
		assert.Equal(t, "file:bytes", tr.Assignments[1].Target)
	})

	t.Run("unknown_tag", func(t *testing.T) {
		tr, err := translator.Pode(&schema.Pode{
			Form:  "graph:edge",
			Value: "e2",
			Props: map[string]any{
				"n1": schema.Node{Form: "nope:form", Value: "x"},
			},
		})
		require.NoError(t, err)
		require.Len(t, tr.Warnings, 1)
		assert.True(t, graft.IsUnknownUnionTarget(tr.Warnings[0]))
		assert.Empty(t, tr.Assignments)
	})

	t.Run("untagged_value", func(t *testing.T) {
		tr, err := translator.Pode(&schema.Pode{
			Form:  "graph:edge",
			Value: "e3",
			Props: map[string]any{
				"n1": "+1555",
			},
		})
		require.NoError(t, err)
		require.Len(t, tr.Warnings, 1)
		assert.True(t, graft.IsReferenceResolution(tr.Warnings[0]))
	})
}

func TestPodeUnknownScalarType(t *testing.T) {
	translator := dgraph.NewTranslator(testModel(t))
	tr, err := translator.Pode(&schema.Pode{
		Form:  "test:new",
		Value: "g1",
		Props: map[string]any{"score": "x7"},
	})
	require.NoError(t, err)
	// The property still translates, as a string, with a warning.
	require.Len(t, tr.Assignments, 1)
	assert.Equal(t, `"x7"`, tr.Assignments[0].Object)
	require.Len(t, tr.Warnings, 1)
	assert.True(t, graft.IsUnknownScalarType(tr.Warnings[0]))
}

func TestPodeErrors(t *testing.T) {
	translator := dgraph.NewTranslator(testModel(t))

	t.Run("unknown_form", func(t *testing.T) {
		_, err := translator.Pode(&schema.Pode{Form: "nope:form", Value: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown form")
	})

	t.Run("compound_primary", func(t *testing.T) {
		_, err := translator.Pode(&schema.Pode{Form: "inet:dns:a", Value: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no primary predicate")
	})

	t.Run("invalid_identity", func(t *testing.T) {
		_, err := translator.Pode(&schema.Pode{Form: "tel:phone", Value: nil})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a valid identity")
	})

	t.Run("empty_identity", func(t *testing.T) {
		_, err := translator.Pode(&schema.Pode{Form: "tel:phone", Value: ""})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a valid identity")
	})
}
