package load_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/graft"
	"github.com/syssam/graft/compiler/load"
	"github.com/syssam/graft/schema"
)

type fakeSource struct {
	name string
	defs []*schema.Def
	err  error
}

func (s fakeSource) Name() string { return s.name }

func (s fakeSource) ModelDefs() ([]*schema.Def, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.defs, nil
}

func phoneDef() *schema.Def {
	return &schema.Def{
		Name: "tel",
		Forms: []*schema.FormDef{
			{Name: "tel:phone", Type: "tel:phone", Props: []schema.PropDef{{Name: "loc", Type: "loc"}}},
		},
	}
}

func sourceDef() *schema.Def {
	return &schema.Def{
		Name: "base",
		Forms: []*schema.FormDef{
			{Name: "meta:source", Type: "guid", Props: []schema.PropDef{{Name: "name", Type: "str"}}},
		},
	}
}

func quietLoader(t *testing.T, sources ...graft.Source) *load.Loader {
	t.Helper()
	registry, err := graft.NewRegistry(sources...)
	require.NoError(t, err)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return load.NewLoader(registry, load.WithLogger(log))
}

func TestLoad(t *testing.T) {
	t.Run("assembles_all_sources", func(t *testing.T) {
		loader := quietLoader(t,
			fakeSource{name: "tel", defs: []*schema.Def{phoneDef()}},
			fakeSource{name: "base", defs: []*schema.Def{sourceDef()}},
		)
		model, err := loader.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, model.Len())
	})

	t.Run("empty_registry", func(t *testing.T) {
		loader := quietLoader(t)
		_, err := loader.Load(context.Background())
		require.Error(t, err)
		assert.True(t, graft.IsLoadError(err))
	})

	t.Run("partial_failure_recoverable", func(t *testing.T) {
		loader := quietLoader(t,
			fakeSource{name: "bad", err: errors.New("introspection broke")},
			fakeSource{name: "tel", defs: []*schema.Def{phoneDef()}},
		)
		model, err := loader.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, model.Len())
	})

	t.Run("empty_yield_skipped", func(t *testing.T) {
		loader := quietLoader(t,
			fakeSource{name: "empty"},
			fakeSource{name: "tel", defs: []*schema.Def{phoneDef()}},
		)
		model, err := loader.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, model.Len())
	})

	t.Run("all_sources_failing", func(t *testing.T) {
		loader := quietLoader(t,
			fakeSource{name: "bad1", err: errors.New("broken")},
			fakeSource{name: "bad2", err: errors.New("also broken")},
		)
		_, err := loader.Load(context.Background())
		require.Error(t, err)
		assert.True(t, graft.IsLoadError(err))
		assert.Contains(t, err.Error(), "bad1")
		assert.Contains(t, err.Error(), "bad2")
	})

	t.Run("order_independent", func(t *testing.T) {
		a := quietLoader(t,
			fakeSource{name: "tel", defs: []*schema.Def{phoneDef()}},
			fakeSource{name: "base", defs: []*schema.Def{sourceDef()}},
		)
		b := quietLoader(t,
			fakeSource{name: "base", defs: []*schema.Def{sourceDef()}},
			fakeSource{name: "tel", defs: []*schema.Def{phoneDef()}},
		)
		am, err := a.Load(context.Background())
		require.NoError(t, err)
		bm, err := b.Load(context.Background())
		require.NoError(t, err)

		var an, bn []string
		for _, f := range am.Forms() {
			an = append(an, f.Name())
		}
		for _, f := range bm.Forms() {
			bn = append(bn, f.Name())
		}
		assert.Equal(t, an, bn)
	})

	t.Run("conflicting_defs", func(t *testing.T) {
		changed := phoneDef()
		changed.Forms[0].Type = "str"
		loader := quietLoader(t,
			fakeSource{name: "tel", defs: []*schema.Def{phoneDef()}},
			fakeSource{name: "tel2", defs: []*schema.Def{changed}},
		)
		_, err := loader.Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "assembling model")
	})
}
