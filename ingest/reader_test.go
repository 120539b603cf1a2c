package ingest_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/graft/ingest"
)

// encode writes one record per msgpack value, the framing used by exports.
func encode(t *testing.T, records ...any) io.Reader {
	t.Helper()
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	for _, rec := range records {
		require.NoError(t, enc.Encode(rec))
	}
	return &buf
}

func TestReader(t *testing.T) {
	t.Run("stream", func(t *testing.T) {
		r := ingest.NewReader(encode(t,
			[]any{
				[]any{"tel:phone", "+1555"},
				map[string]any{"props": map[string]any{"loc": "us"}},
			},
			[]any{
				[]any{"file:bytes", "sha256:abc"},
				map[string]any{"props": map[string]any{"size": 42}},
			},
		))

		p, err := r.Read()
		require.NoError(t, err)
		assert.Equal(t, "tel:phone", p.Form)
		assert.Equal(t, "+1555", p.Value)
		assert.Equal(t, "us", p.Props["loc"])

		p, err = r.Read()
		require.NoError(t, err)
		assert.Equal(t, "file:bytes", p.Form)

		_, err = r.Read()
		assert.Equal(t, io.EOF, err)
	})

	t.Run("missing_props", func(t *testing.T) {
		r := ingest.NewReader(encode(t,
			[]any{[]any{"tel:phone", "+1555"}, map[string]any{}},
		))
		p, err := r.Read()
		require.NoError(t, err)
		require.NotNil(t, p.Props)
		assert.Empty(t, p.Props)
	})

	t.Run("malformed_record", func(t *testing.T) {
		r := ingest.NewReader(encode(t, []any{"just one element"}))
		_, err := r.Read()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a (node, info) pair")
	})

	t.Run("malformed_node", func(t *testing.T) {
		r := ingest.NewReader(encode(t,
			[]any{"tel:phone", map[string]any{}},
		))
		_, err := r.Read()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a (form, value) pair")
	})

	t.Run("non_string_form", func(t *testing.T) {
		r := ingest.NewReader(encode(t,
			[]any{[]any{7, "+1555"}, map[string]any{}},
		))
		_, err := r.Read()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "form is not a string")
	})

	t.Run("corrupt_stream", func(t *testing.T) {
		r := ingest.NewReader(bytes.NewReader([]byte{0xc1}))
		_, err := r.Read()
		require.Error(t, err)
		assert.NotEqual(t, io.EOF, err)
	})
}
