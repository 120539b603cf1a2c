// Package ingest streams exported records into the translation pipeline and
// funnels the resulting payloads to a target store.
package ingest

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/graft/schema"
)

// Reader decodes a stream of exported records. The export framing is one
// msgpack value per record, shaped ((form, value), {"props": {...}}).
type Reader struct {
	dec *msgpack.Decoder
}

// NewReader returns a reader over the msgpack stream.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: msgpack.NewDecoder(r)}
}

// Read decodes the next record. It returns io.EOF at the end of the stream.
func (r *Reader) Read() (*schema.Pode, error) {
	var raw []any
	if err := r.dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("ingest: decoding record: %w", err)
	}
	return podeFromRaw(raw)
}

// podeFromRaw converts the generic decoded tuple into a Pode.
func podeFromRaw(raw []any) (*schema.Pode, error) {
	if len(raw) != 2 {
		return nil, fmt.Errorf("ingest: record is not a (node, info) pair")
	}
	node, ok := pair(raw[0])
	if !ok {
		return nil, fmt.Errorf("ingest: record node is not a (form, value) pair")
	}
	form, ok := node[0].(string)
	if !ok || form == "" {
		return nil, fmt.Errorf("ingest: record form is not a string")
	}
	p := &schema.Pode{Form: form, Value: node[1], Props: map[string]any{}}
	info, ok := stringMap(raw[1])
	if !ok {
		return nil, fmt.Errorf("ingest: record info is not a map")
	}
	if props, ok := stringMap(info["props"]); ok {
		p.Props = props
	}
	return p, nil
}

func pair(v any) ([]any, bool) {
	s, ok := v.([]any)
	if !ok || len(s) != 2 {
		return nil, false
	}
	return s, true
}

func stringMap(v any) (map[string]any, bool) {
	switch v := v.(type) {
	case map[string]any:
		return v, true
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}
