package hook

import (
	"encoding/json"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Extra carries interceptor-attached fields outside the registry's own
// Name/Before/Stage/Context surface. It is backed by a raw JSON object
// rather than a decoded Go map so that fields no interceptor in a given
// registration touches pass through byte-identical, satisfying the
// round-trip invariant (spec.md §3) without reflecting unknown keys into a
// live struct.
type Extra struct {
	raw []byte
}

// NewExtra returns an empty Extra ("{}").
func NewExtra() *Extra {
	return &Extra{raw: []byte("{}")}
}

// NewExtraFromMap seeds an Extra from a decoded map, e.g. options supplied
// as map[string]interface{} at a tap* call site.
func NewExtraFromMap(m map[string]interface{}) (*Extra, error) {
	e := NewExtra()
	for k, v := range m {
		if err := e.Set(k, v); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Get retrieves a field by dotted gjson path.
func (e *Extra) Get(path string) (gjson.Result, bool) {
	if e == nil || len(e.raw) == 0 {
		return gjson.Result{}, false
	}
	r := gjson.GetBytes(e.raw, path)
	return r, r.Exists()
}

// Set writes a field by dotted sjson path, replacing it if already present.
func (e *Extra) Set(path string, value interface{}) error {
	raw, err := sjson.SetBytes(e.raw, path, value)
	if err != nil {
		return err
	}
	e.raw = raw
	return nil
}

// Bytes returns the raw JSON object backing this Extra. Callers must treat
// the result as read-only; Clone before mutating a borrowed Extra.
func (e *Extra) Bytes() json.RawMessage {
	if e == nil {
		return json.RawMessage("{}")
	}
	return json.RawMessage(e.raw)
}

// Clone returns a deep copy of e.
func (e *Extra) Clone() *Extra {
	if e == nil {
		return NewExtra()
	}
	raw := make([]byte, len(e.raw))
	copy(raw, e.raw)
	return &Extra{raw: raw}
}
