package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/hupe1980/rtdb/core"
)

// DefaultTimestampLayout renders server timestamps like a JavaScript
// Date string, e.g. "Mon Oct 19 2026 10:04:05 GMT+0000 (UTC)".
const DefaultTimestampLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

// Encoder converts input values into canonical form. The zero value uses the
// wall clock and DefaultTimestampLayout.
type Encoder struct {
	// Clock returns the time substituted for server timestamp markers.
	Clock func() time.Time
	// Layout is the time.Format layout used to render timestamps.
	Layout string
}

// Encode returns the canonical form of v. The result never shares mutable
// state with v.
func (e Encoder) Encode(v any) (any, error) {
	return e.encode(v, "", e.timestamp())
}

// EncodePatch is Encode for merge writes: nil entries of a top level mapping
// are kept (as nil) so that merging the result deletes those keys.
func (e Encoder) EncodePatch(v any) (any, error) {
	enc, err := e.encode(v, "", e.timestamp())
	if err != nil {
		return nil, err
	}
	m, ok := enc.(map[string]any)
	if !ok {
		return enc, nil
	}
	for _, k := range nilKeys(v) {
		if err := core.ValidateKey(k); err != nil {
			return nil, &core.ValueError{Location: k, Reason: fmt.Sprintf("invalid key %q", k)}
		}
		m[k] = nil
	}
	return m, nil
}

// Encode converts v with the zero Encoder.
func Encode(v any) (any, error) {
	return Encoder{}.Encode(v)
}

// timestamp renders the write time once so every marker in a single value
// receives the same reading.
func (e Encoder) timestamp() func() string {
	var rendered string
	return func() string {
		if rendered == "" {
			now := time.Now
			if e.Clock != nil {
				now = e.Clock
			}
			layout := e.Layout
			if layout == "" {
				layout = DefaultTimestampLayout
			}
			rendered = now().Format(layout)
		}
		return rendered
	}
}

func (e Encoder) encode(v any, loc string, ts func() string) (any, error) {
	switch tv := v.(type) {
	case nil:
		return nil, nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return tv, nil
	case json.Number:
		return numberFromJSON(tv), nil
	case time.Time:
		return tv.Format(time.RFC3339Nano), nil
	case []byte:
		return base64.StdEncoding.EncodeToString(tv), nil
	case map[string]any:
		if core.IsServerTimestamp(tv) {
			return ts(), nil
		}
		out := make(map[string]any, len(tv))
		for k, child := range tv {
			if err := e.put(out, k, child, loc, ts); err != nil {
				return nil, err
			}
		}
		return out, nil
	case []any:
		out := make(map[string]any, len(tv))
		for i, child := range tv {
			if err := e.put(out, strconv.Itoa(i), child, loc, ts); err != nil {
				return nil, err
			}
		}
		return out, nil
	case json.Marshaler:
		return e.encodeJSON(tv, loc, ts)
	}

	return e.encodeReflect(reflect.ValueOf(v), loc, ts)
}

func (e Encoder) put(out map[string]any, key string, child any, loc string, ts func() string) error {
	childLoc := join(loc, key)
	if err := core.ValidateKey(key); err != nil {
		return &core.ValueError{Location: childLoc, Reason: fmt.Sprintf("invalid key %q", key)}
	}
	enc, err := e.encode(child, childLoc, ts)
	if err != nil {
		return err
	}
	if enc != nil {
		out[key] = enc
	}
	return nil
}

func (e Encoder) encodeReflect(rv reflect.Value, loc string, ts func() string) (any, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return e.encode(rv.Elem().Interface(), loc, ts)
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		out := make(map[string]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if err := e.put(out, strconv.Itoa(i), rv.Index(i).Interface(), loc, ts); err != nil {
				return nil, err
			}
		}
		return out, nil
	case reflect.Map:
		if rv.IsNil() {
			return nil, nil
		}
		generic := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key, err := mapKey(iter.Key(), loc)
			if err != nil {
				return nil, err
			}
			generic[key] = iter.Value().Interface()
		}
		return e.encode(generic, loc, ts)
	case reflect.Struct:
		return e.encodeJSON(rv.Interface(), loc, ts)
	}

	return nil, &core.ValueError{Location: loc, Reason: "unsupported type " + rv.Type().String()}
}

// encodeJSON converts structs and json.Marshaler values through their JSON
// representation, keeping integral numbers as int64.
func (e Encoder) encodeJSON(v any, loc string, ts func() string) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &core.ValueError{Location: loc, Reason: err.Error()}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, &core.ValueError{Location: loc, Reason: err.Error()}
	}
	return e.encode(generic, loc, ts)
}

func mapKey(k reflect.Value, loc string) (string, error) {
	switch k.Kind() {
	case reflect.String:
		return k.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", &core.ValueError{Location: loc, Reason: "unsupported map key type " + k.Type().String()}
}

// nilKeys returns the keys of a map whose values are nil.
func nilKeys(v any) []string {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil
	}
	var keys []string
	iter := rv.MapRange()
	for iter.Next() {
		if !isNil(iter.Value()) {
			continue
		}
		if key, err := mapKey(iter.Key(), ""); err == nil {
			keys = append(keys, key)
		}
	}
	return keys
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return true
		}
		if v.Kind() == reflect.Interface {
			return isNil(v.Elem())
		}
	}
	return false
}

func numberFromJSON(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func join(loc, key string) string {
	if loc == "" {
		return key
	}
	return loc + "/" + key
}
