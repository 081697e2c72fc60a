package database

import (
	"encoding/json"
	"fmt"
	"iter"

	"github.com/mitchellh/mapstructure"

	"github.com/hupe1980/rtdb/codec"
	"github.com/hupe1980/rtdb/core"
)

// Snapshot is a read-only view of the value at a path, captured when the
// snapshot was taken. Values are never mutated in place by the database, so
// a snapshot stays stable while later writes replace the node's value.
type Snapshot struct {
	db    *Database
	path  string
	value any
	// keys fixes the child order of query results; nil means key order.
	keys []string
}

// Key returns the last path segment.
func (s *Snapshot) Key() string { return core.LastSegment(s.path) }

// Path returns the normalized path of the snapshot.
func (s *Snapshot) Path() string { return s.path }

// Ref returns the reference the snapshot was taken from.
func (s *Snapshot) Ref() Ref { return Ref{db: s.db, path: s.path} }

// Value returns a deep copy of the captured value, nil when absent.
func (s *Snapshot) Value() any {
	return codec.DeepCopy(s.value)
}

// Exists reports whether a value was present.
func (s *Snapshot) Exists() bool { return s.value != nil }

// Child returns the current snapshot of the location rel below this one.
// It reads the live tree, not the captured value.
func (s *Snapshot) Child(rel string) (*Snapshot, error) {
	p, err := core.JoinPath(s.path, rel)
	if err != nil {
		return nil, err
	}
	return s.db.snapshotAt(p)
}

// ForEach calls fn once per immediate child of the captured value, not the
// live tree. Absent and scalar values have no children.
func (s *Snapshot) ForEach(fn func(child *Snapshot)) {
	for child := range s.Children() {
		fn(child)
	}
}

// Children returns an iterator over the immediate children of the captured
// value in key order, or in query order for query results.
func (s *Snapshot) Children() iter.Seq[*Snapshot] {
	return func(yield func(*Snapshot) bool) {
		m, ok := s.value.(map[string]any)
		if !ok {
			return
		}
		keys := s.keys
		if keys == nil {
			keys = codec.SortedKeys(m)
		}
		for _, k := range keys {
			if !yield(&Snapshot{db: s.db, path: s.path + "/" + k, value: m[k]}) {
				return
			}
		}
	}
}

// NumChildren returns the number of immediate children, 0 for scalars.
func (s *Snapshot) NumChildren() int {
	m, ok := s.value.(map[string]any)
	if !ok {
		return 0
	}
	return len(m)
}

// HasChild reports whether the location rel below this one currently holds
// data. Like Child it reads the live tree.
func (s *Snapshot) HasChild(rel string) bool {
	child, err := s.Child(rel)
	if err != nil {
		return false
	}
	return child.Exists()
}

// HasChildren reports whether the captured value is a non-empty mapping.
func (s *Snapshot) HasChildren() bool { return s.NumChildren() > 0 }

// ExportVal returns a deep copy of the captured value.
func (s *Snapshot) ExportVal() any {
	return codec.DeepCopy(s.value)
}

// MarshalJSON encodes the exported value.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.value)
}

// Decode copies the captured value into target, typically a pointer to a
// struct with json tags. Sequence-shaped mappings decode into slices.
func (s *Snapshot) Decode(target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(codec.ToSequences(s.value)); err != nil {
		return fmt.Errorf("failed to decode snapshot %q: %w", s.path, err)
	}
	return nil
}

// String returns the address of the snapshot's location.
func (s *Snapshot) String() string { return s.db.address(s.path) }
