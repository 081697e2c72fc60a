package testutil

import "strings"

// TreeBuilder helps construct nested tree values with fluent chaining.
// Example:
//
//	users := NewTreeBuilder().Set("ada/name/first", "Ada").Set("ada/age", 36).Build()
type TreeBuilder struct {
	root map[string]any
}

// NewTreeBuilder creates a builder for an empty mapping.
func NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{root: map[string]any{}}
}

// Set stores value at the slash separated path, creating intermediate
// mappings and replacing scalars found on the way (chainable).
func (b *TreeBuilder) Set(path string, value any) *TreeBuilder {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	m := b.root
	for _, seg := range segs[:len(segs)-1] {
		next, ok := m[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[seg] = next
		}
		m = next
	}
	m[segs[len(segs)-1]] = value
	return b
}

// Build returns the constructed mapping.
func (b *TreeBuilder) Build() map[string]any {
	return b.root
}
