// Package registry implements the node arena of a database: a map from
// normalized path to Node guaranteeing that one path always yields the same
// Node instance until it is deleted. Parent and root links are stored as
// path keys and resolved through the arena, so nodes never own each other.
//
// A Registry is not safe for concurrent use; the database serializes access.
package registry

import (
	"sort"
	"strings"

	"github.com/hupe1980/rtdb/core"
)

// Node is one addressable location of the tree.
type Node struct {
	// Key is the normalized path of the node.
	Key string
	// Value is the canonical value stored at Key, nil when absent.
	Value any

	parent string
	root   string
}

// ParentKey returns the path of the parent node, "" for roots.
func (n *Node) ParentKey() string { return n.parent }

// RootKey returns the path of the top-most ancestor (Key for roots).
func (n *Node) RootKey() string { return n.root }

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.parent == "" }

// Exists reports whether the node holds a value.
func (n *Node) Exists() bool { return n.Value != nil }

// Registry owns every Node of a database.
type Registry struct {
	nodes map[string]*Node
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{nodes: make(map[string]*Node)}
}

// Resolve returns the node at path, creating it and every missing ancestor.
func (r *Registry) Resolve(path string) (*Node, error) {
	p, err := core.NormalizePath(path)
	if err != nil {
		return nil, err
	}
	return r.resolve(p), nil
}

// resolve walks the segments of an already normalized path top-down.
func (r *Registry) resolve(p string) *Node {
	if n, ok := r.nodes[p]; ok {
		return n
	}

	root := core.RootPath(p)
	var current *Node
	parent := ""
	for _, seg := range core.Segments(p) {
		key := seg
		if parent != "" {
			key = parent + "/" + seg
		}
		n, ok := r.nodes[key]
		if !ok {
			n = &Node{Key: key, parent: parent, root: root}
			r.nodes[key] = n
		}
		current = n
		parent = key
	}
	return current
}

// Child returns the node at rel below n, creating it if needed.
func (r *Registry) Child(n *Node, rel string) (*Node, error) {
	p, err := core.JoinPath(n.Key, rel)
	if err != nil {
		return nil, err
	}
	return r.resolve(p), nil
}

// ChildKey returns the node for the mapping key below n, creating it if
// needed. The key is used as is; it must satisfy core.ValidateKey.
func (r *Registry) ChildKey(n *Node, key string) (*Node, error) {
	if err := core.ValidateKey(key); err != nil {
		return nil, err
	}
	return r.resolve(n.Key + "/" + key), nil
}

// Get returns the node registered under the exact key path.
func (r *Registry) Get(path string) (*Node, bool) {
	n, ok := r.nodes[path]
	return n, ok
}

// Lookup returns the node registered at path without creating it.
func (r *Registry) Lookup(path string) (*Node, bool) {
	p, err := core.NormalizePath(path)
	if err != nil {
		return nil, false
	}
	n, ok := r.nodes[p]
	return n, ok
}

// Parent resolves the parent of n, nil for roots.
func (r *Registry) Parent(n *Node) *Node {
	if n.IsRoot() {
		return nil
	}
	return r.resolve(n.parent)
}

// Root resolves the top-most ancestor of n.
func (r *Registry) Root(n *Node) *Node {
	return r.resolve(n.root)
}

// Ancestors returns the ancestors of n nearest first.
func (r *Registry) Ancestors(n *Node) []*Node {
	var out []*Node
	for p := r.Parent(n); p != nil; p = r.Parent(p) {
		out = append(out, p)
	}
	return out
}

// Delete drops the registry entry at path. A later Resolve creates a fresh
// node. It reports whether an entry existed.
func (r *Registry) Delete(path string) bool {
	if _, ok := r.nodes[path]; !ok {
		return false
	}
	delete(r.nodes, path)
	return true
}

// Descendants returns the registered nodes strictly below path, ordered
// parents before children.
func (r *Registry) Descendants(path string) []*Node {
	var out []*Node
	for key, n := range r.nodes {
		if core.IsDescendant(key, path) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return lessTopDown(out[i].Key, out[j].Key) })
	return out
}

// DeleteSubtree drops path and every registered descendant, returning the
// removed nodes deepest first.
func (r *Registry) DeleteSubtree(path string) []*Node {
	desc := r.Descendants(path)
	out := make([]*Node, 0, len(desc)+1)
	for i := len(desc) - 1; i >= 0; i-- {
		delete(r.nodes, desc[i].Key)
		out = append(out, desc[i])
	}
	if n, ok := r.nodes[path]; ok {
		delete(r.nodes, path)
		out = append(out, n)
	}
	return out
}

// Roots returns every registered root node in key order.
func (r *Registry) Roots() []*Node {
	var out []*Node
	for _, n := range r.nodes {
		if n.IsRoot() {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int { return len(r.nodes) }

// Clear drops every node.
func (r *Registry) Clear() {
	r.nodes = make(map[string]*Node)
}

// lessTopDown orders shallower paths first, then lexicographically.
func lessTopDown(a, b string) bool {
	da, db := strings.Count(a, "/"), strings.Count(b, "/")
	if da != db {
		return da < db
	}
	return a < b
}
