package database

import (
	"time"

	"github.com/hupe1980/rtdb/codec"
	"github.com/hupe1980/rtdb/core"
	"github.com/hupe1980/rtdb/listener"
	"github.com/hupe1980/rtdb/registry"
)

// pending is an event generated while the database lock is held.
type pending struct {
	path string
	kind core.EventKind
	snap *Snapshot
	// detached holds the former listeners of a removed path.
	detached *listener.Set[*Snapshot]
}

// batch collects the events of one operation in generation order.
type batch struct {
	db     *Database
	events []pending
}

func (b *batch) emit(n *registry.Node, kind core.EventKind) {
	b.events = append(b.events, pending{path: n.Key, kind: kind, snap: b.db.capture(n)})
}

// dispatch delivers the collected events. It must run without mu held.
func (b *batch) dispatch() int {
	count := 0
	for _, ev := range b.events {
		if ev.detached != nil {
			count += ev.detached.Emit(ev.kind, ev.snap)
			continue
		}
		count += b.db.listeners.Emit(ev.path, ev.kind, ev.snap)
	}
	return count
}

// write stores an encoded value at n and fans it out to the descendants.
// A nil value removes n.
func (b *batch) write(n *registry.Node, value any, merge bool) {
	if value == nil {
		b.remove(n)
		return
	}

	old := n.Value
	patch, isPatch := value.(map[string]any)
	if merge && isPatch {
		n.Value = codec.Merge(old, patch)
	} else {
		n.Value = value
		merge = false
	}

	if old == nil {
		b.emit(n, core.EventChildAdded)
	} else {
		b.emit(n, core.EventChildChanged)
	}
	b.emit(n, core.EventValue)

	if merge {
		for _, k := range codec.SortedKeys(patch) {
			if patch[k] == nil {
				b.clear(n.Key + "/" + k)
				continue
			}
			b.write(b.child(n, k), patch[k], false)
		}
		return
	}

	next, _ := n.Value.(map[string]any)
	for _, k := range codec.SortedKeys(next) {
		b.write(b.child(n, k), next[k], false)
	}
	for _, k := range codec.SortedKeys(old) {
		if _, ok := next[k]; !ok {
			b.clear(n.Key + "/" + k)
		}
	}
}

func (b *batch) child(n *registry.Node, key string) *registry.Node {
	c, err := b.db.nodes.ChildKey(n, key)
	if err != nil {
		// Keys of encoded values are validated by the codec.
		panic(err)
	}
	return c
}

// clear drops the value of a stale subtree. Every node that held a value
// gets child_removed; subscriptions are kept.
func (b *batch) clear(path string) {
	n, ok := b.db.nodes.Get(path)
	if !ok {
		return
	}
	nodes := append([]*registry.Node{n}, b.db.nodes.Descendants(path)...)
	for _, d := range nodes {
		if d.Value == nil {
			continue
		}
		d.Value = nil
		b.emit(d, core.EventChildRemoved)
	}
}

// remove deletes n and its registered descendants. Listeners of n receive
// a final child_removed and are deregistered; listeners of descendants that
// held a value receive child_removed and stay registered.
func (b *batch) remove(n *registry.Node) {
	removed := b.db.nodes.DeleteSubtree(n.Key)
	n.Value = nil
	b.events = append(b.events, pending{
		path:     n.Key,
		kind:     core.EventChildRemoved,
		snap:     b.db.emptySnapshot(n.Key),
		detached: b.db.listeners.Detach(n.Key),
	})
	for i := len(removed) - 1; i >= 0; i-- {
		d := removed[i]
		if d == n || d.Value == nil {
			continue
		}
		d.Value = nil
		b.events = append(b.events, pending{path: d.Key, kind: core.EventChildRemoved, snap: b.db.emptySnapshot(d.Key)})
	}
}

// bubble copies the value of n into every ancestor, nearest first, and
// fires value at each of them. It stops early when n was removed and the
// parent never held its key.
func (b *batch) bubble(n *registry.Node) {
	key, value := core.LastSegment(n.Key), n.Value
	for p := b.db.nodes.Parent(n); p != nil; p = b.db.nodes.Parent(p) {
		if value == nil {
			m, _ := p.Value.(map[string]any)
			if _, ok := m[key]; !ok {
				return
			}
		}
		p.Value = codec.With(p.Value, key, value)
		b.emit(p, core.EventValue)
		key, value = core.LastSegment(p.Key), p.Value
	}
}

// mutate runs fn on the node at path under the database lock, dispatches
// the generated events after releasing it and returns the completed task.
func (db *Database) mutate(op, path string, fn func(b *batch, n *registry.Node)) *Task {
	start := time.Now()

	db.mu.Lock()
	n, err := db.nodes.Resolve(path)
	if err != nil {
		db.mu.Unlock()
		db.logger.LogWrite(op, path, start, 0, err)
		return completedTask(nil, err)
	}
	b := &batch{db: db}
	fn(b, n)
	b.bubble(n)
	snap := db.capture(n)
	db.mu.Unlock()

	events := b.dispatch()
	db.logger.LogWrite(op, n.Key, start, events, nil)
	return completedTask(snap, nil)
}

// fail logs and returns a task for an operation rejected before it
// reached the tree.
func (db *Database) fail(op, path string, err error) *Task {
	db.logger.LogWrite(op, path, time.Now(), 0, err)
	return completedTask(nil, err)
}
