package database

import (
	"github.com/oklog/ulid/v2"

	"github.com/hupe1980/rtdb/core"
	"github.com/hupe1980/rtdb/listener"
	"github.com/hupe1980/rtdb/registry"
)

// Subscription is the handle returned by On and Once and accepted by Off.
type Subscription = listener.Subscription

// Ref addresses one location of a database. Refs are small values; two refs
// of the same database and normalized path are equal.
type Ref struct {
	db   *Database
	path string
}

// Database returns the owning database.
func (r Ref) Database() *Database { return r.db }

// Key returns the last segment of the path.
func (r Ref) Key() string { return core.LastSegment(r.path) }

// Path returns the normalized path.
func (r Ref) Path() string { return r.path }

// Parent returns the parent reference. ok is false for roots.
func (r Ref) Parent() (Ref, bool) {
	p := core.ParentPath(r.path)
	if p == "" {
		return Ref{}, false
	}
	return Ref{db: r.db, path: p}, true
}

// Root returns the top-most ancestor, r itself for roots.
func (r Ref) Root() Ref {
	return Ref{db: r.db, path: core.RootPath(r.path)}
}

// Child returns the reference at rel below r.
func (r Ref) Child(rel string) (Ref, error) {
	p, err := core.JoinPath(r.path, rel)
	if err != nil {
		return Ref{}, err
	}
	return r.db.Ref(p)
}

// IsEqual reports whether both refs address the same location.
func (r Ref) IsEqual(other Ref) bool {
	return r.db == other.db && r.path == other.path
}

// String returns the fully qualified address, e.g.
// https://localhost/users/ada.
func (r Ref) String() string { return r.db.address(r.path) }

// Set overwrites the value at r. A nil value removes the location. The
// returned task resolves to the snapshot after the write.
func (r Ref) Set(value any) *Task {
	enc, err := r.db.encoder.Encode(value)
	if err != nil {
		return r.db.fail("set", r.path, err)
	}
	return r.db.mutate("set", r.path, func(b *batch, n *registry.Node) {
		b.write(n, enc, false)
	})
}

// Update merges the mapping value into the value at r: missing keys are
// kept, given keys replaced and nil entries deleted. child_changed fires at
// r after the write, also when the update only added new children.
func (r Ref) Update(value any) *Task {
	enc, err := r.db.encoder.EncodePatch(value)
	if err != nil {
		return r.db.fail("update", r.path, err)
	}
	return r.db.mutate("update", r.path, func(b *batch, n *registry.Node) {
		if enc == nil {
			b.remove(n)
			return
		}
		b.write(n, enc, true)
		b.emit(n, core.EventChildChanged)
	})
}

// Push merges value into the value at r like Update, without the extra
// child_changed event.
func (r Ref) Push(value any) *Task {
	enc, err := r.db.encoder.EncodePatch(value)
	if err != nil {
		return r.db.fail("push", r.path, err)
	}
	return r.db.mutate("push", r.path, func(b *batch, n *registry.Node) {
		b.write(n, enc, true)
	})
}

// PushChild writes value under a new, time-ordered child key and returns
// the reference of that child.
func (r Ref) PushChild(value any) (Ref, *Task) {
	id, err := ulid.New(ulid.Timestamp(r.db.opts.Clock()), ulid.DefaultEntropy())
	if err != nil {
		return Ref{}, r.db.fail("push", r.path, err)
	}
	child := Ref{db: r.db, path: r.path + "/" + id.String()}
	return child, child.Set(value)
}

// Remove deletes the value at r together with its subtree and detaches the
// listeners registered at r after notifying them with child_removed.
func (r Ref) Remove() *Task {
	return r.db.mutate("remove", r.path, func(b *batch, n *registry.Node) {
		b.remove(n)
	})
}

// Snapshot captures the current value at r.
func (r Ref) Snapshot() (*Snapshot, error) {
	return r.db.snapshotAt(r.path)
}

// Get resolves to the current snapshot, or fails with a *NotFoundError when
// there is no data at r. It does not wait for future writes.
func (r Ref) Get() *Task {
	snap, err := r.Snapshot()
	if err != nil {
		return completedTask(nil, err)
	}
	if !snap.Exists() {
		return completedTask(nil, &NotFoundError{Snapshot: snap})
	}
	return completedTask(snap, nil)
}

// On registers a persistent callback for kind at r.
func (r Ref) On(kind core.EventKind, cb func(*Snapshot)) (Subscription, error) {
	return r.db.listeners.On(r.path, kind, cb)
}

// Once registers a callback that is removed after its first invocation.
func (r Ref) Once(kind core.EventKind, cb func(*Snapshot)) (Subscription, error) {
	return r.db.listeners.Once(r.path, kind, cb)
}

// Off removes one registration and reports whether it was still active.
func (r Ref) Off(sub Subscription) (bool, error) {
	return r.db.listeners.Off(sub)
}

// OffAll removes the registrations of the given kinds at r, or of every
// kind when none are given.
func (r Ref) OffAll(kinds ...core.EventKind) (int, error) {
	return r.db.listeners.OffAll(r.path, kinds...)
}

// Query returns an unordered, unfiltered query at r.
func (r Ref) Query() Query { return Query{ref: r} }

// OrderByKey is shorthand for r.Query().OrderByKey().
func (r Ref) OrderByKey() Query { return r.Query().OrderByKey() }

// OrderByChild is shorthand for r.Query().OrderByChild(path).
func (r Ref) OrderByChild(path string) Query { return r.Query().OrderByChild(path) }

// OrderByValue is shorthand for r.Query().OrderByValue().
func (r Ref) OrderByValue() Query { return r.Query().OrderByValue() }

// OrderByPriority is shorthand for r.Query().OrderByPriority().
func (r Ref) OrderByPriority() Query { return r.Query().OrderByPriority() }

// LimitToFirst is shorthand for r.Query().LimitToFirst(n).
func (r Ref) LimitToFirst(n int) Query { return r.Query().LimitToFirst(n) }

// LimitToLast is shorthand for r.Query().LimitToLast(n).
func (r Ref) LimitToLast(n int) Query { return r.Query().LimitToLast(n) }
