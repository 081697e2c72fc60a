// Package listener implements the per-path subscription registry of a
// database. Each path owns an emitter mapping event kinds to callbacks that
// run in registration order. Subscriptions are persistent (On) or one-shot
// (Once) and are removed through the handle returned at registration.
//
// The registry is generic over the event payload so that it does not depend
// on the snapshot type of the database package.
package listener

import (
	"sync"

	"github.com/google/uuid"
	"github.com/hupe1980/rtdb/core"
)

// Callback receives the payload of a dispatched event.
type Callback[T any] func(T)

// Subscription identifies one registration. It is the handle accepted by Off.
type Subscription struct {
	ID   string
	Path string
	Kind core.EventKind
	Once bool
}

type entry[T any] struct {
	sub Subscription
	cb  Callback[T]
}

// Set is a detached group of callbacks of one path, as returned by Detach.
type Set[T any] struct {
	entries map[core.EventKind][]entry[T]
}

// Emit invokes every callback registered for kind and returns the count.
func (s *Set[T]) Emit(kind core.EventKind, payload T) int {
	if s == nil {
		return 0
	}
	for _, e := range s.entries[kind] {
		e.cb(payload)
	}
	return len(s.entries[kind])
}

// Len returns the number of callbacks in the set.
func (s *Set[T]) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, es := range s.entries {
		n += len(es)
	}
	return n
}

// Registry maps paths to their emitters. It is safe for concurrent use;
// callbacks are always invoked without the registry lock held so they may
// register or remove listeners themselves.
type Registry[T any] struct {
	mu       sync.Mutex
	emitters map[string]*Set[T]
}

// New returns an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{emitters: make(map[string]*Set[T])}
}

// On registers a persistent callback for kind at path.
func (r *Registry[T]) On(path string, kind core.EventKind, cb Callback[T]) (Subscription, error) {
	return r.add(path, kind, cb, false)
}

// Once registers a callback that is removed after its first invocation.
func (r *Registry[T]) Once(path string, kind core.EventKind, cb Callback[T]) (Subscription, error) {
	return r.add(path, kind, cb, true)
}

func (r *Registry[T]) add(path string, kind core.EventKind, cb Callback[T], once bool) (Subscription, error) {
	if err := kind.Validate(); err != nil {
		return Subscription{}, err
	}

	sub := Subscription{ID: uuid.NewString(), Path: path, Kind: kind, Once: once}

	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.emitters[path]
	if !ok {
		set = &Set[T]{entries: make(map[core.EventKind][]entry[T])}
		r.emitters[path] = set
	}
	set.entries[kind] = append(set.entries[kind], entry[T]{sub: sub, cb: cb})
	return sub, nil
}

// Off removes the registration identified by sub and reports whether it was
// found. Removing the last registration of a path drops its emitter.
func (r *Registry[T]) Off(sub Subscription) (bool, error) {
	if err := sub.Kind.Validate(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.emitters[sub.Path]
	if !ok {
		return false, nil
	}
	found := r.removeLocked(sub.Path, set, sub.Kind, sub.ID)
	return found, nil
}

// OffAll removes every registration of the given kinds at path, or of all
// kinds when none are given, and returns how many were removed.
func (r *Registry[T]) OffAll(path string, kinds ...core.EventKind) (int, error) {
	for _, k := range kinds {
		if err := k.Validate(); err != nil {
			return 0, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.emitters[path]
	if !ok {
		return 0, nil
	}
	if len(kinds) == 0 {
		delete(r.emitters, path)
		return set.Len(), nil
	}
	n := 0
	for _, k := range kinds {
		n += len(set.entries[k])
		delete(set.entries, k)
	}
	if set.Len() == 0 {
		delete(r.emitters, path)
	}
	return n, nil
}

func (r *Registry[T]) removeLocked(path string, set *Set[T], kind core.EventKind, id string) bool {
	entries := set.entries[kind]
	for i, e := range entries {
		if e.sub.ID != id {
			continue
		}
		rest := make([]entry[T], 0, len(entries)-1)
		rest = append(rest, entries[:i]...)
		rest = append(rest, entries[i+1:]...)
		if len(rest) == 0 {
			delete(set.entries, kind)
		} else {
			set.entries[kind] = rest
		}
		if set.Len() == 0 {
			delete(r.emitters, path)
		}
		return true
	}
	return false
}

// Emit invokes the callbacks registered for kind at path in registration
// order, deregistering one-shot subscriptions first. It returns the number
// of callbacks invoked.
func (r *Registry[T]) Emit(path string, kind core.EventKind, payload T) int {
	r.mu.Lock()
	set, ok := r.emitters[path]
	if !ok {
		r.mu.Unlock()
		return 0
	}
	entries := set.entries[kind]
	for _, e := range entries {
		if e.sub.Once {
			r.removeLocked(path, set, kind, e.sub.ID)
		}
	}
	r.mu.Unlock()

	for _, e := range entries {
		e.cb(payload)
	}
	return len(entries)
}

// Detach removes the emitter of path and returns it so the caller can
// deliver final events to the former listeners.
func (r *Registry[T]) Detach(path string) *Set[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.emitters[path]
	if !ok {
		return nil
	}
	delete(r.emitters, path)
	return set
}

// Has reports whether any listener is registered at path.
func (r *Registry[T]) Has(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.emitters[path]
	return ok
}

// Count returns the number of callbacks registered for kind at path.
func (r *Registry[T]) Count(path string, kind core.EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.emitters[path]; ok {
		return len(set.entries[kind])
	}
	return 0
}

// Paths returns the number of paths with at least one listener.
func (r *Registry[T]) Paths() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.emitters)
}

// Clear drops every registration.
func (r *Registry[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emitters = make(map[string]*Set[T])
}
