package testutil

import "sync"

// Record is one observed callback invocation.
type Record[T any] struct {
	Name    string
	Payload T
}

// Recorder collects callback invocations in the order they happen.
// Example:
//
//	rec := testutil.NewRecorder[*database.Snapshot]()
//	ref.On(core.EventValue, rec.Hook("value"))
//	rec.Names() // []string{"value"}
type Recorder[T any] struct {
	mu      sync.Mutex
	records []Record[T]
}

// NewRecorder creates an empty recorder.
func NewRecorder[T any]() *Recorder[T] { return &Recorder[T]{} }

// Hook returns a callback recording every invocation under name.
func (r *Recorder[T]) Hook(name string) func(T) {
	return func(payload T) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.records = append(r.records, Record[T]{Name: name, Payload: payload})
	}
}

// Records returns a copy of the observed invocations.
func (r *Recorder[T]) Records() []Record[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record[T](nil), r.records...)
}

// Names returns the names of the observed invocations in order.
func (r *Recorder[T]) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.Name
	}
	return out
}

// Count returns how often name was observed.
func (r *Recorder[T]) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rec := range r.records {
		if rec.Name == name {
			n++
		}
	}
	return n
}

// Last returns the most recent payload recorded under name.
func (r *Recorder[T]) Last(name string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].Name == name {
			return r.records[i].Payload, true
		}
	}
	var zero T
	return zero, false
}

// Reset drops every record.
func (r *Recorder[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
}
