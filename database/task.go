package database

import (
	"context"
	"sync"
)

// Task is the deferred result of a database operation. Operations complete
// synchronously, so tasks returned by this package are already done; the
// type still behaves like a future for callers that wait on it.
type Task struct {
	done chan struct{}
	once sync.Once
	snap *Snapshot
	err  error
}

func newTask() *Task {
	return &Task{done: make(chan struct{})}
}

func completedTask(snap *Snapshot, err error) *Task {
	t := newTask()
	t.complete(snap, err)
	return t
}

func (t *Task) complete(snap *Snapshot, err error) {
	t.once.Do(func() {
		t.snap, t.err = snap, err
		close(t.done)
	})
}

// Done returns a channel closed once the task has completed.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task completes or ctx is done.
func (t *Task) Wait(ctx context.Context) (*Snapshot, error) {
	select {
	case <-t.done:
		return t.snap, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result blocks until the task completes and returns its outcome.
func (t *Task) Result() (*Snapshot, error) {
	<-t.done
	return t.snap, t.err
}

// Err blocks until the task completes and returns its error.
func (t *Task) Err() error {
	<-t.done
	return t.err
}

// OnComplete registers fn to receive the outcome. It runs immediately on
// the calling goroutine when the task is already done.
func (t *Task) OnComplete(fn func(*Snapshot, error)) *Task {
	select {
	case <-t.done:
		fn(t.snap, t.err)
	default:
		go func() {
			<-t.done
			fn(t.snap, t.err)
		}()
	}
	return t
}
