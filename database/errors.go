package database

import (
	"fmt"

	"github.com/hupe1980/rtdb/core"
)

// NotFoundError is the failure of Ref.Get on a location without data. It
// carries the empty snapshot for inspection and matches core.ErrNotFound.
type NotFoundError struct {
	Snapshot *Snapshot
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %s", core.ErrNotFound, e.Snapshot.Path())
}

// Unwrap returns core.ErrNotFound.
func (e *NotFoundError) Unwrap() error { return core.ErrNotFound }
