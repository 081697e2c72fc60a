// Package database implements the in-memory, path addressed tree store:
// references (Ref), snapshots, the write engine (set, push, update, remove),
// listener subscriptions and the query surface.
//
// Every Database owns its node registry and listener registry, so
// independent instances never share state. All operations complete
// synchronously; mutating operations still return a *Task for callers that
// prefer a deferred result. Events generated by one operation are dispatched
// after the database lock is released, in generation order:
//
//  1. at the write target: child_added (was absent) or child_changed, then value
//  2. the same pair at every descendant the write fans out to, parents first
//  3. child_removed at former children missing from the new value, after
//     the remaining children of the same parent
//  4. value at every ancestor, nearest first
//
// Listener callbacks may therefore call back into the database.
package database
