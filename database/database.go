package database

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/rtdb/codec"
	"github.com/hupe1980/rtdb/listener"
	"github.com/hupe1980/rtdb/logging"
	"github.com/hupe1980/rtdb/registry"
)

// Options configures a Database using the functional options pattern.
type Options struct {
	// Scheme and Host form the address prefix rendered by Ref.String,
	// e.g. https://sample-app.firebaseio.com/users/ada.
	Scheme string
	Host   string

	// Clock is read when server timestamp markers are written.
	Clock func() time.Time
	// TimestampLayout renders server timestamps (codec.DefaultTimestampLayout if empty).
	TimestampLayout string

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// DefaultOptions returns the options used by New before overrides.
func DefaultOptions() Options {
	return Options{
		Scheme: "https",
		Host:   "localhost",
		Clock:  time.Now,
		Logger: logging.NoOpLogger{},
	}
}

// Database is one independent tree store.
type Database struct {
	opts Options

	// mu serializes every access to nodes. Listener callbacks never run
	// while it is held.
	mu        sync.Mutex
	nodes     *registry.Registry
	listeners *listener.Registry[*Snapshot]
	encoder   codec.Encoder
	logger    *loggerAdapter
}

// New creates an empty database.
func New(optFns ...func(o *Options)) *Database {
	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Database{
		opts:      opts,
		nodes:     registry.New(),
		listeners: listener.New[*Snapshot](),
		encoder:   codec.Encoder{Clock: opts.Clock, Layout: opts.TimestampLayout},
		logger:    newLoggerAdapter(opts.Logger),
	}
}

// Options returns the effective configuration.
func (db *Database) Options() Options { return db.opts }

// Ref returns the reference at path, creating its node and every missing
// ancestor. Equivalent spellings of a path yield equal references.
func (db *Database) Ref(path string) (Ref, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	n, err := db.nodes.Resolve(path)
	if err != nil {
		return Ref{}, err
	}
	return Ref{db: db, path: n.Key}, nil
}

// MustRef is like Ref but panics when path is invalid.
func (db *Database) MustRef(path string) Ref {
	ref, err := db.Ref(path)
	if err != nil {
		panic(err)
	}
	return ref
}

// Import overwrites each root key with its value, in key order.
func (db *Database) Import(data map[string]any) error {
	defer db.logger.StartTimer("import")()

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, k := range keys {
		ref, err := db.Ref(k)
		if err == nil {
			err = ref.Set(data[k]).Err()
		}
		if err != nil {
			db.logger.LogError("Import root failed", "key", k, "error", err)
			errs = append(errs, fmt.Errorf("import %q: %w", k, err))
		}
	}
	db.logger.LogInfo("Import completed", "roots", len(keys), "errors", len(errs))
	return errors.Join(errs...)
}

// Export returns a deep copy of every root that holds a value.
func (db *Database) Export() map[string]any {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := map[string]any{}
	for _, n := range db.nodes.Roots() {
		if n.Value != nil {
			out[n.Key] = codec.DeepCopy(n.Value)
		}
	}
	return out
}

// Clear drops every node and every listener registration.
func (db *Database) Clear() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.nodes.Clear()
	db.listeners.Clear()
	db.logger.LogDebug("Database cleared")
}

// NodeCount returns the number of registered nodes.
func (db *Database) NodeCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.nodes.Len()
}

// address renders the fully qualified location of path.
func (db *Database) address(path string) string {
	return fmt.Sprintf("%s://%s/%s", db.opts.Scheme, db.opts.Host, path)
}

// snapshotAt resolves path and captures its current value.
func (db *Database) snapshotAt(path string) (*Snapshot, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	n, err := db.nodes.Resolve(path)
	if err != nil {
		return nil, err
	}
	return db.capture(n), nil
}

// capture must be called with mu held.
func (db *Database) capture(n *registry.Node) *Snapshot {
	return &Snapshot{db: db, path: n.Key, value: n.Value}
}

func (db *Database) emptySnapshot(path string) *Snapshot {
	return &Snapshot{db: db, path: path}
}
