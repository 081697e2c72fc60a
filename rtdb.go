// Package rtdb provides a high-level façade over an in-memory, real-time tree
// database and its companion identity store. Most applications interact with
// this package by:
//  1. Creating an App via New() or NewFromConfig()
//  2. Seeding data with Import / ImportFile (optional)
//  3. Navigating with Ref, writing with Set / Update / Push / Remove and
//     subscribing with On / Once
//
// All state lives in process memory; every App is independent of the others,
// which makes it convenient as a test double for a hosted real-time
// database.
package rtdb

import (
	"fmt"
	"time"

	"github.com/hupe1980/rtdb/auth"
	"github.com/hupe1980/rtdb/config"
	"github.com/hupe1980/rtdb/core"
	"github.com/hupe1980/rtdb/database"
	"github.com/hupe1980/rtdb/logging"
	"github.com/hupe1980/rtdb/seed"
)

// EventKind selects the notifications a listener receives.
type EventKind = core.EventKind

// Event kinds accepted by Ref.On and Ref.Once.
const (
	EventValue        = core.EventValue
	EventChildAdded   = core.EventChildAdded
	EventChildChanged = core.EventChildChanged
	EventChildRemoved = core.EventChildRemoved
)

// ServerTimestamp returns the marker replaced by the write time when stored.
func ServerTimestamp() map[string]any { return core.ServerTimestamp() }

// Options configures the App instance.
type Options struct {
	// Scheme and Host form the address of every reference.
	Scheme string
	Host   string

	// TimestampLayout renders server timestamps.
	TimestampLayout string
	// Clock drives server timestamps, push keys and token lifetimes.
	Clock func() time.Time

	// AuthSecret signs custom tokens. Token creation fails while empty.
	AuthSecret []byte
	AuthIssuer string
	TokenTTL   time.Duration

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// App aggregates a database and an identity store.
type App struct {
	opts Options
	db   *database.Database
	auth *auth.InMemoryStore
}

// New creates an empty App with optional overrides.
func New(optFns ...func(o *Options)) *App {
	opts := Options{
		Scheme:     "https",
		Host:       "localhost",
		Clock:      time.Now,
		AuthIssuer: "rtdb",
		TokenTTL:   time.Hour,
		Logger:     logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	db := database.New(func(o *database.Options) {
		o.Scheme = opts.Scheme
		o.Host = opts.Host
		o.Clock = opts.Clock
		o.TimestampLayout = opts.TimestampLayout
		o.Logger = componentLogger(opts.Logger, "database")
	})

	users := auth.NewInMemoryStore(func(o *auth.Options) {
		o.Secret = opts.AuthSecret
		o.Issuer = opts.AuthIssuer
		o.TokenTTL = opts.TokenTTL
		o.Clock = opts.Clock
		o.Logger = componentLogger(opts.Logger, "auth")
	})

	return &App{opts: opts, db: db, auth: users}
}

// componentLogger tags entries of a StoreLogger with the component name.
func componentLogger(l logging.Logger, component string) logging.Logger {
	if sl, ok := l.(*logging.StoreLogger); ok {
		return sl.WithComponent(component)
	}
	return l
}

// NewFromConfig creates an App from a loaded configuration and imports the
// seed files it names. optFns run after the configuration is applied.
func NewFromConfig(cfg *config.Config, optFns ...func(o *Options)) (*App, error) {
	ttl, err := cfg.Auth.TTL()
	if err != nil {
		return nil, err
	}

	app := New(append([]func(o *Options){func(o *Options) {
		o.Scheme = cfg.Database.Scheme
		o.Host = cfg.Database.Host
		o.TimestampLayout = cfg.Database.TimestampLayout
		o.AuthSecret = []byte(cfg.Auth.Secret)
		o.AuthIssuer = cfg.Auth.Issuer
		o.TokenTTL = ttl
		o.Logger = logging.NewSlogLogger(cfg.LogLevel(), cfg.Logging.Format, false)
	}}, optFns...)...)

	if len(cfg.Seed.Files) > 0 {
		if err := app.ImportFile(cfg.Seed.Files...); err != nil {
			return nil, err
		}
	}
	if cfg.Seed.Users != "" {
		if err := app.ImportUsersFile(cfg.Seed.Users); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Database returns the tree database.
func (a *App) Database() *database.Database { return a.db }

// Auth returns the identity store.
func (a *App) Auth() *auth.InMemoryStore { return a.auth }

// Ref returns the reference at path.
func (a *App) Ref(path string) (database.Ref, error) { return a.db.Ref(path) }

// MustRef is like Ref but panics on invalid paths.
func (a *App) MustRef(path string) database.Ref { return a.db.MustRef(path) }

// Import overwrites each root key of data.
func (a *App) Import(data map[string]any) error { return a.db.Import(data) }

// ImportFile loads the data files in order and imports the merged result.
func (a *App) ImportFile(paths ...string) error {
	files := make([]map[string]any, 0, len(paths))
	for _, p := range paths {
		data, err := seed.LoadFile(p)
		if err != nil {
			return err
		}
		files = append(files, data)
	}
	if err := a.db.Import(seed.Merge(files...)); err != nil {
		return fmt.Errorf("failed to import seed data: %w", err)
	}
	return nil
}

// ImportUsersFile replaces the identity store records with the file content.
func (a *App) ImportUsersFile(path string) error {
	users, err := seed.LoadUsers(path)
	if err != nil {
		return err
	}
	return a.auth.Import(users)
}

// Export returns a deep copy of the whole tree.
func (a *App) Export() map[string]any { return a.db.Export() }

// Clear drops all data, listeners and users.
func (a *App) Clear() {
	a.db.Clear()
	a.auth.Clear()
}
