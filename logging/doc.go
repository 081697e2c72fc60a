// Package logging provides a minimal logging interface and adapters for rtdb.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the database, the identity store and the CLI use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - LogrusAdapter wrapping a logrus logger or entry
//   - StoreLogger, a configurable slog logger with path/operation helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelDebug, "text", false)
//	db := rtdb.New(func(o *rtdb.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
