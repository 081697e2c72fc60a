// Package core provides the foundational domain types shared by every rtdb
// package:
//
//   - Path normalization and manipulation (NormalizePath, JoinPath, ...)
//   - The closed set of listener event kinds (EventKind)
//   - The error taxonomy (ErrInvalidPath, ErrEmptyPath, ErrUnsupportedEvent,
//     ErrNotFound, ErrInvalidValue) and typed wrappers
//   - The server value markers understood by the value codec
//
// The package has no dependencies on concrete storage so that the codec,
// registries and the database engine can all build on it without cycles.
package core
