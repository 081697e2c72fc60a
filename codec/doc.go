// Package codec converts arbitrary Go values into the canonical tree form
// stored by the database and provides the value level helpers the engine
// needs (deep copy, shallow merge, key ordering and value comparison).
//
// Canonical form:
//
//	nil                      absence
//	string, bool             scalars
//	int..., uint..., float.. numeric scalars (predeclared types only)
//	map[string]any           mappings (never containing nil entries)
//
// Slices and arrays become mappings keyed "0", "1", ... and structs or
// json.Marshaler implementations are converted through their JSON form.
// The server timestamp marker is replaced by the encoder's clock reading.
//
// Cyclic inputs are not detected; encoding them does not terminate.
package codec
