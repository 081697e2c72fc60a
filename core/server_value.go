package core

// ServerValueKey is the reserved mapping key marking a server generated value.
const ServerValueKey = ".sv"

// ServerValueTimestamp is the marker value replaced by the write time.
const ServerValueTimestamp = "timestamp"

// ServerTimestamp returns a fresh timestamp marker. Writing it anywhere in a
// value stores the wall-clock time of the write instead.
func ServerTimestamp() map[string]any {
	return map[string]any{ServerValueKey: ServerValueTimestamp}
}

// IsServerTimestamp reports whether v is the timestamp marker.
func IsServerTimestamp(v any) bool {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return false
	}
	s, ok := m[ServerValueKey].(string)
	return ok && s == ServerValueTimestamp
}
