package core

// EventKind identifies the kind of change a listener subscribes to. The set
// is closed; ParseEventKind is the only way to obtain a kind from a wire name.
type EventKind int

const (
	// EventValue fires on any change at or under the subscribed path.
	EventValue EventKind = iota + 1
	// EventChildAdded fires when the location gains a value it did not have.
	EventChildAdded
	// EventChildChanged fires when an existing value is overwritten.
	EventChildChanged
	// EventChildRemoved fires when the location is deleted.
	EventChildRemoved
)

var eventNames = map[EventKind]string{
	EventValue:        "value",
	EventChildAdded:   "child_added",
	EventChildChanged: "child_changed",
	EventChildRemoved: "child_removed",
}

// EventKinds lists every supported kind in declaration order.
func EventKinds() []EventKind {
	return []EventKind{EventValue, EventChildAdded, EventChildChanged, EventChildRemoved}
}

// String returns the wire name of the kind.
func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether k is one of the supported kinds.
func (k EventKind) Valid() bool {
	_, ok := eventNames[k]
	return ok
}

// Validate returns an ErrUnsupportedEvent wrapper for unknown kinds.
func (k EventKind) Validate() error {
	if k.Valid() {
		return nil
	}
	return &EventError{Event: k.String()}
}

// ParseEventKind maps a wire name ("value", "child_added", ...) to its kind.
func ParseEventKind(name string) (EventKind, error) {
	for k, n := range eventNames {
		if n == name {
			return k, nil
		}
	}
	return 0, &EventError{Event: name}
}
