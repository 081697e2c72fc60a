package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventKind(t *testing.T) {
	for _, k := range EventKinds() {
		got, err := ParseEventKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
		assert.True(t, k.Valid())
		assert.NoError(t, k.Validate())
	}

	_, err := ParseEventKind("child_moved")
	assert.ErrorIs(t, err, ErrUnsupportedEvent)
	assert.EqualError(t, err, "not yet implemented: event 'child_moved'")
}

func TestEventKind_Invalid(t *testing.T) {
	var k EventKind
	assert.False(t, k.Valid())
	assert.Equal(t, "unknown", k.String())
	assert.ErrorIs(t, k.Validate(), ErrUnsupportedEvent)
}

func TestServerTimestamp(t *testing.T) {
	assert.True(t, IsServerTimestamp(ServerTimestamp()))
	assert.False(t, IsServerTimestamp(map[string]any{".sv": "increment"}))
	assert.False(t, IsServerTimestamp(map[string]any{".sv": "timestamp", "x": 1}))
	assert.False(t, IsServerTimestamp("timestamp"))
}
