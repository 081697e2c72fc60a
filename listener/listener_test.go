package listener

import (
	"testing"

	"github.com/hupe1980/rtdb/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_OnEmitOrder(t *testing.T) {
	r := New[string]()
	var got []string

	_, err := r.On("users", core.EventValue, func(p string) { got = append(got, "first:"+p) })
	require.NoError(t, err)
	_, err = r.On("users", core.EventValue, func(p string) { got = append(got, "second:"+p) })
	require.NoError(t, err)
	_, err = r.On("users", core.EventChildAdded, func(p string) { got = append(got, "added:"+p) })
	require.NoError(t, err)

	assert.Equal(t, 2, r.Emit("users", core.EventValue, "x"))
	assert.Equal(t, 0, r.Emit("other", core.EventValue, "x"))
	assert.Equal(t, []string{"first:x", "second:x"}, got)
	assert.Equal(t, 2, r.Count("users", core.EventValue))
}

func TestRegistry_UnsupportedEvent(t *testing.T) {
	r := New[int]()
	_, err := r.On("p", core.EventKind(99), func(int) {})
	assert.ErrorIs(t, err, core.ErrUnsupportedEvent)
	_, err = r.Once("p", core.EventKind(0), func(int) {})
	assert.ErrorIs(t, err, core.ErrUnsupportedEvent)
	_, err = r.Off(Subscription{Path: "p", Kind: core.EventKind(7)})
	assert.ErrorIs(t, err, core.ErrUnsupportedEvent)
	_, err = r.OffAll("p", core.EventKind(7))
	assert.ErrorIs(t, err, core.ErrUnsupportedEvent)
	assert.False(t, r.Has("p"))
}

func TestRegistry_Once(t *testing.T) {
	r := New[int]()
	calls := 0
	sub, err := r.Once("p", core.EventChildChanged, func(int) { calls++ })
	require.NoError(t, err)
	assert.True(t, sub.Once)
	assert.NotEmpty(t, sub.ID)

	r.Emit("p", core.EventChildChanged, 1)
	r.Emit("p", core.EventChildChanged, 2)
	assert.Equal(t, 1, calls)
	assert.False(t, r.Has("p"), "emitter dropped after last registration")
}

func TestRegistry_Off(t *testing.T) {
	r := New[int]()
	var got []string
	a, _ := r.On("p", core.EventValue, func(int) { got = append(got, "a") })
	_, _ = r.On("p", core.EventValue, func(int) { got = append(got, "b") })

	found, err := r.Off(a)
	require.NoError(t, err)
	assert.True(t, found)
	found, _ = r.Off(a)
	assert.False(t, found)

	r.Emit("p", core.EventValue, 0)
	assert.Equal(t, []string{"b"}, got)

	n, err := r.OffAll("p")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, r.Paths())
}

func TestRegistry_OffAllKinds(t *testing.T) {
	r := New[int]()
	_, _ = r.On("p", core.EventValue, func(int) {})
	_, _ = r.On("p", core.EventChildAdded, func(int) {})

	n, err := r.OffAll("p", core.EventValue)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, r.Has("p"))

	n, _ = r.OffAll("p", core.EventChildAdded)
	assert.Equal(t, 1, n)
	assert.False(t, r.Has("p"))
}

func TestRegistry_ReentrantCallback(t *testing.T) {
	r := New[int]()
	inner := 0
	_, _ = r.On("p", core.EventValue, func(int) {
		_, _ = r.On("q", core.EventValue, func(int) { inner++ })
		r.Emit("q", core.EventValue, 0)
	})
	r.Emit("p", core.EventValue, 0)
	assert.Equal(t, 1, inner)
}

func TestRegistry_Detach(t *testing.T) {
	r := New[string]()
	var got []string
	_, _ = r.On("p", core.EventChildRemoved, func(s string) { got = append(got, s) })

	set := r.Detach("p")
	require.NotNil(t, set)
	assert.False(t, r.Has("p"))
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, 1, set.Emit(core.EventChildRemoved, "gone"))
	assert.Equal(t, []string{"gone"}, got)

	var none *Set[string]
	assert.Equal(t, 0, none.Emit(core.EventValue, "x"))
	assert.Nil(t, r.Detach("p"))
}

func TestRegistry_Clear(t *testing.T) {
	r := New[int]()
	_, _ = r.On("a", core.EventValue, func(int) {})
	_, _ = r.On("b", core.EventValue, func(int) {})
	r.Clear()
	assert.Equal(t, 0, r.Paths())
}
