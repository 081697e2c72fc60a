package codec

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hupe1980/rtdb/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedClock = func() time.Time { return time.Date(2026, 10, 19, 10, 4, 5, 0, time.UTC) }

func TestEncode_Scalars(t *testing.T) {
	for _, v := range []any{"hello", true, 42, int64(7), 3.5, uint8(1)} {
		got, err := Encode(v)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	got, err := Encode(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEncode_SequenceToMapping(t *testing.T) {
	got, err := Encode(map[string]any{
		"tags": []string{"a", "b"},
		"nested": []any{
			map[string]any{"x": 1},
			[]int{5},
		},
	})
	require.NoError(t, err)

	want := map[string]any{
		"tags": map[string]any{"0": "a", "1": "b"},
		"nested": map[string]any{
			"0": map[string]any{"x": 1},
			"1": map[string]any{"0": 5},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("encode mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_ServerTimestamp(t *testing.T) {
	enc := Encoder{Clock: fixedClock}
	stamp := fixedClock().Format(DefaultTimestampLayout)

	got, err := enc.Encode(map[string]any{
		"createdAt": core.ServerTimestamp(),
		"profile":   map[string]any{"updatedAt": map[string]any{".sv": "timestamp"}},
	})
	require.NoError(t, err)

	want := map[string]any{
		"createdAt": stamp,
		"profile":   map[string]any{"updatedAt": stamp},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("timestamp substitution mismatch (-want +got):\n%s", diff)
	}

	top, err := enc.Encode(core.ServerTimestamp())
	require.NoError(t, err)
	assert.Equal(t, "Mon Oct 19 2026 10:04:05 GMT+0000 (UTC)", top)
}

func TestEncode_DropsNilEntries(t *testing.T) {
	got, err := Encode(map[string]any{"a": 1, "b": nil, "c": (*int)(nil)})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, got)
}

type profile struct {
	First   string    `json:"first"`
	Age     int       `json:"age"`
	Skip    string    `json:"-"`
	Empty   string    `json:"empty,omitempty"`
	Joined  time.Time `json:"joined"`
	private string
}

type color string

func TestEncode_StructsAndNamedTypes(t *testing.T) {
	joined := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	got, err := Encode(map[string]any{
		"p":     &profile{First: "Anna", Age: 36, Skip: "x", Joined: joined, private: "y"},
		"color": color("red"),
		"ids":   map[int]bool{1: true},
		"raw":   json.Number("12"),
	})
	require.NoError(t, err)

	want := map[string]any{
		"p": map[string]any{
			"first":  "Anna",
			"age":    int64(36),
			"joined": "2020-01-02T03:04:05Z",
		},
		"color": "red",
		"ids":   map[string]any{"1": true},
		"raw":   int64(12),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("struct encode mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_DoesNotAliasInput(t *testing.T) {
	in := map[string]any{"a": map[string]any{"b": 1}}
	got, err := Encode(in)
	require.NoError(t, err)

	in["a"].(map[string]any)["b"] = 2
	assert.Equal(t, 1, got.(map[string]any)["a"].(map[string]any)["b"])
}

func TestEncode_Errors(t *testing.T) {
	_, err := Encode(map[string]any{"fn": func() {}})
	assert.ErrorIs(t, err, core.ErrInvalidValue)
	var ve *core.ValueError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "fn", ve.Location)

	_, err = Encode(map[string]any{"a": map[string]any{"b/c": 1}})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "a/b/c", ve.Location)

	_, err = Encode(map[string]any{"": 1})
	assert.ErrorIs(t, err, core.ErrInvalidValue)

	_, err = Encode(make(chan int))
	assert.ErrorIs(t, err, core.ErrInvalidValue)

	_, err = Encode(map[float64]int{1.5: 1})
	assert.ErrorIs(t, err, core.ErrInvalidValue)
}

func TestEncode_AcceptsAnyJSONKey(t *testing.T) {
	in := map[string]any{
		"ada.lovelace@example.com": map[string]any{"name": "Ada"},
		"$id":                      1,
		"tags[0]":                  "x",
		"#h":                       true,
		" padded ":                 "y",
	}
	got, err := Encode(in)
	require.NoError(t, err)
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("key mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_ServerValueLookalikesArePlainData(t *testing.T) {
	in := map[string]any{
		"counter": map[string]any{".sv": "increment"},
		"mixed":   map[string]any{".sv": "timestamp", "note": "kept"},
	}
	got, err := Encoder{Clock: fixedClock}.Encode(in)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestEncodePatch_KeepsDeletions(t *testing.T) {
	got, err := Encoder{}.EncodePatch(map[string]any{"a": 1, "b": nil, "c": []int(nil)})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": nil, "c": nil}, got)

	merged := Merge(map[string]any{"b": "old", "d": "kept"}, got.(map[string]any))
	assert.Equal(t, map[string]any{"a": 1, "d": "kept"}, merged)

	scalar, err := Encoder{}.EncodePatch("x")
	require.NoError(t, err)
	assert.Equal(t, "x", scalar)
}

func TestMerge(t *testing.T) {
	base := map[string]any{"a": 1, "b": 2}
	got := Merge(base, map[string]any{"b": 3, "c": 4, "a": nil})
	assert.Equal(t, map[string]any{"b": 3, "c": 4}, got)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, base, "base must not be modified")

	assert.Equal(t, map[string]any{"x": 1}, Merge("scalar", map[string]any{"x": 1}))
	assert.Equal(t, map[string]any{"k": true}, With(nil, "k", true))
	assert.Equal(t, map[string]any{}, With(map[string]any{"k": true}, "k", nil))
}

func TestSortedKeys(t *testing.T) {
	v := map[string]any{"b": 1, "10": 1, "a": 1, "2": 1, "01": 1, "-1": 1}
	assert.Equal(t, []string{"-1", "2", "10", "01", "a", "b"}, SortedKeys(v))
	assert.Nil(t, SortedKeys("scalar"))
	assert.Nil(t, SortedKeys(nil))
}

func TestCompare(t *testing.T) {
	ordered := []any{nil, false, true, -1, 2.5, int64(3), "a", "b", map[string]any{}}
	for i := 0; i < len(ordered)-1; i++ {
		assert.Equal(t, -1, Compare(ordered[i], ordered[i+1]), "%v < %v", ordered[i], ordered[i+1])
		assert.Equal(t, 1, Compare(ordered[i+1], ordered[i]))
	}
	assert.Equal(t, 0, Compare(3, 3.0))
	assert.Equal(t, 0, Compare(map[string]any{"a": 1}, map[string]any{"b": 2}))
}

func TestDeepCopy(t *testing.T) {
	src := map[string]any{"a": map[string]any{"b": "c"}}
	cp := DeepCopy(src).(map[string]any)
	cp["a"].(map[string]any)["b"] = "changed"
	assert.Equal(t, "c", src["a"].(map[string]any)["b"])
	assert.Equal(t, 5, DeepCopy(5))
}

func TestToSequences(t *testing.T) {
	got := ToSequences(map[string]any{
		"tags":  map[string]any{"0": "a", "1": "b"},
		"holes": map[string]any{"0": "a", "2": "c"},
	})
	want := map[string]any{
		"tags":  []any{"a", "b"},
		"holes": map[string]any{"0": "a", "2": "c"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ToSequences mismatch (-want +got):\n%s", diff)
	}
}
