package codec

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// DeepCopy returns a copy of a canonical value that shares no mappings with v.
func DeepCopy(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	out := make(map[string]any, len(m))
	for k, child := range m {
		out[k] = DeepCopy(child)
	}
	return out
}

// IsMapping reports whether v is a canonical mapping.
func IsMapping(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// Merge shallow merges patch over base. Keys of base missing from patch are
// retained, matching keys are replaced and nil entries in patch delete the
// key. A non mapping base is treated as empty. Neither input is modified.
func Merge(base any, patch map[string]any) map[string]any {
	old, _ := base.(map[string]any)
	out := make(map[string]any, len(old)+len(patch))
	for k, v := range old {
		out[k] = v
	}
	for k, v := range patch {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// With returns a copy of the mapping v (or an empty mapping when v is not
// one) where key is set to child, or deleted when child is nil.
func With(v any, key string, child any) map[string]any {
	return Merge(v, map[string]any{key: child})
}

// SortedKeys returns the keys of a mapping in tree order: keys that parse as
// 32-bit integers first in numeric order, then the remaining keys
// lexicographically. Non mapping values have no keys.
func SortedKeys(v any) []string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return CompareKeys(keys[i], keys[j]) < 0 })
	return keys
}

// CompareKeys orders two keys the way SortedKeys does.
func CompareKeys(a, b string) int {
	ai, aInt := intKey(a)
	bi, bInt := intKey(b)
	switch {
	case aInt && bInt:
		return cmpInt(ai, bi)
	case aInt:
		return -1
	case bInt:
		return 1
	}
	return strings.Compare(a, b)
}

func intKey(k string) (int64, bool) {
	if k == "" || (len(k) > 1 && k[0] == '0') || strings.HasPrefix(k, "-0") {
		return 0, false
	}
	i, err := strconv.ParseInt(k, 10, 32)
	return i, err == nil
}

// Compare orders canonical values: absence, false, true, numbers, strings,
// mappings. Numbers compare by value, strings lexicographically; mappings are
// all equal to each other.
func Compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return cmpInt(int64(ra), int64(rb))
	}
	switch ra {
	case rankNumber:
		fa, _ := Float(a)
		fb, _ := Float(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case rankString:
		return strings.Compare(a.(string), b.(string))
	}
	return 0
}

const (
	rankNull = iota
	rankFalse
	rankTrue
	rankNumber
	rankString
	rankMapping
)

func rank(v any) int {
	switch tv := v.(type) {
	case nil:
		return rankNull
	case bool:
		if tv {
			return rankTrue
		}
		return rankFalse
	case string:
		return rankString
	case map[string]any:
		return rankMapping
	}
	if _, ok := Float(v); ok {
		return rankNumber
	}
	return rankString
}

// Float converts any predeclared numeric value to float64.
func Float(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, !math.IsNaN(n)
	}
	return 0, false
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// ToSequences returns a deep copy of v in which every mapping whose keys are
// exactly "0".."n-1" is turned back into a []any, the inverse of the
// sequence conversion applied on write.
func ToSequences(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	seq := len(m) > 0
	for i := 0; seq && i < len(m); i++ {
		_, seq = m[strconv.Itoa(i)]
	}
	if seq {
		out := make([]any, len(m))
		for i := range out {
			out[i] = ToSequences(m[strconv.Itoa(i)])
		}
		return out
	}
	out := make(map[string]any, len(m))
	for k, child := range m {
		out[k] = ToSequences(child)
	}
	return out
}
