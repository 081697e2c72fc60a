package database

import (
	"fmt"
	"sort"

	"github.com/hupe1980/rtdb/codec"
	"github.com/hupe1980/rtdb/core"
)

type orderBy int

const (
	orderNone orderBy = iota
	orderKey
	orderChild
	orderValue
)

func (o orderBy) String() string {
	switch o {
	case orderKey:
		return "key"
	case orderChild:
		return "child"
	case orderValue:
		return "value"
	}
	return "none"
}

// bound is one end of a range constraint.
type bound struct {
	value any
	key   string
	// hasKey marks a key tie breaker.
	hasKey bool
}

// Query is an ordered, filtered view of the children at a reference.
// Queries are immutable: every builder method returns a new Query. Builder
// errors are kept and reported by Get and Err.
type Query struct {
	ref   Ref
	order orderBy
	child string

	start, end *bound
	limit      int
	limitLast  bool

	err error
}

// Ref returns the location the query reads from.
func (q Query) Ref() Ref { return q.ref }

// Err returns the first error recorded while building the query.
func (q Query) Err() error { return q.err }

// String returns the address of the queried location.
func (q Query) String() string { return q.ref.String() }

func (q Query) fail(format string, args ...any) Query {
	if q.err == nil {
		q.err = fmt.Errorf("%w: %s", core.ErrInvalidQuery, fmt.Sprintf(format, args...))
	}
	return q
}

func (q Query) withOrder(o orderBy) Query {
	if q.order != orderNone {
		return q.fail("order already set to %s", q.order)
	}
	q.order = o
	return q
}

// OrderByKey orders children by key. Range bounds must then be strings.
func (q Query) OrderByKey() Query { return q.withOrder(orderKey) }

// OrderByChild orders children by the value found at path below each child.
func (q Query) OrderByChild(path string) Query {
	p, err := core.NormalizePath(path)
	if err != nil {
		return q.fail("order by child: %v", err)
	}
	q = q.withOrder(orderChild)
	q.child = p
	return q
}

// OrderByValue orders children by their own value.
func (q Query) OrderByValue() Query { return q.withOrder(orderValue) }

// OrderByPriority is accepted for compatibility. Priorities are not stored,
// so the query is returned unchanged.
func (q Query) OrderByPriority() Query {
	q.ref.db.logger.LogWarn("Query.OrderByPriority() is not yet implemented", "path", q.ref.path)
	return q
}

// StartAt keeps children ordered at or after value. The optional key breaks
// ties between children with equal order values.
func (q Query) StartAt(value any, key ...string) Query {
	b, err := q.bound("start at", value, key)
	if err != nil {
		return q.fail("%v", err)
	}
	if q.start != nil {
		return q.fail("start at already set")
	}
	q.start = b
	return q
}

// EndAt keeps children ordered at or before value.
func (q Query) EndAt(value any, key ...string) Query {
	b, err := q.bound("end at", value, key)
	if err != nil {
		return q.fail("%v", err)
	}
	if q.end != nil {
		return q.fail("end at already set")
	}
	q.end = b
	return q
}

// EqualTo keeps children whose order value equals value.
func (q Query) EqualTo(value any, key ...string) Query {
	b, err := q.bound("equal to", value, key)
	if err != nil {
		return q.fail("%v", err)
	}
	if q.start != nil || q.end != nil {
		return q.fail("equal to combined with start at or end at")
	}
	q.start, q.end = b, b
	return q
}

func (q Query) bound(name string, value any, key []string) (*bound, error) {
	switch value.(type) {
	case nil, bool, string:
	default:
		if _, ok := codec.Float(value); !ok {
			return nil, fmt.Errorf("%s: unsupported bound %T", name, value)
		}
	}
	if q.order == orderKey {
		if _, ok := value.(string); !ok {
			return nil, fmt.Errorf("%s: value must be a string when ordering by key", name)
		}
	}
	b := &bound{value: value}
	if len(key) > 0 {
		if err := core.ValidateKey(key[0]); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		b.key, b.hasKey = key[0], true
	}
	return b, nil
}

// LimitToFirst keeps the first n children of the ordered result.
func (q Query) LimitToFirst(n int) Query { return q.withLimit(n, false) }

// LimitToLast keeps the last n children of the ordered result.
func (q Query) LimitToLast(n int) Query { return q.withLimit(n, true) }

func (q Query) withLimit(n int, last bool) Query {
	if n <= 0 {
		return q.fail("limit must be positive, got %d", n)
	}
	if q.limit > 0 {
		return q.fail("limit already set")
	}
	q.limit, q.limitLast = n, last
	return q
}

// IsEqual reports whether both queries read the same location with the
// same constraints.
func (q Query) IsEqual(other Query) bool {
	return q.ref.IsEqual(other.ref) &&
		q.order == other.order &&
		q.child == other.child &&
		q.limit == other.limit &&
		q.limitLast == other.limitLast &&
		boundsEqual(q.start, other.start) &&
		boundsEqual(q.end, other.end)
}

func boundsEqual(a, b *bound) bool {
	if a == nil || b == nil {
		return a == b
	}
	return codec.Compare(a.value, b.value) == 0 && a.hasKey == b.hasKey && a.key == b.key
}

// Get resolves to a snapshot of the queried location whose children are
// filtered and ordered by the query. Unlike Ref.Get an empty result is not
// an error.
func (q Query) Get() *Task {
	if q.err != nil {
		return completedTask(nil, q.err)
	}
	snap, err := q.ref.Snapshot()
	if err != nil {
		return completedTask(nil, err)
	}
	return completedTask(q.apply(snap), nil)
}

type item struct {
	key   string
	value any
}

func (q Query) apply(snap *Snapshot) *Snapshot {
	m, ok := snap.value.(map[string]any)
	if !ok {
		return snap
	}

	items := make([]item, 0, len(m))
	for k, v := range m {
		items = append(items, item{key: k, value: v})
	}
	sort.Slice(items, func(i, j int) bool { return q.compare(items[i], items[j]) < 0 })

	if q.order == orderNone && (q.start != nil || q.end != nil) {
		q.ref.db.logger.LogWarn("Query range ignored without an order", "path", q.ref.path)
	} else {
		kept := items[:0]
		for _, it := range items {
			if q.start != nil && q.compareBound(it, q.start) < 0 {
				continue
			}
			if q.end != nil && q.compareBound(it, q.end) > 0 {
				continue
			}
			kept = append(kept, it)
		}
		items = kept
	}

	if q.limit > 0 && len(items) > q.limit {
		if q.limitLast {
			items = items[len(items)-q.limit:]
		} else {
			items = items[:q.limit]
		}
	}

	out := make(map[string]any, len(items))
	keys := make([]string, 0, len(items))
	for _, it := range items {
		out[it.key] = it.value
		keys = append(keys, it.key)
	}
	return &Snapshot{db: snap.db, path: snap.path, value: out, keys: keys}
}

// orderValue returns the value a child is ordered by.
func (q Query) orderValue(it item) any {
	switch q.order {
	case orderChild:
		v := it.value
		for _, seg := range core.Segments(q.child) {
			m, ok := v.(map[string]any)
			if !ok {
				return nil
			}
			v = m[seg]
		}
		return v
	case orderValue:
		return it.value
	}
	return nil
}

func (q Query) compare(a, b item) int {
	if q.order == orderChild || q.order == orderValue {
		if c := codec.Compare(q.orderValue(a), q.orderValue(b)); c != 0 {
			return c
		}
	}
	return codec.CompareKeys(a.key, b.key)
}

func (q Query) compareBound(it item, b *bound) int {
	if q.order == orderKey {
		if k, ok := b.value.(string); ok {
			return codec.CompareKeys(it.key, k)
		}
		return codec.Compare(it.key, b.value)
	}
	if c := codec.Compare(q.orderValue(it), b.value); c != 0 || !b.hasKey {
		return c
	}
	return codec.CompareKeys(it.key, b.key)
}
