package storage

// Table is one entity collection of the store: rows addressable by key with
// stable insertion order. It knows nothing about other tables; cross-table
// ordering and atomicity are the repository's responsibility.
type Table[K comparable, E any] struct {
	rows  map[K]E
	order []K
}

func newTable[K comparable, E any]() Table[K, E] {
	return Table[K, E]{rows: make(map[K]E)}
}

// Len returns the row count.
func (t *Table[K, E]) Len() int {
	return len(t.rows)
}

// All returns every row in insertion order. The slice is fresh on every call;
// rows are value copies, so callers can hold them across lock boundaries.
func (t *Table[K, E]) All() []E {
	out := make([]E, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.rows[k])
	}
	return out
}

// Where returns the rows matching the predicate, in insertion order.
func (t *Table[K, E]) Where(match func(E) bool) []E {
	var out []E
	for _, k := range t.order {
		if row := t.rows[k]; match(row) {
			out = append(out, row)
		}
	}
	return out
}

// Get returns the row under key. A miss is an absence, never an error.
func (t *Table[K, E]) Get(key K) (E, bool) {
	row, ok := t.rows[key]
	return row, ok
}

// Insert stores a new row. Keys are pre-generated and assumed unique by the
// caller; inserting an existing key replaces the row in place.
func (t *Table[K, E]) Insert(key K, row E) {
	if _, exists := t.rows[key]; !exists {
		t.order = append(t.order, key)
	}
	t.rows[key] = row
}

// Replace rewrites every row matching the predicate and returns the match
// count. Zero matches is not an error here; a repository implementing
// single-entity update semantics must treat it as NotFound.
func (t *Table[K, E]) Replace(match func(E) bool, apply func(E) E) int {
	n := 0
	for _, k := range t.order {
		if row := t.rows[k]; match(row) {
			t.rows[k] = apply(row)
			n++
		}
	}
	return n
}

// ReplaceKey rewrites the row under key if present.
func (t *Table[K, E]) ReplaceKey(key K, apply func(E) E) bool {
	row, ok := t.rows[key]
	if !ok {
		return false
	}
	t.rows[key] = apply(row)
	return true
}

// Remove deletes every row matching the predicate and returns the match
// count.
func (t *Table[K, E]) Remove(match func(E) bool) int {
	n := 0
	kept := t.order[:0]
	for _, k := range t.order {
		if match(t.rows[k]) {
			delete(t.rows, k)
			n++
			continue
		}
		kept = append(kept, k)
	}
	t.order = kept
	return n
}

// RemoveKey deletes the row under key if present.
func (t *Table[K, E]) RemoveKey(key K) bool {
	if _, ok := t.rows[key]; !ok {
		return false
	}
	delete(t.rows, key)
	kept := t.order[:0]
	for _, k := range t.order {
		if k != key {
			kept = append(kept, k)
		}
	}
	t.order = kept
	return true
}
