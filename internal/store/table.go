package store

// table is a keyed collection that remembers first-insertion order so
// listings are deterministic. Overwriting a key keeps its position.
type table[T any] struct {
	keys []string
	rows map[string]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) get(key string) (T, bool) {
	v, ok := t.rows[key]
	return v, ok
}

func (t *table[T]) put(key string, v T) {
	if _, ok := t.rows[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.rows[key] = v
}

func (t *table[T]) remove(key string) {
	if _, ok := t.rows[key]; !ok {
		return
	}
	delete(t.rows, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}

func (t *table[T]) list(keep func(T) bool) []T {
	out := make([]T, 0, len(t.keys))
	for _, k := range t.keys {
		v := t.rows[k]
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}
