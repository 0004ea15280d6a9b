package observe

import (
	"iter"
	"maps"
	"slices"
)

// Entry is one key/value pair for bulk map operations.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is an observable mapping with insertion-ordered iteration. Keys on
// the event and change channels are the map's own keys.
type Map[K comparable, V comparable] struct {
	Collection[map[K]V, K, V]

	order []K
}

// NewMap creates an empty observable map.
func NewMap[K comparable, V comparable]() *Map[K, V] {
	m := &Map[K, V]{}
	m.init(make(map[K]V))
	m.clone = func(v map[K]V) map[K]V { return maps.Clone(v) }
	return m
}

// NewMapOf creates an observable map holding entries. Later duplicates
// of a key overwrite earlier ones without disturbing its position.
func NewMapOf[K comparable, V comparable](entries ...Entry[K, V]) *Map[K, V] {
	m := NewMap[K, V]()
	for _, e := range entries {
		m.store(e.Key, e.Value)
	}
	return m
}

// store writes silently, maintaining insertion order. Returns the old
// value and whether the key was already present.
func (m *Map[K, V]) store(key K, value V) (V, bool) {
	old, exists := m.value[key]
	m.value[key] = value
	if !exists {
		m.order = append(m.order, key)
	}
	return old, exists
}

func (m *Map[K, V]) dropKey(key K) {
	if i := slices.Index(m.order, key); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return len(m.value)
}

// Get returns the value for key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	v, ok := m.value[key]
	return v, ok
}

// ContainsKey reports whether key is present.
func (m *Map[K, V]) ContainsKey(key K) bool {
	_, ok := m.value[key]
	return ok
}

// Keys returns the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	return slices.Clone(m.order)
}

// Values returns the values in key insertion order.
func (m *Map[K, V]) Values() []V {
	out := make([]V, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.value[k])
	}
	return out
}

// All returns an iterator over entries in key insertion order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.order {
			if !yield(k, m.value[k]) {
				return
			}
		}
	}
}

// Each calls fn for every entry in key insertion order.
func (m *Map[K, V]) Each(fn func(key K, value V)) {
	for _, k := range m.order {
		fn(k, m.value[k])
	}
}

// Raw returns the backing map. Mutating it directly bypasses all diffing
// and notification; this is the documented silent escape hatch. Keys
// added through Raw have no recorded insertion position, so later diffs
// visit them in an unspecified order.
func (m *Map[K, V]) Raw() map[K]V {
	return m.value
}

// Put stores value under key, notifying an Addition when the key was
// absent and an Update otherwise. The Update fires whether or not the
// new value differs.
func (m *Map[K, V]) Put(key K, value V, notify ...bool) error {
	_, exists := m.store(key, value)
	if !notifying(notify) {
		return nil
	}
	kind := Addition
	if exists {
		kind = Update
	}
	return m.notifyAll(kind, key, value)
}

// PutIfAbsent returns the existing value for key, or stores the value
// produced by supply and notifies an Addition. supply is not called when
// the key is present.
func (m *Map[K, V]) PutIfAbsent(key K, supply func() V, notify ...bool) (V, error) {
	if v, ok := m.value[key]; ok {
		return v, nil
	}
	v := supply()
	m.store(key, v)
	if !notifying(notify) {
		return v, nil
	}
	return v, m.notifyAll(Addition, key, v)
}

// Remove deletes key, notifying a Removal carrying the old value. It
// reports whether the key was present; an absent key is not an error and
// stays silent.
func (m *Map[K, V]) Remove(key K, notify ...bool) (V, bool, error) {
	old, ok := m.value[key]
	if !ok {
		var zero V
		return zero, false, nil
	}
	delete(m.value, key)
	m.dropKey(key)
	if !notifying(notify) {
		return old, true, nil
	}
	return old, true, m.notifyAll(Removal, key, old)
}

// AddEntries stores every entry, notifying an Addition aggregate for the
// newly present keys and an Update aggregate for overwritten keys whose
// value actually changed.
func (m *Map[K, V]) AddEntries(entries []Entry[K, V], notify ...bool) error {
	if len(entries) == 0 {
		return nil
	}
	if !notifying(notify) || !m.wantsDiff() {
		for _, e := range entries {
			m.store(e.Key, e.Value)
		}
		if !notifying(notify) {
			return nil
		}
		// Unchanged overwrites are not detectable without diffing;
		// update observers are notified regardless.
		return m.notifyContainer()
	}
	before := len(m.value)
	var diff []Change[K, V]
	for _, e := range entries {
		old, exists := m.store(e.Key, e.Value)
		if !exists {
			diff = append(diff, Change[K, V]{Kind: Addition, Key: e.Key, Value: e.Value})
		} else if old != e.Value {
			diff = append(diff, Change[K, V]{Kind: Update, Key: e.Key, Value: e.Value})
		}
	}
	return m.notifyBulk(diff, len(m.value) != before)
}

// UpdateAll replaces every value with fn(key, value), notifying an
// Update aggregate containing only the keys whose value actually
// changed.
func (m *Map[K, V]) UpdateAll(fn func(key K, value V) V, notify ...bool) error {
	if len(m.order) == 0 {
		return nil
	}
	if !notifying(notify) || !m.wantsDiff() {
		for _, k := range m.order {
			m.value[k] = fn(k, m.value[k])
		}
		if !notifying(notify) {
			return nil
		}
		return m.notifyContainer()
	}
	var diff []Change[K, V]
	for _, k := range m.order {
		old := m.value[k]
		next := fn(k, old)
		if next != old {
			m.value[k] = next
			diff = append(diff, Change[K, V]{Kind: Update, Key: k, Value: next})
		}
	}
	return m.notifyBulk(diff, false)
}

// RemoveWhere deletes every entry matching pred, notifying one Removal
// aggregate in key insertion order.
func (m *Map[K, V]) RemoveWhere(pred func(key K, value V) bool, notify ...bool) error {
	if len(m.order) == 0 {
		return nil
	}
	diffing := notifying(notify) && m.wantsDiff()
	var diff []Change[K, V]
	kept := m.order[:0]
	for _, k := range m.order {
		v := m.value[k]
		if pred(k, v) {
			delete(m.value, k)
			if diffing {
				diff = append(diff, Change[K, V]{Kind: Removal, Key: k, Value: v})
			}
		} else {
			kept = append(kept, k)
		}
	}
	removedAny := len(kept) != len(m.order)
	m.order = kept
	if !notifying(notify) {
		return nil
	}
	if !diffing {
		if !removedAny {
			return nil
		}
		return m.notifyContainer()
	}
	return m.notifyBulk(diff, len(diff) > 0)
}

// Clear deletes every entry, notifying one Removal aggregate in key
// insertion order. Clearing an empty map is silent.
func (m *Map[K, V]) Clear(notify ...bool) error {
	if len(m.order) == 0 {
		return nil
	}
	oldOrder := m.order
	oldValues := m.value
	m.value = make(map[K]V)
	m.order = nil
	if !notifying(notify) {
		return nil
	}
	if !m.wantsDiff() {
		return m.notifyContainer()
	}
	diff := make([]Change[K, V], 0, len(oldOrder))
	for _, k := range oldOrder {
		diff = append(diff, Change[K, V]{Kind: Removal, Key: k, Value: oldValues[k]})
	}
	return m.notifyBulk(diff, true)
}
