package observe

import "fmt"

// ChangeKind discriminates what happened to an element.
type ChangeKind int

const (
	// Addition means an element became present.
	Addition ChangeKind = iota
	// Removal means an element became absent.
	Removal
	// Update means an element's value changed in place.
	Update
)

// String returns a human-readable representation of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case Addition:
		return "addition"
	case Removal:
		return "removal"
	case Update:
		return "update"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// Change describes exactly one affected element. For lists and sets the
// key is a positional index; for maps it is the map's own key.
type Change[K comparable, V any] struct {
	Kind  ChangeKind
	Key   K
	Value V
}

// Event describes all elements affected by a single operation with one
// shared kind. Keys are unique and kept in the order the elements were
// discovered during the triggering operation.
type Event[K comparable, V any] struct {
	// Kind is the change discriminant shared by every element in the event.
	Kind ChangeKind

	keys  []K
	elems map[K]V
}

func newEvent[K comparable, V any](kind ChangeKind) Event[K, V] {
	return Event[K, V]{Kind: kind, elems: make(map[K]V)}
}

// add records one affected element, keeping discovery order.
// Re-adding a key overwrites its value without reordering.
func (e *Event[K, V]) add(key K, value V) {
	if _, ok := e.elems[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.elems[key] = value
}

// Len returns the number of affected elements.
func (e Event[K, V]) Len() int {
	return len(e.keys)
}

// Keys returns the affected keys in discovery order.
func (e Event[K, V]) Keys() []K {
	out := make([]K, len(e.keys))
	copy(out, e.keys)
	return out
}

// Values returns the affected values in the same order as Keys.
func (e Event[K, V]) Values() []V {
	out := make([]V, 0, len(e.keys))
	for _, k := range e.keys {
		out = append(out, e.elems[k])
	}
	return out
}

// Get returns the value recorded for key.
func (e Event[K, V]) Get(key K) (V, bool) {
	v, ok := e.elems[key]
	return v, ok
}

// Each calls fn for every affected element in discovery order.
func (e Event[K, V]) Each(fn func(key K, value V)) {
	for _, k := range e.keys {
		fn(k, e.elems[k])
	}
}

// groupByKind bundles element changes into one event per kind, in the
// order each kind is first encountered. replaceRange relies on this to
// produce its removal event before its addition event.
func groupByKind[K comparable, V any](entries []Change[K, V]) []Event[K, V] {
	byKind := make(map[ChangeKind]int)
	var events []Event[K, V]
	for _, entry := range entries {
		idx, ok := byKind[entry.Kind]
		if !ok {
			idx = len(events)
			byKind[entry.Kind] = idx
			events = append(events, newEvent[K, V](entry.Kind))
		}
		events[idx].add(entry.Key, entry.Value)
	}
	return events
}
