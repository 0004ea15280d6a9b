package observe

import (
	"iter"
	"slices"
)

// Set is an observable set of unique elements with insertion-ordered
// iteration. A set has no stable per-element key, so keys on the event
// and change channels are enumeration positions found by a linear scan
// at diff time: an added element is keyed by its position after the
// mutation, a removed element by its position before it.
type Set[V comparable] struct {
	Collection[[]V, int, V]
}

// NewSet creates an observable set holding the distinct elements of
// elems, keeping the position of each first occurrence.
func NewSet[V comparable](elems ...V) *Set[V] {
	s := &Set[V]{}
	var backing []V
	for _, v := range elems {
		if !slices.Contains(backing, v) {
			backing = append(backing, v)
		}
	}
	s.init(backing)
	s.clone = func(v []V) []V { return slices.Clone(v) }
	return s
}

// Len returns the number of elements.
func (s *Set[V]) Len() int {
	return len(s.value)
}

// Contains reports whether v is present.
func (s *Set[V]) Contains(v V) bool {
	return slices.Contains(s.value, v)
}

// Values returns the elements in enumeration order.
func (s *Set[V]) Values() []V {
	return slices.Clone(s.value)
}

// All returns an iterator over position/element pairs in enumeration
// order.
func (s *Set[V]) All() iter.Seq2[int, V] {
	return func(yield func(int, V) bool) {
		for i, v := range s.value {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Each calls fn for every element in enumeration order.
func (s *Set[V]) Each(fn func(position int, value V)) {
	for i, v := range s.value {
		fn(i, v)
	}
}

// Raw returns the backing slice. Mutating it directly bypasses all
// diffing and notification, and can break uniqueness; this is the
// documented silent escape hatch.
func (s *Set[V]) Raw() []V {
	return s.value
}

// Add inserts v if absent, notifying an Addition keyed by its new
// enumeration position. Adding a present element is a silent no-op.
func (s *Set[V]) Add(v V, notify ...bool) (bool, error) {
	if slices.Contains(s.value, v) {
		return false, nil
	}
	s.value = append(s.value, v)
	if !notifying(notify) {
		return true, nil
	}
	return true, s.notifyAll(Addition, len(s.value)-1, v)
}

// Remove deletes v if present, notifying a Removal keyed by its
// pre-removal enumeration position. Removing an absent element is a
// silent no-op.
func (s *Set[V]) Remove(v V, notify ...bool) (bool, error) {
	pos := slices.Index(s.value, v)
	if pos < 0 {
		return false, nil
	}
	s.value = slices.Delete(s.value, pos, pos+1)
	if !notifying(notify) {
		return true, nil
	}
	return true, s.notifyAll(Removal, pos, v)
}

// AddAll inserts every absent element of vs, notifying one Addition
// aggregate keyed by the new enumeration positions. Elements already
// present contribute no diff entry.
func (s *Set[V]) AddAll(vs []V, notify ...bool) error {
	if len(vs) == 0 {
		return nil
	}
	diffing := notifying(notify) && s.wantsDiff()
	var entries []Change[int, V]
	added := false
	for _, v := range vs {
		if slices.Contains(s.value, v) {
			continue
		}
		s.value = append(s.value, v)
		added = true
		if diffing {
			entries = append(entries, Change[int, V]{Kind: Addition, Key: len(s.value) - 1, Value: v})
		}
	}
	if !notifying(notify) || !added {
		return nil
	}
	if !diffing {
		return s.notifyContainer()
	}
	return s.notifyBulk(entries, true)
}

// RemoveAll deletes every element of vs that is present, notifying one
// Removal aggregate keyed by pre-mutation enumeration positions.
func (s *Set[V]) RemoveAll(vs []V, notify ...bool) error {
	drop := make(map[V]struct{}, len(vs))
	for _, v := range vs {
		drop[v] = struct{}{}
	}
	return removeMatching(&s.Collection, func(v V) bool {
		_, ok := drop[v]
		return ok
	}, notify)
}

// RemoveWhere deletes every element matching pred, notifying Removals
// keyed by pre-mutation enumeration positions.
func (s *Set[V]) RemoveWhere(pred func(V) bool, notify ...bool) error {
	return removeMatching(&s.Collection, pred, notify)
}

// RetainWhere deletes every element NOT matching pred.
func (s *Set[V]) RetainWhere(pred func(V) bool, notify ...bool) error {
	return removeMatching(&s.Collection, func(v V) bool { return !pred(v) }, notify)
}

// RetainAll deletes every element not present in vs.
func (s *Set[V]) RetainAll(vs []V, notify ...bool) error {
	keep := make(map[V]struct{}, len(vs))
	for _, v := range vs {
		keep[v] = struct{}{}
	}
	return removeMatching(&s.Collection, func(v V) bool {
		_, ok := keep[v]
		return !ok
	}, notify)
}

// Clear deletes every element, notifying one Removal aggregate in
// enumeration order. Clearing an empty set is silent.
func (s *Set[V]) Clear(notify ...bool) error {
	if len(s.value) == 0 {
		return nil
	}
	old := s.value
	s.value = nil
	if !notifying(notify) {
		return nil
	}
	if !s.wantsDiff() {
		return s.notifyContainer()
	}
	entries := make([]Change[int, V], 0, len(old))
	for i, v := range old {
		entries = append(entries, Change[int, V]{Kind: Removal, Key: i, Value: v})
	}
	return s.notifyBulk(entries, true)
}
