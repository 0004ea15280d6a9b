package observe

import (
	"iter"
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/go-drift/observe/pkg/errors"
)

// List is an observable sequence backed by a plain slice. Keys on the
// event and change channels are positional indices; for removals they
// are the element's index before the mutation, for additions its index
// after.
type List[V comparable] struct {
	Collection[[]V, int, V]
}

// NewList creates an observable list holding elems.
func NewList[V comparable](elems ...V) *List[V] {
	l := &List[V]{}
	l.init(slices.Clone(elems))
	l.clone = func(s []V) []V { return slices.Clone(s) }
	return l
}

// Len returns the number of elements.
func (l *List[V]) Len() int {
	return len(l.value)
}

// At returns the element at index. Like a plain slice access, it panics
// when index is out of range.
func (l *List[V]) At(index int) V {
	return l.value[index]
}

// IndexOf returns the index of the first occurrence of v, or -1.
func (l *List[V]) IndexOf(v V) int {
	return slices.Index(l.value, v)
}

// Contains reports whether v is present.
func (l *List[V]) Contains(v V) bool {
	return slices.Contains(l.value, v)
}

// Sub returns a copy of the elements in [start, end).
func (l *List[V]) Sub(start, end int) ([]V, error) {
	if err := l.checkRange("observe.List.Sub", start, end); err != nil {
		return nil, err
	}
	return slices.Clone(l.value[start:end]), nil
}

// All returns an iterator over index/element pairs in order.
func (l *List[V]) All() iter.Seq2[int, V] {
	return func(yield func(int, V) bool) {
		for i, v := range l.value {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Each calls fn for every element in order.
func (l *List[V]) Each(fn func(index int, value V)) {
	for i, v := range l.value {
		fn(i, v)
	}
}

// Raw returns the backing slice. Mutating it directly bypasses all
// diffing and notification; this is the documented silent escape hatch.
func (l *List[V]) Raw() []V {
	return l.value
}

// Add appends v and notifies an Addition keyed by the new index.
func (l *List[V]) Add(v V, notify ...bool) error {
	l.value = append(l.value, v)
	if !notifying(notify) {
		return nil
	}
	return l.notifyAll(Addition, len(l.value)-1, v)
}

// Insert places v at index, shifting later elements up. Only the
// inserted element is reported.
func (l *List[V]) Insert(index int, v V, notify ...bool) error {
	if index < 0 || index > len(l.value) {
		return errors.Range("observe.List.Insert", index, index, len(l.value))
	}
	l.value = slices.Insert(l.value, index, v)
	if !notifying(notify) {
		return nil
	}
	return l.notifyAll(Addition, index, v)
}

// SetAt replaces the element at index and notifies an Update. The
// notification fires whether or not the new value differs.
func (l *List[V]) SetAt(index int, v V, notify ...bool) error {
	if err := l.checkIndex("observe.List.SetAt", index); err != nil {
		return err
	}
	l.value[index] = v
	if !notifying(notify) {
		return nil
	}
	return l.notifyAll(Update, index, v)
}

// RemoveAt removes and returns the element at index, notifying a Removal
// keyed by its pre-mutation index.
func (l *List[V]) RemoveAt(index int, notify ...bool) (V, error) {
	var zero V
	if err := l.checkIndex("observe.List.RemoveAt", index); err != nil {
		return zero, err
	}
	removed := l.value[index]
	l.value = slices.Delete(l.value, index, index+1)
	if !notifying(notify) {
		return removed, nil
	}
	return removed, l.notifyAll(Removal, index, removed)
}

// Remove removes the first occurrence of v. It reports whether anything
// was removed; an absent element is not an error and stays silent.
func (l *List[V]) Remove(v V, notify ...bool) (bool, error) {
	index := slices.Index(l.value, v)
	if index < 0 {
		return false, nil
	}
	l.value = slices.Delete(l.value, index, index+1)
	if !notifying(notify) {
		return true, nil
	}
	return true, l.notifyAll(Removal, index, v)
}

// AddAll appends vs and notifies one Addition aggregate covering the new
// indices.
func (l *List[V]) AddAll(vs []V, notify ...bool) error {
	if len(vs) == 0 {
		return nil
	}
	start := len(l.value)
	l.value = append(l.value, vs...)
	if !notifying(notify) {
		return nil
	}
	if !l.wantsDiff() {
		return l.notifyContainer()
	}
	entries := make([]Change[int, V], 0, len(vs))
	for i, v := range vs {
		entries = append(entries, Change[int, V]{Kind: Addition, Key: start + i, Value: v})
	}
	return l.notifyBulk(entries, true)
}

// InsertAll places vs at index, shifting later elements up, and notifies
// one Addition aggregate covering the inserted indices.
func (l *List[V]) InsertAll(index int, vs []V, notify ...bool) error {
	if index < 0 || index > len(l.value) {
		return errors.Range("observe.List.InsertAll", index, index, len(l.value))
	}
	if len(vs) == 0 {
		return nil
	}
	l.value = slices.Insert(l.value, index, vs...)
	if !notifying(notify) {
		return nil
	}
	if !l.wantsDiff() {
		return l.notifyContainer()
	}
	entries := make([]Change[int, V], 0, len(vs))
	for i, v := range vs {
		entries = append(entries, Change[int, V]{Kind: Addition, Key: index + i, Value: v})
	}
	return l.notifyBulk(entries, true)
}

// Clear removes every element, notifying one Removal aggregate keyed by
// the old indices. Clearing an empty list is silent.
func (l *List[V]) Clear(notify ...bool) error {
	if len(l.value) == 0 {
		return nil
	}
	old := l.value
	l.value = nil
	if !notifying(notify) {
		return nil
	}
	if !l.wantsDiff() {
		return l.notifyContainer()
	}
	entries := make([]Change[int, V], 0, len(old))
	for i, v := range old {
		entries = append(entries, Change[int, V]{Kind: Removal, Key: i, Value: v})
	}
	return l.notifyBulk(entries, true)
}

// RemoveWhere removes every element matching pred, notifying Removals
// keyed by pre-mutation indices.
func (l *List[V]) RemoveWhere(pred func(V) bool, notify ...bool) error {
	return removeMatching(&l.Collection, pred, notify)
}

// RetainWhere removes every element NOT matching pred.
func (l *List[V]) RetainWhere(pred func(V) bool, notify ...bool) error {
	return removeMatching(&l.Collection, func(v V) bool { return !pred(v) }, notify)
}

// RetainAll removes every element not present in vs.
func (l *List[V]) RetainAll(vs []V, notify ...bool) error {
	keep := make(map[V]struct{}, len(vs))
	for _, v := range vs {
		keep[v] = struct{}{}
	}
	return removeMatching(&l.Collection, func(v V) bool {
		_, ok := keep[v]
		return !ok
	}, notify)
}

// Sort sorts the list with a stable sort, notifying an Update only for
// positions whose value actually changed. Elements that land in the same
// position produce no event.
func (l *List[V]) Sort(less func(a, b V) bool, notify ...bool) error {
	return l.permute(func(s []V) {
		sort.SliceStable(s, func(i, j int) bool { return less(s[i], s[j]) })
	}, notify)
}

// Shuffle permutes the list using rng (or the shared global source when
// rng is nil), notifying an Update only for positions whose value
// actually changed.
func (l *List[V]) Shuffle(rng *rand.Rand, notify ...bool) error {
	return l.permute(func(s []V) {
		swap := func(i, j int) { s[i], s[j] = s[j], s[i] }
		if rng != nil {
			rng.Shuffle(len(s), swap)
		} else {
			rand.Shuffle(len(s), swap)
		}
	}, notify)
}

// Reverse reverses the list in place, notifying an Update only for
// positions whose value actually changed.
func (l *List[V]) Reverse(notify ...bool) error {
	return l.permute(slices.Reverse, notify)
}

// permute applies an order-changing mutation to the whole backing slice
// and diffs old against new per index. Without an event or change
// observer the diff is skipped, so whether anything moved is unknown and
// update observers are notified regardless.
func (l *List[V]) permute(mutate func([]V), notify []bool) error {
	if len(l.value) < 2 {
		return nil
	}
	if !notifying(notify) || !l.wantsDiff() {
		mutate(l.value)
		if !notifying(notify) {
			return nil
		}
		return l.notifyContainer()
	}
	old := slices.Clone(l.value)
	mutate(l.value)
	var entries []Change[int, V]
	for i, v := range l.value {
		if old[i] != v {
			entries = append(entries, Change[int, V]{Kind: Update, Key: i, Value: v})
		}
	}
	return l.notifyBulk(entries, false)
}

// SetRange copies the first end-start elements of src over [start, end),
// notifying an Update only for positions whose value actually changed.
func (l *List[V]) SetRange(start, end int, src []V, notify ...bool) error {
	if err := l.checkRange("observe.List.SetRange", start, end); err != nil {
		return err
	}
	if len(src) < end-start {
		return errors.RangeMsg("observe.List.SetRange", "source has too few elements")
	}
	return l.overwriteRange(start, end, func(i int) V { return src[i-start] }, notify)
}

// FillRange sets every position in [start, end) to v, notifying an
// Update only for positions whose value actually changed.
func (l *List[V]) FillRange(start, end int, v V, notify ...bool) error {
	if err := l.checkRange("observe.List.FillRange", start, end); err != nil {
		return err
	}
	return l.overwriteRange(start, end, func(int) V { return v }, notify)
}

func (l *List[V]) overwriteRange(start, end int, next func(i int) V, notify []bool) error {
	if start == end {
		return nil
	}
	if !notifying(notify) || !l.wantsDiff() {
		for i := start; i < end; i++ {
			l.value[i] = next(i)
		}
		if !notifying(notify) {
			return nil
		}
		return l.notifyContainer()
	}
	var entries []Change[int, V]
	for i := start; i < end; i++ {
		v := next(i)
		if l.value[i] != v {
			l.value[i] = v
			entries = append(entries, Change[int, V]{Kind: Update, Key: i, Value: v})
		}
	}
	return l.notifyBulk(entries, false)
}

// ReplaceRange substitutes repl for the elements in [start, end). It
// always notifies two aggregates: a Removal for the vacated range's old
// contents followed by an Addition for the replacement, never a single
// Update, even when the contents are equal.
func (l *List[V]) ReplaceRange(start, end int, repl []V, notify ...bool) error {
	if err := l.checkRange("observe.List.ReplaceRange", start, end); err != nil {
		return err
	}
	if start == end && len(repl) == 0 {
		return nil
	}
	if !notifying(notify) || !l.wantsDiff() {
		l.value = slices.Replace(l.value, start, end, repl...)
		if !notifying(notify) {
			return nil
		}
		return l.notifyContainer()
	}
	removed := slices.Clone(l.value[start:end])
	l.value = slices.Replace(l.value, start, end, repl...)
	entries := make([]Change[int, V], 0, len(removed)+len(repl))
	for i, v := range removed {
		entries = append(entries, Change[int, V]{Kind: Removal, Key: start + i, Value: v})
	}
	for i, v := range repl {
		entries = append(entries, Change[int, V]{Kind: Addition, Key: start + i, Value: v})
	}
	return l.notifyBulk(entries, end-start != len(repl))
}

func (l *List[V]) checkIndex(op string, index int) error {
	if index < 0 || index >= len(l.value) {
		return errors.Range(op, index, index+1, len(l.value))
	}
	return nil
}

func (l *List[V]) checkRange(op string, start, end int) error {
	if start < 0 || end < start || end > len(l.value) {
		return errors.Range(op, start, end, len(l.value))
	}
	return nil
}

// removeMatching filters a slice-backed collection, keying Removals by
// each removed element's pre-mutation index. Shared by List and Set.
func removeMatching[V comparable](c *Collection[[]V, int, V], pred func(V) bool, notify []bool) error {
	if !notifying(notify) || !c.wantsDiff() {
		before := len(c.value)
		kept := c.value[:0]
		for _, v := range c.value {
			if !pred(v) {
				kept = append(kept, v)
			}
		}
		c.value = kept
		if !notifying(notify) || len(c.value) == before {
			return nil
		}
		return c.notifyContainer()
	}
	old := c.value
	next := make([]V, 0, len(old))
	var entries []Change[int, V]
	for i, v := range old {
		if pred(v) {
			entries = append(entries, Change[int, V]{Kind: Removal, Key: i, Value: v})
		} else {
			next = append(next, v)
		}
	}
	c.value = next
	return c.notifyBulk(entries, len(entries) > 0)
}
