package observe

import (
	"slices"
	"testing"

	"github.com/go-drift/observe/pkg/scheduler"
)

func recordSet[V comparable](s *Set[V]) *recorder[int, V] {
	r := &recorder[int, V]{}
	s.Changes().Subscribe(func(c Change[int, V]) { r.changes = append(r.changes, c) })
	s.Events().Subscribe(func(e Event[int, V]) { r.events = append(r.events, e) })
	s.Updates().Subscribe(func([]V) { r.updates++ })
	return r
}

func TestSet_NewSetDeduplicates(t *testing.T) {
	s := NewSet(1, 2, 1, 3, 2)
	wantContents(t, s.Values(), []int{1, 2, 3})
}

func TestSet_AddKeyedByEnumerationPosition(t *testing.T) {
	s := NewSet("a", "b")
	r := recordSet(s)

	added, err := s.Add("c")
	if err != nil || !added {
		t.Fatalf("add = %v, %v", added, err)
	}
	scheduler.Flush()

	wantChanges(t, r.changes, []Change[int, string]{{Kind: Addition, Key: 2, Value: "c"}})
}

func TestSet_AddPresentElementIsSilent(t *testing.T) {
	scheduler.Flush()
	s := NewSet(1, 2)
	recordSet(s)

	added, err := s.Add(2)
	if err != nil || added {
		t.Fatalf("adding a present element = %v, %v", added, err)
	}
	if scheduler.Pending() != 0 {
		t.Error("duplicate add must not notify")
	}
	if s.Len() != 2 {
		t.Errorf("duplicate add changed the set: %v", s.Values())
	}
}

func TestSet_RemoveKeyedByPreRemovalPosition(t *testing.T) {
	s := NewSet("a", "b", "c")
	r := recordSet(s)

	removed, err := s.Remove("b")
	if err != nil || !removed {
		t.Fatalf("remove = %v, %v", removed, err)
	}
	removed, err = s.Remove("missing")
	if err != nil || removed {
		t.Fatalf("removing an absent element = %v, %v", removed, err)
	}
	scheduler.Flush()

	wantChanges(t, r.changes, []Change[int, string]{{Kind: Removal, Key: 1, Value: "b"}})
	wantContents(t, s.Values(), []string{"a", "c"})
	if r.updates != 1 {
		t.Errorf("absent removal must stay silent, updates=%d", r.updates)
	}
}

func TestSet_AddAllSkipsPresentElements(t *testing.T) {
	s := NewSet(1, 2)
	r := recordSet(s)

	if err := s.AddAll([]int{2, 3, 4, 3}); err != nil {
		t.Fatalf("addAll failed: %v", err)
	}
	scheduler.Flush()

	wantContents(t, s.Values(), []int{1, 2, 3, 4})
	wantChanges(t, r.changes, []Change[int, int]{
		{Kind: Addition, Key: 2, Value: 3},
		{Kind: Addition, Key: 3, Value: 4},
	})
	if len(r.events) != 1 || r.events[0].Kind != Addition || r.events[0].Len() != 2 {
		t.Errorf("expected one addition event with 2 elements, got %+v", r.events)
	}
}

func TestSet_AddAllOfPresentElementsIsSilent(t *testing.T) {
	scheduler.Flush()
	s := NewSet(1, 2)
	recordSet(s)

	if err := s.AddAll([]int{1, 2}); err != nil {
		t.Fatalf("addAll failed: %v", err)
	}
	if scheduler.Pending() != 0 {
		t.Error("addAll of present elements must stay silent")
	}
}

func TestSet_RemoveAllKeysPreMutationPositions(t *testing.T) {
	s := NewSet(10, 20, 30, 40)
	r := recordSet(s)

	if err := s.RemoveAll([]int{10, 30, 99}); err != nil {
		t.Fatalf("removeAll failed: %v", err)
	}
	scheduler.Flush()

	wantContents(t, s.Values(), []int{20, 40})
	wantChanges(t, r.changes, []Change[int, int]{
		{Kind: Removal, Key: 0, Value: 10},
		{Kind: Removal, Key: 2, Value: 30},
	})
}

func TestSet_RetainAll(t *testing.T) {
	s := NewSet(1, 2, 3, 4)
	r := recordSet(s)

	if err := s.RetainAll([]int{2, 4}); err != nil {
		t.Fatalf("retainAll failed: %v", err)
	}
	scheduler.Flush()

	wantContents(t, s.Values(), []int{2, 4})
	wantChanges(t, r.changes, []Change[int, int]{
		{Kind: Removal, Key: 0, Value: 1},
		{Kind: Removal, Key: 2, Value: 3},
	})
}

func TestSet_RemoveWhereAndRetainWhere(t *testing.T) {
	s := NewSet(1, 2, 3, 4, 5)
	if err := s.RemoveWhere(func(v int) bool { return v%2 == 0 }); err != nil {
		t.Fatalf("removeWhere failed: %v", err)
	}
	wantContents(t, s.Values(), []int{1, 3, 5})

	if err := s.RetainWhere(func(v int) bool { return v > 1 }); err != nil {
		t.Fatalf("retainWhere failed: %v", err)
	}
	wantContents(t, s.Values(), []int{3, 5})
}

func TestSet_ClearEmitsRemovalAggregate(t *testing.T) {
	s := NewSet("x", "y")
	r := recordSet(s)

	if err := s.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	scheduler.Flush()

	if len(r.events) != 1 || r.events[0].Kind != Removal {
		t.Fatalf("expected one removal event, got %+v", r.events)
	}
	if !slices.Equal(r.events[0].Keys(), []int{0, 1}) {
		t.Errorf("removal keys %v, want [0 1]", r.events[0].Keys())
	}
	if s.Len() != 0 {
		t.Error("set not empty after clear")
	}
}

func TestSet_SilentMutation(t *testing.T) {
	scheduler.Flush()
	s := NewSet[int]()
	recordSet(s)

	s.Add(1, false)
	s.AddAll([]int{2, 3}, false)
	s.Remove(1, false)
	s.Clear(false)

	if scheduler.Pending() != 0 {
		t.Errorf("silent mutations scheduled %d deliveries", scheduler.Pending())
	}
	if s.Len() != 0 {
		t.Errorf("silent mutations must still apply: %v", s.Values())
	}
}

func TestSet_ReadAPI(t *testing.T) {
	s := NewSet(7, 8)
	if s.Len() != 2 || !s.Contains(7) || s.Contains(9) {
		t.Error("basic reads misbehaved")
	}
	var visited []int
	s.Each(func(_ int, v int) { visited = append(visited, v) })
	wantContents(t, visited, []int{7, 8})
	visited = visited[:0]
	for _, v := range s.All() {
		visited = append(visited, v)
	}
	wantContents(t, visited, []int{7, 8})
	if raw := s.Raw(); len(raw) != 2 {
		t.Errorf("raw view %v", raw)
	}
}
