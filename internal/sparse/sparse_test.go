package sparse

import (
	"testing"
)

func TestSet_Basic(t *testing.T) {
	s := New(100)

	if !s.IsEmpty() {
		t.Error("new set should be empty")
	}
	if s.Contains(0) {
		t.Error("empty set should not contain 0")
	}

	if !s.Insert(5) {
		t.Error("first insert should return true")
	}
	if !s.Contains(5) {
		t.Error("set should contain 5 after insert")
	}
	if s.Insert(5) {
		t.Error("duplicate insert should return false")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}

	s.Insert(10)
	s.Insert(3)
	s.Insert(7)
	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}

	s.Clear()
	if !s.IsEmpty() {
		t.Error("set should be empty after clear")
	}
	if s.Contains(5) {
		t.Error("cleared set should not contain 5")
	}
}

func TestSet_InsertionOrder(t *testing.T) {
	s := New(100)
	for _, v := range []int{5, 2, 8, 1, 2, 5} {
		s.Insert(v)
	}

	got := s.AppendTo(nil)
	want := []int{5, 2, 8, 1}
	if len(got) != len(want) {
		t.Fatalf("AppendTo() returned %d values, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AppendTo()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSet_OutOfUniverse(t *testing.T) {
	s := New(4)
	if s.Contains(-1) || s.Contains(4) || s.Contains(1000) {
		t.Error("Contains() should be false outside the universe")
	}
	if s.Capacity() != 4 {
		t.Errorf("Capacity() = %d, want 4", s.Capacity())
	}
}

func TestSet_StaleSparseEntries(t *testing.T) {
	// After Clear the sparse array still holds old indices; they must not
	// produce false positives.
	s := New(10)
	s.Insert(7)
	s.Insert(3)
	s.Clear()
	s.Insert(3)

	if s.Contains(7) {
		t.Error("Contains(7) = true after Clear, want false")
	}
	if !s.Contains(3) {
		t.Error("Contains(3) = false, want true")
	}
}
