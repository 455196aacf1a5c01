package stream

import "testing"

func TestIterYieldsInOrder(t *testing.T) {
	s := New([]int{1, 2, 3})
	for _, want := range []int{1, 2, 3} {
		got, err := s.Iter()
		if err != nil {
			t.Fatalf("Iter() error: %v", err)
		}
		if got != want {
			t.Errorf("Iter() = %d, want %d", got, want)
		}
	}
	if !s.Done() {
		t.Errorf("Done() = false, want true after consuming every item")
	}
}

func TestIterPastEndIsError(t *testing.T) {
	s := New([]int{1})
	if _, err := s.Iter(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Iter(); err == nil {
		t.Fatalf("expected an error iterating past the end")
	}
}

func TestReplaceCollapsesWindowAndRewindsCursor(t *testing.T) {
	s := New([]int{10, 20, 30, 40})
	s.Iter() // 10
	s.Iter() // 20
	s.Iter() // 30
	if err := s.Replace(3, []int{99}); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	got, err := s.Iter()
	if err != nil {
		t.Fatalf("Iter() after Replace error: %v", err)
	}
	if got != 40 {
		t.Errorf("Iter() after Replace = %d, want 40", got)
	}
}

func TestReplaceCountBeyondYieldedIsError(t *testing.T) {
	s := New([]int{1, 2, 3})
	s.Iter()
	if err := s.Replace(2, nil); err == nil {
		t.Fatalf("expected an error replacing more items than have been yielded")
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	s := New([]int{5, 6})
	v, ok := s.Peek(0)
	if !ok || v != 5 {
		t.Fatalf("Peek(0) = %d, %v, want 5, true", v, ok)
	}
	got, _ := s.Iter()
	if got != 5 {
		t.Errorf("Iter() after Peek = %d, want 5 (Peek must not consume)", got)
	}
}
