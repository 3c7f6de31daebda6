package reactive

import "testing"

func TestWatchRunsImmediatelyAndOnChange(t *testing.T) {
	s := NewSignal(1)
	var seen []int

	stop := Watch(func() {
		seen = append(seen, s.Get())
	})

	s.Set(2)
	s.Set(3)
	stop()
	s.Set(4)

	want := []int{1, 2, 3}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %d, want %d", i, seen[i], want[i])
		}
	}
	if Subscribers(s) != 0 {
		t.Errorf("stopped watcher still subscribed (%d)", Subscribers(s))
	}
}

func TestWatchThroughMemo(t *testing.T) {
	s := NewSignal(1)
	even := NewMemo(func() bool { return s.Get()%2 == 0 })

	var seen []bool
	stop := Watch(func() {
		seen = append(seen, even.Get())
	})
	defer stop()

	s.Set(2)
	s.Set(3)

	want := []bool{false, true, false}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %v, want %v", i, seen[i], want[i])
		}
	}
}

func TestWatchWriteDuringRunSchedulesOneRerun(t *testing.T) {
	s := NewSignal(0)
	runs := 0

	stop := Watch(func() {
		runs++
		if v := s.Get(); v < 3 {
			s.Set(v + 1)
		}
	})
	defer stop()

	if s.Peek() != 3 {
		t.Errorf("expected watcher to converge on 3, got %d", s.Peek())
	}
	if runs != 4 {
		t.Errorf("expected 4 runs, got %d", runs)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	stop := Watch(func() {})
	stop()
	stop()
}

func TestWatchSeesInvalidatedMemos(t *testing.T) {
	s := NewSignal(1)
	double := NewMemo(func() int { return s.Get() * 2 })

	type pair struct{ v, d int }
	var seen []pair
	stop := Watch(func() {
		// s is read before the memo, so s notifies this watcher first.
		seen = append(seen, pair{s.Get(), double.Get()})
	})
	defer stop()

	s.Set(2)
	Batch(func() {
		s.Set(5)
		s.Set(3)
	})

	want := []pair{{1, 2}, {2, 4}, {3, 6}}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %v, want %v", i, seen[i], want[i])
		}
	}
}
