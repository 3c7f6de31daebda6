package reactive

import (
	"sync"
	"testing"
)

func TestSignalGetSet(t *testing.T) {
	s := NewSignal(5)
	if s.Get() != 5 {
		t.Errorf("expected 5, got %d", s.Get())
	}

	s.Set(10)
	if s.Peek() != 10 {
		t.Errorf("expected 10, got %d", s.Peek())
	}
}

func TestSignalSetSameValueDoesNotNotify(t *testing.T) {
	s := NewSignal("a")
	runs := 0
	stop := Watch(func() {
		s.Get()
		runs++
	})
	defer stop()

	s.Set("a")
	if runs != 1 {
		t.Errorf("expected 1 run, got %d", runs)
	}

	s.Set("b")
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
}

func TestSignalUpdate(t *testing.T) {
	s := NewSignal(1)
	s.Update(func(n int) int { return n + 1 })
	if s.Peek() != 2 {
		t.Errorf("expected 2, got %d", s.Peek())
	}
}

func TestSignalMutateAlwaysNotifies(t *testing.T) {
	type address struct{ City string }
	type user struct {
		Name    string
		Address *address
	}

	s := NewSignal(user{Name: "Harry", Address: &address{City: "Surrey"}})
	runs := 0
	stop := Watch(func() {
		s.Get()
		runs++
	})
	defer stop()

	s.Mutate(func(u *user) { u.Address.City = "London" })
	if runs != 2 {
		t.Errorf("expected Mutate to notify, runs=%d", runs)
	}
	if s.Peek().Address.City != "London" {
		t.Errorf("expected London, got %s", s.Peek().Address.City)
	}
}

func TestSignalWithEquals(t *testing.T) {
	s := NewSignal(1).WithEquals(func(a, b int) bool { return a%2 == b%2 })
	runs := 0
	stop := Watch(func() {
		s.Get()
		runs++
	})
	defer stop()

	s.Set(3) // same parity
	if runs != 1 {
		t.Errorf("expected no notification for equal parity, runs=%d", runs)
	}
	if s.Peek() != 1 {
		t.Errorf("expected value to stay 1, got %d", s.Peek())
	}

	s.Set(2)
	if runs != 2 {
		t.Errorf("expected notification, runs=%d", runs)
	}
}

func TestSignalInterfaceValues(t *testing.T) {
	s := NewSignal[any](1)
	s.Set("one")
	if s.Peek() != "one" {
		t.Errorf("expected %q, got %v", "one", s.Peek())
	}
	s.Set([]string{"a"})
	if got, ok := s.Peek().([]string); !ok || got[0] != "a" {
		t.Errorf("unexpected value %v", s.Peek())
	}
}

func TestSignalConcurrentAccess(t *testing.T) {
	s := NewSignal(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(func(n int) int { return n + 1 })
			_ = s.Get()
		}()
	}
	wg.Wait()

	if s.Peek() != 50 {
		t.Errorf("expected 50, got %d", s.Peek())
	}
}

func TestDefaultEquals(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"same int", 1, 1, true},
		{"int vs string", 1, "1", false},
		{"same string", "x", "x", true},
		{"slices", []int{1, 2}, []int{1, 2}, true},
		{"slice order", []int{1, 2}, []int{2, 1}, false},
		{"maps", map[string]int{"a": 1, "b": 2}, map[string]int{"b": 2, "a": 1}, true},
		{"nil vs value", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := defaultEquals(tt.a, tt.b); got != tt.want {
				t.Errorf("defaultEquals(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
