package ring

import "testing"

func TestPushBelowCapacity(t *testing.T) {
	b := New[int](5)
	b.Push(1)
	b.Push(2)

	if b.Len() != 2 {
		t.Fatalf("expected len 2, got %d", b.Len())
	}
	got := b.ToSlice()
	if got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected [1 2], got %v", got)
	}
}

func TestOverwriteKeepsLastCInOrder(t *testing.T) {
	const capacity = 4
	b := New[int](capacity)
	// capacity + k pushes, k > 0
	for i := 1; i <= capacity+3; i++ {
		b.Push(i)
	}

	if b.Len() != capacity {
		t.Fatalf("expected len %d after overflow, got %d", capacity, b.Len())
	}
	got := b.ToSlice()
	want := []int{4, 5, 6, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestLatest(t *testing.T) {
	b := New[string](2)
	if _, ok := b.Latest(); ok {
		t.Fatal("expected no latest on empty buffer")
	}
	b.Push("a")
	b.Push("b")
	b.Push("c")
	v, ok := b.Latest()
	if !ok || v != "c" {
		t.Fatalf("expected latest c, got %q ok=%v", v, ok)
	}
}

func TestLast(t *testing.T) {
	b := New[int](5)
	for i := 1; i <= 5; i++ {
		b.Push(i)
	}
	got := b.Last(3)
	want := []int{3, 4, 5}
	if len(got) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	// n larger than size
	if len(b.Last(10)) != 5 {
		t.Fatal("Last(n>size) should return all elements")
	}
}

func TestDrain(t *testing.T) {
	b := New[int](3)
	b.Push(1)
	b.Push(2)
	got := b.Drain()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected [1 2], got %v", got)
	}
	if b.Len() != 0 {
		t.Fatalf("expected empty after drain, got len %d", b.Len())
	}
	b.Push(9)
	v, _ := b.Latest()
	if v != 9 {
		t.Fatalf("buffer unusable after drain: got %d", v)
	}
}

func TestMinimumCapacity(t *testing.T) {
	b := New[int](0)
	b.Push(1)
	b.Push(2)
	if b.Cap() != 1 || b.Len() != 1 {
		t.Fatalf("expected cap 1 len 1, got cap %d len %d", b.Cap(), b.Len())
	}
	v, _ := b.Latest()
	if v != 2 {
		t.Fatalf("expected 2, got %d", v)
	}
}
