package ring

// #region buffer

// Buffer is a fixed-capacity FIFO ring. Pushing onto a full buffer
// overwrites the oldest element. Length never exceeds capacity.
type Buffer[T any] struct {
	items []T
	head  int // index of the oldest element
	size  int
}

// New creates a buffer with the given capacity. Capacity must be >= 1.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer[T]{items: make([]T, capacity)}
}

// #endregion buffer

// #region push

// Push appends v, evicting the oldest element when full. O(1).
func (b *Buffer[T]) Push(v T) {
	tail := (b.head + b.size) % len(b.items)
	b.items[tail] = v
	if b.size < len(b.items) {
		b.size++
		return
	}
	b.head = (b.head + 1) % len(b.items)
}

// #endregion push

// #region accessors

// Len returns the number of stored elements.
func (b *Buffer[T]) Len() int {
	return b.size
}

// Cap returns the fixed capacity.
func (b *Buffer[T]) Cap() int {
	return len(b.items)
}

// Latest returns the most recently pushed element, or false when empty.
func (b *Buffer[T]) Latest() (T, bool) {
	var zero T
	if b.size == 0 {
		return zero, false
	}
	idx := (b.head + b.size - 1) % len(b.items)
	return b.items[idx], true
}

// ToSlice returns the stored elements oldest first.
func (b *Buffer[T]) ToSlice() []T {
	out := make([]T, 0, b.size)
	for i := 0; i < b.size; i++ {
		out = append(out, b.items[(b.head+i)%len(b.items)])
	}
	return out
}

// Last returns up to n of the most recent elements, oldest first.
func (b *Buffer[T]) Last(n int) []T {
	if n > b.size {
		n = b.size
	}
	out := make([]T, 0, n)
	for i := b.size - n; i < b.size; i++ {
		out = append(out, b.items[(b.head+i)%len(b.items)])
	}
	return out
}

// #endregion accessors

// #region drain

// Drain returns all stored elements oldest first and empties the buffer.
func (b *Buffer[T]) Drain() []T {
	out := b.ToSlice()
	b.Clear()
	return out
}

// Clear discards all stored elements.
func (b *Buffer[T]) Clear() {
	var zero T
	for i := range b.items {
		b.items[i] = zero
	}
	b.head = 0
	b.size = 0
}

// #endregion drain
