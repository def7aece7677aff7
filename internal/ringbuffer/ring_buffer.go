package ringbuffer

// Window is a fixed-size reorder buffer over a sequence of numbered items. Items
// may be put in any order as long as their sequence number falls inside the
// window; they are popped strictly in sequence order.
type Window[T any] struct {
	buf    []T
	filled []bool
	next   uint64
	size   int
}

// NewWindow creates a Window with the given capacity, starting at sequence number start.
// A default capacity of 1 is used if the given value is zero.
func NewWindow[T any](capacity uint, start uint64) *Window[T] {
	c := max(1, capacity)
	return &Window[T]{
		buf:    make([]T, c),
		filled: make([]bool, c),
		next:   start,
	}
}

// Size returns the number of items currently held.
func (w *Window[T]) Size() int {
	return w.size
}

// Next returns the sequence number the next Pop will return.
func (w *Window[T]) Next() uint64 {
	return w.next
}

// Put stores item under seq. It returns false if seq is outside the window
// [Next, Next+capacity) or already occupied.
func (w *Window[T]) Put(seq uint64, item T) bool {
	if seq < w.next || seq-w.next >= uint64(len(w.buf)) {
		return false
	}
	idx := w.index(seq)
	if w.filled[idx] {
		return false
	}

	w.buf[idx] = item
	w.filled[idx] = true
	w.size++
	return true
}

// Pop removes and returns the item with sequence number Next, if it has arrived.
// If it hasn't, it returns (zero[T], false) and the window does not move.
func (w *Window[T]) Pop() (T, bool) {
	var zero T
	idx := w.index(w.next)
	if !w.filled[idx] {
		return zero, false
	}

	item := w.buf[idx]
	w.buf[idx] = zero
	w.filled[idx] = false
	w.next++
	w.size--
	return item, true
}

func (w *Window[T]) index(seq uint64) int {
	return int(seq % uint64(len(w.buf)))
}
