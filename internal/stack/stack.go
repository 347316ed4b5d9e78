package stack

// Stack is a LIFO over T. Pop shrinks the backing array once it is
// less than half used, so deeply nested documents do not pin memory
// after the nesting unwinds.
type Stack[T any] struct {
	items []T
}

func (s *Stack[T]) Push(v T) {
	s.items = append(s.items, v)
}

func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	n := len(s.items)
	if n == 0 {
		return zero, false
	}
	v := s.items[n-1]
	s.items[n-1] = zero
	s.items = s.items[:n-1]
	s.items = shrink(s.items)
	return v, true
}

// Top returns a pointer to the topmost item so that callers may update
// it in place. The pointer is only valid until the next Push.
func (s *Stack[T]) Top() *T {
	if len(s.items) == 0 {
		return nil
	}
	return &s.items[len(s.items)-1]
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}

func shrink[T any](items []T) []T {
	if c := cap(items); c > 20 && c > len(items)*2 {
		return append(make([]T, 0, len(items)), items...)
	}
	return items
}
