// Package setutil provides a small membership set for ID collections.
package setutil

// Set is an unordered set of comparable values.
type Set[T comparable] struct {
	items map[T]struct{}
}

// New returns a set holding the given values.
func New[T comparable](values ...T) *Set[T] {
	s := WithCap[T](len(values))
	s.AddAll(values)
	return s
}

// NewUintSetWithCap is the common case of a set of row IDs.
func NewUintSetWithCap(capacity int) *Set[uint] {
	return WithCap[uint](capacity)
}

func WithCap[T comparable](capacity int) *Set[T] {
	return &Set[T]{items: make(map[T]struct{}, capacity)}
}

func (s *Set[T]) Add(v T) {
	s.items[v] = struct{}{}
}

// AddNew adds v and reports whether it was absent.
func (s *Set[T]) AddNew(v T) bool {
	if _, ok := s.items[v]; ok {
		return false
	}
	s.items[v] = struct{}{}
	return true
}

func (s *Set[T]) AddAll(values []T) {
	for _, v := range values {
		s.items[v] = struct{}{}
	}
}

func (s *Set[T]) Has(v T) bool {
	_, ok := s.items[v]
	return ok
}

// Missing returns the values of want that are not in the set, in want order.
func (s *Set[T]) Missing(want []T) []T {
	var out []T
	for _, v := range want {
		if !s.Has(v) {
			out = append(out, v)
		}
	}
	return out
}

// ToSlice returns the members in no particular order.
func (s *Set[T]) ToSlice() []T {
	out := make([]T, 0, len(s.items))
	for v := range s.items {
		out = append(out, v)
	}
	return out
}

func (s *Set[T]) Len() int {
	return len(s.items)
}
