// Package dedup provides a first-occurrence set, used to enforce the
// uniqueness constraints on attribute names. The zero value is ready
// to use and costs nothing until the first key arrives.
package dedup

type Set[K comparable] struct {
	seen map[K]struct{}
}

// Add records k and reports whether it was new. A false return means
// the same key was added before; the set is unchanged.
func (s *Set[K]) Add(k K) bool {
	if s.seen == nil {
		s.seen = make(map[K]struct{})
	}
	if _, dup := s.seen[k]; dup {
		return false
	}
	s.seen[k] = struct{}{}
	return true
}
