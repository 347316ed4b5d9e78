package stack

import "errors"

var ErrBindingConflict = errors.New("prefix is already bound to a different URI")

// Binding associates a namespace prefix with a URI. The empty prefix
// denotes the default namespace; pushing an empty URI for the default
// prefix undeclares it for the enclosing scope.
type Binding struct {
	Prefix string
	URI    string
}

// ScopeStack tracks namespace bindings in document order. Lookups walk
// innermost-first, so a binding pushed for a nested element shadows an
// outer binding with the same prefix.
type ScopeStack struct {
	items []Binding
}

func (s *ScopeStack) Push(b Binding) {
	s.items = append(s.items, b)
}

// Declare pushes b unless an equivalent binding is already in scope.
// It reports whether a new binding was added. Re-binding a non-empty
// prefix to a different URI fails with ErrBindingConflict, no matter
// how deep the original declaration sits; the default namespace may be
// re-bound freely.
func (s *ScopeStack) Declare(b Binding) (bool, error) {
	if cur, ok := s.Lookup(b.Prefix); ok {
		if cur.URI == b.URI {
			return false, nil
		}
		if b.Prefix != "" {
			return false, ErrBindingConflict
		}
	}
	s.Push(b)
	return true, nil
}

func (s *ScopeStack) Lookup(prefix string) (Binding, bool) {
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].Prefix == prefix {
			return s.items[i], true
		}
	}
	return Binding{}, false
}

// LookupURI finds the innermost non-default binding for uri.
func (s *ScopeStack) LookupURI(uri string) (Binding, bool) {
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].URI == uri && s.items[i].Prefix != "" {
			return s.items[i], true
		}
	}
	return Binding{}, false
}

// Pop removes the n most recently pushed bindings. It is the caller's
// job to pass the number of bindings its closing scope contributed.
func (s *ScopeStack) Pop(n int) {
	if n <= 0 {
		return
	}
	if n > len(s.items) {
		n = len(s.items)
	}
	for i := len(s.items) - n; i < len(s.items); i++ {
		s.items[i] = Binding{}
	}
	s.items = s.items[:len(s.items)-n]
	s.items = shrink(s.items)
}

func (s *ScopeStack) Len() int {
	return len(s.items)
}
