package stack_test

import (
	"testing"

	"github.com/lestrrat-go/xmlrw/internal/stack"
	"github.com/stretchr/testify/assert"
)

func TestStack(t *testing.T) {
	var s stack.Stack[string]
	s.Push("a")
	s.Push("b")

	if !assert.Equal(t, 2, s.Len(), "Len == 2") {
		return
	}

	top := s.Top()
	if !assert.NotNil(t, top, "Top is not nil") {
		return
	}
	if !assert.Equal(t, "b", *top, "Top sees the last push") {
		return
	}

	*top = "b2"
	v, ok := s.Pop()
	if !assert.True(t, ok, "Pop succeeds") {
		return
	}
	if !assert.Equal(t, "b2", v, "Top updates in place") {
		return
	}

	v, ok = s.Pop()
	if !assert.True(t, ok, "Pop succeeds") {
		return
	}
	if !assert.Equal(t, "a", v, "LIFO order") {
		return
	}

	_, ok = s.Pop()
	if !assert.False(t, ok, "Pop on empty stack fails") {
		return
	}
	if !assert.Nil(t, s.Top(), "Top on empty stack is nil") {
		return
	}
}

func TestStackShrink(t *testing.T) {
	var s stack.Stack[int]
	for i := 0; i < 100; i++ {
		s.Push(i)
	}
	for i := 0; i < 95; i++ {
		_, ok := s.Pop()
		if !assert.True(t, ok, "Pop succeeds") {
			return
		}
	}
	if !assert.Equal(t, 5, s.Len(), "Len == 5 after unwinding") {
		return
	}
	v, ok := s.Pop()
	if !assert.True(t, ok, "Pop succeeds after shrink") {
		return
	}
	if !assert.Equal(t, 4, v, "order survives shrink") {
		return
	}
}

func TestScopeStack(t *testing.T) {
	var s stack.ScopeStack
	s.Push(stack.Binding{Prefix: "xml", URI: "http://www.w3.org/XML/1998/namespace"})
	s.Push(stack.Binding{Prefix: "ds", URI: "http://www.w3.org/2000/09/xmldsig#"})

	if !assert.Equal(t, 2, s.Len(), "Len == 2") {
		return
	}

	b, ok := s.Lookup("ds")
	if !assert.True(t, ok, `Lookup("ds") succeeds`) {
		return
	}
	if !assert.Equal(t, "http://www.w3.org/2000/09/xmldsig#", b.URI, `Lookup("ds") finds the URI`) {
		return
	}

	s.Push(stack.Binding{Prefix: "ds", URI: "urn:shadow"})
	b, _ = s.Lookup("ds")
	if !assert.Equal(t, "urn:shadow", b.URI, "inner binding shadows the outer one") {
		return
	}

	s.Pop(1)
	b, _ = s.Lookup("ds")
	if !assert.Equal(t, "http://www.w3.org/2000/09/xmldsig#", b.URI, "outer binding is visible again") {
		return
	}

	s.Pop(2)
	_, ok = s.Lookup("ds")
	if !assert.False(t, ok, `Lookup("ds") fails once popped`) {
		return
	}
}

func TestScopeStackDeclare(t *testing.T) {
	var s stack.ScopeStack

	added, err := s.Declare(stack.Binding{Prefix: "p", URI: "urn:one"})
	if !assert.NoError(t, err, "first declaration succeeds") {
		return
	}
	if !assert.True(t, added, "first declaration adds a binding") {
		return
	}

	added, err = s.Declare(stack.Binding{Prefix: "p", URI: "urn:one"})
	if !assert.NoError(t, err, "identical re-declaration is a no-op") {
		return
	}
	if !assert.False(t, added, "identical re-declaration adds nothing") {
		return
	}

	_, err = s.Declare(stack.Binding{Prefix: "p", URI: "urn:two"})
	if !assert.ErrorIs(t, err, stack.ErrBindingConflict, "conflicting re-declaration fails") {
		return
	}

	added, err = s.Declare(stack.Binding{Prefix: "", URI: "urn:one"})
	if !assert.NoError(t, err, "default namespace declaration succeeds") {
		return
	}
	if !assert.True(t, added, "default namespace declaration adds a binding") {
		return
	}

	added, err = s.Declare(stack.Binding{Prefix: "", URI: "urn:two"})
	if !assert.NoError(t, err, "default namespace may be re-bound") {
		return
	}
	if !assert.True(t, added, "default namespace re-binding adds a binding") {
		return
	}
}

func TestScopeStackLookupURI(t *testing.T) {
	var s stack.ScopeStack
	s.Push(stack.Binding{Prefix: "", URI: "urn:default"})
	s.Push(stack.Binding{Prefix: "a", URI: "urn:shared"})
	s.Push(stack.Binding{Prefix: "b", URI: "urn:shared"})

	b, ok := s.LookupURI("urn:shared")
	if !assert.True(t, ok, "LookupURI finds a binding") {
		return
	}
	if !assert.Equal(t, "b", b.Prefix, "LookupURI prefers the innermost prefix") {
		return
	}

	_, ok = s.LookupURI("urn:default")
	if !assert.False(t, ok, "LookupURI ignores the default namespace") {
		return
	}
}
