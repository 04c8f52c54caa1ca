package stack

import (
	"testing"

	"dcvm/internal/number"
	"dcvm/internal/value"
)

func numVal(n int64) value.Value {
	return value.NumberValue(number.FromInt64(n))
}

func TestPushPop(t *testing.T) {
	s := New()
	if !s.Empty() {
		t.Fatal("new stack should be empty")
	}
	s.Push(numVal(1))
	s.Push(numVal(2))
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	v, ok := s.Pop()
	if !ok || v.Number.N.String() != "2" {
		t.Fatalf("Pop() = %v, want 2", v)
	}
	v, ok = s.Pop()
	if !ok || v.Number.N.String() != "1" {
		t.Fatalf("Pop() = %v, want 1", v)
	}
	if _, ok := s.Pop(); ok {
		t.Fatal("Pop() on empty stack should fail")
	}
}

func TestDupAndSwap(t *testing.T) {
	s := New()
	s.Push(numVal(1))
	if !s.Dup() {
		t.Fatal("Dup() should succeed on non-empty stack")
	}
	if s.Len() != 2 {
		t.Fatalf("Len() after Dup = %d, want 2", s.Len())
	}
	a, _ := s.Pop()
	b, _ := s.Pop()
	if a.Number.N.String() != b.Number.N.String() {
		t.Fatalf("Dup() top values should be equal, got %v and %v", a, b)
	}

	s.Push(numVal(1))
	s.Push(numVal(2))
	if !s.Swap() {
		t.Fatal("Swap() should succeed with two items")
	}
	top, _ := s.Top()
	if top.Number.N.String() != "1" {
		t.Fatalf("after Swap top = %s, want 1", top.Number.N.String())
	}

	s.Clear()
	if s.Swap() {
		t.Fatal("Swap() should fail on an empty stack")
	}
}

func TestFrameAssignRetrieve(t *testing.T) {
	s := New()
	s.FrameAssign(5, numVal(42))
	v, ok := s.FrameRetrieve(5)
	if !ok || v.Number.N.String() != "42" {
		t.Fatalf("FrameRetrieve(5) = %v, want 42", v)
	}
	if _, ok := s.FrameRetrieve(6); ok {
		t.Fatal("FrameRetrieve of an unassigned index should fail")
	}
}

func TestSetTopCreatesSlot(t *testing.T) {
	s := New()
	s.SetTop(numVal(9))
	if s.Len() != 1 {
		t.Fatalf("SetTop on empty stack should create a slot, Len() = %d", s.Len())
	}
	top, _ := s.Top()
	if top.Number.N.String() != "9" {
		t.Fatalf("SetTop value = %v, want 9", top)
	}
}
