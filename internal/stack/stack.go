// Package stack implements the calculator's LIFO value stack, shared by
// the main evaluation stack and every register. Each stack's top slot
// additionally carries a sparse index->Value "frame", used by the array
// opcodes (":" and ";").
package stack

import "dcvm/internal/value"

// MaxArrayIndex is the largest index a frame-indexed array opcode will
// accept; larger indices are rejected with a warning rather than
// unbounded allocation.
const MaxArrayIndex = 2048

// Stack is an ordered LIFO sequence of Values. The top-of-stack slot
// doubles as a sparse integer-indexed frame for array opcodes.
type Stack struct {
	items  []value.Value
	frames []map[uint64]value.Value
}

// New returns an empty Stack.
func New() *Stack {
	return &Stack{}
}

// Len returns the number of Values currently on the stack.
func (s *Stack) Len() int {
	return len(s.items)
}

// Empty reports whether the stack holds no Values.
func (s *Stack) Empty() bool {
	return len(s.items) == 0
}

// Push pushes v onto the stack, starting it with a fresh (empty) frame.
func (s *Stack) Push(v value.Value) {
	s.items = append(s.items, v)
	s.frames = append(s.frames, nil)
}

// Pop removes and returns the top Value. ok is false on an empty stack,
// in which case the returned Value is the zero Value and the stack is
// left untouched.
func (s *Stack) Pop() (v value.Value, ok bool) {
	if len(s.items) == 0 {
		return value.Value{}, false
	}
	last := len(s.items) - 1
	v = s.items[last]
	s.items = s.items[:last]
	s.frames = s.frames[:last]
	return v, true
}

// Top returns the top Value without removing it.
func (s *Stack) Top() (v value.Value, ok bool) {
	if len(s.items) == 0 {
		return value.Value{}, false
	}
	return s.items[len(s.items)-1], true
}

// SetTop overwrites the top Value, creating a slot (with an empty frame)
// if the stack was empty. Used by register store ("s R") which must
// create the slot on first use.
func (s *Stack) SetTop(v value.Value) {
	if len(s.items) == 0 {
		s.Push(v)
		return
	}
	s.items[len(s.items)-1] = v
	s.frames[len(s.items)-1] = nil
}

// Dup duplicates the top Value. ok is false on an empty stack.
func (s *Stack) Dup() bool {
	v, ok := s.Top()
	if !ok {
		return false
	}
	s.Push(v.Clone())
	return true
}

// Swap exchanges the top two Values. ok is false if fewer than two
// Values are present, in which case the stack is left untouched.
func (s *Stack) Swap() bool {
	n := len(s.items)
	if n < 2 {
		return false
	}
	s.items[n-1], s.items[n-2] = s.items[n-2], s.items[n-1]
	s.frames[n-1], s.frames[n-2] = s.frames[n-2], s.frames[n-1]
	return true
}

// Clear removes every Value from the stack.
func (s *Stack) Clear() {
	s.items = s.items[:0]
	s.frames = s.frames[:0]
}

// FrameAssign writes v at idx in the top slot's frame. The top slot is
// created (as Empty) if the stack was empty. idx must already be
// range-checked by the caller (0..MaxArrayIndex); this never rejects it
// itself.
func (s *Stack) FrameAssign(idx uint64, v value.Value) {
	if len(s.items) == 0 {
		s.Push(value.EmptyValue())
	}
	top := len(s.items) - 1
	if s.frames[top] == nil {
		s.frames[top] = make(map[uint64]value.Value)
	}
	s.frames[top][idx] = v
}

// FrameRetrieve returns a clone of the Value stored at idx in the top
// slot's frame. ok is false when the stack is empty or the index was
// never assigned — both are "frame_retrieve of an unassigned slot",
// observable as the Empty Value.
func (s *Stack) FrameRetrieve(idx uint64) (v value.Value, ok bool) {
	if len(s.items) == 0 {
		return value.Value{}, false
	}
	top := len(s.items) - 1
	if s.frames[top] == nil {
		return value.Value{}, false
	}
	stored, present := s.frames[top][idx]
	if !present {
		return value.Value{}, false
	}
	return stored.Clone(), true
}
