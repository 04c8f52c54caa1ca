package machine

import "dcvm/internal/source"

// initialMacroCapacity is the starting capacity of the macro-execution
// stack; it never shrinks below this even when emptied.
const initialMacroCapacity = 8

// MacroStack is the ordered sequence of input source frames the
// interpreter reads opcodes from. Index 0 is the outermost (primary)
// input; the active frame is the top. It grows by doubling and is the
// vehicle for tail-call elision: a tail call in the top frame replaces
// that frame in place instead of pushing a new one.
type MacroStack struct {
	frames []source.Source
}

// NewMacroStack returns an empty MacroStack pre-sized to its initial
// capacity.
func NewMacroStack() *MacroStack {
	return &MacroStack{frames: make([]source.Source, 0, initialMacroCapacity)}
}

// Len returns the current depth (readsp + 1, or 0 when empty).
func (m *MacroStack) Len() int {
	return len(m.frames)
}

// Push installs a new frame above the current top, growing by doubling
// if the backing array is full.
func (m *MacroStack) Push(s source.Source) {
	m.frames = append(m.frames, s)
}

// ReplaceTop frees the current top frame and installs s in its place —
// the tail-call path: recursion depth does not grow.
func (m *MacroStack) ReplaceTop(s source.Source) {
	n := len(m.frames)
	if n == 0 {
		m.Push(s)
		return
	}
	m.frames[n-1].Free()
	m.frames[n-1] = s
}

// Top returns the active (topmost) frame. ok is false when the stack is
// empty.
func (m *MacroStack) Top() (source.Source, bool) {
	n := len(m.frames)
	if n == 0 {
		return nil, false
	}
	return m.frames[n-1], true
}

// PopOne frees and removes the topmost frame. ok is false when the stack
// was already empty.
func (m *MacroStack) PopOne() bool {
	n := len(m.frames)
	if n == 0 {
		return false
	}
	m.frames[n-1].Free()
	m.frames = m.frames[:n-1]
	return true
}

// PopN frees and removes the topmost n frames. It refuses (returning
// false, leaving the stack untouched) when n exceeds the current depth.
func (m *MacroStack) PopN(n int) bool {
	if n < 0 || n > len(m.frames) {
		return false
	}
	for i := 0; i < n; i++ {
		m.PopOne()
	}
	return true
}

// Depth reports readsp, the zero-based index of the active frame, or -1
// when the stack is empty.
func (m *MacroStack) Depth() int {
	return len(m.frames) - 1
}
