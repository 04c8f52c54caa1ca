package interp

import (
	"dcvm/internal/number"
	"dcvm/internal/value"
)

// readRegisterIndex decodes a register address from the active frame
// per §4.4: one byte b; if b == 0xFF and extended addressing is on, two
// more bytes h,l follow and the address is (h<<8)+l+256, otherwise the
// address is simply b. An EOF in the two-byte tail is reported via ok.
func (ip *Interp) readRegisterIndex() (idx uint64, ok bool) {
	frame := ip.currentFrame()
	b := frame.ReadChar()
	if b == -1 {
		return 0, false
	}
	if b == 0xFF && ip.M.ExtendedRegs {
		h := frame.ReadChar()
		l := frame.ReadChar()
		if h == -1 || l == -1 {
			return 0, false
		}
		return uint64(h)<<8 + uint64(l) + 256, true
	}
	return uint64(b), true
}

// opRegisterTransfer implements "s", "S", "l", "L": store/push to and
// load/pop from a named register's stack.
func (ip *Interp) opRegisterTransfer(ch byte) error {
	idx, ok := ip.readRegisterIndex()
	if !ok {
		ip.warn("unexpected EOF reading register index")
		return nil
	}
	reg := ip.M.Register(idx)

	switch ch {
	case 's':
		v, ok := ip.M.Stack.Pop()
		if !ok {
			return nil
		}
		reg.SetTop(v)
	case 'S':
		v, ok := ip.M.Stack.Pop()
		if !ok {
			return nil
		}
		reg.Push(v)
	case 'l':
		v, ok := reg.Top()
		if !ok {
			ip.M.Stack.Push(value.Zero())
			return nil
		}
		ip.M.Stack.Push(v.Clone())
	case 'L':
		v, ok := reg.Pop()
		if !ok {
			ip.warn("register '%c' (0%o) is empty", byte(idx), idx)
			return nil
		}
		ip.M.Stack.Push(v)
	}
	return nil
}

// opArrayAccess implements ":" (frame_assign) and ";" (frame_retrieve)
// on a register's top-of-stack sparse array.
func (ip *Interp) opArrayAccess(ch byte) error {
	idx, ok := ip.readRegisterIndex()
	if !ok {
		ip.warn("unexpected EOF reading register index")
		return nil
	}
	reg := ip.M.Register(idx)

	switch ch {
	case ':':
		// dc's "value idx :r" convention: the index is on top of stack,
		// popped first; the value being stored is popped second.
		iv, ok := ip.M.Stack.Pop()
		if !ok {
			return nil
		}
		v, ok := ip.M.Stack.Pop()
		if !ok {
			ip.M.Stack.Push(iv)
			return nil
		}
		if !iv.IsNumber() {
			return nil
		}
		if iv.Number.N.Sign() < 0 {
			ip.warn("negative idx")
			return nil
		}
		n, ok := number.Ulong(iv.Number)
		if !ok || n > maxArrayIndex {
			ip.warn("idx too big")
			return nil
		}
		reg.FrameAssign(n, v)
	case ';':
		iv, ok := ip.M.Stack.Pop()
		if !ok {
			return nil
		}
		if !iv.IsNumber() {
			ip.M.Stack.Push(iv)
			return nil
		}
		if iv.Number.N.Sign() < 0 {
			ip.warn("negative idx")
			ip.M.Stack.Push(value.Zero())
			return nil
		}
		n, ok := number.Ulong(iv.Number)
		if !ok || n > maxArrayIndex {
			ip.warn("idx too big")
			ip.M.Stack.Push(value.Zero())
			return nil
		}
		v, ok := reg.FrameRetrieve(n)
		if !ok {
			ip.M.Stack.Push(value.Zero())
			return nil
		}
		ip.M.Stack.Push(v)
	}
	return nil
}

const maxArrayIndex = 2048
