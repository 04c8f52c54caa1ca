// Package machine holds the calculator's process-wide interpreter state:
// the numeric bases and working scale, the main stack, the register
// file, the macro-execution stack, and the interrupt flag. It has no
// opcode logic of its own — that lives in the interpreter package, which
// takes a *Machine by exclusive reference.
package machine

import (
	"dcvm/internal/signalctl"
	"dcvm/internal/stack"
)

// compactRegisterCount is the register space when extended addressing is
// off: a single byte selects one of 256 registers.
const compactRegisterCount = 256

// Machine is the calculator's mutable interpreter state. Exactly one
// exists per run; it is passed by pointer to every interpreter entry
// point.
type Machine struct {
	IBase uint // input radix, [2,16]
	OBase uint // output radix, >= 2
	Scale uint // working precision

	Stack     *stack.Stack
	Macro     *MacroStack
	Signals   *signalctl.Controller
	registers map[uint64]*stack.Stack

	// ExtendedRegs selects whether a register-index byte of 0xFF is
	// treated as an escape into a two-byte extended index (total address
	// space 256 + 65536) rather than as register 0xFF itself.
	ExtendedRegs bool
}

// New returns a freshly initialized Machine: ibase=10, obase=10, scale=0,
// an empty main stack, an empty macro-execution stack, and no registers
// allocated yet.
func New(extendedRegs bool) *Machine {
	return &Machine{
		IBase:        10,
		OBase:        10,
		Scale:        0,
		Stack:        stack.New(),
		Macro:        NewMacroStack(),
		Signals:      signalctl.New(),
		registers:    make(map[uint64]*stack.Stack),
		ExtendedRegs: extendedRegs,
	}
}

// Register returns the Stack backing register index idx, allocating it
// on first use. idx is the fully decoded register address (see
// interp's register-index reader, §4.4): 0..255 in compact mode,
// 0..(256+65535) in extended mode.
func (m *Machine) Register(idx uint64) *stack.Stack {
	s, ok := m.registers[idx]
	if !ok {
		s = stack.New()
		m.registers[idx] = s
	}
	return s
}

// MaxRegisterIndex returns the largest valid register address for the
// machine's current addressing mode.
func (m *Machine) MaxRegisterIndex() uint64 {
	if m.ExtendedRegs {
		return compactRegisterCount + 65536 - 1
	}
	return compactRegisterCount - 1
}

// ResetForSource clears per-source-level transient state (the macro
// stack and interrupt flag) while preserving ibase/obase/scale, the main
// stack, and all registers — used when the host hands the machine a new
// top-level input (e.g. the next file on the command line).
func (m *Machine) ResetForSource() {
	for m.Macro.PopOne() {
	}
	m.Signals.Clear()
}
