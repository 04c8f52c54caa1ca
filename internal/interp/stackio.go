package interp

import (
	"io"

	"dcvm/internal/format"
	"dcvm/internal/number"
	"dcvm/internal/value"
)

func (ip *Interp) opDup() error {
	ip.M.Stack.Dup()
	return nil
}

func (ip *Interp) opSwap() error {
	ip.M.Stack.Swap()
	return nil
}

func (ip *Interp) opDrop() error {
	ip.M.Stack.Pop()
	return nil
}

func (ip *Interp) opClear() error {
	ip.M.Stack.Clear()
	return nil
}

func (ip *Interp) opDepth() error {
	ip.M.Stack.Push(value.NumberValue(number.FromInt64(int64(ip.M.Stack.Len()))))
	return nil
}

// opPrint implements "p" (stdout, no pop) and "e" (stderr, no pop). Both
// warn "stack empty" when the stack holds nothing — the one display-
// opcode exception to the otherwise-silent missing-operand rule.
func (ip *Interp) opPrint(toStderr bool) error {
	v, ok := ip.M.Stack.Top()
	if !ok {
		ip.warn("stack empty")
		return nil
	}
	w := ip.Stdout
	if toStderr {
		w = ip.Stderr
	}
	return ip.writeValue(w, v, true)
}

// opPrintPop implements "n": print without a trailing newline, then pop.
// Per §7 this is not in the display-opcode warning exception list, so a
// missing operand is silent.
func (ip *Interp) opPrintPop(toStderr bool) error {
	v, ok := ip.M.Stack.Pop()
	if !ok {
		return nil
	}
	w := ip.Stdout
	if toStderr {
		w = ip.Stderr
	}
	return ip.writeValue(w, v, false)
}

func (ip *Interp) writeValue(w io.Writer, v value.Value, newline bool) error {
	switch v.Kind {
	case value.Num:
		if _, err := format.PrintValue(w, v.Number, "", ip.M.OBase); err != nil {
			return err
		}
	case value.Str:
		if _, err := w.Write([]byte(v.Str)); err != nil {
			return err
		}
	}
	if newline {
		if _, err := w.Write([]byte("\n")); err != nil {
			return err
		}
	}
	return nil
}

// opPrintRaw implements "P": pop and print raw bytes with no separator —
// a Number's integer part as base-256 big-endian, a String verbatim.
func (ip *Interp) opPrintRaw() error {
	v, ok := ip.M.Stack.Pop()
	if !ok {
		return nil
	}
	switch v.Kind {
	case value.Num:
		_, err := format.PrintAscii(ip.Stdout, v.Number)
		return err
	case value.Str:
		_, err := ip.Stdout.Write([]byte(v.Str))
		return err
	}
	return nil
}

// opPrintStack implements "f": print the entire stack top to bottom,
// each entry on its own line, without popping anything.
func (ip *Interp) opPrintStack() error {
	n := ip.M.Stack.Len()
	for i := n - 1; i >= 0; i-- {
		v := ip.peekAt(i)
		if err := ip.writeValue(ip.Stdout, v, true); err != nil {
			return err
		}
	}
	return nil
}

// peekAt returns the i-th value from the bottom without mutating the
// stack, implemented via pop/restore since Stack exposes no native
// indexed peek.
func (ip *Interp) peekAt(i int) value.Value {
	var popped []value.Value
	for ip.M.Stack.Len() > i+1 {
		v, _ := ip.M.Stack.Pop()
		popped = append(popped, v)
	}
	v, _ := ip.M.Stack.Top()
	for j := len(popped) - 1; j >= 0; j-- {
		ip.M.Stack.Push(popped[j])
	}
	return v
}

type machineAttr int

const (
	attrScale machineAttr = iota
	attrIBase
	attrOBase
	attrTopScale
)

// opPushAttr implements "K", "I", "O", "X": push the current scale,
// ibase, obase, or the top value's scale attribute (0 for non-Numbers).
func (ip *Interp) opPushAttr(attr machineAttr) error {
	switch attr {
	case attrScale:
		ip.M.Stack.Push(value.NumberValue(number.FromInt64(int64(ip.M.Scale))))
	case attrIBase:
		ip.M.Stack.Push(value.NumberValue(number.FromInt64(int64(ip.M.IBase))))
	case attrOBase:
		ip.M.Stack.Push(value.NumberValue(number.FromInt64(int64(ip.M.OBase))))
	case attrTopScale:
		v, ok := ip.M.Stack.Top()
		if !ok {
			return nil
		}
		ip.M.Stack.Push(value.NumberValue(number.FromInt64(int64(v.ScaleOf()))))
	}
	return nil
}

// opSetAttr implements "k", "i", "o": pop and validate a new scale,
// ibase, or obase. On an invalid value the value is discarded, a
// warning is emitted, and machine state is unchanged.
func (ip *Interp) opSetAttr(attr machineAttr) error {
	v, ok := ip.M.Stack.Pop()
	if !ok {
		return nil
	}
	if !v.IsNumber() {
		return nil
	}

	switch attr {
	case attrScale:
		if v.Number.N.Sign() < 0 {
			ip.warn("scale must be a nonnegative number")
			return nil
		}
		n, ok := number.Ulong(v.Number)
		if !ok {
			ip.warn("scale too large")
			return nil
		}
		ip.M.Scale = uint(n)
	case attrIBase:
		n, ok := number.Ulong(v.Number)
		if !ok || n < 2 || n > 16 {
			ip.warn("input base must be a number between 2 and 16 (inclusive)")
			return nil
		}
		ip.M.IBase = uint(n)
	case attrOBase:
		n, ok := number.Ulong(v.Number)
		if !ok || n < 2 {
			ip.warn("output base must be a number greater than 1")
			return nil
		}
		ip.M.OBase = uint(n)
	}
	return nil
}

func (ip *Interp) opDigitCount() error {
	v, ok := ip.M.Stack.Pop()
	if !ok {
		return nil
	}
	switch v.Kind {
	case value.Num:
		ip.M.Stack.Push(value.NumberValue(number.FromInt64(int64(number.CountDigits(v.Number)))))
	case value.Str:
		ip.M.Stack.Push(value.NumberValue(number.FromInt64(int64(len(v.Str)))))
	default:
		ip.M.Stack.Push(v)
	}
	return nil
}

// opAsciify implements "a": Number truncates to its integer part and
// takes the low 8 bits as an ASCII byte; a String takes its first byte
// (or the empty string, if it has none). Either way a single-byte
// string is pushed.
func (ip *Interp) opAsciify() error {
	v, ok := ip.M.Stack.Pop()
	if !ok {
		return nil
	}
	switch v.Kind {
	case value.Num:
		intPart, _ := number.Split(v.Number)
		ip.M.Stack.Push(value.StringValue(string([]byte{intPart.LowByte()})))
	case value.Str:
		if len(v.Str) == 0 {
			ip.M.Stack.Push(value.StringValue(""))
		} else {
			ip.M.Stack.Push(value.StringValue(v.Str[:1]))
		}
	default:
		ip.M.Stack.Push(v)
	}
	return nil
}
