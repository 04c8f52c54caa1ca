package machine

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"dcvm/internal/bigint"
	"dcvm/internal/number"
	"dcvm/internal/stack"
	"dcvm/internal/value"
)

// DumpState serializes the machine's persistent state — bases, scale,
// the main stack, and every allocated register — to a JSON document.
// The macro-execution stack and interrupt flag are not part of this:
// they are mid-evaluation, not state a session resumes from.
func (m *Machine) DumpState() (string, error) {
	doc := "{}"
	var err error
	if doc, err = sjson.Set(doc, "ibase", m.IBase); err != nil {
		return "", err
	}
	if doc, err = sjson.Set(doc, "obase", m.OBase); err != nil {
		return "", err
	}
	if doc, err = sjson.Set(doc, "scale", m.Scale); err != nil {
		return "", err
	}
	if doc, err = sjson.Set(doc, "extended_registers", m.ExtendedRegs); err != nil {
		return "", err
	}
	if doc, err = sjson.SetRaw(doc, "stack", dumpStack(m.Stack)); err != nil {
		return "", err
	}

	regs := "{}"
	for idx, reg := range m.registers {
		key := fmt.Sprintf("%d", idx)
		if regs, err = sjson.SetRaw(regs, key, dumpStack(reg)); err != nil {
			return "", err
		}
	}
	if doc, err = sjson.SetRaw(doc, "registers", regs); err != nil {
		return "", err
	}
	return doc, nil
}

func dumpStack(s *stack.Stack) string {
	doc := "[]"
	n := s.Len()
	// Stack exposes no native bottom-up iterator; walk top-down via
	// repeated pop/restore and reverse when composing the JSON array.
	var popped []value.Value
	for i := 0; i < n; i++ {
		v, _ := s.Pop()
		popped = append(popped, v)
	}
	for i := len(popped) - 1; i >= 0; i-- {
		s.Push(popped[i])
	}
	for i := len(popped) - 1; i >= 0; i-- {
		doc, _ = sjson.SetRaw(doc, "-1", dumpValue(popped[i]))
	}
	return doc
}

func dumpValue(v value.Value) string {
	switch v.Kind {
	case value.Num:
		doc, _ := sjson.Set("{}", "kind", "number")
		doc, _ = sjson.Set(doc, "n", v.Number.N.String())
		doc, _ = sjson.Set(doc, "scale", v.Number.Scale)
		return doc
	case value.Str:
		doc, _ := sjson.Set("{}", "kind", "string")
		doc, _ = sjson.Set(doc, "s", v.Str)
		return doc
	default:
		doc, _ := sjson.Set("{}", "kind", "empty")
		return doc
	}
}

// LoadState restores machine state previously produced by DumpState.
// Registers and the main stack are replaced wholesale; any state
// already present is discarded.
func (m *Machine) LoadState(doc string) error {
	if !gjson.Valid(doc) {
		return fmt.Errorf("load-state: invalid JSON document")
	}
	root := gjson.Parse(doc)

	if v := root.Get("ibase"); v.Exists() {
		m.IBase = uint(v.Uint())
	}
	if v := root.Get("obase"); v.Exists() {
		m.OBase = uint(v.Uint())
	}
	if v := root.Get("scale"); v.Exists() {
		m.Scale = uint(v.Uint())
	}
	if v := root.Get("extended_registers"); v.Exists() {
		m.ExtendedRegs = v.Bool()
	}

	m.Stack = stack.New()
	loadStack(m.Stack, root.Get("stack"))

	m.registers = make(map[uint64]*stack.Stack)
	root.Get("registers").ForEach(func(key, val gjson.Result) bool {
		idx := key.Uint()
		reg := stack.New()
		loadStack(reg, val)
		m.registers[idx] = reg
		return true
	})
	return nil
}

func loadStack(s *stack.Stack, arr gjson.Result) {
	arr.ForEach(func(_, item gjson.Result) bool {
		s.Push(loadValue(item))
		return true
	})
}

func loadValue(item gjson.Result) value.Value {
	switch item.Get("kind").String() {
	case "number":
		n := &bigint.Int{}
		text := item.Get("n").String()
		scale := uint(item.Get("scale").Uint())
		setFromDecimalString(n, text)
		return value.NumberValue(&number.Number{N: n, Scale: scale})
	case "string":
		return value.StringValue(item.Get("s").String())
	default:
		return value.EmptyValue()
	}
}

// setFromDecimalString parses a base-10 (optionally "-"-prefixed)
// integer string produced by DumpState back into n.
func setFromDecimalString(n *bigint.Int, text string) {
	neg := false
	if len(text) > 0 && text[0] == '-' {
		neg = true
		text = text[1:]
	}
	acc := bigint.Zero()
	ten := bigint.FromUint64(10)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c < '0' || c > '9' {
			continue
		}
		acc.Mul(acc, ten)
		acc.Add(acc, bigint.FromUint64(uint64(c-'0')))
	}
	if neg {
		acc.Neg()
	}
	n.Set(acc)
}
